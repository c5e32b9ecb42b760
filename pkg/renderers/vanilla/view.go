package vanilla

import (
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
)

// resultLead introduces the recommendations under the banner.
const resultLead = "Based on your health data, here are personalized recommendations:"

// buildView flattens a page into template data. Numbers that reach attribute
// or CSS text are pre-formatted so output does not depend on float printing.
func buildView(page render.Page, title, stylesheet string) map[string]any {
	rows := page.Rows()
	fields := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		fieldClass := string(ClassField)
		if row.Error != "" {
			fieldClass += " " + string(ClassInvalid)
		}
		fields = append(fields, map[string]any{
			"key":         row.Spec.Key,
			"id":          controlID(row.Spec.Key),
			"error_id":    errorID(row.Spec.Key),
			"label":       row.Spec.Label,
			"placeholder": row.Spec.Placeholder(),
			"min":         model.FormatBound(row.Spec.Min),
			"max":         model.FormatBound(row.Spec.Max),
			"value":       row.Value,
			"error":       row.Error,
			"class":       fieldClass,
		})
	}

	hidden := make([]map[string]any, 0, len(page.HiddenFields))
	for _, field := range render.SortedHiddenFields(page.HiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	circles := make([]map[string]any, 0, len(page.Backdrop))
	for _, e := range page.Backdrop {
		circles = append(circles, map[string]any{
			"id":       e.ID,
			"size":     e.Size,
			"duration": e.Duration,
			"delay":    e.Delay,
			"x":        e.InitialX,
			"y":        e.InitialY,
		})
	}

	view := map[string]any{
		"title":        title,
		"stylesheet":   stylesheet,
		"action":       page.Action,
		"reset_action": page.ResetAction,
		"fields":       fields,
		"hidden":       hidden,
		"backdrop":     circles,
		"notice":       string(page.Notice),
		"classes": map[string]any{
			"page":     string(ClassPage),
			"form":     string(ClassForm),
			"error":    string(ClassError),
			"notice":   string(ClassNotice),
			"backdrop": string(ClassBackdrop),
			"circle":   string(ClassCircle),
		},
	}

	if page.Result != nil {
		view["result"] = map[string]any{
			"display":         page.Result.Display(),
			"level":           string(page.Result.Level),
			"class":           string(ClassResult) + " " + resultClass(page.Result.High()),
			"lead":            resultLead,
			"recommendations": sanitizeSnippets(page.Recommendations),
		}
	}

	if cfg := page.Theme; cfg != nil {
		themeView := map[string]any{
			"name":    cfg.Theme,
			"variant": cfg.Variant,
			"style":   render.CSSVarsStyle(cfg.CSSVars),
		}
		if cfg.AssetURL != nil {
			themeView["stylesheet_url"] = cfg.AssetURL("stylesheet")
		}
		view["theme"] = themeView
	}

	return view
}
