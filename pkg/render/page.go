package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-riskform/pkg/backdrop"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
)

// Page is everything a renderer needs to draw the form once.
type Page struct {
	Fields   []model.FieldSpec
	Values   model.FormValues
	Errors   model.ErrorMap
	Result   *model.RiskResult
	Notice   form.Notice
	Backdrop []backdrop.Element

	// Action is the URL the form posts to; ResetAction starts over.
	Action      string
	ResetAction string

	// Theme carries resolved design tokens; nil renders unthemed.
	Theme *theme.RendererConfig
	// Recommendations are HTML snippets shown under the result banner.
	// Renderers sanitise them before output.
	Recommendations []string
	HiddenFields    map[string]string
}

// FieldRow pairs a field with its current input and error.
type FieldRow struct {
	Spec  model.FieldSpec
	Value string
	Error string
}

// NewPage builds a page from a session snapshot.
func NewPage(state form.State, options ...PageOption) Page {
	page := Page{
		Fields: model.Fields(),
		Values: state.Values.Clone(),
		Errors: state.Errors.Clone(),
		Notice: state.Notice,
		Action: "/",
	}
	if state.Result != nil {
		result := *state.Result
		page.Result = &result
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&page)
	}
	return page
}

// Rows returns one row per field in display order.
func (p Page) Rows() []FieldRow {
	fields := p.Fields
	if len(fields) == 0 {
		fields = model.Fields()
	}
	rows := make([]FieldRow, len(fields))
	for i, spec := range fields {
		rows[i] = FieldRow{
			Spec:  spec,
			Value: p.Values.Get(spec.Key),
			Error: p.Errors[spec.Key],
		}
	}
	return rows
}
