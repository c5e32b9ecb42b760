package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-riskform/pkg/backdrop"
)

// PageOption customises a Page built by NewPage.
type PageOption func(*Page)

// WithBackdrop sets the decorative elements.
func WithBackdrop(elements []backdrop.Element) PageOption {
	return func(p *Page) {
		p.Backdrop = elements
	}
}

// WithAction overrides the submit and reset URLs. Empty values are ignored.
func WithAction(action, reset string) PageOption {
	return func(p *Page) {
		if action != "" {
			p.Action = action
		}
		if reset != "" {
			p.ResetAction = reset
		}
	}
}

// WithTheme attaches resolved theme tokens.
func WithTheme(cfg *theme.RendererConfig) PageOption {
	return func(p *Page) {
		p.Theme = cfg
	}
}

// WithRecommendations sets the HTML snippets shown with a result.
func WithRecommendations(snippets ...string) PageOption {
	return func(p *Page) {
		p.Recommendations = append([]string(nil), snippets...)
	}
}

// WithHiddenFields merges hidden inputs into the page.
func WithHiddenFields(fields ...HiddenField) PageOption {
	return func(p *Page) {
		p.HiddenFields = MergeHiddenFields(p.HiddenFields, fields...)
	}
}
