package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used for the summary printed after a submission.
type Theme struct {
	High   lipgloss.Style
	Low    lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style
	Label  lipgloss.Style
}

// DefaultTheme mirrors the page palette: red for high risk, green for low.
func DefaultTheme() Theme {
	return Theme{
		High:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171")),
		Low:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80")),
		Notice: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#facc15")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#c4b5fd")),
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		r.out = out
	}
}

// WithTheme replaces the summary styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithRepeat asks to assess another patient after each result.
func WithRepeat(repeat bool) Option {
	return func(r *Renderer) {
		r.repeat = repeat
	}
}
