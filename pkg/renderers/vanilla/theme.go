package vanilla

import theme "github.com/goliatone/go-theme"

// DefaultThemeName is the manifest name registered by DefaultTheme.
const DefaultThemeName = "riskform"

// DefaultTheme returns the built-in palette: a purple to blue gradient with
// red and green result banners, plus a high-contrast variant.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"riskform-bg-from":      "#581c87",
			"riskform-bg-to":        "#1e3a8a",
			"riskform-accent":       "#9333ea",
			"riskform-accent-hover": "#7e22ce",
			"riskform-text":         "#ffffff",
			"riskform-error":        "#f87171",
			"riskform-high-bg":      "rgba(239, 68, 68, 0.2)",
			"riskform-high-text":    "#fee2e2",
			"riskform-low-bg":       "rgba(34, 197, 94, 0.2)",
			"riskform-low-text":     "#dcfce7",
		},
		Variants: map[string]theme.Variant{
			"contrast": {
				Tokens: map[string]string{
					"riskform-bg-from":   "#000000",
					"riskform-bg-to":     "#111827",
					"riskform-accent":    "#facc15",
					"riskform-error":     "#ff6b6b",
					"riskform-high-bg":   "#7f1d1d",
					"riskform-low-bg":    "#14532d",
					"riskform-high-text": "#ffffff",
					"riskform-low-text":  "#ffffff",
				},
			},
		},
	}
}
