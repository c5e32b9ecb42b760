package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned when a catalog has no manifest for a name.
var ErrThemeNotFound = theme.ErrThemeNotFound

// ThemeCatalog resolves named themes through a go-theme registry and
// selector. It satisfies theme.ThemeSelector so it can be swapped for any
// other selector.
type ThemeCatalog struct {
	mu       sync.RWMutex
	registry *theme.MemoryRegistry
	selector theme.Selector
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog returns a catalog that falls back to defaultTheme and
// defaultVariant when a request names neither.
func NewThemeCatalog(defaultTheme, defaultVariant string) *ThemeCatalog {
	registry := theme.NewRegistry()
	return &ThemeCatalog{
		registry: registry,
		selector: theme.Selector{
			Registry:       registry,
			DefaultTheme:   strings.TrimSpace(defaultTheme),
			DefaultVariant: strings.TrimSpace(defaultVariant),
		},
	}
}

// Register validates manifest with go-theme and makes it selectable. The
// first manifest registered becomes the default when none was configured.
func (c *ThemeCatalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	if c.selector.DefaultTheme == "" {
		c.selector.DefaultTheme = manifest.Name
	}
	return nil
}

// Names lists registered themes in sorted order.
func (c *ThemeCatalog) Names() []string {
	refs := c.registry.Themes()
	seen := make(map[string]struct{}, len(refs))
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Name]; ok {
			continue
		}
		seen[ref.Name] = struct{}{}
		names = append(names, ref.Name)
	}
	sort.Strings(names)
	return names
}

// Select picks a manifest and variant. A named theme must be registered; the
// selector's default fallback only applies when name is empty. An unknown
// variant is cleared so the manifest's base tokens apply.
func (c *ThemeCatalog) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	selector := c.selector
	c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name != "" {
		if _, err := c.registry.Theme(name, opts...); err != nil {
			return nil, fmt.Errorf("render: select theme: %w", err)
		}
	}

	selection, err := selector.Select(name, strings.TrimSpace(variant), opts...)
	if err != nil {
		return nil, fmt.Errorf("render: select theme: %w", err)
	}
	if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
		selection.Variant = ""
	}
	return selection, nil
}

// ThemeConfig flattens a selection into renderer-ready tokens, CSS variables
// and asset URLs.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	cfg := selection.RendererTheme(nil)
	return &cfg
}

// CSSVarsStyle renders vars as a sorted ":root { ... }" block.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
