package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-riskform/pkg/render"
	rendertemplate "github.com/goliatone/go-riskform/pkg/render/template"
	gotemplate "github.com/goliatone/go-riskform/pkg/render/template/gotemplate"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Heart Disease Risk Assessment"

const pageTemplate = "templates/page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	title            string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the embedded stylesheet.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = css
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.title = trimmed
		}
	}
}

// Renderer draws the assessment page as a self-contained HTML document.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	title      string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		stylesheet: defaultStylesheet(),
		title:      DefaultTitle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithFilters(templateFilters()),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		stylesheet: cfg.stylesheet,
		title:      cfg.title,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(pageTemplate, buildView(page, r.title, r.stylesheet))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
