// Package riskform wires the heart-risk form: the prediction client, per-visitor
// sessions, renderers and the HTTP server, all driven by one Config.
package riskform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/httpapi"
	"github.com/goliatone/go-riskform/internal/metrics"
	"github.com/goliatone/go-riskform/pkg/backdrop"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	Predictor *predict.Client
	Store     *form.Store
	Renderers *render.Registry
	Themes    *render.ThemeCatalog
	Backdrop  *backdrop.Source
}

// New builds an App. A nil cfg uses defaults and a nil logger discards output.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.New(ctx)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &App{Config: cfg, Logger: logger}
	app.Metrics = metrics.New(func() int { return app.Store.Len() })

	client, err := predict.New(
		predict.WithEndpoint(cfg.Predict.Endpoint),
		predict.WithTimeout(cfg.Predict.Timeout),
		predict.WithLogger(logger.Named("predict")),
		predict.WithObserver(app.Metrics),
	)
	if err != nil {
		return nil, err
	}
	app.Predictor = client
	app.Store = form.NewStore(app.NewSession, form.WithIdleTimeout(cfg.Session.IdleTimeout))

	app.Renderers = render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	text, err := tui.New()
	if err != nil {
		return nil, err
	}
	if err := app.Renderers.Register(html); err != nil {
		return nil, err
	}
	if err := app.Renderers.Register(text); err != nil {
		return nil, err
	}

	app.Themes = render.NewThemeCatalog(cfg.Theme.Name, cfg.Theme.Variant)
	if err := app.Themes.Register(vanilla.DefaultTheme()); err != nil {
		return nil, err
	}

	app.Backdrop = backdrop.NewSource(cfg.Backdrop.Seed, backdrop.DefaultViewport, cfg.Backdrop.Count)
	return app, nil
}

// NewSession returns a session bound to the app's predictor, logger and
// metrics.
func (a *App) NewSession() *form.Session {
	return form.NewSession(a.Predictor,
		form.WithSessionLogger(a.Logger.Named("form")),
		form.WithSessionObserver(a.Metrics),
	)
}

// Server builds the HTTP server for the app.
func (a *App) Server() (*httpapi.Server, error) {
	selection, err := a.Themes.Select(a.Config.Theme.Name, a.Config.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("riskform: select theme: %w", err)
	}

	options := []httpapi.Option{
		httpapi.WithLogger(a.Logger.Named("http")),
		httpapi.WithMetrics(a.Metrics),
		httpapi.WithBackdrop(a.Backdrop),
		httpapi.WithTheme(render.ThemeConfig(selection)),
		httpapi.WithRecommendations(a.Config.Recommendations),
		httpapi.WithAssets(vanilla.AssetsFS()),
		httpapi.WithSecureCookie(a.Config.Session.CookieSecure),
	}
	if a.Config.Stub.Enabled {
		options = append(options, httpapi.WithStub(httpapi.NewStubPredictor(a.Config.Stub.Threshold, a.Logger.Named("stub"))))
	}
	return httpapi.NewServer(a.Config.HTTP, a.Store, a.NewSession, a.Renderers, options...)
}

// Assess validates values and, when they pass, asks the prediction service for
// a risk level using a throwaway session. Prediction failures are reported in
// the Outcome; the error is form.ErrInvalid or nil.
func (a *App) Assess(ctx context.Context, values model.FormValues) (form.Outcome, error) {
	session := a.NewSession()
	for key, raw := range values.Map() {
		session.Edit(key, raw)
	}
	return session.Submit(ctx)
}

// Prompt runs the terminal flow on a fresh session.
func (a *App) Prompt(ctx context.Context, options ...tui.Option) (form.Outcome, error) {
	renderer, err := tui.New(options...)
	if err != nil {
		return form.Outcome{}, err
	}
	return renderer.Run(ctx, a.NewSession())
}
