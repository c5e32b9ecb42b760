// Package httpapi serves the risk form page and its JSON API.
package httpapi

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/metrics"
	"github.com/goliatone/go-riskform/pkg/backdrop"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/render"
)

// SessionCookie names the cookie that carries the form session id.
const SessionCookie = "riskform_session"

// DefaultRenderer is used for pages unless ?format= selects another.
const DefaultRenderer = "vanilla"

// Server represents the HTTP server.
type Server struct {
	cfg       config.HTTPConfig
	router    *chi.Mux
	store     *form.Store
	factory   form.Factory
	renderers *render.Registry
	backdrop  *backdrop.Source
	theme     *theme.RendererConfig
	recs      map[string][]string
	csrf      *csrfSigner
	stub      http.Handler
	assets    fs.FS
	metrics   *metrics.Recorder
	logger    *zap.Logger

	secureCookie bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts /metrics and records request counters.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = recorder
	}
}

// WithBackdrop sets the source of decorative elements.
func WithBackdrop(source *backdrop.Source) Option {
	return func(s *Server) {
		if source != nil {
			s.backdrop = source
		}
	}
}

// WithTheme sets the resolved page theme.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithRecommendations maps a risk level to HTML snippets.
func WithRecommendations(recs map[string][]string) Option {
	return func(s *Server) {
		s.recs = recs
	}
}

// WithStub mounts a demo predictor at POST /api/risk.
func WithStub(handler http.Handler) Option {
	return func(s *Server) {
		s.stub = handler
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// WithCSRFKey fixes the key used to sign anti-forgery tokens. A random key is
// generated otherwise.
func WithCSRFKey(key []byte) Option {
	return func(s *Server) {
		if len(key) > 0 {
			s.csrf = newCSRFSigner(key)
		}
	}
}

// NewServer wires routes and middleware. store holds browser sessions and
// factory builds throwaway sessions for the JSON API.
func NewServer(cfg config.HTTPConfig, store *form.Store, factory form.Factory, renderers *render.Registry, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("httpapi: session store is required")
	}
	if renderers == nil {
		return nil, errors.New("httpapi: renderer registry is required")
	}
	if factory == nil {
		factory = func() *form.Session { return form.NewSession(nil) }
	}

	s := &Server{
		cfg:       cfg,
		store:     store,
		factory:   factory,
		renderers: renderers,
		backdrop:  backdrop.NewSource(0, backdrop.DefaultViewport, backdrop.DefaultCount),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.csrf == nil {
		signer, err := randomCSRFSigner()
		if err != nil {
			return nil, err
		}
		s.csrf = signer
	}

	s.setupRouter()
	return s, nil
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down within the
// configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}
	return Serve(ctx, srv, s.cfg.ShutdownTimeout, s.logger)
}

// Serve runs srv until ctx is cancelled and then shuts it down gracefully.
// A zero shutdown timeout waits ten seconds.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv.BaseContext = func(_ net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("http server shutting down", zap.String("addr", srv.Addr))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleContract)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(s.assets)))
	}

	r.Get("/", s.handlePage)
	r.Post("/", s.handleSubmit)
	r.Post("/reset", s.handleReset)

	r.Route("/api", func(r chi.Router) {
		r.Get("/fields", s.handleFields)
		r.Post("/validate", s.handleValidate)
		r.Post("/assess", s.handleAssess)
		if s.stub != nil {
			r.Method(http.MethodPost, "/risk", s.stub)
		}
	})

	s.router = r
}

// loggingMiddleware logs requests with zap and feeds the request counters.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", elapsed.Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
			if s.metrics != nil {
				s.metrics.ObserveHTTP(routePattern(r), r.Method, status, elapsed)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
