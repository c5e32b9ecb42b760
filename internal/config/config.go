// Package config defines process configuration and how it is layered from
// defaults, an optional YAML file and RISKFORM_ environment variables.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	HTTP     HTTPConfig     `koanf:"http"`
	Predict  PredictConfig  `koanf:"predict"`
	Session  SessionConfig  `koanf:"session"`
	Theme    ThemeConfig    `koanf:"theme"`
	Backdrop BackdropConfig `koanf:"backdrop"`
	Stub     StubConfig     `koanf:"stub"`

	// Recommendations maps a risk level ("high", "low") to HTML snippets
	// shown under the result banner.
	Recommendations map[string][]string `koanf:"recommendations"`
}

// HTTPConfig configures the page and JSON API server.
type HTTPConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins    []string      `koanf:"allowed_origins"`
}

// PredictConfig points at the external prediction service.
type PredictConfig struct {
	Endpoint string `koanf:"endpoint"`
	// Timeout bounds each call; zero leaves calls unbounded.
	Timeout time.Duration `koanf:"timeout"`
}

// SessionConfig controls per-visitor form state.
type SessionConfig struct {
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// ThemeConfig selects the page palette.
type ThemeConfig struct {
	Name    string `koanf:"name"`
	Variant string `koanf:"variant"`
}

// BackdropConfig sizes the decorative background.
type BackdropConfig struct {
	Count int `koanf:"count"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// StubConfig enables the built-in demo predictor.
type StubConfig struct {
	Enabled bool `koanf:"enabled"`
	// Threshold is how many values must sit in the upper half of their range
	// before the stub answers high risk.
	Threshold int `koanf:"threshold"`
}

// New returns a Config populated with defaults. Context is accepted first by
// convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Predict: PredictConfig{
			Endpoint: "http://localhost:5000/api/risk",
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
		},
		Theme: ThemeConfig{
			Name: "riskform",
		},
		Backdrop: BackdropConfig{
			Count: 20,
		},
		Stub: StubConfig{
			Threshold: 7,
		},
	}
}
