package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "RISKFORM_"
	envConfig = "RISKFORM_CONFIG"
)

// sections are nested config groups; the first underscore after one of these
// names becomes a key delimiter (RISKFORM_PREDICT_ENDPOINT -> predict.endpoint).
var sections = []string{"http", "predict", "session", "theme", "backdrop", "stub"}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) from path, or RISKFORM_CONFIG when path is empty
//  3. env (prefix RISKFORM_)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if s == "config" {
		return ""
	}
	for _, section := range sections {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("%w: http.addr must not be empty", ErrInvalidConfig)
	}
	endpoint, err := url.Parse(c.Predict.Endpoint)
	if err != nil || (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return fmt.Errorf("%w: predict.endpoint %q must be an absolute http(s) URL", ErrInvalidConfig, c.Predict.Endpoint)
	}
	if c.Predict.Timeout < 0 {
		return fmt.Errorf("%w: predict.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("%w: session.idle_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Backdrop.Count < 0 {
		return fmt.Errorf("%w: backdrop.count must not be negative", ErrInvalidConfig)
	}
	return nil
}
