package predict

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the address the prediction service listens on in the
// reference deployment.
const DefaultEndpoint = "http://localhost:5000/api/risk"

// Outcome labels passed to an Observer.
const (
	OutcomeHigh      = "high"
	OutcomeLow       = "low"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Observer receives one notification per completed call.
type Observer interface {
	ObservePrediction(outcome string, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the service URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

// WithHTTPClient swaps the HTTP client used for calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each call. Zero, the default, leaves calls unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a metrics observer.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}
