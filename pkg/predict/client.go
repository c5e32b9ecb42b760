package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/model"
)

// maxErrorBody caps how much of a rejected response is kept for logging.
const maxErrorBody = 1 << 10

// maxResponseBody caps how much of a successful response is decoded.
const maxResponseBody = 1 << 20

var errNullBody = errors.New("response body is null")

// Client submits form values to the external prediction service. Each Predict
// call performs exactly one POST; there is no retry.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
}

type response struct {
	Prediction json.RawMessage `json:"prediction"`
}

// New builds a client for the default endpoint unless overridden.
func New(options ...Option) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.endpoint == "" {
		return nil, ErrEndpointMissing
	}
	parsed, err := url.Parse(c.endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("predict: invalid endpoint %q", c.endpoint)
	}
	return c, nil
}

// Endpoint returns the configured service URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts values and maps the response: prediction 1 is high risk, any
// other number is low. A non-2xx status yields *RequestRejectedError; a call
// that never completes, or a success body that cannot be decoded, yields
// *TransportError.
func (c *Client) Predict(ctx context.Context, values model.FormValues) (model.RiskResult, error) {
	start := time.Now()

	result, err := c.do(ctx, values)
	elapsed := time.Since(start)

	outcome := string(result.Level)
	switch {
	case err == nil:
		c.logger.Debug("prediction received",
			zap.String("level", outcome),
			zap.Duration("elapsed", elapsed),
		)
	case isRejected(err):
		outcome = OutcomeRejected
		c.logger.Warn("prediction rejected", zap.Error(err), zap.Duration("elapsed", elapsed))
	default:
		outcome = OutcomeTransport
		c.logger.Warn("prediction transport failure", zap.Error(err), zap.Duration("elapsed", elapsed))
	}
	if c.observer != nil {
		c.observer.ObservePrediction(outcome, elapsed)
	}
	return result, err
}

func (c *Client) do(ctx context.Context, values model.FormValues) (model.RiskResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(values)
	if err != nil {
		return model.RiskResult{}, &TransportError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.RiskResult{}, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.RiskResult{}, &TransportError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return model.RiskResult{}, &RequestRejectedError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return model.RiskResult{}, &TransportError{Op: "read response", Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return model.RiskResult{}, &TransportError{Op: "decode response", Err: errNullBody}
	}
	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return model.RiskResult{}, &TransportError{Op: "decode response", Err: err}
	}

	// Only the number 1 means high; strings, null, or a missing field are low.
	var prediction float64
	if len(decoded.Prediction) > 0 {
		_ = json.Unmarshal(decoded.Prediction, &prediction)
	}
	return model.RiskFromPrediction(prediction), nil
}

func isRejected(err error) bool {
	var rejected *RequestRejectedError
	return errors.As(err, &rejected)
}
