package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-riskform/pkg/model"
)

// ScenarioValues returns the reference patient used across tests: every field
// valid and well inside its range.
func ScenarioValues() model.FormValues {
	return model.FormValuesFrom(map[string]string{
		"age":      "45",
		"sex":      "1",
		"cp":       "2",
		"trestbps": "130",
		"chol":     "250",
		"fbs":      "0",
		"restecg":  "1",
		"thalach":  "150",
		"exang":    "0",
		"oldpeak":  "1.5",
		"slope":    "1",
		"ca":       "0",
		"thal":     "2",
	})
}

// MinValues sets every field to its lower bound.
func MinValues() model.FormValues {
	values := model.NewFormValues()
	for _, spec := range model.Fields() {
		values.Set(spec.Key, model.FormatBound(spec.Min))
	}
	return values
}

// MaxValues sets every field to its upper bound.
func MaxValues() model.FormValues {
	values := model.NewFormValues()
	for _, spec := range model.Fields() {
		values.Set(spec.Key, model.FormatBound(spec.Max))
	}
	return values
}

// Predictor is an httptest-backed prediction service. It records every
// decoded request body and replies with the configured status and body.
type Predictor struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []map[string]any
	headers  []http.Header
	calls    atomic.Int64
}

// NewPredictor starts a stub service replying 200 with {"prediction": n}.
func NewPredictor(t *testing.T, prediction int) *Predictor {
	t.Helper()

	p := &Predictor{status: http.StatusOK}
	p.body = predictionBody(prediction)
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// URL returns the endpoint clients should post to.
func (p *Predictor) URL() string {
	return p.Server.URL + "/api/risk"
}

// Respond changes the status and raw body returned by subsequent calls.
func (p *Predictor) Respond(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.body = body
}

// RespondPrediction switches to a 200 response carrying prediction.
func (p *Predictor) RespondPrediction(prediction int) {
	p.Respond(http.StatusOK, predictionBody(prediction))
}

// Calls reports how many requests reached the service.
func (p *Predictor) Calls() int {
	return int(p.calls.Load())
}

// Requests returns the decoded request bodies in arrival order.
func (p *Predictor) Requests() []map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]map[string]any, len(p.requests))
	copy(out, p.requests)
	return out
}

// Headers returns the request headers in arrival order.
func (p *Predictor) Headers() []http.Header {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]http.Header, len(p.headers))
	copy(out, p.headers)
	return out
}

func (p *Predictor) serve(w http.ResponseWriter, r *http.Request) {
	p.calls.Add(1)

	var decoded map[string]any
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &decoded)

	p.mu.Lock()
	p.requests = append(p.requests, decoded)
	p.headers = append(p.headers, r.Header.Clone())
	status, body := p.status, p.body
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func predictionBody(prediction int) string {
	payload, _ := json.Marshal(map[string]int{"prediction": prediction})
	return string(payload)
}

// ClosedEndpoint returns a URL that refuses connections, for transport
// failure tests.
func ClosedEndpoint(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/api/risk"
	server.Close()
	return url
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
