// Package metrics records submission and HTTP metrics on a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
)

// Recorder implements predict.Observer and form.Observer.
type Recorder struct {
	registry *prometheus.Registry

	SubmissionsTotal    *prometheus.CounterVec
	ValidationFailures  *prometheus.CounterVec
	PredictionsTotal    *prometheus.CounterVec
	PredictionDuration  prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveSessions      prometheus.GaugeFunc
}

var (
	_ predict.Observer = (*Recorder)(nil)
	_ form.Observer    = (*Recorder)(nil)
)

// New registers every collector on a fresh registry. sessions, when non-nil,
// reports the number of live form sessions.
func New(sessions func() int) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	r := &Recorder{
		registry: reg,
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskform_submissions_total",
				Help: "Form submissions by outcome",
			},
			[]string{"outcome"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskform_validation_failures_total",
				Help: "Rejected field values by field",
			},
			[]string{"field"},
		),
		PredictionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskform_predictions_total",
				Help: "Calls to the prediction service by outcome",
			},
			[]string{"outcome"},
		),
		PredictionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riskform_prediction_duration_seconds",
				Help:    "Prediction service round trip in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskform_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskform_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	if sessions != nil {
		r.ActiveSessions = factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "riskform_active_sessions",
				Help: "Live form sessions",
			},
			func() float64 { return float64(sessions()) },
		)
	}
	return r
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObservePrediction implements predict.Observer.
func (r *Recorder) ObservePrediction(outcome string, elapsed time.Duration) {
	r.PredictionsTotal.WithLabelValues(outcome).Inc()
	r.PredictionDuration.Observe(elapsed.Seconds())
}

// ObserveSubmission implements form.Observer.
func (r *Recorder) ObserveSubmission(kind form.OutcomeKind) {
	r.SubmissionsTotal.WithLabelValues(string(kind)).Inc()
}

// ObserveValidationFailure implements form.Observer.
func (r *Recorder) ObserveValidationFailure(field string) {
	r.ValidationFailures.WithLabelValues(field).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
