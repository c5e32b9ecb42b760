package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
)

func TestRecorder_Counters(t *testing.T) {
	r := New(func() int { return 3 })

	r.ObserveSubmission(form.OutcomeInvalid)
	r.ObserveSubmission(form.OutcomeSucceeded)
	r.ObserveSubmission(form.OutcomeSucceeded)
	r.ObserveValidationFailure("age")
	r.ObservePrediction(predict.OutcomeHigh, 120*time.Millisecond)
	r.ObserveHTTP("/", http.MethodGet, http.StatusOK, time.Millisecond)

	if got := testutil.ToFloat64(r.SubmissionsTotal.WithLabelValues("succeeded")); got != 2 {
		t.Fatalf("expected 2 successful submissions, got %v", got)
	}
	if got := testutil.ToFloat64(r.ValidationFailures.WithLabelValues("age")); got != 1 {
		t.Fatalf("expected 1 age failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.PredictionsTotal.WithLabelValues("high")); got != 1 {
		t.Fatalf("expected 1 high prediction, got %v", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("/", "GET", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.ToFloat64(r.ActiveSessions); got != 3 {
		t.Fatalf("expected 3 sessions, got %v", got)
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := New(nil)
	r.ObserveSubmission(form.OutcomeRejected)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `riskform_submissions_total{outcome="rejected"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", rec.Body.String())
	}
}
