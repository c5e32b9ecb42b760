package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/contract"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/validation"
)

// DefaultStubThreshold is the number of upper-half values above which the stub
// answers high risk.
const DefaultStubThreshold = 7

// StubPrediction scores values the way the demo predictor does: 1 when more
// than threshold fields sit in the upper half of their range, 0 otherwise.
// Every field must be present and numeric.
func StubPrediction(values model.FormValues, threshold int) (int, error) {
	upper := 0
	for _, spec := range model.Fields() {
		value, ok := validation.ParseNumber(values.Get(spec.Key))
		if !ok {
			return 0, fmt.Errorf("field %q is not a number", spec.Key)
		}
		if value > (spec.Min+spec.Max)/2 {
			upper++
		}
	}
	if upper > threshold {
		return 1, nil
	}
	return 0, nil
}

// NewStubPredictor returns a handler that speaks the prediction service wire
// format. It exists for demos and local development.
func NewStubPredictor(threshold int, logger *zap.Logger) http.Handler {
	if threshold < 0 {
		threshold = DefaultStubThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var values model.FormValues
		if err := decodeJSON(w, r, &values); err != nil {
			writeStubError(w, http.StatusBadRequest, err.Error())
			return
		}
		prediction, err := StubPrediction(values, threshold)
		if err != nil {
			writeStubError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Debug("stub prediction", zap.Int("prediction", prediction))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]int{"prediction": prediction})
	})
}

func writeStubError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// NewStubRouter serves the stub predictor on its own, the way the real
// service is deployed: POST /api/risk plus a health probe.
func NewStubRouter(threshold int, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Method(http.MethodPost, contract.PredictPath, NewStubPredictor(threshold, logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return r
}
