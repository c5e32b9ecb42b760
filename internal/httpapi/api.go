package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/contract"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/validation"
)

// AssessResponse is returned by POST /api/assess on success.
type AssessResponse struct {
	Level           model.RiskLevel `json:"level"`
	Display         string          `json:"display"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// IssuesResponse is returned by POST /api/assess when input is invalid.
type IssuesResponse struct {
	Issues []validation.Issue `json:"issues"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleContract(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contract.Raw())
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	body, err := contract.MarshalFields(format, model.Fields())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	contentType := "application/json"
	if format == "yaml" || format == "yml" {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var values model.FormValues
	if err := decodeJSON(w, r, &values); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, validation.Check(values))
}

// handleAssess runs one submission on a throwaway session: 200 with the level,
// 422 with field issues, or 502 when the prediction service fails.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var values model.FormValues
	if err := decodeJSON(w, r, &values); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.factory()
	for key, raw := range values.Map() {
		session.Edit(key, raw)
	}

	outcome, _ := session.Submit(r.Context())
	switch outcome.Kind {
	case form.OutcomeSucceeded:
		s.writeJSON(w, http.StatusOK, AssessResponse{
			Level:           outcome.Result.Level,
			Display:         outcome.Result.Display(),
			Recommendations: s.recommendations(outcome.Result),
		})
	case form.OutcomeInvalid:
		s.writeJSON(w, http.StatusUnprocessableEntity, IssuesResponse{
			Issues: validation.Issues(outcome.Errors),
		})
	default:
		s.logger.Warn("assessment failed",
			zap.String("outcome", string(outcome.Kind)),
			zap.Error(outcome.Err),
		)
		s.writeError(w, http.StatusBadGateway, string(outcome.Notice))
	}
}
