package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, session, _ := s.session(w, r)
	s.writePage(w, r, id, session)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	id, session, fresh := s.session(w, r)
	if fresh {
		// The old session is gone, so its token cannot be checked. Keep what
		// was typed and hand back a page with a fresh token instead.
		applyEdits(session, r)
		s.logger.Info("submission on expired session, re-rendering")
		s.writePage(w, r, id, session)
		return
	}
	if !s.csrf.verify(id, r.PostForm.Get(render.CSRFFieldName)) {
		http.Error(w, "form expired, reload the page", http.StatusForbidden)
		return
	}

	applyEdits(session, r)

	outcome, _ := session.Submit(r.Context())
	switch outcome.Kind {
	case form.OutcomeRejected, form.OutcomeFailed:
		s.logger.Warn("risk submission failed",
			zap.String("outcome", string(outcome.Kind)),
			zap.Error(outcome.Err),
		)
	case form.OutcomeSucceeded:
		s.logger.Debug("risk submission succeeded",
			zap.String("level", string(outcome.Result.Level)),
		)
	}

	s.writePage(w, r, id, session)
}

// applyEdits copies posted field values into session. Unknown keys and
// missing fields are ignored.
func applyEdits(session *form.Session, r *http.Request) {
	for _, key := range model.Keys() {
		if raw, ok := r.PostForm[key]; ok && len(raw) > 0 {
			session.Edit(key, raw[0])
		}
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	id, _, fresh := s.session(w, r)
	if !fresh && !s.csrf.verify(id, r.PostForm.Get(render.CSRFFieldName)) {
		http.Error(w, "form expired, reload the page", http.StatusForbidden)
		return
	}

	id, session := s.store.Reset(id)
	s.setSessionCookie(w, id)
	s.writePage(w, r, id, session)
}

// session resolves the caller's form session, creating one when the cookie is
// missing or expired. fresh reports whether a new session was created.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *form.Session, bool) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if session, ok := s.store.Get(cookie.Value); ok {
			return cookie.Value, session, false
		}
	}
	id, session := s.store.Create()
	s.setSessionCookie(w, id)
	return id, session, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// writePage renders the session's current state. A pending notice is shown
// once and then dismissed.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, id string, session *form.Session) {
	renderer, err := s.pageRenderer(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	state := session.Snapshot()
	page := render.NewPage(state,
		render.WithAction("/", "/reset"),
		render.WithBackdrop(s.backdrop.Next()),
		render.WithTheme(s.theme),
		render.WithRecommendations(s.recommendations(state.Result)...),
		render.WithHiddenFields(render.CSRFToken(s.csrf.token(id))),
	)

	body, err := renderer.Render(r.Context(), page)
	if err != nil {
		s.logger.Error("render page", zap.String("renderer", renderer.Name()), zap.Error(err))
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	if state.Notice.Pending() {
		session.Dismiss()
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) pageRenderer(format string) (render.Renderer, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return s.renderers.Default(DefaultRenderer)
	}
	return s.renderers.Get(format)
}

func (s *Server) recommendations(result *model.RiskResult) []string {
	if result == nil || len(s.recs) == 0 {
		return nil
	}
	return s.recs[string(result.Level)]
}
