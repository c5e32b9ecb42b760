package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/metrics"
	"github.com/goliatone/go-riskform/pkg/backdrop"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
	"github.com/goliatone/go-riskform/pkg/testsupport"
	"github.com/goliatone/go-riskform/pkg/validation"
)

type fixture struct {
	server  *Server
	store   *form.Store
	metrics *metrics.Recorder
}

func newFixture(t *testing.T, endpoint string) *fixture {
	t.Helper()

	client, err := predict.New(predict.WithEndpoint(endpoint))
	require.NoError(t, err)
	factory := func() *form.Session { return form.NewSession(client) }
	store := form.NewStore(factory)

	registry := render.NewRegistry()
	html, err := vanilla.New()
	require.NoError(t, err)
	registry.MustRegister(html)
	text, err := tui.New(tui.WithTheme(tui.Theme{}))
	require.NoError(t, err)
	registry.MustRegister(text)

	recorder := metrics.New(store.Len)
	server, err := NewServer(config.HTTPConfig{}, store, factory, registry,
		WithMetrics(recorder),
		WithCSRFKey([]byte("test-key")),
		WithStub(NewStubPredictor(DefaultStubThreshold, nil)),
		WithBackdrop(backdrop.NewSource(1, backdrop.DefaultViewport, 3)),
		WithRecommendations(map[string][]string{"high": {"<strong>See a cardiologist</strong>"}}),
		WithAssets(vanilla.AssetsFS()),
	)
	require.NoError(t, err)
	return &fixture{server: server, store: store, metrics: recorder}
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

// open loads the page and returns the session cookie it was issued.
func (f *fixture) open(t *testing.T) *http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return sessionCookie(t, rec)
}

func (f *fixture) post(t *testing.T, path string, cookie *http.Cookie, values model.FormValues) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	for key, value := range values.Map() {
		form.Set(key, value)
	}
	form.Set(render.CSRFFieldName, f.server.csrf.token(cookie.Value))
	return f.do(t, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookie)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response did not set %s", SessionCookie)
	return nil
}

func TestPage_InitialRender(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())

	rec := f.do(t, http.MethodGet, "/", nil, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, "Calculate Risk")
	assert.Contains(t, body, `value="`+f.server.csrf.token(cookie.Value)+`"`)
	assert.NotContains(t, body, "Risk Level:")
	assert.Equal(t, 1, f.store.Len())
}

func TestPage_SubmitScenarioShowsHighRisk(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())
	cookie := f.open(t)

	rec := f.post(t, "/", cookie, testsupport.ScenarioValues())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Risk Level: HIGH")
	assert.Contains(t, body, "<strong>See a cardiologist</strong>")
	require.Equal(t, 1, predictor.Calls())
	assert.Len(t, predictor.Requests()[0], len(model.Keys()))
	assert.Equal(t, "45", predictor.Requests()[0]["age"])

	again := f.do(t, http.MethodGet, "/", nil, "", cookie)
	assert.Contains(t, again.Body.String(), "Risk Level: HIGH")
}

func TestPage_InvalidSubmitShowsInlineErrors(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())
	cookie := f.open(t)

	values := testsupport.ScenarioValues().With("age", "0")
	rec := f.post(t, "/", cookie, values)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Value must be between 1 and 120")
	assert.Equal(t, 0, predictor.Calls())
}

func TestPage_RejectsMissingCSRFToken(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())
	cookie := f.open(t)

	form := url.Values{"age": {"45"}, render.CSRFFieldName: {"deadbeef"}}
	rec := f.do(t, http.MethodPost, "/", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookie)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, predictor.Calls())
}

func TestPage_ExpiredSessionKeepsPostedValues(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())

	stale := &http.Cookie{Name: SessionCookie, Value: "expired-session"}
	rec := f.post(t, "/", stale, testsupport.ScenarioValues())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, predictor.Calls())
	assert.NotContains(t, rec.Body.String(), "Risk Level:")

	fresh := sessionCookie(t, rec)
	require.NotEqual(t, stale.Value, fresh.Value)
	session, ok := f.store.Get(fresh.Value)
	require.True(t, ok)
	values := session.Snapshot().Values
	for key, want := range testsupport.ScenarioValues().Map() {
		assert.Equal(t, want, values.Get(key), key)
	}
	assert.Contains(t, rec.Body.String(), `value="`+f.server.csrf.token(fresh.Value)+`"`)

	// the re-rendered page carries a usable token
	retry := f.post(t, "/", fresh, testsupport.ScenarioValues())
	require.Equal(t, http.StatusOK, retry.Code)
	assert.Contains(t, retry.Body.String(), "Risk Level: HIGH")
	assert.Equal(t, 1, predictor.Calls())
}

func TestPage_NoticeIsShownOnce(t *testing.T) {
	f := newFixture(t, testsupport.ClosedEndpoint(t))
	cookie := f.open(t)

	rec := f.post(t, "/", cookie, testsupport.ScenarioValues())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(form.NoticeSubmissionError))
	assert.Contains(t, rec.Body.String(), `role="alertdialog"`)

	again := f.do(t, http.MethodGet, "/", nil, "", cookie)
	assert.NotContains(t, again.Body.String(), `role="alertdialog"`)
}

func TestPage_ResetStartsFreshSession(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 0)
	f := newFixture(t, predictor.URL())
	cookie := f.open(t)

	rec := f.post(t, "/", cookie, testsupport.ScenarioValues())
	require.Contains(t, rec.Body.String(), "Risk Level: LOW")

	reset := f.post(t, "/reset", cookie, model.NewFormValues())
	require.Equal(t, http.StatusOK, reset.Code)
	fresh := sessionCookie(t, reset)
	assert.NotEqual(t, cookie.Value, fresh.Value)
	assert.NotContains(t, reset.Body.String(), "Risk Level:")

	_, ok := f.store.Get(cookie.Value)
	assert.False(t, ok)
}

func TestPage_TextFormat(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())

	rec := f.do(t, http.MethodGet, "/?format=tui", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Age (1-120): -\n")

	missing := f.do(t, http.MethodGet, "/?format=pdf", nil, "", nil)
	assert.Equal(t, http.StatusNotAcceptable, missing.Code)
}

func TestAPI_Assess(t *testing.T) {
	predictor := testsupport.NewPredictor(t, 1)
	f := newFixture(t, predictor.URL())

	payload, err := json.Marshal(testsupport.ScenarioValues())
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/assess", strings.NewReader(string(payload)), "application/json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok AssessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, model.RiskLevelHigh, ok.Level)
	assert.Equal(t, "HIGH", ok.Display)

	rec = f.do(t, http.MethodPost, "/api/assess", strings.NewReader(`{}`), "application/json", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var invalid IssuesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	require.Len(t, invalid.Issues, len(model.Keys()))
	assert.Equal(t, "age", invalid.Issues[0].Field)

	predictor.Respond(http.StatusInternalServerError, `{"error":"boom"}`)
	rec = f.do(t, http.MethodPost, "/api/assess", strings.NewReader(string(payload)), "application/json", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Error calculating risk"}`, rec.Body.String())

	assert.Equal(t, 2, predictor.Calls())
	assert.Equal(t, 0, f.store.Len())
}

func TestAPI_Validate(t *testing.T) {
	f := newFixture(t, predict.DefaultEndpoint)

	rec := f.do(t, http.MethodPost, "/api/validate", strings.NewReader(`{"age": "abc"}`), "application/json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result validation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Len(t, result.Issues, len(model.Keys()))

	bad := f.do(t, http.MethodPost, "/api/validate", strings.NewReader(`[`), "application/json", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestAPI_FieldsAndContract(t *testing.T) {
	f := newFixture(t, predict.DefaultEndpoint)

	rec := f.do(t, http.MethodGet, "/api/fields", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fields []model.FieldSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Equal(t, model.Fields(), fields)

	yamlRec := f.do(t, http.MethodGet, "/api/fields?format=yaml", nil, "", nil)
	assert.Equal(t, "application/yaml", yamlRec.Header().Get("Content-Type"))
	assert.Contains(t, yamlRec.Body.String(), "key: trestbps")

	contractRec := f.do(t, http.MethodGet, "/openapi.yaml", nil, "", nil)
	require.Equal(t, http.StatusOK, contractRec.Code)
	assert.Contains(t, contractRec.Body.String(), "predictRisk")
}

func TestAPI_StubPredictor(t *testing.T) {
	f := newFixture(t, predict.DefaultEndpoint)

	payload, err := json.Marshal(testsupport.MaxValues())
	require.NoError(t, err)
	rec := f.do(t, http.MethodPost, "/api/risk", strings.NewReader(string(payload)), "application/json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"prediction":1}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/risk", strings.NewReader(`{"age":"45"}`), "application/json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssets(t *testing.T) {
	f := newFixture(t, predict.DefaultEndpoint)

	rec := f.do(t, http.MethodGet, "/assets/"+vanilla.StylesheetName, nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "@keyframes riskform-drift")
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, predict.DefaultEndpoint)
	f.open(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, rec.Body.String())

	metricsRec := f.do(t, http.MethodGet, "/metrics", nil, "", nil)
	require.Equal(t, http.StatusOK, metricsRec.Code)
	body := metricsRec.Body.String()
	assert.Contains(t, body, `riskform_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, "riskform_active_sessions 1")
}

func TestStubPrediction(t *testing.T) {
	tests := []struct {
		name   string
		values model.FormValues
		want   int
	}{
		{name: "scenario sits mostly low", values: testsupport.ScenarioValues(), want: 0},
		{name: "upper bounds", values: testsupport.MaxValues(), want: 1},
		{name: "lower bounds", values: testsupport.MinValues(), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StubPrediction(tt.values, DefaultStubThreshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StubPrediction(model.NewFormValues(), DefaultStubThreshold)
	assert.Error(t, err)
}

func TestCSRFSigner(t *testing.T) {
	signer := newCSRFSigner([]byte("k"))
	token := signer.token("session-a")

	assert.True(t, signer.verify("session-a", token))
	assert.False(t, signer.verify("session-b", token))
	assert.False(t, signer.verify("session-a", "not-hex"))
	assert.False(t, signer.verify("", token))
}

func TestStubRouter(t *testing.T) {
	handler := NewStubRouter(DefaultStubThreshold, nil)

	payload, err := json.Marshal(testsupport.ScenarioValues())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/risk", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"prediction":0}`, rec.Body.String())
}
