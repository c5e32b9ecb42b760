package vanilla_test

import (
	"context"
	"io"
	"io/fs"
	"math/rand"
	"strings"
	"testing"

	"github.com/goliatone/go-riskform/pkg/backdrop"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
	"github.com/goliatone/go-riskform/pkg/testsupport"
)

func newRenderer(t *testing.T) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderState(t *testing.T, state form.State, options ...render.PageOption) string {
	t.Helper()
	out, err := newRenderer(t).Render(context.Background(), render.NewPage(state, options...))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_InitialPage(t *testing.T) {
	html := renderState(t, form.NewState(),
		render.WithBackdrop(backdrop.Generate(rand.New(rand.NewSource(1)), backdrop.DefaultViewport, 0)),
	)

	for _, spec := range model.Fields() {
		if !strings.Contains(html, `name="`+spec.Key+`"`) {
			t.Fatalf("missing input for %s", spec.Key)
		}
	}
	if got := strings.Count(html, `type="number"`); got != 13 {
		t.Fatalf("expected 13 numeric inputs, got %d", got)
	}
	if got := strings.Count(html, " required"); got != 13 {
		t.Fatalf("expected 13 required inputs, got %d", got)
	}
	if !strings.Contains(html, `placeholder="Enter Age (1-120)"`) {
		t.Fatalf("missing age placeholder")
	}
	if !strings.Contains(html, "Fasting Blood Sugar (0: &lt;120mg/dL, 1: &gt;120mg/dL)") {
		t.Fatalf("expected escaped fasting blood sugar label")
	}
	if !strings.Contains(html, "Calculate Risk") {
		t.Fatalf("missing submit button")
	}
	if strings.Contains(html, "Risk Level:") {
		t.Fatalf("result banner rendered before any submission")
	}
	if strings.Contains(html, "<dialog") {
		t.Fatalf("notice rendered without a pending notice")
	}
	if got := strings.Count(html, `class="riskform-circle"`); got != backdrop.DefaultCount {
		t.Fatalf("expected %d backdrop circles, got %d", backdrop.DefaultCount, got)
	}
}

func TestRenderer_ShowsErrorsInline(t *testing.T) {
	state := form.Reduce(form.NewState(), form.EditField{Key: "age", Value: "150"})
	state = form.Reduce(state, form.Validated{Errors: model.ErrorMap{"age": "Value must be between 1 and 120"}})

	html := renderState(t, state)
	if !strings.Contains(html, `value="150"`) {
		t.Fatalf("entered value not preserved")
	}
	if !strings.Contains(html, `<p class="riskform-error" id="rf-age-error">Value must be between 1 and 120</p>`) {
		t.Fatalf("missing inline error:\n%s", html)
	}
	if got := strings.Count(html, `class="riskform-field riskform-invalid"`); got != 1 {
		t.Fatalf("expected one invalid field, got %d", got)
	}
}

func TestRenderer_ResultBanner(t *testing.T) {
	state := form.NewState()
	for key, value := range testsupport.ScenarioValues().Map() {
		state = form.Reduce(state, form.EditField{Key: key, Value: value})
	}
	state = form.Reduce(state, form.SubmitSucceeded{Result: model.RiskResult{Level: model.RiskLevelHigh}})

	html := renderState(t, state, render.WithRecommendations(
		`<strong>Talk to a cardiologist</strong><script>alert(1)</script>`,
	))

	if !strings.Contains(html, "Risk Level: HIGH") {
		t.Fatalf("missing high banner")
	}
	if !strings.Contains(html, `class="riskform-result riskform-result--high"`) {
		t.Fatalf("missing high styling")
	}
	if !strings.Contains(html, "Based on your health data, here are personalized recommendations:") {
		t.Fatalf("missing recommendations lead")
	}
	if !strings.Contains(html, "<strong>Talk to a cardiologist</strong>") {
		t.Fatalf("sanitised recommendation missing")
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script tag survived sanitising")
	}
}

func TestRenderer_Notice(t *testing.T) {
	state := form.Reduce(form.NewState(), form.SubmitRejected{})
	html := renderState(t, state)

	if !strings.Contains(html, "<dialog") || !strings.Contains(html, "Error calculating risk") {
		t.Fatalf("missing calculation notice")
	}

	state = form.Reduce(form.NewState(), form.SubmitFailed{})
	if html := renderState(t, state); !strings.Contains(html, "Error submitting the form") {
		t.Fatalf("missing submission notice")
	}
}

func TestRenderer_ThemeAndHiddenFields(t *testing.T) {
	catalog := render.NewThemeCatalog(vanilla.DefaultThemeName, "contrast")
	if err := catalog.Register(vanilla.DefaultTheme()); err != nil {
		t.Fatalf("register theme: %v", err)
	}
	selection, err := catalog.Select("", "")
	if err != nil {
		t.Fatalf("select theme: %v", err)
	}

	html := renderState(t, form.NewState(),
		render.WithTheme(render.ThemeConfig(selection)),
		render.WithHiddenFields(render.CSRFToken("tok-123")),
		render.WithAction("/", "/reset"),
	)

	if !strings.Contains(html, `data-theme="riskform"`) || !strings.Contains(html, `data-theme-variant="contrast"`) {
		t.Fatalf("missing theme attributes")
	}
	if !strings.Contains(html, "--riskform-accent: #facc15;") {
		t.Fatalf("variant css vars not rendered")
	}
	if got := strings.Count(html, `name="_csrf" value="tok-123"`); got != 2 {
		t.Fatalf("expected csrf field in submit and reset forms, got %d", got)
	}
	if !strings.Contains(html, `action="/reset"`) {
		t.Fatalf("missing reset form")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}

	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), "@keyframes riskform-drift") {
		t.Fatalf("stylesheet missing drift animation")
	}
}

type recordingTemplates struct {
	name string
	data map[string]any
}

func (r *recordingTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.name = name
	r.data, _ = data.(map[string]any)
	return "<p>custom</p>", nil
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	templates := &recordingTemplates{}
	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(templates), vanilla.WithTitle("Clinic"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), render.NewPage(form.NewState()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "<p>custom</p>" {
		t.Fatalf("expected injected renderer output, got %q", out)
	}
	if templates.name != "templates/page.tmpl" {
		t.Fatalf("unexpected template name %q", templates.name)
	}
	if templates.data["title"] != "Clinic" {
		t.Fatalf("expected title in view data, got %v", templates.data["title"])
	}
}
