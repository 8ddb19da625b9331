package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderView(t *testing.T, r *Renderer, view render.WizardView, options render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("output missing %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("output unexpectedly contains %q\n%s", fragment, html)
		}
	}
}

func loadedController(t *testing.T, form model.FormSchema) *wizard.Controller {
	t.Helper()
	c := wizard.New()
	identity := provider.Identity{Name: "Ada", RollNumber: "R1"}
	if err := c.Load(context.Background(), provider.Static(form), identity); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestRenderer_FirstSection(t *testing.T) {
	r := newRenderer(t)
	c := loadedController(t, testsupport.SignupForm())

	html := renderView(t, r, c.View(), render.RenderOptions{
		ActionURL: "/form",
		Hidden:    map[string]string{"session": "abc"},
	})

	assertContains(t, html,
		`<h1 data-testid="form-title">Student Signup</h1>`,
		`<p data-testid="greeting">Welcome, Ada | Roll Number: R1</p>`,
		`<form method="post" action="/form" novalidate>`,
		`<input type="hidden" name="session" value="abc">`,
		`data-testid="field-name"`,
		`placeholder="Ada Lovelace"`,
		`data-min-length="2"`,
		`maxlength="60"`,
		`data-testid="email-input"`,
		`type="email"`,
		`<label id="fw-name-label" for="fw-name">Full name <span class="fw-required">*</span></label>`,
		`data-testid="next-section-button">Next</button>`,
		`aria-label="Step 1 of 2"`,
		`<div class="fw-description">Tell us who you are.</div>`,
	)
	assertNotContains(t, html, `prev-section-button`, `class="fw-error"`)
}

func TestRenderer_MaxLengthCapsControls(t *testing.T) {
	form := model.FormSchema{
		Title: "Notes",
		Sections: []model.Section{{
			SectionID: "1",
			Title:     "Only",
			Fields: []model.Field{
				{FieldID: "code", Type: model.FieldTypeText, Label: "Code", MaxLength: intPtr(5)},
				{FieldID: "notes", Type: model.FieldTypeTextarea, Label: "Notes", MaxLength: intPtr(5)},
				{FieldID: "phone", Type: model.FieldTypeTel, Label: "Phone"},
			},
		}},
	}
	html := renderView(t, newRenderer(t), loadedController(t, form).View(), render.RenderOptions{})

	assertContains(t, html,
		`<input id="fw-code" name="code" type="text" value="" data-testid="field-code" maxlength="5">`,
		`<textarea id="fw-notes" name="notes" rows="4" data-testid="field-notes" maxlength="5">`,
	)
	if got := strings.Count(html, `maxlength=`); got != 2 {
		t.Fatalf("expected two capped controls, got %d\n%s", got, html)
	}
}

func TestRenderer_ErrorsAndLastSection(t *testing.T) {
	r := newRenderer(t)
	c := loadedController(t, testsupport.SignupForm())

	c.Next()
	html := renderView(t, r, c.View(), render.RenderOptions{})
	assertContains(t, html,
		`<p class="fw-error" id="fw-name-error" role="alert" data-testid="field-name-error">This field is required</p>`,
		`aria-invalid="true"`,
	)

	if err := c.SetField("name", "Ada"); err != nil {
		t.Fatalf("set: %v", err)
	}
	c.Next()
	if err := c.SetField("track", "frontend"); err != nil {
		t.Fatalf("set: %v", err)
	}
	html = renderView(t, r, c.View(), render.RenderOptions{})
	assertContains(t, html,
		`<option value="">Select...</option>`,
		`<option value="frontend" data-testid="field-track-frontend" selected>Frontend</option>`,
		`<option value="backend" data-testid="field-track-backend">Backend</option>`,
		`data-testid="field-terms"> I accept the terms <span class="fw-required">*</span></label>`,
		`data-testid="prev-section-button">Previous</button>`,
		`value="submit" data-testid="submit-form-button">Submit Form</button>`,
		`<li class="is-completed">About you</li>`,
	)
	assertNotContains(t, html, `for="fw-terms"`)
}

func TestRenderer_UnsupportedAndEscaping(t *testing.T) {
	form := model.FormSchema{
		Title: "Odd <form>",
		Sections: []model.Section{{
			SectionID:   "x",
			Title:       "Only",
			Description: `<b>Bold</b><script>alert(1)</script>`,
			Fields: []model.Field{
				{FieldID: "rating", Type: "slider", Label: "Rating"},
				{FieldID: "mood", Type: model.FieldTypeRadio, Label: "Mood", Options: []model.Option{
					{Value: "ok", Label: "OK", DataTestID: "mood-ok"},
				}},
			},
		}},
	}
	r := newRenderer(t)
	html := renderView(t, r, loadedController(t, form).View(), render.RenderOptions{})

	assertContains(t, html,
		`<p class="fw-unsupported" data-testid="field-rating" data-type="slider">Unsupported field type</p>`,
		`<input type="radio" name="mood" value="ok" data-testid="mood-ok"> OK</label>`,
		`Odd &lt;form&gt;`,
		`<b>Bold</b>`,
	)
	assertNotContains(t, html, `<script>`, `<form>`)
}

func TestRenderer_Statuses(t *testing.T) {
	r := newRenderer(t, WithInlineStylesheet(false))

	loading := renderView(t, r, wizard.New().View(), render.RenderOptions{})
	assertContains(t, loading, `data-testid="loading"`)
	assertNotContains(t, loading, `<style>`)

	failed := wizard.New()
	failed.Load(context.Background(), provider.Static(model.FormSchema{}), provider.Identity{})
	html := renderView(t, r, failed.View(), render.RenderOptions{})
	assertContains(t, html,
		`data-testid="notice">Failed to load form. Please try again.</div>`,
		`value="retry" data-testid="retry-button"`,
	)
}

func TestRenderer_ThemeVariables(t *testing.T) {
	r := newRenderer(t)
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--fw-accent": "#123456", "--a": "1;}"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/themes/acme/theme.css"
			}
			return ""
		},
	}
	html := renderView(t, r, loadedController(t, testsupport.SignupForm()).View(), render.RenderOptions{Theme: cfg})
	assertContains(t, html,
		`<style>:root { --a: 1; --fw-accent: #123456; }</style>`,
		`data-theme="acme" data-theme-variant="dark"`,
		`<link rel="stylesheet" href="/themes/acme/theme.css">`,
	)
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "vanilla" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("metadata = %s %s", r.Name(), r.ContentType())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, render.WizardView{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestRenderer_Login(t *testing.T) {
	r := newRenderer(t)

	out, err := r.RenderLogin(context.Background(), LoginView{
		ActionURL:  "/login",
		RollNumber: "R1",
		Name:       `<b>Ada</b>`,
		Error:      "name is required",
	}, nil)
	if err != nil {
		t.Fatalf("render login: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`<h1 data-testid="login-title">Sign in</h1>`,
		`<form method="post" action="/login" novalidate>`,
		`value="R1"`,
		`&lt;b&gt;Ada&lt;/b&gt;`,
		`data-testid="login-error">name is required</div>`,
		`data-testid="login-button">Login</button>`,
	)
	assertNotContains(t, html, `<b>Ada</b>`)
}

func intPtr(n int) *int { return &n }
