package tui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func TestTextRenderer_Section(t *testing.T) {
	ctx := context.Background()
	ctrl := wizard.New()
	identity := provider.Identity{RollNumber: "42", Name: "Ada"}
	if err := ctrl.Load(ctx, provider.Static(testsupport.SignupForm()), identity); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctrl.SetField("name", "A"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	ctrl.Next()

	out, err := NewTextRenderer(0).Render(ctx, ctrl.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `Student Signup
==============
Welcome, Ada | Roll Number: 42
Step 1 of 2: [>] About you > [ ] Preferences

## About you
Tell us who you are.

  Full name *: A
    ! Minimum 2 characters required
  Email:
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRenderer_StatusScreens(t *testing.T) {
	r := NewTextRenderer(40)
	if r.Name() != "text" || r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected identity %q %q", r.Name(), r.ContentType())
	}

	out, err := r.Render(context.Background(), render.WizardView{Status: render.StatusLoading}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render loading: %v", err)
	}
	if string(out) != "Loading form...\n" {
		t.Fatalf("loading screen = %q", out)
	}

	view := render.WizardView{
		Status:    render.StatusLoadFailed,
		FormTitle: "",
		Notice:    &render.Notice{Level: render.NoticeError, Message: wizard.LoadFailedMessage},
	}
	out, err = r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(out) != wizard.LoadFailedMessage+"\n" {
		t.Fatalf("failure screen = %q", out)
	}
}

func TestDisplayValue(t *testing.T) {
	form := testsupport.SignupForm()
	track, _ := form.FieldByID("track")
	terms, _ := form.FieldByID("terms")

	cases := []struct {
		name  string
		field render.FieldView
		want  string
	}{
		{"dropdown unset", render.ComposeField(track, nil, nil), "Select..."},
		{"dropdown set", render.ComposeField(track, map[string]any{"track": "frontend"}, nil), "Frontend"},
		{"checkbox default", render.ComposeField(terms, nil, nil), "[ ]"},
		{"checkbox checked", render.ComposeField(terms, map[string]any{"terms": true}, nil), "[x]"},
		{"unsupported", render.FieldView{ID: "x", Supported: false}, "[Unsupported field type]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayValue(tc.field); got != tc.want {
				t.Fatalf("DisplayValue = %q, want %q", got, tc.want)
			}
		})
	}
}
