package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/uischema"
)

func fieldIDs(section model.Section) []string {
	ids := make([]string, 0, len(section.Fields))
	for _, field := range section.Fields {
		ids = append(ids, field.FieldID)
	}
	return ids
}

func TestDecorator_AppliesFormOverlay(t *testing.T) {
	form := testsupport.SignupForm()
	if err := uischema.NewDecorator(loadStore(t, "overlays")).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if form.Title != "Course Signup" {
		t.Fatalf("title = %q", form.Title)
	}
	name, _ := form.FieldByID("name")
	if msg, _ := name.CustomMessage(); name.Label != "Your name" || msg != "Tell us your name" {
		t.Fatalf("name overlay not applied: %+v", name)
	}
	email, _ := form.FieldByID("email")
	if !email.Required {
		t.Fatalf("email should be required")
	}
	if form.Sections[1].Description != "Pick a track and accept the terms." {
		t.Fatalf("description = %q", form.Sections[1].Description)
	}
	if diff := cmp.Diff([]string{"terms", "track"}, fieldIDs(form.Sections[1])); diff != "" {
		t.Fatalf("field order (-want +got):\n%s", diff)
	}
	// the wildcard entry is not merged into forms with their own overlay
	terms, _ := form.FieldByID("terms")
	if terms.DataTestID != "" {
		t.Fatalf("wildcard leaked into signup: %q", terms.DataTestID)
	}
}

func TestDecorator_WildcardToleratesMissingFields(t *testing.T) {
	form := testsupport.SignupForm()
	form.FormID = "feedback"

	if err := uischema.NewDecorator(loadStore(t, "overlays")).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	terms, _ := form.FieldByID("terms")
	if terms.DataTestID != "accept-terms" {
		t.Fatalf("data test id = %q", terms.DataTestID)
	}
}

func TestDecorator_UnknownReferences(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"field":       {"forms:\n  signup:\n    fields:\n      phone:\n        label: Phone\n", `unknown field "phone"`},
		"section":     {"forms:\n  signup:\n    sections:\n      \"9\":\n        title: Nine\n", `unknown section "9"`},
		"field order": {"forms:\n  signup:\n    sections:\n      \"1\":\n        fieldOrder: [phone]\n", `unknown field "phone"`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store, err := uischema.LoadFS(fstest.MapFS{"o.yaml": &fstest.MapFile{Data: []byte(tc.doc)}})
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			form := testsupport.SignupForm()
			err = uischema.NewDecorator(store).Decorate(&form)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDecorator_NoOverlayLeavesFormUntouched(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{"o.yaml": &fstest.MapFile{Data: []byte("forms:\n  other:\n    title: Other\n")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	form := testsupport.SignupForm()
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if diff := cmp.Diff(testsupport.SignupForm(), form); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}
}
