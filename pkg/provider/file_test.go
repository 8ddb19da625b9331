package provider

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

func TestFSProvider_PerUserDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/R1.yaml": {Data: []byte("formTitle: One\nsections:\n  - sectionId: a\n    title: A\n    fields: []\n")},
		"forms/R2.toml": {Data: []byte("formTitle = \"Two\"\n")},
	}
	loader := schema.NewLoader(schema.LoaderOptions{FileSystem: fsys})

	p := NewFSProvider(loader, "forms/"+RollNumberPlaceholder+".yaml")
	form, err := p.FetchSchema(context.Background(), Identity{RollNumber: "R1"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if form.Title != "One" || form.Sections[0].SectionID != model.SectionID("a") {
		t.Fatalf("unexpected form: %+v", form)
	}

	if _, err := p.FetchSchema(context.Background(), Identity{RollNumber: "R9"}); !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch for missing document, got %v", err)
	}

	toml := NewFSProvider(loader, "forms/R2.toml")
	form, err = toml.FetchSchema(context.Background(), Identity{})
	if err != nil || form.Title != "Two" {
		t.Fatalf("toml fetch = %+v, %v", form, err)
	}
}

func TestFSProvider_DecodeError(t *testing.T) {
	fsys := fstest.MapFS{"bad.json": {Data: []byte(`{"form": [`)}}
	p := NewFSProvider(schema.NewLoader(schema.LoaderOptions{FileSystem: fsys}), "bad.json")
	if _, err := p.FetchSchema(context.Background(), Identity{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestFileProvider_Location(t *testing.T) {
	p := NewFileProvider(schema.NewLoader(schema.LoaderOptions{}), "forms/"+RollNumberPlaceholder+".json")
	if got := p.Location(Identity{RollNumber: " R7 "}); got != "forms/R7.json" {
		t.Fatalf("location = %q", got)
	}
}

func TestDecorate(t *testing.T) {
	base := Static(model.FormSchema{FormID: "signup", Title: "Signup"})
	retitle := model.DecoratorFunc(func(form *model.FormSchema) error {
		form.Title = "Renamed"
		return nil
	})

	form, err := Decorate(base, retitle, nil).FetchSchema(context.Background(), Identity{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if form.Title != "Renamed" {
		t.Fatalf("title = %q", form.Title)
	}

	failing := model.DecoratorFunc(func(*model.FormSchema) error {
		return errors.New("overlay mismatch")
	})
	if _, err := Decorate(base, failing).FetchSchema(context.Background(), Identity{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
