package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func loadFixture(t *testing.T, name string) model.FormSchema {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	form, err := Decode(MustNewDocument(SourceFromFile(path), data))
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return form
}

func TestDecode_FormatsAgree(t *testing.T) {
	fromJSON := loadFixture(t, "signup.json")
	if fromJSON.Title != "Student Signup" || len(fromJSON.Sections) != 2 {
		t.Fatalf("unexpected json form: %+v", fromJSON)
	}
	if fromJSON.Sections[0].SectionID != "1" {
		t.Fatalf("numeric section id decoded as %q", fromJSON.Sections[0].SectionID)
	}

	for _, name := range []string{"signup.yaml", "signup.toml"} {
		got := loadFixture(t, name)
		if diff := cmp.Diff(fromJSON, got); diff != "" {
			t.Fatalf("%s differs from json (-json +%s):\n%s", name, name, diff)
		}
	}
}

func TestDecode_BareJSON(t *testing.T) {
	raw := []byte(`{"formTitle":"Bare","sections":[{"sectionId":"a","title":"A","fields":[]}]}`)
	form, err := Decode(MustNewDocument(SourceFromFS("bare.json"), raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if form.Title != "Bare" || form.Sections[0].SectionID != "a" {
		t.Fatalf("unexpected form: %+v", form)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode(MustNewDocument(SourceFromFS("broken.json"), []byte(`{"form":`))); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := NewDocument(SourceFromFS("empty.json"), nil); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestFormatFromLocation(t *testing.T) {
	cases := map[string]Format{
		"form.json":                      FormatJSON,
		"form.YML":                       FormatYAML,
		"dir/form.yaml":                  FormatYAML,
		"form.toml":                      FormatTOML,
		"https://api.test/get-form?x=1":  FormatJSON,
		"https://cdn.test/form.yaml?v=2": FormatYAML,
		"no-extension":                   FormatJSON,
	}
	for location, want := range cases {
		if got := FormatFromLocation(location); got != want {
			t.Fatalf("FormatFromLocation(%q) = %q, want %q", location, got, want)
		}
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("https://example.test/form.json")
	if err != nil || src.Kind() != SourceKindURL {
		t.Fatalf("url source = %v, %v", src, err)
	}
	src, err = ParseSource("./forms/../forms/a.yaml")
	if err != nil || src.Kind() != SourceKindFile || src.Location() != "forms/a.yaml" {
		t.Fatalf("file source = %v, %v", src, err)
	}
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
	if _, err := SourceFromURL("ftp://example.test/form.json"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestLoader_FSAndHTTP(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{"forms/a.yaml": {Data: []byte("formTitle: A\nsections: []\n")}}

	loader := NewLoader(LoaderOptions{FileSystem: fsys})
	doc, err := loader.Load(ctx, SourceFromFS("forms/a.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.Format() != FormatYAML {
		t.Fatalf("format = %q", doc.Format())
	}

	if _, err := loader.Load(ctx, mustURL(t, "https://example.test/a.json")); err == nil {
		t.Fatalf("expected http to be disabled")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"formTitle":"Remote","sections":[]}`))
	}))
	defer srv.Close()

	httpLoader := NewLoader(LoaderOptions{HTTPClient: srv.Client()})
	doc, err = httpLoader.Load(ctx, mustURL(t, srv.URL+"/form.json"))
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	form, err := Decode(doc)
	if err != nil || form.Title != "Remote" {
		t.Fatalf("decode http: %+v, %v", form, err)
	}
	if _, err := httpLoader.Load(ctx, mustURL(t, srv.URL+"/missing.json")); err == nil {
		t.Fatalf("expected status error")
	}
}

func mustURL(t *testing.T, raw string) Source {
	t.Helper()
	src, err := SourceFromURL(raw)
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	return src
}
