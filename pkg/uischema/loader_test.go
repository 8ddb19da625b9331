package uischema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/uischema"
)

func loadStore(t *testing.T, dir string) *uischema.Store {
	t.Helper()
	store, err := uischema.LoadFS(os.DirFS(filepath.Join("testdata", dir)))
	if err != nil {
		t.Fatalf("load %s: %v", dir, err)
	}
	return store
}

func TestLoadFS_WalksNestedDocuments(t *testing.T) {
	store := loadStore(t, "overlays")

	if diff := cmp.Diff([]string{"*", "signup"}, store.Forms()); diff != "" {
		t.Fatalf("forms (-want +got):\n%s", diff)
	}

	signup, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup overlay missing")
	}
	if signup.Title != "Course Signup" {
		t.Fatalf("title = %q", signup.Title)
	}
	if diff := cmp.Diff([]string{"terms"}, signup.Sections["2"].FieldOrder); diff != "" {
		t.Fatalf("field order (-want +got):\n%s", diff)
	}
	if got := signup.Fields["email"].Required; got == nil || !*got {
		t.Fatalf("email required override not parsed: %v", got)
	}

	other, ok := store.Form("feedback")
	if !ok || other.ID != "*" {
		t.Fatalf("expected wildcard fallback, got %+v %v", other, ok)
	}
	if other.Fields["terms"].DataTestID != "accept-terms" {
		t.Fatalf("wildcard field = %+v", other.Fields["terms"])
	}
}

func TestLoadFS_Errors(t *testing.T) {
	if _, err := uischema.LoadFS(os.DirFS(filepath.Join("testdata", "duplicate"))); err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	cases := map[string]string{
		"empty id":       "forms:\n  \" \":\n    title: x\n",
		"empty file":     "   \n",
		"repeated order": "forms:\n  f:\n    sections:\n      s:\n        fieldOrder: [a, a]\n",
		"bad yaml":       "forms: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"overlay.yaml": &fstest.MapFile{Data: []byte(doc)}}
			if _, err := uischema.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
	if _, ok := store.Form("signup"); ok {
		t.Fatalf("empty store returned an overlay")
	}
}

func TestLoad_SingleFile(t *testing.T) {
	store, err := uischema.Load(filepath.Join("testdata", "overlays", "signup.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"signup"}, store.Forms()); diff != "" {
		t.Fatalf("forms (-want +got):\n%s", diff)
	}

	if _, err := uischema.Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
