package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

func intPtr(n int) *int { return &n }

// SignupForm returns the two-section form used across package tests:
// "About you" (name, email) and "Preferences" (track, terms).
func SignupForm() model.FormSchema {
	return model.FormSchema{
		FormID: "signup",
		Title:  "Student Signup",
		Sections: []model.Section{
			{
				SectionID:   "1",
				Title:       "About you",
				Description: "Tell us who you are.",
				Fields: []model.Field{
					{
						FieldID:     "name",
						Type:        model.FieldTypeText,
						Label:       "Full name",
						Placeholder: "Ada Lovelace",
						Required:    true,
						MinLength:   intPtr(2),
						MaxLength:   intPtr(60),
					},
					{
						FieldID:    "email",
						Type:       model.FieldTypeEmail,
						Label:      "Email",
						DataTestID: "email-input",
					},
				},
			},
			{
				SectionID: "2",
				Title:     "Preferences",
				Fields: []model.Field{
					{
						FieldID:  "track",
						Type:     model.FieldTypeDropdown,
						Label:    "Track",
						Required: true,
						Options: []model.Option{
							{Value: "backend", Label: "Backend"},
							{Value: "frontend", Label: "Frontend"},
						},
					},
					{
						FieldID:  "terms",
						Type:     model.FieldTypeCheckbox,
						Label:    "I accept the terms",
						Required: true,
					},
				},
			},
		},
	}
}

// LoadForm decodes a JSON, YAML or TOML fixture into a FormSchema.
func LoadForm(t *testing.T, path string) model.FormSchema {
	t.Helper()

	form, err := LoadFormFromPath(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadFormFromPath is LoadForm for callers without a *testing.T.
func LoadFormFromPath(path string) (model.FormSchema, error) {
	if path == "" {
		return model.FormSchema{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.Decode(doc)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written and the test should stop.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// GatedProvider blocks every fetch until Release is called, so tests can
// interleave a pending load with other events.
type GatedProvider struct {
	Form model.FormSchema
	Err  error

	once    sync.Once
	gate    chan struct{}
	started chan struct{}
}

var _ provider.Provider = (*GatedProvider)(nil)

// NewGatedProvider returns a provider that yields form (or err) once
// released.
func NewGatedProvider(form model.FormSchema, err error) *GatedProvider {
	return &GatedProvider{
		Form:    form,
		Err:     err,
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
}

// FetchSchema waits for Release or ctx cancellation.
func (p *GatedProvider) FetchSchema(ctx context.Context, _ provider.Identity) (*model.FormSchema, error) {
	select {
	case p.started <- struct{}{}:
	default:
	}
	select {
	case <-p.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.Err != nil {
		return nil, p.Err
	}
	form := p.Form.Clone()
	return &form, nil
}

// Started is signalled when a fetch begins waiting.
func (p *GatedProvider) Started() <-chan struct{} {
	return p.started
}

// Release unblocks pending and future fetches.
func (p *GatedProvider) Release() {
	p.once.Do(func() { close(p.gate) })
}
