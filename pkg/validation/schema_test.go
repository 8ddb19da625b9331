package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestValidateSchema_Valid(t *testing.T) {
	schema := model.FormSchema{
		Title: "Signup",
		Sections: []model.Section{
			{SectionID: "1", Title: "About you", Fields: []model.Field{
				{FieldID: "name", Type: model.FieldTypeText, MinLength: intPtr(1), MaxLength: intPtr(20)},
				{FieldID: "plan", Type: model.FieldTypeDropdown, Options: []model.Option{{Value: "free"}, {Value: "pro"}}},
			}},
		},
	}
	result := ValidateSchema(schema)
	if !result.Valid {
		t.Fatalf("expected schema to be valid: %#v", result.Issues)
	}
	if err := CheckSchema(schema); err != nil {
		t.Fatalf("check schema: %v", err)
	}
}

func TestValidateSchema_NoSections(t *testing.T) {
	result := ValidateSchema(model.FormSchema{Title: "Empty"})
	if result.Valid {
		t.Fatalf("expected schema without sections to be invalid")
	}
	if len(result.Issues) != 1 || result.Issues[0].Path != "sections" {
		t.Fatalf("unexpected issues: %#v", result.Issues)
	}
}

func TestValidateSchema_Issues(t *testing.T) {
	schema := model.FormSchema{
		Sections: []model.Section{
			{SectionID: "1", Title: "One", Fields: []model.Field{
				{FieldID: "name", Type: model.FieldTypeText},
				{FieldID: "", Type: model.FieldTypeText},
				{FieldID: "color", Type: model.FieldTypeRadio},
				{FieldID: "size", Type: model.FieldTypeDropdown, Options: []model.Option{{Value: "s"}, {Value: "s"}}},
			}},
			{SectionID: "1", Fields: []model.Field{
				{FieldID: "name", Type: model.FieldTypeEmail},
				{FieldID: "sig", Type: "signature"},
				{FieldID: "agree", Type: model.FieldTypeCheckbox, MaxLength: intPtr(2)},
				{FieldID: "code", Type: model.FieldTypeText, MinLength: intPtr(5), MaxLength: intPtr(2)},
			}},
		},
	}

	result := ValidateSchema(schema)
	if result.Valid {
		t.Fatalf("expected invalid schema")
	}

	type brief struct {
		Severity Severity
		Field    string
	}
	var got []brief
	for _, issue := range result.Issues {
		got = append(got, brief{Severity: issue.Severity, Field: issue.Field})
	}
	want := []brief{
		{SeverityError, ""},
		{SeverityWarning, "color"},
		{SeverityWarning, "size"},
		{SeverityError, ""},
		{SeverityWarning, ""},
		{SeverityError, "name"},
		{SeverityWarning, "sig"},
		{SeverityWarning, "agree"},
		{SeverityWarning, "code"},
	}
	less := func(a, b brief) bool {
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Field < b.Field
	}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(less)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	err := CheckSchema(schema)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	for _, issue := range schemaErr.Issues {
		if issue.Severity != SeverityError {
			t.Fatalf("schema error should only carry errors, got %v", issue)
		}
	}
	if !strings.Contains(err.Error(), `duplicate fieldId "name"`) {
		t.Fatalf("error text missing duplicate field: %v", err)
	}
}

func TestCheckSchema_ToleratesFieldLevelProblems(t *testing.T) {
	schema := model.FormSchema{
		Sections: []model.Section{
			{SectionID: "1", Title: "One", Fields: []model.Field{
				{FieldID: "note", Type: model.FieldTypeText},
				{FieldID: "plan", Type: model.FieldTypeDropdown},
				{FieldID: "size", Type: model.FieldTypeRadio, Options: []model.Option{{Value: "s"}, {Value: "s"}}},
				{FieldID: "code", Type: model.FieldTypeText, MinLength: intPtr(5), MaxLength: intPtr(2)},
			}},
		},
	}

	if err := CheckSchema(schema); err != nil {
		t.Fatalf("field-level problems must not reject the schema: %v", err)
	}
	result := ValidateSchema(schema)
	if !result.Valid || len(result.Issues) != 3 {
		t.Fatalf("expected three warnings, got %#v", result.Issues)
	}
	for _, issue := range result.Issues {
		if issue.Severity != SeverityWarning {
			t.Fatalf("expected warning, got %v", issue)
		}
	}
}
