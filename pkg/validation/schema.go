package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Severity grades a schema issue. Errors make a schema unusable; warnings
// flag content the wizard tolerates but probably did not intend.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// SchemaIssue represents a structural problem with optional location metadata.
type SchemaIssue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i SchemaIssue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// SchemaValidationResult captures lint outcomes for a form schema.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Errors returns only the error-level issues.
func (r SchemaValidationResult) Errors() []SchemaIssue {
	var out []SchemaIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// SchemaError wraps the error-level issues of a rejected schema.
type SchemaError struct {
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return "validation: invalid form schema"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "validation: invalid form schema: " + strings.Join(parts, "; ")
}

// CheckSchema returns a *SchemaError when ValidateSchema reports any
// error-level issue.
func CheckSchema(schema model.FormSchema) error {
	result := ValidateSchema(schema)
	if result.Valid {
		return nil
	}
	return &SchemaError{Issues: result.Errors()}
}

// ValidateSchema checks a form schema for structural problems the wizard
// cannot run with (no sections, duplicate or empty ids) and warns about
// content it renders anyway: choice fields without options or with repeated
// values, unusable length bounds, unsupported field types, empty sections.
func ValidateSchema(schema model.FormSchema) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}
	report := func(severity Severity, path, field, format string, args ...any) {
		if severity == SeverityError {
			result.Valid = false
		}
		result.Issues = append(result.Issues, SchemaIssue{
			Severity: severity,
			Path:     path,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if len(schema.Sections) == 0 {
		report(SeverityError, "sections", "", "form has no sections")
		return result
	}

	sectionIDs := make(map[model.SectionID]int, len(schema.Sections))
	fieldIDs := make(map[string]string)

	for si, section := range schema.Sections {
		sectionPath := fmt.Sprintf("sections[%d]", si)
		if section.SectionID != "" {
			if prev, dup := sectionIDs[section.SectionID]; dup {
				report(SeverityError, sectionPath, "", "duplicate sectionId %q (first used by sections[%d])", section.SectionID, prev)
			} else {
				sectionIDs[section.SectionID] = si
			}
		}
		if strings.TrimSpace(section.Title) == "" {
			report(SeverityWarning, sectionPath, "", "section has no title")
		}
		if len(section.Fields) == 0 {
			report(SeverityWarning, sectionPath, "", "section has no fields")
		}

		for fi, field := range section.Fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", sectionPath, fi)
			if strings.TrimSpace(field.FieldID) == "" {
				report(SeverityError, fieldPath, "", "fieldId is required")
				continue
			}
			if prev, dup := fieldIDs[field.FieldID]; dup {
				report(SeverityError, fieldPath, field.FieldID, "duplicate fieldId %q (first used at %s)", field.FieldID, prev)
			} else {
				fieldIDs[field.FieldID] = fieldPath
			}
			checkField(field, fieldPath, report)
		}
	}

	return result
}

func checkField(field model.Field, path string, report func(Severity, string, string, string, ...any)) {
	kind := field.Kind()
	if kind == model.KindUnknown {
		report(SeverityWarning, path, field.FieldID, "unsupported field type %q", field.Type)
		return
	}

	if kind.HasOptions() {
		if len(field.Options) == 0 {
			report(SeverityWarning, path, field.FieldID, "%s field has no options", kind)
		}
		seen := make(map[string]struct{}, len(field.Options))
		for _, option := range field.Options {
			if _, dup := seen[option.Value]; dup {
				report(SeverityWarning, path, field.FieldID, "duplicate option value %q", option.Value)
				continue
			}
			seen[option.Value] = struct{}{}
		}
	} else if len(field.Options) > 0 {
		report(SeverityWarning, path, field.FieldID, "options are ignored for %s fields", kind)
	}

	if field.MinLength == nil && field.MaxLength == nil {
		return
	}
	if !kind.TextLike() {
		report(SeverityWarning, path, field.FieldID, "length constraints on %s fields apply to the stored value, not the control", kind)
		return
	}
	if field.MinLength != nil && *field.MinLength < 0 {
		report(SeverityWarning, path, field.FieldID, "minLength must not be negative")
	}
	if field.MaxLength != nil && *field.MaxLength < 0 {
		report(SeverityWarning, path, field.FieldID, "maxLength must not be negative")
	}
	if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
		report(SeverityWarning, path, field.FieldID, "minLength %d exceeds maxLength %d", *field.MinLength, *field.MaxLength)
	}
}
