package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// DefaultRequiredMessage is reported by the required rule when the field has
// no custom message.
const DefaultRequiredMessage = "This field is required"

// MinLengthMessage is the default minLength failure text.
func MinLengthMessage(n int) string {
	return fmt.Sprintf("Minimum %d characters required", n)
}

// MaxLengthMessage is the default maxLength failure text.
func MaxLengthMessage(n int) string {
	return fmt.Sprintf("Maximum %d characters allowed", n)
}

// rule inspects a single value and returns the default failure message when
// the value violates it.
type rule func(field model.Field, value any) (string, bool)

// rules run in order; the first failure wins and later rules are skipped.
var rules = []rule{
	requiredRule,
	minLengthRule,
	maxLengthRule,
}

// ValidateField runs the rule chain for one field. A nil value means the field
// is absent from the form values. It returns the failure message and false
// when a rule fails, or "" and true otherwise. Fields of unsupported types
// match no rule and always pass.
func ValidateField(field model.Field, value any) (string, bool) {
	if field.Kind() == model.KindUnknown {
		return "", true
	}
	for _, check := range rules {
		msg, failed := check(field, value)
		if !failed {
			continue
		}
		if custom, ok := field.CustomMessage(); ok {
			return custom, false
		}
		return msg, false
	}
	return "", true
}

// ValidateSection validates every field of the section in declaration order
// and returns a fresh ErrorMap holding only this section's failures.
func ValidateSection(section model.Section, values model.FormValues) (model.ErrorMap, bool) {
	errs := make(model.ErrorMap)
	for _, field := range section.Fields {
		if msg, ok := ValidateField(field, values[field.FieldID]); !ok {
			errs[field.FieldID] = msg
		}
	}
	return errs, len(errs) == 0
}

func requiredRule(field model.Field, value any) (string, bool) {
	if !field.Required {
		return "", false
	}
	return DefaultRequiredMessage, IsEmpty(value)
}

// Lengths count Unicode code points, so an emoji is one character even
// where a browser counter would report two.
func minLengthRule(field model.Field, value any) (string, bool) {
	if field.MinLength == nil {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	n := *field.MinLength
	return MinLengthMessage(n), utf8.RuneCountInString(s) < n
}

func maxLengthRule(field model.Field, value any) (string, bool) {
	if field.MaxLength == nil {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	n := *field.MaxLength
	return MaxLengthMessage(n), utf8.RuneCountInString(s) > n
}

// IsEmpty reports whether a value counts as missing for the required rule:
// absent, the empty string, or an empty collection. Any bool, false
// included, is a value.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}
