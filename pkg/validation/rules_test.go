package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func intPtr(n int) *int { return &n }

func TestValidateField_Required(t *testing.T) {
	field := model.Field{FieldID: "name", Type: model.FieldTypeText, Required: true}

	cases := []struct {
		name  string
		value any
		ok    bool
	}{
		{name: "absent", value: nil, ok: false},
		{name: "empty string", value: "", ok: false},
		{name: "empty collection", value: []string{}, ok: false},
		{name: "empty any collection", value: []any{}, ok: false},
		{name: "whitespace counts as a value", value: " ", ok: true},
		{name: "value", value: "Ada", ok: true},
		{name: "collection", value: []string{"a"}, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := ValidateField(field, tc.value)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v (msg %q)", ok, tc.ok, msg)
			}
			if !ok && msg != DefaultRequiredMessage {
				t.Fatalf("message = %q, want %q", msg, DefaultRequiredMessage)
			}
		})
	}
}

func TestValidateField_CustomMessageOverridesEveryRule(t *testing.T) {
	field := model.Field{
		FieldID:    "code",
		Type:       model.FieldTypeText,
		Required:   true,
		MinLength:  intPtr(3),
		MaxLength:  intPtr(5),
		Validation: &model.FieldValidation{Message: "Enter a 3 to 5 character code"},
	}
	for _, value := range []any{nil, "ab", "abcdef"} {
		msg, ok := ValidateField(field, value)
		if ok {
			t.Fatalf("value %v: expected failure", value)
		}
		if msg != "Enter a 3 to 5 character code" {
			t.Fatalf("value %v: message = %q", value, msg)
		}
	}
}

func TestValidateField_LengthBoundaries(t *testing.T) {
	field := model.Field{FieldID: "bio", Type: model.FieldTypeTextarea, MinLength: intPtr(3), MaxLength: intPtr(5)}

	cases := []struct {
		value string
		msg   string
	}{
		{value: "ab", msg: "Minimum 3 characters required"},
		{value: "abc"},
		{value: "abcde"},
		{value: "abcdef", msg: "Maximum 5 characters allowed"},
	}
	for _, tc := range cases {
		msg, ok := ValidateField(field, tc.value)
		if tc.msg == "" && !ok {
			t.Fatalf("%q: unexpected failure %q", tc.value, msg)
		}
		if tc.msg != "" && msg != tc.msg {
			t.Fatalf("%q: message = %q, want %q", tc.value, msg, tc.msg)
		}
	}
}

func TestValidateField_LengthCountsCharacters(t *testing.T) {
	field := model.Field{FieldID: "city", Type: model.FieldTypeText, MaxLength: intPtr(6)}
	if msg, ok := ValidateField(field, "Zürich"); !ok {
		t.Fatalf("expected six characters to pass, got %q", msg)
	}
	if msg, ok := ValidateField(field, "🙂🙂🙂🙂🙂🙂"); !ok {
		t.Fatalf("emoji count as one character each, got %q", msg)
	}
}

func TestValidateField_RequiredWinsOverLength(t *testing.T) {
	field := model.Field{FieldID: "name", Type: model.FieldTypeText, Required: true, MinLength: intPtr(2)}
	msg, ok := ValidateField(field, "")
	if ok || msg != DefaultRequiredMessage {
		t.Fatalf("got (%q, %v), want required failure", msg, ok)
	}
}

func TestValidateField_OptionalEmptySkipsMinLength(t *testing.T) {
	field := model.Field{FieldID: "nick", Type: model.FieldTypeText, MinLength: intPtr(2)}
	if _, ok := ValidateField(field, nil); !ok {
		t.Fatalf("absent optional value should not be length checked")
	}
	if msg, ok := ValidateField(field, ""); ok || msg != MinLengthMessage(2) {
		t.Fatalf("empty string is a string value and is length checked, got (%q, %v)", msg, ok)
	}
}

func TestValidateField_LengthIgnoresNonStrings(t *testing.T) {
	field := model.Field{FieldID: "tags", Type: model.FieldTypeText, MinLength: intPtr(3)}
	if _, ok := ValidateField(field, []string{"a"}); !ok {
		t.Fatalf("collections are not length checked")
	}
}

func TestValidateField_Checkbox(t *testing.T) {
	field := model.Field{FieldID: "terms", Type: model.FieldTypeCheckbox, Required: true}
	if _, ok := ValidateField(field, nil); ok {
		t.Fatalf("absent required checkbox should fail")
	}
	if msg, ok := ValidateField(field, false); !ok {
		t.Fatalf("an explicit false is a value and should pass, got %q", msg)
	}
	if _, ok := ValidateField(field, true); !ok {
		t.Fatalf("checked required checkbox should pass")
	}

	optional := model.Field{FieldID: "news", Type: model.FieldTypeCheckbox}
	if _, ok := ValidateField(optional, false); !ok {
		t.Fatalf("optional checkbox should pass when unchecked")
	}
}

func TestValidateField_UnknownTypeNeverChecked(t *testing.T) {
	field := model.Field{FieldID: "sig", Type: "signature", Required: true}
	if msg, ok := ValidateField(field, nil); !ok {
		t.Fatalf("unknown type should pass, got %q", msg)
	}
}

func TestValidateSection_DeclarationOrderAndFreshMap(t *testing.T) {
	section := model.Section{
		SectionID: "1",
		Fields: []model.Field{
			{FieldID: "name", Type: model.FieldTypeText, Required: true},
			{FieldID: "email", Type: model.FieldTypeEmail, Required: true, Validation: &model.FieldValidation{Message: "Email please"}},
			{FieldID: "phone", Type: model.FieldTypeTel, MaxLength: intPtr(4)},
			{FieldID: "note", Type: model.FieldTypeTextarea},
		},
	}
	values := model.FormValues{"phone": "12345", "note": "hi", "other": ""}

	errs, ok := ValidateSection(section, values)
	if ok {
		t.Fatalf("expected invalid section")
	}
	want := model.ErrorMap{
		"name":  DefaultRequiredMessage,
		"email": "Email please",
		"phone": MaxLengthMessage(4),
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	again, _ := ValidateSection(section, values)
	if diff := cmp.Diff(errs, again); diff != "" {
		t.Fatalf("validation is not idempotent (-first +second):\n%s", diff)
	}
	again["name"] = "mutated"
	if errs["name"] != DefaultRequiredMessage {
		t.Fatalf("each call must return a fresh map")
	}
}

func TestValidateSection_Valid(t *testing.T) {
	section := model.Section{Fields: []model.Field{
		{FieldID: "name", Type: model.FieldTypeText, Required: true},
		{FieldID: "plan", Type: model.FieldTypeRadio, Required: true, Options: []model.Option{{Value: "a", Label: "A"}}},
	}}
	errs, ok := ValidateSection(section, model.FormValues{"name": "Ada", "plan": "a"})
	if !ok || len(errs) != 0 {
		t.Fatalf("expected valid section, got %v", errs)
	}
	if errs == nil {
		t.Fatalf("expected an empty, non-nil map")
	}
}

func TestValidateField_RequiredOnlyRejectsMissingValues(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		value any
		want  bool
	}{
		{"absent", model.Field{FieldID: "a", Type: model.FieldTypeText, Required: true}, nil, false},
		{"empty string", model.Field{FieldID: "a", Type: model.FieldTypeText, Required: true}, "", false},
		{"empty collection", model.Field{FieldID: "a", Type: model.FieldTypeDropdown, Required: true}, []string{}, false},
		{"false checkbox", model.Field{FieldID: "a", Type: model.FieldTypeCheckbox, Required: true}, false, true},
		{"whitespace", model.Field{FieldID: "a", Type: model.FieldTypeText, Required: true}, " ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := ValidateField(tc.field, tc.value); ok != tc.want {
				t.Fatalf("ValidateField(%v) ok = %v, want %v", tc.value, ok, tc.want)
			}
		})
	}
}
