package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldType is the raw type tag carried by a schema field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTel      FieldType = "tel"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Kind is the closed set of field variants renderers and validators switch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindTel
	KindEmail
	KindTextarea
	KindDate
	KindDropdown
	KindRadio
	KindCheckbox
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindText:     string(FieldTypeText),
	KindTel:      string(FieldTypeTel),
	KindEmail:    string(FieldTypeEmail),
	KindTextarea: string(FieldTypeTextarea),
	KindDate:     string(FieldTypeDate),
	KindDropdown: string(FieldTypeDropdown),
	KindRadio:    string(FieldTypeRadio),
	KindCheckbox: string(FieldTypeCheckbox),
}

// Kind resolves the type tag into its variant. Tags are matched case
// insensitively; anything unrecognised maps to KindUnknown.
func (t FieldType) Kind() Kind {
	switch FieldType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case FieldTypeText:
		return KindText
	case FieldTypeTel:
		return KindTel
	case FieldTypeEmail:
		return KindEmail
	case FieldTypeTextarea:
		return KindTextarea
	case FieldTypeDate:
		return KindDate
	case FieldTypeDropdown:
		return KindDropdown
	case FieldTypeRadio:
		return KindRadio
	case FieldTypeCheckbox:
		return KindCheckbox
	default:
		return KindUnknown
	}
}

// Known reports whether the tag maps onto a supported variant.
func (t FieldType) Known() bool {
	return t.Kind() != KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// TextLike reports whether values of this kind are free-form strings subject
// to length constraints.
func (k Kind) TextLike() bool {
	switch k {
	case KindText, KindTel, KindEmail, KindTextarea, KindDate:
		return true
	}
	return false
}

// HasOptions reports whether the kind renders a fixed option list.
func (k Kind) HasOptions() bool {
	return k == KindDropdown || k == KindRadio
}

// Option is one choice of a dropdown or radio field.
type Option struct {
	Value      string `json:"value" yaml:"value" toml:"value"`
	Label      string `json:"label" yaml:"label" toml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty" toml:"dataTestId,omitempty"`
}

// FieldValidation overrides the message reported by any failing rule.
type FieldValidation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
}

// Field describes a single input inside a section.
type Field struct {
	FieldID     string           `json:"fieldId" yaml:"fieldId" toml:"fieldId"`
	Type        FieldType        `json:"type" yaml:"type" toml:"type"`
	Label       string           `json:"label" yaml:"label" toml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Required    bool             `json:"required" yaml:"required" toml:"required"`
	DataTestID  string           `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty" toml:"dataTestId,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty" toml:"validation,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	MinLength   *int             `json:"minLength,omitempty" yaml:"minLength,omitempty" toml:"minLength,omitempty"`
	MaxLength   *int             `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
}

// Kind is shorthand for f.Type.Kind().
func (f Field) Kind() Kind {
	return f.Type.Kind()
}

// CustomMessage returns the schema-provided error override, if any.
func (f Field) CustomMessage() (string, bool) {
	if f.Validation == nil || f.Validation.Message == "" {
		return "", false
	}
	return f.Validation.Message, true
}

// SectionID identifies a section. The remote API emits numeric ids while
// file-based schemas tend to use strings, so both decode into the same type.
type SectionID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *SectionID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SectionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = SectionID(n.String())
	return nil
}

// Int returns the numeric form of the id when it has one.
func (id SectionID) Int() (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Section is one wizard step: a titled group of fields validated together.
type Section struct {
	SectionID   SectionID `json:"sectionId" yaml:"sectionId" toml:"sectionId"`
	Title       string    `json:"title" yaml:"title" toml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Fields      []Field   `json:"fields" yaml:"fields" toml:"fields"`
}

// FormSchema is the server-described form. It is treated as immutable once
// loaded; use Clone before handing it to code that may mutate it.
type FormSchema struct {
	FormID   string    `json:"formId,omitempty" yaml:"formId,omitempty" toml:"formId,omitempty"`
	Title    string    `json:"formTitle" yaml:"formTitle" toml:"formTitle"`
	Version  string    `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Sections []Section `json:"sections" yaml:"sections" toml:"sections"`
}

// FormResponse is the envelope returned by the form API.
type FormResponse struct {
	Message string     `json:"message,omitempty"`
	Form    FormSchema `json:"form"`
}

// LastIndex returns the index of the final section, or -1 for an empty form.
func (s FormSchema) LastIndex() int {
	return len(s.Sections) - 1
}

// Section returns the section at index i.
func (s FormSchema) Section(i int) (Section, bool) {
	if i < 0 || i >= len(s.Sections) {
		return Section{}, false
	}
	return s.Sections[i], true
}

// FieldByID looks a field up across every section.
func (s FormSchema) FieldByID(fieldID string) (Field, bool) {
	for _, section := range s.Sections {
		if field, ok := section.FieldByID(fieldID); ok {
			return field, true
		}
	}
	return Field{}, false
}

// SectionIndexOf returns the index of the section owning fieldID.
func (s FormSchema) SectionIndexOf(fieldID string) int {
	for i, section := range s.Sections {
		if _, ok := section.FieldByID(fieldID); ok {
			return i
		}
	}
	return -1
}

// FieldByID looks a field up within the section.
func (s Section) FieldByID(fieldID string) (Field, bool) {
	for _, field := range s.Fields {
		if field.FieldID == fieldID {
			return field, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy of the schema.
func (s FormSchema) Clone() FormSchema {
	out := s
	if s.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		out.Sections[i] = section.Clone()
	}
	return out
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	if s.Fields == nil {
		return out
	}
	out.Fields = make([]Field, len(s.Fields))
	for i, field := range s.Fields {
		out.Fields[i] = field.Clone()
	}
	return out
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		out.Validation = &v
	}
	if f.MinLength != nil {
		n := *f.MinLength
		out.MinLength = &n
	}
	if f.MaxLength != nil {
		n := *f.MaxLength
		out.MaxLength = &n
	}
	return out
}
