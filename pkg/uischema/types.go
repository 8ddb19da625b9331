package uischema

import "sort"

// WildcardForm keys an overlay applied to forms without their own entry.
const WildcardForm = "*"

// Store keeps the parsed overlays keyed by form id. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms map[string]FormOverlay
}

// FormOverlay describes the overrides for one form.
type FormOverlay struct {
	ID       string
	Source   string
	Title    string
	Sections map[string]SectionOverlay
	Fields   map[string]FieldOverlay
}

// SectionOverlay overrides section copy. FieldOrder lists field ids that
// move to the front of the section in that order; unlisted fields keep
// their relative order after them.
type SectionOverlay struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	FieldOrder  []string `json:"fieldOrder,omitempty" yaml:"fieldOrder,omitempty"`
}

// FieldOverlay overrides field presentation and the custom error message.
type FieldOverlay struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DataTestID  string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Required    *bool  `json:"required,omitempty" yaml:"required,omitempty"`
}

// Form returns the overlay for id, falling back to the wildcard entry.
func (s *Store) Form(id string) (FormOverlay, bool) {
	if s == nil {
		return FormOverlay{}, false
	}
	if overlay, ok := s.forms[id]; ok {
		return overlay, true
	}
	overlay, ok := s.forms[WildcardForm]
	return overlay, ok
}

// Empty reports whether the store holds no overlays.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Forms returns the sorted form ids with overlays.
func (s *Store) Forms() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
