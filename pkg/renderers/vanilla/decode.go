package vanilla

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Change is one field edit recovered from a posted form.
type Change struct {
	FieldID string
	Value   any
}

// DecodeChanges compares a posted section form with the current values and
// returns the fields the user actually edited, in declaration order. Browsers
// omit unchecked checkboxes, so a missing checkbox reads as false; other
// missing controls (an unselected radio group) are left alone. Unsupported
// fields never produce changes.
func DecodeChanges(section model.Section, current model.FormValues, form url.Values) []Change {
	var changes []Change
	for _, field := range section.Fields {
		var next any
		switch kind := field.Kind(); {
		case kind == model.KindCheckbox:
			next = checkboxValue(form.Get(field.FieldID))
		case kind == model.KindUnknown:
			continue
		default:
			if _, posted := form[field.FieldID]; !posted {
				continue
			}
			next = form.Get(field.FieldID)
		}
		if sameValue(next, model.EffectiveValue(field, current)) {
			continue
		}
		changes = append(changes, Change{FieldID: field.FieldID, Value: next})
	}
	return changes
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

func sameValue(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}
