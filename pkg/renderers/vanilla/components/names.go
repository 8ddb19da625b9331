package components

import "github.com/goliatone/go-formwizard/pkg/model"

// Component names registered by NewDefaultRegistry.
const (
	NameInput       = "input"
	NameTextarea    = "textarea"
	NameSelect      = "select"
	NameRadio       = "radio"
	NameCheckbox    = "checkbox"
	NameUnsupported = "unsupported"
)

// ForKind maps a field kind onto its default component.
func ForKind(kind model.Kind) string {
	switch kind {
	case model.KindText, model.KindTel, model.KindEmail, model.KindDate:
		return NameInput
	case model.KindTextarea:
		return NameTextarea
	case model.KindDropdown:
		return NameSelect
	case model.KindRadio:
		return NameRadio
	case model.KindCheckbox:
		return NameCheckbox
	default:
		return NameUnsupported
	}
}
