package model

// FormValues maps fieldId to the collected value. Values are string for
// text-like, date, dropdown and radio fields, bool for checkboxes, and
// []string for multi-value fields. Absent keys are distinct from "".
type FormValues map[string]any

// ErrorMap maps fieldId to its active validation message. Key presence is the
// only "has error" signal.
type ErrorMap map[string]string

// Clone returns a copy that shares no slices with the receiver.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for key, value := range v {
		switch typed := value.(type) {
		case []string:
			out[key] = append([]string(nil), typed...)
		case []any:
			out[key] = append([]any(nil), typed...)
		default:
			out[key] = value
		}
	}
	return out
}

// Clone returns a copy of the error map.
func (e ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(e))
	for key, msg := range e {
		out[key] = msg
	}
	return out
}

// Has reports whether fieldID currently has an error.
func (e ErrorMap) Has(fieldID string) bool {
	_, ok := e[fieldID]
	return ok
}

// DefaultValue is the value shown for a field with no entry in FormValues:
// false for checkboxes, "" for everything else.
func DefaultValue(field Field) any {
	if field.Kind() == KindCheckbox {
		return false
	}
	return ""
}

// EffectiveValue returns values[field.FieldID] or the field's default.
func EffectiveValue(field Field, values FormValues) any {
	if value, ok := values[field.FieldID]; ok && value != nil {
		return value
	}
	return DefaultValue(field)
}
