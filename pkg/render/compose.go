package render

import (
	"github.com/goliatone/go-formwizard/pkg/model"
)

// FieldTestID returns the stable test identifier of a field: the schema's
// dataTestId when present, otherwise "field-<fieldId>".
func FieldTestID(field model.Field) string {
	if field.DataTestID != "" {
		return field.DataTestID
	}
	return "field-" + field.FieldID
}

// OptionTestID returns the stable test identifier of an option: its own
// dataTestId when present, otherwise "<fieldTestID>-<value>".
func OptionTestID(field model.Field, option model.Option) string {
	if option.DataTestID != "" {
		return option.DataTestID
	}
	return FieldTestID(field) + "-" + option.Value
}

// ComposeSection builds the display model of every field in the section, in
// declaration order. Each view carries the effective value (the stored value
// or the type default) and the field's own error. It never validates.
func ComposeSection(section model.Section, values model.FormValues, errs model.ErrorMap) []FieldView {
	views := make([]FieldView, 0, len(section.Fields))
	for _, field := range section.Fields {
		views = append(views, ComposeField(field, values, errs))
	}
	return views
}

// ComposeField builds the display model of a single field.
func ComposeField(field model.Field, values model.FormValues, errs model.ErrorMap) FieldView {
	kind := field.Kind()
	view := FieldView{
		ID:          field.FieldID,
		Kind:        kind,
		Type:        field.Type,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Value:       model.EffectiveValue(field, values),
		TestID:      FieldTestID(field),
		InlineLabel: kind == model.KindCheckbox,
		Supported:   kind != model.KindUnknown,
	}
	if msg, ok := errs[field.FieldID]; ok {
		view.Error = msg
		view.HasError = true
	}
	if kind.TextLike() {
		if field.MinLength != nil && *field.MinLength > 0 {
			view.MinLength = *field.MinLength
		}
		if field.MaxLength != nil && *field.MaxLength > 0 {
			view.MaxLength = *field.MaxLength
		}
	}
	if kind == model.KindDropdown && view.Placeholder == "" {
		view.Placeholder = DropdownPlaceholder
	}
	if kind.HasOptions() {
		current := view.StringValue()
		view.Options = make([]OptionView, 0, len(field.Options))
		for _, option := range field.Options {
			view.Options = append(view.Options, OptionView{
				Value:    option.Value,
				Label:    option.Label,
				TestID:   OptionTestID(field, option),
				Selected: current != "" && option.Value == current,
			})
		}
	}
	return view
}

// BuildProgress derives the progress indicator for the given position.
func BuildProgress(schema model.FormSchema, current int) ProgressView {
	progress := ProgressView{
		Total:   len(schema.Sections),
		Current: current,
		Steps:   make([]ProgressStep, 0, len(schema.Sections)),
	}
	for i, section := range schema.Sections {
		progress.Steps = append(progress.Steps, ProgressStep{
			Index:     i,
			Title:     section.Title,
			Completed: i < current,
			Current:   i == current,
		})
	}
	return progress
}

// BuildActions derives the navigation controls for the given position.
func BuildActions(current, last int) ActionsView {
	actions := ActionsView{
		CanPrevious:   current > 0,
		Primary:       ActionNext,
		PrimaryLabel:  NextLabel,
		PrimaryTestID: NextTestID,
	}
	if current >= last {
		actions.Primary = ActionSubmit
		actions.PrimaryLabel = SubmitLabel
		actions.PrimaryTestID = SubmitTestID
	}
	return actions
}
