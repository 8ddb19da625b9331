package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
)

const templatePrefix = "templates/components/"

// Partial keys a theme manifest can override.
const (
	PartialInput       = "forms.input"
	PartialTextarea    = "forms.textarea"
	PartialSelect      = "forms.select"
	PartialRadio       = "forms.radio"
	PartialCheckbox    = "forms.checkbox"
	PartialUnsupported = "forms.unsupported"
)

// DefaultPartials maps partial keys to the built-in templates.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialInput:       templatePrefix + "input.tmpl",
		PartialTextarea:    templatePrefix + "textarea.tmpl",
		PartialSelect:      templatePrefix + "select.tmpl",
		PartialRadio:       templatePrefix + "radio.tmpl",
		PartialCheckbox:    templatePrefix + "checkbox.tmpl",
		PartialUnsupported: templatePrefix + "unsupported.tmpl",
	}
}

// NewDefaultRegistry returns a registry with one component per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	defaults := DefaultPartials()
	for name, key := range map[string]string{
		NameInput:       PartialInput,
		NameTextarea:    PartialTextarea,
		NameSelect:      PartialSelect,
		NameRadio:       PartialRadio,
		NameCheckbox:    PartialCheckbox,
		NameUnsupported: PartialUnsupported,
	} {
		registry.MustRegister(name, Descriptor{Renderer: templateRenderer(key, defaults[key])})
	}
	return registry
}

func templateRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template engine not configured for %q", templateName)
		}
		name := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			name = candidate
		}
		payload := map[string]any{
			"field":       fieldContext(field),
			"options":     optionContext(field.Options),
			"unsupported": render.UnsupportedMessage,
		}
		if err := data.Template.Render(buf, name, payload); err != nil {
			return fmt.Errorf("components: render %q: %w", name, err)
		}
		return nil
	}
}

func fieldContext(field render.FieldView) map[string]any {
	return map[string]any{
		"id":          field.ID,
		"type":        string(field.Type),
		"kind":        field.Kind.String(),
		"label":       field.Label,
		"placeholder": field.Placeholder,
		"required":    field.Required,
		"value":       field.StringValue(),
		"checked":     field.Checked(),
		"error":       field.Error,
		"hasError":    field.HasError,
		"testId":      field.TestID,
		"minLength":   field.MinLength,
		"maxLength":   field.MaxLength,
		"inlineLabel": field.InlineLabel,
	}
}

func optionContext(options []render.OptionView) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		out = append(out, map[string]any{
			"value":    opt.Value,
			"label":    opt.Label,
			"testId":   opt.TestID,
			"selected": opt.Selected,
		})
	}
	return out
}
