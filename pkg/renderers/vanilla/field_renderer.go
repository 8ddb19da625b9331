package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	data     components.ComponentData
	registry *components.Registry
	used     map[string]struct{}
}

func newComponentRenderer(engine template.Engine, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		data:     components.ComponentData{Template: engine, Partials: partials},
		registry: registry,
		used:     make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field render.FieldView) (string, error) {
	name := components.ForKind(field.Kind)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, field.ID)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, r.data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, field.ID, err)
	}
	r.used[name] = struct{}{}
	return buildFieldMarkup(field, name, control.String()), nil
}

func (r *componentRenderer) stylesheets() []string {
	names := make([]string, 0, len(r.used))
	for name := range r.used {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

func buildFieldMarkup(field render.FieldView, componentName, control string) string {
	var b strings.Builder
	b.Grow(len(control) + 256)

	id := html.EscapeString(field.ID)
	b.WriteString(`      <div class="`)
	b.WriteString(string(ClassField))
	if field.HasError {
		b.WriteString(` has-error`)
	}
	b.WriteString(`" data-field="`)
	b.WriteString(id)
	b.WriteString(`" data-component="`)
	b.WriteString(html.EscapeString(componentName))
	b.WriteString("\">\n")

	if !field.InlineLabel && strings.TrimSpace(field.Label) != "" {
		b.WriteString(`        <label id="fw-`)
		b.WriteString(id)
		b.WriteString(`-label"`)
		if labelSupportsFor(componentName) {
			b.WriteString(` for="fw-`)
			b.WriteString(id)
			b.WriteString(`"`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(field.Label))
		if field.Required {
			b.WriteString(` <span class="fw-required">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("        ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if field.HasError {
		b.WriteString(`        <p class="`)
		b.WriteString(string(ClassError))
		b.WriteString(`" id="fw-`)
		b.WriteString(id)
		b.WriteString(`-error" role="alert" data-testid="`)
		b.WriteString(html.EscapeString(field.TestID))
		b.WriteString(`-error">`)
		b.WriteString(html.EscapeString(field.Error))
		b.WriteString("</p>\n")
	}

	b.WriteString("      </div>\n")
	return b.String()
}

// labelSupportsFor reports whether the component renders a single control
// with id "fw-<fieldId>" that a label can point at.
func labelSupportsFor(componentName string) bool {
	switch componentName {
	case components.NameInput, components.NameTextarea, components.NameSelect:
		return true
	default:
		return false
	}
}
