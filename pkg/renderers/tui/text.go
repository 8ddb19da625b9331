package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

const defaultWrapWidth = 72

// TextRenderer renders a wizard screen as plain text. The prompt loop prints
// it above every section and the HTTP host serves it for text clients.
type TextRenderer struct {
	width int
}

var _ render.Renderer = (*TextRenderer)(nil)

// NewTextRenderer returns a renderer wrapping descriptions at width columns
// (72 when width is not positive).
func NewTextRenderer(width int) *TextRenderer {
	if width <= 0 {
		width = defaultWrapWidth
	}
	return &TextRenderer{width: width}
}

// Name reports the renderer identifier.
func (r *TextRenderer) Name() string { return "text" }

// ContentType reports the MIME type of Render output.
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the header, progress, section and fields of view.
func (r *TextRenderer) Render(ctx context.Context, view render.WizardView, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	r.writeHeader(&b, view)

	switch view.Status {
	case render.StatusLoading:
		b.WriteString("Loading form...\n")
	case render.StatusLoadFailed, render.StatusSubmitted:
		if view.Notice != nil {
			b.WriteString(view.Notice.Message)
			b.WriteByte('\n')
		}
	case render.StatusReady:
		r.writeSection(&b, view)
	}
	return []byte(b.String()), nil
}

func (r *TextRenderer) writeHeader(b *strings.Builder, view render.WizardView) {
	if view.FormTitle != "" {
		b.WriteString(view.FormTitle)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("=", len([]rune(view.FormTitle))))
		b.WriteByte('\n')
	}
	if view.Greeting != "" {
		b.WriteString(view.Greeting)
		b.WriteByte('\n')
	}
	if view.Progress.Total > 0 {
		b.WriteString(progressLine(view.Progress))
		b.WriteByte('\n')
	}
	if view.FormTitle != "" || view.Greeting != "" || view.Progress.Total > 0 {
		b.WriteByte('\n')
	}
}

func (r *TextRenderer) writeSection(b *strings.Builder, view render.WizardView) {
	b.WriteString("## ")
	b.WriteString(view.SectionTitle)
	b.WriteByte('\n')
	if desc := strings.TrimSpace(view.Description); desc != "" {
		b.WriteString(wordwrap.String(desc, r.width))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, field := range view.Fields {
		b.WriteString("  ")
		b.WriteString(FieldLabel(field))
		b.WriteByte(':')
		if v := DisplayValue(field); v != "" {
			b.WriteByte(' ')
			b.WriteString(v)
		}
		b.WriteByte('\n')
		if field.HasError {
			b.WriteString("    ! ")
			b.WriteString(field.Error)
			b.WriteByte('\n')
		}
	}

	if view.Notice != nil {
		fmt.Fprintf(b, "\n%s\n", view.Notice.Message)
	}
}

// progressLine renders "Step n of m: [x] A > [>] B > [ ] C".
func progressLine(p render.ProgressView) string {
	parts := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		mark := " "
		switch {
		case step.Current:
			mark = ">"
		case step.Completed:
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", mark, step.Title))
	}
	return p.Label() + ": " + strings.Join(parts, " > ")
}

// FieldLabel returns the label with a trailing "*" for required fields.
func FieldLabel(field render.FieldView) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	return label
}

// DisplayValue renders the effective value of a field for reading.
func DisplayValue(field render.FieldView) string {
	if !field.Supported {
		return "[" + render.UnsupportedMessage + "]"
	}
	switch field.Kind {
	case model.KindCheckbox:
		if field.Checked() {
			return "[x]"
		}
		return "[ ]"
	case model.KindDropdown, model.KindRadio:
		if label := field.SelectedLabel(); label != "" {
			return label
		}
		if field.Kind == model.KindDropdown {
			return field.Placeholder
		}
		return "(none)"
	default:
		if v := field.StringValue(); v != "" {
			return v
		}
		if field.Placeholder != "" {
			return "(" + field.Placeholder + ")"
		}
		return ""
	}
}
