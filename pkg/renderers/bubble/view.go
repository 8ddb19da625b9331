package bubble

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// View draws the current screen.
func (m *Model) View() string {
	var b strings.Builder

	if m.view.FormTitle != "" {
		b.WriteString(m.styles.Title.Render(m.view.FormTitle))
		b.WriteByte('\n')
	}
	if m.view.Greeting != "" {
		b.WriteString(m.styles.Greeting.Render(m.view.Greeting))
		b.WriteByte('\n')
	}

	switch m.view.Status {
	case render.StatusLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading form...\n")
	case render.StatusLoadFailed:
		b.WriteString(m.noticeLine())
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Retry, keys.Abort}))
	case render.StatusSubmitted:
		b.WriteString(m.progress())
		b.WriteString("\n\n")
		b.WriteString(m.noticeLine())
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Quit}))
	case render.StatusReady:
		b.WriteString(m.progress())
		b.WriteByte('\n')
		b.WriteString(m.section())
		b.WriteString(m.noticeLine())
		b.WriteString(m.help.ShortHelpView(keys.formHelp()))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) noticeLine() string {
	if m.notice == nil {
		return ""
	}
	style := m.styles.Greeting
	switch m.notice.Level {
	case render.NoticeError:
		style = m.styles.Error
	case render.NoticeSuccess:
		style = m.styles.Success
	}
	return style.Render(m.notice.Message) + "\n\n"
}

// progress renders "Step n of m" followed by one marker per section.
func (m *Model) progress() string {
	p := m.view.Progress
	if p.Total == 0 {
		return ""
	}
	steps := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		switch {
		case step.Current && m.view.Status == render.StatusReady:
			steps = append(steps, m.styles.StepCurrent.Render("● "+step.Title))
		case step.Completed || m.view.Status == render.StatusSubmitted:
			steps = append(steps, m.styles.StepDone.Render("✓ "+step.Title))
		default:
			steps = append(steps, m.styles.StepPending.Render("○ "+step.Title))
		}
	}
	return m.styles.Greeting.Render(p.Label()) + "  " + strings.Join(steps, m.styles.StepPending.Render(" ─ "))
}

func (m *Model) section() string {
	var b strings.Builder
	b.WriteString(m.styles.Section.Render(m.view.SectionTitle))
	b.WriteByte('\n')
	if desc := strings.TrimSpace(m.view.Description); desc != "" {
		b.WriteString(m.styles.Description.Render(wordwrap.String(desc, m.wrapWidth())))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	current, _ := m.focused()
	for _, field := range m.view.Fields {
		focused := current.isField() && current.fieldID == field.ID
		b.WriteString(m.field(field, focused))
		b.WriteByte('\n')
	}
	b.WriteString(m.buttons(current))
	b.WriteString("\n\n")
	return b.String()
}

func (m *Model) field(field render.FieldView, focused bool) string {
	var b strings.Builder
	cursor := "  "
	if focused {
		cursor = m.styles.Focused.Render("› ")
	}

	if !field.InlineLabel {
		b.WriteString(cursor)
		b.WriteString(m.label(field))
		b.WriteByte('\n')
		cursor = "  "
	}
	b.WriteString(cursor)
	b.WriteString(m.control(field, focused))
	b.WriteByte('\n')

	if field.HasError {
		b.WriteString("  ")
		b.WriteString(m.styles.Error.Render(field.Error))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) label(field render.FieldView) string {
	out := m.styles.Label.Render(field.Label)
	if field.Required {
		out += m.styles.Required.Render(" *")
	}
	return out
}

func (m *Model) control(field render.FieldView, focused bool) string {
	if !field.Supported {
		return m.styles.Dim.Render(render.UnsupportedMessage)
	}
	switch field.Kind {
	case model.KindTextarea:
		if area, ok := m.areas[field.ID]; ok {
			return indent(area.View())
		}
	case model.KindCheckbox:
		box := "[ ]"
		if field.Checked() {
			box = "[x]"
		}
		if focused {
			box = m.styles.Focused.Render(box)
		}
		return box + " " + m.label(field)
	case model.KindRadio:
		parts := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			mark := "( )"
			if opt.Selected {
				mark = "(•)"
			}
			parts = append(parts, mark+" "+opt.Label)
		}
		return strings.Join(parts, "  ")
	case model.KindDropdown:
		label := field.SelectedLabel()
		if label == "" {
			label = m.styles.Dim.Render(field.Placeholder)
		}
		if focused {
			return m.styles.Focused.Render("‹ ") + label + m.styles.Focused.Render(" ›")
		}
		return "‹ " + label + " ›"
	default:
		if in, ok := m.inputs[field.ID]; ok {
			return in.View()
		}
	}
	return field.StringValue()
}

func (m *Model) buttons(current focusItem) string {
	var rendered []string
	if m.view.Actions.CanPrevious {
		rendered = append(rendered, m.button(render.PreviousLabel, current, render.ActionPrevious))
	}
	rendered = append(rendered, m.button(m.view.Actions.PrimaryLabel, current, m.view.Actions.Primary))
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) button(label string, current focusItem, action render.Action) string {
	if !current.isField() && current.action == action {
		return m.styles.ButtonFocus.Render(label)
	}
	return m.styles.Button.Render(label)
}

func (m *Model) wrapWidth() int {
	if m.width > 10 {
		return m.width - 4
	}
	return defaultWidth - 4
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
