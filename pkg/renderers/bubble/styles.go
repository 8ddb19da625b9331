package bubble

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the wizard screen.
type Styles struct {
	Title       lipgloss.Style
	Greeting    lipgloss.Style
	StepDone    lipgloss.Style
	StepCurrent lipgloss.Style
	StepPending lipgloss.Style
	Section     lipgloss.Style
	Description lipgloss.Style
	Label       lipgloss.Style
	Required    lipgloss.Style
	Focused     lipgloss.Style
	Error       lipgloss.Style
	Dim         lipgloss.Style
	Button      lipgloss.Style
	ButtonFocus lipgloss.Style
	Success     lipgloss.Style
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("170")
	muted := lipgloss.Color("241")
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Greeting:    lipgloss.NewStyle().Foreground(muted),
		StepDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		StepCurrent: lipgloss.NewStyle().Bold(true).Foreground(accent),
		StepPending: lipgloss.NewStyle().Foreground(muted),
		Section:     lipgloss.NewStyle().Bold(true).MarginTop(1),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Label:       lipgloss.NewStyle().Bold(true),
		Required:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Focused:     lipgloss.NewStyle().Foreground(accent),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dim:         lipgloss.NewStyle().Foreground(muted).Italic(true),
		Button: lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		ButtonFocus: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Foreground(accent),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35")),
	}
}
