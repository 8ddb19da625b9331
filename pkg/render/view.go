package render

import (
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Status mirrors the wizard lifecycle for renderers.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusSubmitted  Status = "submitted"
	StatusLoadFailed Status = "load_failed"
)

// Action names the trailing navigation button of a section.
type Action string

const (
	ActionPrevious Action = "previous"
	ActionNext     Action = "next"
	ActionSubmit   Action = "submit"

	// ActionRetry and ActionRestart are offered on the status screens.
	ActionRetry   Action = "retry"
	ActionRestart Action = "restart"
)

// Labels and test identifiers of the navigation controls.
const (
	PreviousLabel = "Previous"
	NextLabel     = "Next"
	SubmitLabel   = "Submit Form"

	PreviousTestID = "prev-section-button"
	NextTestID     = "next-section-button"
	SubmitTestID   = "submit-form-button"

	DropdownPlaceholder = "Select..."
	UnsupportedMessage  = "Unsupported field type"
)

// NoticeLevel grades a one-shot user notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message (toast) the host shows once.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// OptionView is one rendered dropdown or radio choice.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	TestID   string `json:"testId"`
	Selected bool   `json:"selected"`
}

// FieldView is the display model for a single field: its definition joined
// with the effective value and its current error.
type FieldView struct {
	ID          string          `json:"id"`
	Kind        model.Kind      `json:"-"`
	Type        model.FieldType `json:"type"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Value       any             `json:"value"`
	Error       string          `json:"error,omitempty"`
	HasError    bool            `json:"hasError"`
	Options     []OptionView    `json:"options,omitempty"`
	TestID      string          `json:"testId"`
	MinLength   int             `json:"minLength,omitempty"`
	MaxLength   int             `json:"maxLength,omitempty"`
	InlineLabel bool            `json:"inlineLabel"`
	Supported   bool            `json:"supported"`
}

// StringValue returns the value as a string; non-string values render as "".
func (f FieldView) StringValue() string {
	s, _ := f.Value.(string)
	return s
}

// Checked returns the value as a checkbox state.
func (f FieldView) Checked() bool {
	b, _ := f.Value.(bool)
	return b
}

// SelectedLabel returns the label of the selected option, if any.
func (f FieldView) SelectedLabel() string {
	for _, opt := range f.Options {
		if opt.Selected {
			return opt.Label
		}
	}
	return ""
}

// ProgressStep describes one section in the progress indicator. Completed is
// purely visual: it means the step lies before the current one.
type ProgressStep struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// ProgressView is the progress indicator model.
type ProgressView struct {
	Total   int            `json:"total"`
	Current int            `json:"current"`
	Steps   []ProgressStep `json:"steps"`
}

// Label renders "Step n of m".
func (p ProgressView) Label() string {
	if p.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Step %d of %d", p.Current+1, p.Total)
}

// ActionsView describes the navigation controls of the current section.
type ActionsView struct {
	CanPrevious   bool   `json:"canPrevious"`
	Primary       Action `json:"primary"`
	PrimaryLabel  string `json:"primaryLabel"`
	PrimaryTestID string `json:"primaryTestId"`
}

// WizardView is everything a host needs to draw the current wizard screen.
type WizardView struct {
	Status       Status          `json:"status"`
	FormTitle    string          `json:"formTitle"`
	Greeting     string          `json:"greeting,omitempty"`
	SectionID    model.SectionID `json:"sectionId,omitempty"`
	SectionTitle string          `json:"sectionTitle,omitempty"`
	Description  string          `json:"description,omitempty"`
	Index        int             `json:"index"`
	Fields       []FieldView     `json:"fields,omitempty"`
	Progress     ProgressView    `json:"progress"`
	Actions      ActionsView     `json:"actions"`
	Notice       *Notice         `json:"notice,omitempty"`
}
