package wizard

import "github.com/goliatone/go-formwizard/pkg/render"

// State is the wizard lifecycle position.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitted
	StateLoadFailed
)

func (s State) String() string {
	return string(s.Status())
}

// Status maps the state onto the renderer-facing status value.
func (s State) Status() render.Status {
	switch s {
	case StateReady:
		return render.StatusReady
	case StateSubmitted:
		return render.StatusSubmitted
	case StateLoadFailed:
		return render.StatusLoadFailed
	default:
		return render.StatusLoading
	}
}

// LoadTicket identifies one schema load. Only the result carrying the most
// recent ticket is applied.
type LoadTicket uint64

const (
	// LoadFailedMessage is the one-shot notice shown when the schema fetch fails.
	LoadFailedMessage = "Failed to load form. Please try again."
	// SubmittedMessage is the one-shot notice shown after a successful submit.
	SubmittedMessage = "Form submitted successfully!"
	// SubmitFailedMessage is the notice shown when the sink rejects the values.
	SubmitFailedMessage = "Failed to submit form. Please try again."
)
