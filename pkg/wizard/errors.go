package wizard

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrSchemaFetch marks a failed schema load. The session is unusable until
	// the user explicitly retries.
	ErrSchemaFetch = goerr.New("failed to load form schema")
	// ErrLoadDiscarded is returned when a load result arrives after Close or
	// after a newer load superseded it.
	ErrLoadDiscarded = goerr.New("schema load result discarded")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = goerr.New("wizard is closed")
	// ErrNotReady is returned when an interaction arrives outside Ready.
	ErrNotReady = goerr.New("wizard is not ready")
	// ErrAlreadySubmitted is returned by interactions after a successful submit.
	ErrAlreadySubmitted = goerr.New("form already submitted")
	// ErrNotLastSection is returned by Submit before the final section.
	ErrNotLastSection = goerr.New("submit is only available on the last section")
	// ErrUnknownField is returned by SetField for ids outside the schema.
	ErrUnknownField = goerr.New("unknown field")
	// ErrSubmit wraps failures reported by the submission sink.
	ErrSubmit = goerr.New("failed to submit form")
)
