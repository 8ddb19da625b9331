package tui

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrAborted signals the user aborted input (Ctrl+C or the Quit action).
	ErrAborted = goerr.New("tui: aborted")
	// ErrNoProvider is returned when the controller still needs a schema and
	// the runner has no provider to fetch it from.
	ErrNoProvider = goerr.New("tui: no schema provider configured")
)
