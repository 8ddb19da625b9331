package provider

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrFetch marks a failed transport call to the form API.
	ErrFetch = goerr.New("form api request failed")
	// ErrInvalidIdentity is returned when login data is incomplete.
	ErrInvalidIdentity = goerr.New("invalid identity")
	// ErrDecode is returned when a schema document cannot be parsed.
	ErrDecode = goerr.New("failed to decode form schema")
	// ErrOperationNotFound is returned when an OpenAPI document lacks the
	// requested operation.
	ErrOperationNotFound = goerr.New("operation not found")
)

// FetchError reports a non-success response from the form API.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("provider: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrFetch.
func (e *FetchError) Unwrap() error {
	return ErrFetch
}
