package server

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var (
	// ErrUnknownAction is returned for a posted action the wizard lacks.
	ErrUnknownAction = goerr.New("unknown form action")
	// ErrBadForm is returned when a request body cannot be parsed.
	ErrBadForm = goerr.New("malformed form post")
)

// statusFor maps an error to the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownAction),
		errors.Is(err, ErrBadForm),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, provider.ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrNotReady),
		errors.Is(err, wizard.ErrAlreadySubmitted),
		errors.Is(err, wizard.ErrNotLastSection):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrClosed):
		return http.StatusGone
	case errors.Is(err, provider.ErrFetch),
		errors.Is(err, wizard.ErrSchemaFetch),
		errors.Is(err, wizard.ErrSubmit):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs err with its goerr values and writes a plain status page.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		fields = append(fields, zap.Any("values", ge.Values()))
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error", fields...)
	} else {
		s.logger.Warn("HTTP error", fields...)
	}
	http.Error(w, http.StatusText(status), status)
}
