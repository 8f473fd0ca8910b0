// Package apperr holds the error kinds surfaced by the geofence services and
// their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
)

// Kind sentinels. Match with Is.
var (
	ErrNotFound         = eris.New("not found")
	ErrValidation       = eris.New("validation error")
	ErrExternalProvider = eris.New("external provider error")
)

// Error carries a kind and a message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func ExternalProvider(cause error, msg string) error {
	return &Error{Kind: ErrExternalProvider, Message: msg, cause: cause}
}

// Is reports whether err is of the given kind.
func Is(err, kind error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Message returns the caller-facing message of err, falling back to a generic text
// for errors that did not originate here.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Status maps err onto an HTTP status code.
func Status(err error) int {
	switch {
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrValidation):
		return http.StatusBadRequest
	case Is(err, ErrExternalProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
