// Package apperr maps failures to the HTTP status and client-facing
// message they should produce.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failure with a fixed client-facing message. Err carries the
// internal cause, which is logged but never sent to the client.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Internal hides err behind a generic message.
func Internal(message string, err error) *Error {
	if message == "" {
		message = InternalMessage
	}
	return Wrap(http.StatusInternalServerError, message, err)
}

const InternalMessage = "Internal server error"

// From classifies any error. Errors that are not *Error become a generic 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}
