// Package apperrors defines the error kinds shared by storage, services and transports.
package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Transports map them to status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInternal          = errors.New("internal error")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New creates an error of the given kind with a formatted message.
func New(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound is shorthand for New(ErrNotFound, "<what> not found").
func NotFound(what string) error {
	return New(ErrNotFound, "%s not found", what)
}

// Invalid is shorthand for New(ErrInvalidInput, ...).
func Invalid(format string, args ...interface{}) error {
	return New(ErrInvalidInput, format, args...)
}

// Wrap adds context to an error while preserving the original error
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Message returns the client-facing text of err. Errors of unknown kind
// collapse to fallback so internals do not leak.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
