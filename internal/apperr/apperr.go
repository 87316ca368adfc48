// Package apperr defines the error taxonomy shared by services and handlers.
// Every failed operation wraps exactly one of the sentinel kinds so handlers
// can map errors to HTTP statuses with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	// ErrNotFound covers both absent resources and resources outside the
	// caller's scope, so listings never confirm foreign resources exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the resource is visible but the caller
	// lacks rights to mutate it.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict covers illegal state transitions, duplicate grants and
	// concurrent write collisions. Callers may retry with fresh state.
	ErrConflict = errors.New("conflict")
	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when no valid principal can be resolved.
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return wrapf(ErrNotFound, format, args...)
}

// Forbiddenf wraps ErrForbidden with a formatted message.
func Forbiddenf(format string, args ...interface{}) error {
	return wrapf(ErrForbidden, format, args...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return wrapf(ErrConflict, format, args...)
}

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return wrapf(ErrValidation, format, args...)
}

// Unauthorizedf wraps ErrUnauthorized with a formatted message.
func Unauthorizedf(format string, args ...interface{}) error {
	return wrapf(ErrUnauthorized, format, args...)
}

func wrapf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
