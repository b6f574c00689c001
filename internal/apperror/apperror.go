// Package apperror defines the failure classes shared by the relay and the
// client engine. Match them with errors.Is against the sentinel values.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrMalformedMessage = errors.New("malformed message")
	ErrInvalidRoom      = errors.New("invalid room reference")
	ErrPersistence      = errors.New("persistence failure")
	ErrStaleReference   = errors.New("stale reference")
)

type AppError struct {
	Err     error  // sentinel class
	Message string // human-readable detail
	Field   string // optional: offending field
	Cause   error  // optional: underlying error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func Authentication(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: message,
		Cause:   cause,
	}
}

func Malformed(field string, cause error) *AppError {
	return &AppError{
		Err:     ErrMalformedMessage,
		Message: fmt.Sprintf("malformed %s", field),
		Field:   field,
		Cause:   cause,
	}
}

func InvalidRoom(raw string) *AppError {
	return &AppError{
		Err:     ErrInvalidRoom,
		Message: fmt.Sprintf("invalid room id %q", raw),
		Field:   "roomId",
	}
}

// Persistence wraps a store error with the operation that failed.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: fmt.Sprintf("%s failed", op),
		Cause:   cause,
	}
}

// Stale marks an edit that targets a shape not present locally. Callers
// treat it as a no-op.
func Stale(id string) *AppError {
	return &AppError{
		Err:     ErrStaleReference,
		Message: fmt.Sprintf("shape %s not found", id),
		Field:   "shapeId",
	}
}
