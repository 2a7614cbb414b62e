// Package apperr defines the error taxonomy shared by the core services and
// the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks bad input (invalid EAN, negative quantity, missing columns).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent record on paths where absence is an error.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation on an insert-only path.
	ErrConflict = errors.New("conflict")
	// ErrStorage marks a transient failure of the backing store.
	ErrStorage = errors.New("storage unavailable")
	// ErrParse marks an upload that could not be decoded.
	ErrParse = errors.New("parse failed")
)

// ValidationError carries the offending field and a human readable reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError for field.
func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MissingColumnsError is returned when an upload lacks required columns.
type MissingColumnsError struct {
	Expected []string
	Found    []string
	Missing  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %s (expected: %s; found: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Expected, ", "),
		strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrValidation }

// Storage wraps a driver error so callers can match ErrStorage while the
// original cause stays available through errors.Unwrap chains.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Parse wraps a decoding error of an uploaded file.
func Parse(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", what, ErrParse, err)
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
