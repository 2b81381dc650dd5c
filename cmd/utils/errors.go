package utils

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the entity exists but the viewer is not
	// its owner, its author, or a friend of its owner.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned on a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when no viewer could be established.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StatusCode maps an error from the taxonomy above to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
