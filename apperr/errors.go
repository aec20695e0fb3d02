package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidCursor      = errors.New("invalid cursor")
)

// ValidationError is returned before a write is attempted when the input
// is unacceptable. Field is empty for errors that are not tied to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Unavailable wraps err as ErrBackendUnavailable unless it already is one,
// or is a not-found or validation error.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidCursor) || IsValidation(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, op, err)
}
