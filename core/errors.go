package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the offending request field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field failures back to the API layer, which
// renders them as a 400 with a field-to-message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid input"
	}
	return err.Err.Error()
}

// shutdown signals that the process can no longer serve requests and
// should terminate gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
