package core

import "github.com/pkg/errors"

// FieldError ties a rejection message to the input field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports rejected input, e.g. a registration with a taken
// email or a malformed material submission. Fields carries per-field messages
// when they exist; otherwise Err describes the rejection as a whole.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown is returned when the app hits an unrecoverable state and should
// stop serving instead of limping along.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks whether a shutdown error is hiding anywhere in err's chain.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
