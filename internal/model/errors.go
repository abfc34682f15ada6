package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimerStart   = errors.New("model: invalid timer input")
	ErrNonPositiveDuration = errors.New("model: timer duration must be positive")
)

// ValidationError reports user input that cannot start a timer. Callers
// recover from it locally by re-prompting.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
