package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is returned by Recover in place of a panic.
type PanicError struct {
	Value any    // Recovered value
	Stack []byte // Stack trace, nil when disabled
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a recovered error value to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// AsPanicError extracts the PanicError from an error chain.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
