package util

import (
	"context"
	"errors"
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Common error types for the forkjoin CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates an element source could not be parsed
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownOperation indicates a reduction operation name is not registered
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrJobNotFound indicates a named job preset does not exist
	ErrJobNotFound = errors.New("job not found")

	// ErrShutdown indicates the system is shutting down
	ErrShutdown = errors.New("system shutting down")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsShutdown checks if an error was caused by the shutdown signal
func IsShutdown(err error) bool {
	return errors.Is(err, ErrShutdown)
}

// IsCancelled checks if an error is a context cancellation or deadline error
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError

	switch {
	case IsShutdown(err):
		return "Interrupted: work stopped after a shutdown signal."
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrUnknownOperation):
		return "Unknown operation. Run 'forkjoin run --help' to list the supported operations."
	case errors.Is(err, ErrJobNotFound):
		return "Job not found. Run 'forkjoin job list' to see the configured jobs."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case errors.As(err, &validationErr), errors.Is(err, ErrInvalidInput):
		return "Invalid input: " + err.Error()
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}

// aggregate adds Unwrap to utilerrors.Aggregate so errors.As can reach each cause
type aggregate struct {
	utilerrors.Aggregate
}

// Unwrap returns the aggregated errors for errors.Is/As compatibility
func (a aggregate) Unwrap() []error {
	return a.Errors()
}

// CombineErrors combines multiple errors into a single error.
// Nil errors are dropped. It returns nil if nothing is left, the error itself if
// one is left, and otherwise a utilerrors.Aggregate that errors.Is and errors.As
// can search.
func CombineErrors(errs ...error) error {
	agg := utilerrors.NewAggregate(errs)
	if agg == nil {
		return nil
	}
	if list := agg.Errors(); len(list) == 1 {
		return list[0]
	}
	return aggregate{agg}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
