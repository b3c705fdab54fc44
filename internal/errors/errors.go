package apperrors

import (
	"errors"
	"fmt"
	"io"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0 // Indicates successful execution.
	ExitErrorGeneric = 1 // Indicates a generic error.
	ExitErrorConfig  = 4 // Indicates a configuration error.
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SieveError encapsulates a failure of a single sieve run while preserving
// the original cause. There is no partial result for a failed sieve, so a
// SieveError is always fatal for the run that produced it.
type SieveError struct {
	// UpperBound identifies the sieve that failed.
	UpperBound int
	// Cause is the underlying error that triggered this sieve error.
	Cause error
}

// Error returns a message naming the failed sieve and its cause.
func (e SieveError) Error() string {
	return fmt.Sprintf("sieve with upper bound %d failed: %v", e.UpperBound, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SieveError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// ExitCode maps an error to the process exit status. Configuration and
// validation problems are reported as ExitErrorConfig; anything else that is
// non-nil is generic.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var configErr ConfigError
	var validationErr ValidationError
	if errors.As(err, &configErr) || errors.As(err, &validationErr) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// ColorProvider supplies the escape sequences used when reporting errors.
// It keeps this package independent of the ui package.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleRunError prints a user-facing report for err and returns the
// matching exit code. A nil error prints nothing.
func HandleRunError(err error, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if err == nil {
		return code
	}

	var sieveErr SieveError
	switch {
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error:%s %v\n", colors.Yellow(), colors.Reset(), err)
	case errors.As(err, &sieveErr):
		fmt.Fprintf(out, "%sSieve failed%s (upper bound %d): %v\n", colors.Red(), colors.Reset(), sieveErr.UpperBound, sieveErr.Cause)
	default:
		fmt.Fprintf(out, "%sError:%s %v\n", colors.Red(), colors.Reset(), err)
	}
	return code
}
