package exception

import (
	"errors"
	"fmt"
)

// ApplicationError handles application level errors. StatusCode is used by the
// HTTP transport, ExitCode by the command line driver.
type ApplicationError struct {
	Message    string
	StatusCode int
	ExitCode   int
	Cause      error
}

// Error interface implementation.
func (e ApplicationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Cause)
}

func (e ApplicationError) Unwrap() error {
	if e.Cause == nil {
		return errors.New(e.Message)
	}

	return e.Cause
}

// Is matches errors with the same message. A target without a cause matches
// any cause, so a wrapped error still satisfies errors.Is against its sentinel.
func (e ApplicationError) Is(target error) bool {
	var targetErr ApplicationError

	if !errors.As(target, &targetErr) {
		return false
	}

	if e.Message != targetErr.Message {
		return false
	}

	return targetErr.Cause == nil || e.Cause == targetErr.Cause
}

// Wrap returns a copy of the error carrying cause.
func (e ApplicationError) Wrap(cause error) ApplicationError {
	e.Cause = cause

	return e
}

// ErrorCode returns error code for an application error.
func (e ApplicationError) ErrorCode() int {
	return e.StatusCode
}

// ExitStatus returns the process exit code for err. Errors that are not
// application errors map to fallback.
func ExitStatus(err error, fallback int) int {
	var appErr ApplicationError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}

	return fallback
}
