// Package errors turns janus failures into categorized CLI errors that carry
// remediation steps. The category decides the process exit code.
package errors

import (
	stderrors "errors"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors come from flags, record ids, dates or record content.
	Argument ErrorCategory = iota
	// Configuration errors come from a config file or JANUS_* variable.
	Configuration
	// Prerequisite errors mean the changelog is missing, or present when it must not be.
	Prerequisite
	// Runtime errors cover I/O, locking and unreadable changelogs.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	Category ErrorCategory
	// Message says what janus could not do. The cause lives in Err.
	Message     string
	Remediation []string
	// Usage shows the correct command syntax (argument errors only).
	Usage string
	Err   error
}

// Error returns the message followed by the cause, if it adds anything.
func (e *CLIError) Error() string {
	if e.Err == nil || e.Err.Error() == e.Message {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError creates an argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage creates an argument error that shows the correct
// command syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := newError(Argument, message, remediation)
	e.Usage = usage
	return e
}

// NewPrerequisiteError creates a prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// NewRuntimeError creates a runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap categorizes err, using its own text as the message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, err.Error(), remediation)
	e.Err = err
	return e
}

// WrapWithMessage categorizes err under a janus-level message. The cause is
// kept in Err and shown below the message when printed.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, message, remediation)
	e.Err = err
	return e
}

// IsCLIError checks if an error is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
