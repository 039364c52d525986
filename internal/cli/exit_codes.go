package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
)

// Exit codes for the janus CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure, or that check found problems
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitPrerequisite indicates a required file is missing, or init found one already present
	ExitPrerequisite = 3

	// ExitInvalidConfig indicates the configuration could not be loaded
	ExitInvalidConfig = 4
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitPrerequisite
		case clierrors.Configuration:
			return ExitInvalidConfig
		}
	}
	return ExitFailure
}
