package cli

import (
	"context"
	"errors"

	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
)

// Exit codes for the changelogit CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed while running (git or API errors)
	ExitFailure = 1

	// ExitInvalidConfig indicates the configuration could not be loaded or is invalid
	ExitInvalidConfig = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates git or the repository is missing
	ExitMissingDependencies = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5

	// ExitInterrupted indicates the command was cancelled, e.g. by Ctrl-C
	ExitInterrupted = 130
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitInvalidConfig
		case clierrors.Prerequisite:
			return ExitMissingDependencies
		}
	}

	return ExitFailure
}
