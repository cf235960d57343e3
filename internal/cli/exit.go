package cli

import (
	"errors"

	"github.com/vk/buldr/internal/builder"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/dag"
	"github.com/vk/buldr/internal/toolchain"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitUsage         = 2
	ExitCycle         = 3
	ExitToolFailure   = 4
	ExitMissingSource = 5
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	// Reported is set when the message was already shown to the user.
	Reported bool
	Err      error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// ToExitError maps err to the exit code of its kind. Configuration problems,
// unknown dependencies and unknown targets share ExitUsage.
func ToExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		cfgErr     *config.ConfigError
		unknownDep *dag.UnknownDependencyError
		unknownPrj *dag.UnknownProjectError
		cycleErr   *dag.CyclicDependencyError
		toolErr    *toolchain.ToolInvocationError
		missingErr *builder.MissingSourceError
	)
	code := ExitFailure
	switch {
	case errors.As(err, &cycleErr):
		code = ExitCycle
	case errors.As(err, &toolErr):
		code = ExitToolFailure
	case errors.As(err, &missingErr):
		code = ExitMissingSource
	case errors.As(err, &cfgErr), errors.As(err, &unknownDep), errors.As(err, &unknownPrj):
		code = ExitUsage
	}
	return &ExitError{Code: code, Message: err.Error(), Err: err}
}
