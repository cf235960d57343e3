// Package toolchain models the external compiler, linker and archiver as a
// single collaborator that accepts an argument list and reports an exit
// status plus captured diagnostics.
package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// Step names the orchestration step an invocation belongs to.
type Step string

const (
	StepCompile Step = "compile"
	StepLink    Step = "link"
	StepArchive Step = "archive"
)

// Invocation is one blocking call of an external tool.
type Invocation struct {
	Step Step
	// Tool is the program to execute (compiler, linker or archiver path).
	Tool string
	// Args excludes the tool itself.
	Args []string
	// Dir is the working directory the tool runs in.
	Dir string
	// Output is the file the invocation produces.
	Output string
}

// CommandLine renders the invocation for logs and error messages.
func (inv Invocation) CommandLine() string {
	return strings.Join(append([]string{inv.Tool}, inv.Args...), " ")
}

// Result is what a tool reported after it finished.
type Result struct {
	ExitCode int
	// Output is the captured stdout and stderr.
	Output []byte
}

// Runner executes tool invocations. Run blocks until the tool exits. The
// returned error is reserved for failures to run the tool at all; a tool
// that ran and exited non-zero is reported through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ToolInvocationError is returned when a compiler, linker or archiver exits
// non-zero or cannot be started.
type ToolInvocationError struct {
	Step     Step
	Tool     string
	Args     []string
	ExitCode int
	// Output holds the captured diagnostic text.
	Output string
	// Err is set when the tool could not be started.
	Err error
}

func (e *ToolInvocationError) Error() string {
	cmd := strings.Join(append([]string{e.Tool}, e.Args...), " ")
	if e.Err != nil {
		return fmt.Sprintf("%s failed to start: %s: %v", e.Step, cmd, e.Err)
	}
	return fmt.Sprintf("%s failed with exit code %d: %s", e.Step, e.ExitCode, cmd)
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }

// Invoke runs inv through r and converts any failure into a
// ToolInvocationError.
func Invoke(ctx context.Context, r Runner, inv Invocation) (Result, error) {
	res, err := r.Run(ctx, inv)
	if err != nil {
		return res, &ToolInvocationError{
			Step:     inv.Step,
			Tool:     inv.Tool,
			Args:     inv.Args,
			ExitCode: -1,
			Output:   string(res.Output),
			Err:      err,
		}
	}
	if res.ExitCode != 0 {
		return res, &ToolInvocationError{
			Step:     inv.Step,
			Tool:     inv.Tool,
			Args:     inv.Args,
			ExitCode: res.ExitCode,
			Output:   string(res.Output),
		}
	}
	return res, nil
}
