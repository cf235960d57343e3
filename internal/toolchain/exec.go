package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/vk/buldr/internal/ctxlog"
)

// ExecRunner runs tools as child processes.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the tool, waits for it and captures combined output.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing tool.", "step", inv.Step, "command", inv.CommandLine(), "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, inv.Tool, inv.Args...)
	cmd.Dir = inv.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := Result{Output: out.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		// The tool ran and reported failure: that is a result, not a run error.
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, err
}
