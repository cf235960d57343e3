package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/buldr/internal/toolchain"
)

// FakeRunner stands in for the real compiler, linker and archiver. Every
// successful invocation writes its Output file so timestamps behave the way
// they would with real tools.
type FakeRunner struct {
	mu    sync.Mutex
	calls []toolchain.Invocation

	// FailOn, when set, makes matching invocations exit with code 1.
	FailOn func(inv toolchain.Invocation) bool
}

// FailCompileOf returns a FailOn predicate matching the compile of any source
// whose path ends with suffix.
func FailCompileOf(suffix string) func(toolchain.Invocation) bool {
	return func(inv toolchain.Invocation) bool {
		if inv.Step != toolchain.StepCompile {
			return false
		}
		for i, arg := range inv.Args {
			if arg == "-c" && i+1 < len(inv.Args) {
				return strings.HasSuffix(inv.Args[i+1], suffix)
			}
		}
		return false
	}
}

// Run implements toolchain.Runner.
func (r *FakeRunner) Run(ctx context.Context, inv toolchain.Invocation) (toolchain.Result, error) {
	if err := ctx.Err(); err != nil {
		return toolchain.Result{}, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, inv)
	fail := r.FailOn != nil && r.FailOn(inv)
	r.mu.Unlock()

	if fail {
		return toolchain.Result{ExitCode: 1, Output: []byte("error: simulated failure\n")}, nil
	}
	if inv.Output != "" {
		if err := os.MkdirAll(filepath.Dir(inv.Output), 0o755); err != nil {
			return toolchain.Result{}, err
		}
		if err := os.WriteFile(inv.Output, []byte(inv.CommandLine()+"\n"), 0o644); err != nil {
			return toolchain.Result{}, err
		}
	}
	return toolchain.Result{}, nil
}

// Calls returns a copy of every invocation seen so far.
func (r *FakeRunner) Calls() []toolchain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toolchain.Invocation(nil), r.calls...)
}

// CallsOf filters Calls by step.
func (r *FakeRunner) CallsOf(step toolchain.Step) []toolchain.Invocation {
	var out []toolchain.Invocation
	for _, inv := range r.Calls() {
		if inv.Step == step {
			out = append(out, inv)
		}
	}
	return out
}

// Reset forgets recorded invocations.
func (r *FakeRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
