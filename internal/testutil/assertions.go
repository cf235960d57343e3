package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/buldr/internal/toolchain"
)

// CompiledSources returns the base names of every source compiled by r, in
// call order.
func CompiledSources(r *FakeRunner) []string {
	var names []string
	for _, inv := range r.CallsOf(toolchain.StepCompile) {
		for i, arg := range inv.Args {
			if arg == "-c" && i+1 < len(inv.Args) {
				names = append(names, filepath.Base(inv.Args[i+1]))
			}
		}
	}
	return names
}

// ArtifactOutputs returns the base names of every link and archive output
// produced by r, in call order.
func ArtifactOutputs(r *FakeRunner) []string {
	var names []string
	for _, inv := range r.Calls() {
		if inv.Step != toolchain.StepCompile {
			names = append(names, filepath.Base(inv.Output))
		}
	}
	return names
}

// AssertNoInvocations fails the test if r ran any tool.
func AssertNoInvocations(t *testing.T, r *FakeRunner) {
	t.Helper()
	require.Empty(t, r.Calls(), "expected no tool invocations")
}
