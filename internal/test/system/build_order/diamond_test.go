package system

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buldr/internal/app"
	"github.com/vk/buldr/internal/testutil"
	"github.com/vk/buldr/internal/toolchain"
)

const diamondHCL = `
config {
  compiler_opts = ["-O2"]
}

project "app" {
  kind    = "executable"
  src     = ["app"]
  depends = ["net", "log"]
  links   = ["pthread"]
  default = true
}

project "net" {
  kind    = "library"
  src     = ["net"]
  include = ["net/include"]
  depends = ["core"]
}

project "log" {
  kind    = "library"
  src     = ["log"]
  include = ["log/include"]
  depends = ["core"]
}

project "core" {
  kind    = "library"
  src     = ["core"]
  include = ["core/include"]
  defines = ["CORE_API=1"]
  links   = ["m"]
}

project "bench" {
  kind    = "executable"
  src     = ["bench"]
  depends = ["core"]
}
`

func diamondTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"build.hcl":     diamondHCL,
		"app/main.c":    "",
		"net/socket.c":  "",
		"log/log.cpp":   "",
		"core/core.c":   "",
		"core/util.cc":  "",
		"bench/bench.c": "",
	})
}

// Test for: Dependencies are built before dependents, with ties broken by
// declaration order, and unrelated non-default projects are left alone.
func TestBuildOrder_DiamondFollowsTopologicalOrder(t *testing.T) {
	// --- Arrange ---
	root := diamondTree(t)
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"libcore.a", "libnet.a", "liblog.a", "app"}, testutil.ArtifactOutputs(runner))
	assert.NotContains(t, testutil.CompiledSources(runner), "bench.c")
}

// Test for: Includes and defines flow down the dependency chain and every
// library archive reaches the final link ahead of system libraries.
func TestBuildOrder_SettingsPropagateTransitively(t *testing.T) {
	// --- Arrange ---
	root := diamondTree(t)
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)

	var appCompile toolchain.Invocation
	for _, inv := range runner.CallsOf(toolchain.StepCompile) {
		if filepath.Base(inv.Output) == "main.o" {
			appCompile = inv
		}
	}
	require.NotEmpty(t, appCompile.Args)
	assert.Equal(t, []string{
		"-O2",
		"-Inet/include", "-Icore/include", "-Ilog/include",
		"-DCORE_API=1",
		"-c", filepath.Join(root, "app", "main.c"),
		"-o", filepath.Join(root, "obj", "app", "app", "main.o"),
	}, appCompile.Args)

	links := runner.CallsOf(toolchain.StepLink)
	require.Len(t, links, 1)
	bin := filepath.Join(root, "bin")
	assert.Equal(t, []string{
		filepath.Join(root, "obj", "app", "app", "main.o"),
		filepath.Join(bin, "libnet.a"),
		filepath.Join(bin, "libcore.a"),
		filepath.Join(bin, "liblog.a"),
		"-lpthread",
		"-lm",
		"-o", filepath.Join(bin, "app"),
	}, links[0].Args)

	// Libraries are packed, never linked against their own dependencies.
	for _, inv := range runner.CallsOf(toolchain.StepArchive) {
		assert.Equal(t, "ar", inv.Tool)
		assert.Equal(t, "rcs", inv.Args[0])
		assert.NotContains(t, inv.Args, "-lm")
	}
}

// Test for: Naming a project builds exactly its dependency closure.
func TestBuildOrder_NamedTargetBuildsClosureOnly(t *testing.T) {
	// --- Arrange ---
	root := diamondTree(t)
	runner := &testutil.FakeRunner{}

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{Target: "bench"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"core.c", "util.cc", "bench.c"}, testutil.CompiledSources(runner))
	assert.Equal(t, []string{"libcore.a", "bench"}, testutil.ArtifactOutputs(runner))
}

// Test for: A failing compile stops the build before any dependent runs.
func TestBuildOrder_FailureStopsDependents(t *testing.T) {
	// --- Arrange ---
	root := diamondTree(t)
	runner := &testutil.FakeRunner{FailOn: testutil.FailCompileOf("socket.c")}

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{Jobs: 4})

	// --- Assert ---
	var toolErr *toolchain.ToolInvocationError
	require.ErrorAs(t, result.Err, &toolErr)
	assert.Equal(t, []string{"libcore.a"}, testutil.ArtifactOutputs(runner))
	assert.NotContains(t, testutil.CompiledSources(runner), "log.cpp")
	assert.NotContains(t, testutil.CompiledSources(runner), "main.c")
	assert.Contains(t, result.LogOutput, "compile step failed")
}
