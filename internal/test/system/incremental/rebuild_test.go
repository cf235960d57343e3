package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buldr/internal/app"
	"github.com/vk/buldr/internal/testutil"
)

const yamlManifest = `
config:
  compiler_opts: ["-O0"]
projects:
  - name: shapes
    kind: library
    src: [shapes]
    include: [shapes]
  - name: draw
    kind: executable
    src: [draw/main.c, draw/render.c]
    depends: [shapes]
    default: true
`

func shapesTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"build.yaml":      yamlManifest,
		"shapes/circle.c": "",
		"shapes/square.c": "",
		"shapes/shapes.h": "",
		"draw/main.c":     "",
		"draw/render.c":   "",
		"draw/unused.c":   "",
	})
}

// Test for: An unchanged tree performs no tool invocations on rebuild.
func TestIncremental_UnchangedTreeIsNoOp(t *testing.T) {
	// --- Arrange ---
	root := shapesTree(t)
	runner := &testutil.FakeRunner{}
	require.NoError(t, runBuldr(t, root, runner, app.Config{}).Err)
	assert.Len(t, testutil.CompiledSources(runner), 4, "explicit file entries exclude unused.c")
	runner.Reset()

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertNoInvocations(t, runner)
	assert.Contains(t, result.LogOutput, "Project is up to date.")
}

// Test for: A stale object recompiles alone and the artifacts downstream of
// it are produced again.
func TestIncremental_StaleObjectRebuildsChain(t *testing.T) {
	// --- Arrange ---
	root := shapesTree(t)
	runner := &testutil.FakeRunner{}
	require.NoError(t, runBuldr(t, root, runner, app.Config{}).Err)
	runner.Reset()
	testutil.Age(t, filepath.Join(root, "obj", "shapes", "shapes", "square.o"))
	testutil.Age(t, filepath.Join(root, "bin", "draw"))

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"square.c"}, testutil.CompiledSources(runner))
	assert.Equal(t, []string{"libshapes.a", "draw"}, testutil.ArtifactOutputs(runner))
}

// Test for: Editing compile options in the manifest invalidates objects even
// though no source changed.
func TestIncremental_ManifestFlagChangeRecompiles(t *testing.T) {
	// --- Arrange ---
	root := shapesTree(t)
	runner := &testutil.FakeRunner{}
	require.NoError(t, runBuldr(t, root, runner, app.Config{}).Err)
	runner.Reset()

	manifestPath := filepath.Join(root, "build.yaml")
	updated := strings.Replace(yamlManifest, `["-O0"]`, `["-O2"]`, 1)
	require.NoError(t, os.WriteFile(manifestPath, []byte(updated), 0o644))

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Len(t, testutil.CompiledSources(runner), 4)
	assert.Contains(t, result.LogOutput, "compile command changed")
}

// Test for: clean removes all outputs so the next build starts from scratch.
func TestIncremental_CleanForcesFullRebuild(t *testing.T) {
	// --- Arrange ---
	root := shapesTree(t)
	runner := &testutil.FakeRunner{}
	require.NoError(t, runBuldr(t, root, runner, app.Config{}).Err)
	require.NoError(t, runBuldr(t, root, runner, app.Config{Command: app.CommandClean}).Err)
	assert.NoFileExists(t, filepath.Join(root, "obj", ".buldr-state.toml"))
	runner.Reset()

	// --- Act ---
	result := runBuldr(t, root, runner, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Len(t, testutil.CompiledSources(runner), 4)
}
