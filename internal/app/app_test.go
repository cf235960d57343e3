package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/testutil"
	"github.com/vk/buldr/internal/toolchain"
)

const manifestTOML = `
[config]
compiler = "cc"
bin = "bin"
obj = "obj"

[[project]]
name = "util"
kind = "library"
src = ["util"]
include = ["util"]

[[project]]
name = "app"
kind = "executable"
src = ["src"]
depends = ["util"]
default = true
`

func workspace(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"build.toml":  manifestTOML,
		"util/util.c": "int util(void) { return 0; }\n",
		"util/util.h": "int util(void);\n",
		"src/main.c":  "int main(void) { return 0; }\n",
		"src/cli.c":   "void cli(void) {}\n",
	})
}

func runApp(t *testing.T, root string, cfg Config, runner *testutil.FakeRunner) (string, error) {
	t.Helper()
	cfg.WorkDir = root
	cfg.NoProgress = true
	c, err := NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a := NewApp(logs, c, WithRunner(runner))
	err = a.Run(context.Background())
	if os.Getenv("BULDR_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	return logs.String(), err
}

func TestRun_Build(t *testing.T) {
	root := workspace(t)
	runner := &testutil.FakeRunner{}

	out, err := runApp(t, root, Config{}, runner)
	require.NoError(t, err)
	assert.Contains(t, out, "Build succeeded: 3 compiled, 2 linked or packed, 0 up to date")
	assert.FileExists(t, filepath.Join(root, "bin", "app"))
	assert.FileExists(t, filepath.Join(root, "obj", "app", "src", "main.o"))

	runner.Reset()
	out, err = runApp(t, root, Config{Command: CommandBuild}, runner)
	require.NoError(t, err)
	testutil.AssertNoInvocations(t, runner)
	assert.Contains(t, out, "Build succeeded: 0 compiled, 0 linked or packed, 2 up to date")
}

func TestRun_BuildNamedTarget(t *testing.T) {
	root := workspace(t)
	runner := &testutil.FakeRunner{}

	_, err := runApp(t, root, Config{Target: "util", Jobs: 2}, runner)
	require.NoError(t, err)
	assert.Equal(t, []string{"util.c"}, testutil.CompiledSources(runner))
	assert.NoFileExists(t, filepath.Join(root, "bin", "app"))
}

func TestRun_BuildFailureIsReported(t *testing.T) {
	root := workspace(t)
	runner := &testutil.FakeRunner{FailOn: testutil.FailCompileOf("util.c")}

	out, err := runApp(t, root, Config{}, runner)
	var toolErr *toolchain.ToolInvocationError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, out, "error: compile step failed (exit code 1)")
	assert.Contains(t, out, "simulated failure")
	assert.Contains(t, out, "-c "+filepath.Join(root, "util", "util.c"))
	assert.NoDirExists(t, filepath.Join(root, "bin"))
}

func TestRun_MissingManifest(t *testing.T) {
	out, err := runApp(t, t.TempDir(), Config{}, &testutil.FakeRunner{})
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, out, "no manifest found")
}

func TestRun_Clean(t *testing.T) {
	root := workspace(t)
	_, err := runApp(t, root, Config{}, &testutil.FakeRunner{})
	require.NoError(t, err)

	out, err := runApp(t, root, Config{Command: CommandClean}, &testutil.FakeRunner{})
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned")
	assert.NoDirExists(t, filepath.Join(root, "obj"))
	assert.NoDirExists(t, filepath.Join(root, "bin"))
	assert.FileExists(t, filepath.Join(root, "src", "main.c"))
}

func TestRun_CompileCommands(t *testing.T) {
	root := workspace(t)
	runner := &testutil.FakeRunner{}

	_, err := runApp(t, root, Config{Command: CommandCompileCommands}, runner)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "compile_commands.json"))
	testutil.AssertNoInvocations(t, runner)
}

func TestRun_Create(t *testing.T) {
	root := t.TempDir()

	out, err := runApp(t, root, Config{Command: CommandCreate}, &testutil.FakeRunner{})
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.FileExists(t, filepath.Join(root, "build.toml"))

	out, err = runApp(t, root, Config{Command: CommandCreate}, &testutil.FakeRunner{})
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		in      Config
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "defaults",
			in:   Config{},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, CommandBuild, c.Command)
				assert.Equal(t, 1, c.Jobs)
				assert.Equal(t, ".", c.WorkDir)
				assert.Equal(t, "text", c.LogFormat)
				assert.Equal(t, "info", c.LogLevel)
			},
		},
		{
			name: "case folding",
			in:   Config{LogFormat: "JSON", LogLevel: "Debug"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.LogFormat)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{name: "unknown command", in: Config{Command: "deploy"}, wantErr: "unknown command"},
		{name: "target on clean", in: Config{Command: CommandClean, Target: "app"}, wantErr: "does not take a project name"},
		{name: "negative jobs", in: Config{Jobs: -2}, wantErr: "jobs must be positive"},
		{name: "bad format", in: Config{LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad level", in: Config{LogLevel: "trace"}, wantErr: "invalid log level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}
