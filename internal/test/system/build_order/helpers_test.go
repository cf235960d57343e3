package system

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/buldr/internal/app"
	"github.com/vk/buldr/internal/testutil"
)

// runResult holds the outcome of one end-to-end invocation.
type runResult struct {
	LogOutput string
	Err       error
}

// runBuldr runs a full invocation in root against runner, the way the
// binary would after flag parsing.
func runBuldr(t *testing.T, root string, runner *testutil.FakeRunner, cfg app.Config) *runResult {
	t.Helper()
	cfg.WorkDir = root
	cfg.NoProgress = true
	cfg.LogLevel = "debug"
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	err = app.NewApp(logBuffer, appConfig, app.WithRunner(runner)).Run(context.Background())

	if os.Getenv("BULDR_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}
	return &runResult{LogOutput: logBuffer.String(), Err: err}
}
