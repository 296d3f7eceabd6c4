package app

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flightdrop/internal/registry"
	"github.com/vk/flightdrop/internal/testutil"
)

// setupAppTest creates a new App logging at debug level into a buffer.
func setupAppTest(t *testing.T, cfg Config, boot Bootstrapper, entries ...registry.Entry) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, validated, boot, entries...)

	t.Cleanup(func() {
		require.NoError(t, testApp.Close(context.Background()))
		if os.Getenv("FLIGHTDROP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
