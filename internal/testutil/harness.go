package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/manifest"
	"github.com/vk/flightdrop/internal/module"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files (relative path -> content) under a new temporary
// directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// ModuleContext returns a construction context whose options come from the
// given manifest source. An empty source yields a context without options.
func ModuleContext(t *testing.T, manifestSrc string, developerMode bool) *module.Context {
	t.Helper()

	var paths []string
	if manifestSrc != "" {
		paths = append(paths, WriteFiles(t, map[string]string{"host.hcl": manifestSrc}))
	}

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := manifest.Load(context.Background(), developerMode, paths...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("FLIGHTDROP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	var p dispatcher.Provider
	return &module.Context{
		Logger:        logger,
		Dispatcher:    p.Get(),
		DeveloperMode: developerMode,
		Options:       m.Modules,
		EvalContext:   m.EvalContext,
	}
}
