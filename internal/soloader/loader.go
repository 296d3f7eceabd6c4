// Package soloader performs the host's one-time native bootstrap: every shared
// library the runtime depends on must be resolvable before any feature module
// is constructed.
package soloader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/vk/flightdrop/internal/ctxlog"
	"github.com/vk/flightdrop/internal/fsutil"
)

// ErrLibraryNotFound is returned when a required library is missing from every
// search path.
var ErrLibraryNotFound = errors.New("native library not found")

// Loader resolves a fixed set of shared libraries exactly once.
type Loader struct {
	searchPaths []string
	libraries   []string

	once   sync.Once
	err    error
	loaded map[string]string
}

// New returns a Loader for libraries, given by short name ("fbjni" resolves
// to "libfbjni.so").
func New(searchPaths, libraries []string) *Loader {
	return &Loader{
		searchPaths: append([]string(nil), searchPaths...),
		libraries:   append([]string(nil), libraries...),
	}
}

// Init resolves the libraries. Only the first call does any work; every call
// returns the first call's result.
func (l *Loader) Init(ctx context.Context) error {
	l.once.Do(func() {
		l.loaded, l.err = l.resolve(ctx)
	})
	return l.err
}

// Loaded returns the resolved path of every library after a successful Init.
func (l *Loader) Loaded() map[string]string {
	return maps.Clone(l.loaded)
}

func (l *Loader) resolve(ctx context.Context) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving native libraries.", "libraries", l.libraries, "search_paths", l.searchPaths)

	loaded := make(map[string]string, len(l.libraries))
	var missing []string
	for _, lib := range l.libraries {
		path, ok, err := fsutil.FindFile(l.searchPaths, fileName(lib))
		if err != nil {
			return nil, fmt.Errorf("failed to search for native library %q: %w", lib, err)
		}
		if !ok {
			missing = append(missing, lib)
			continue
		}
		loaded[lib] = path
		logger.Debug("Native library resolved.", "library", lib, "path", path)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, strings.Join(missing, ", "))
	}

	logger.Info("Native libraries loaded.", "count", len(loaded))
	return loaded, nil
}

func fileName(lib string) string {
	if strings.HasSuffix(lib, ".so") {
		return lib
	}
	return "lib" + lib + ".so"
}
