// Package devtools connects a developer-mode host to an external inspector
// over socket.io and streams the host's module list and every platform
// result routed by the dispatcher. The application only uses it in debug
// builds.
package devtools

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/vk/flightdrop/internal/ctxlog"
	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/module"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const connectTimeout = 15 * time.Second

// Event names sent to the inspector.
const (
	EventModules        = "modules"
	EventActivityResult = "activity_result"
)

// Inspector streams host events to a connected inspector.
type Inspector struct {
	logger *slog.Logger
	emit   func(event string, args ...any)
	close  func()

	mu       sync.Mutex
	detaches []func()
	closed   bool
}

func newInspector(logger *slog.Logger, emit func(string, ...any), closeFn func()) *Inspector {
	return &Inspector{logger: logger, emit: emit, close: closeFn}
}

// Connect dials the inspector at rawURL and waits for the connection.
func Connect(ctx context.Context, rawURL string, insecureSkipVerify bool) (*Inspector, error) {
	logger := ctxlog.FromContext(ctx).With("component", "devtools", "url", rawURL)
	logger.Debug("Connecting to inspector...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inspector URL: %w", err)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to inspector.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("inspector connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for inspector connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for inspector connection", connectTimeout)
	}

	emit := func(event string, args ...any) {
		io.Emit(event, args...)
	}
	return newInspector(logger, emit, func() { io.Disconnect() }), nil
}

// Attach forwards every result routed by d until the inspector is closed.
func (i *Inspector) Attach(d *dispatcher.Dispatcher) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return
	}

	cancel := d.Observe(func(_ context.Context, res dispatcher.Result, handled bool) {
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.closed {
			return
		}
		i.emit(EventActivityResult, map[string]any{
			"dispatcher":   d.ID(),
			"request_code": res.RequestCode,
			"result_code":  res.ResultCode,
			"handled":      handled,
			"data":         res.Data,
		})
	})
	i.detaches = append(i.detaches, cancel)
	i.logger.Debug("Inspector attached.", "dispatcher", d.ID())
}

// PublishModules sends the host's module list.
func (i *Inspector) PublishModules(mods []module.Module) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return
	}
	i.emit(EventModules, describeModules(mods))
}

// Close detaches from every dispatcher and disconnects. It is safe to call
// more than once.
func (i *Inspector) Close() {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	i.closed = true
	detaches := i.detaches
	i.detaches = nil
	i.mu.Unlock()

	for _, detach := range detaches {
		detach()
	}
	i.close()
	i.logger.Debug("Inspector closed.")
}

func describeModules(mods []module.Module) []map[string]any {
	list := make([]map[string]any, 0, len(mods))
	for _, m := range mods {
		caps := make([]map[string]any, 0)
		for _, c := range m.Capabilities() {
			caps = append(caps, map[string]any{"name": c.Name, "kind": c.Kind.String()})
		}
		list = append(list, map[string]any{"name": m.Name(), "capabilities": caps})
	}
	return list
}
