package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/vk/flightdrop/internal/ctxlog"
	"github.com/vk/flightdrop/internal/devtools"
	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/host"
	"github.com/vk/flightdrop/internal/manifest"
	"github.com/vk/flightdrop/internal/module"
	"github.com/vk/flightdrop/internal/registry"
	"github.com/vk/flightdrop/internal/soloader"
)

var (
	// ErrBootstrap wraps failures of the one-time native bootstrap.
	ErrBootstrap = errors.New("native bootstrap failed")
	// ErrNotRunning is returned when querying an App that has not started.
	ErrNotRunning = errors.New("application is not running")
)

// State is the lifecycle state of an App.
type State int32

const (
	// StateUninitialized is the state before a successful OnCreate.
	StateUninitialized State = iota
	// StateRunning is the state after a successful OnCreate. It is final.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Bootstrapper performs the native bootstrap. Init is called once per App.
type Bootstrapper interface {
	Init(ctx context.Context) error
}

// BootstrapFunc adapts a function to Bootstrapper.
type BootstrapFunc func(ctx context.Context) error

// Init implements Bootstrapper.
func (f BootstrapFunc) Init(ctx context.Context) error { return f(ctx) }

// App encapsulates the host's dependencies, configuration, and lifecycle.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	config      *Config
	registry    *registry.Registry
	boot        Bootstrapper
	dispatchers dispatcher.Provider

	state      atomic.Int32
	descriptor *host.Descriptor

	mu          sync.Mutex
	startErr    error
	inspector   *devtools.Inspector
	detachDebug func()
	httpServer  *http.Server
}

// NewApp is the constructor for the host. It performs no I/O. A nil boot
// resolves the native libraries named in the manifest. Without entries the
// compiled-in module list is used.
func NewApp(outW io.Writer, cfg *Config, boot Bootstrapper, entries ...registry.Entry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(entries) == 0 {
		entries = coreModules
	}
	reg := registry.New(entries...)
	logger.Debug("Module registry created.", "count", reg.Len(), "modules", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		boot:     boot,
	}
}

// State returns the current lifecycle state.
func (a *App) State() State {
	return State(a.state.Load())
}

// Dispatcher returns the process's callback dispatcher. It is the entry point
// for platform results and is the same instance handed to modules.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatchers.Get()
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Descriptor returns the published host descriptor.
func (a *App) Descriptor() (*host.Descriptor, error) {
	if a.State() != StateRunning {
		return nil, ErrNotRunning
	}
	return a.descriptor, nil
}

// OnCreate moves the App from Uninitialized to Running. It runs once: after
// success further calls do nothing, and after a failure every further call
// returns the same error.
func (a *App) OnCreate(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.State() == StateRunning {
		a.logger.Debug("OnCreate called on a running application, ignoring.")
		return nil
	}
	if a.startErr != nil {
		return a.startErr
	}

	ctx = ctxlog.WithLogger(ctx, a.logger)
	if err := a.start(ctx); err != nil {
		a.startErr = err
		a.logger.Error("Application failed to start.", "error", err)
		return err
	}

	a.state.Store(int32(StateRunning))
	a.logger.Info("🚀 Application running.", "entry_point", a.descriptor.EntryPoint(), "developer_mode", a.descriptor.DeveloperModeEnabled())
	return nil
}

func (a *App) start(ctx context.Context) error {
	m, err := manifest.Load(ctx, a.config.DeveloperMode, a.config.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	if err := a.registry.ValidateConfigured(m.Modules.Names()); err != nil {
		return err
	}

	boot := a.boot
	if boot == nil {
		boot = soloader.New(m.Native.SearchPaths, m.Native.Libraries)
	}
	if err := boot.Init(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	a.logger.Debug("Native bootstrap complete.")

	// The dispatcher exists before any module can be constructed.
	d := a.dispatchers.Get()
	mc := &module.Context{
		Logger:        a.logger,
		Dispatcher:    d,
		DeveloperMode: a.config.DeveloperMode,
		Options:       m.Modules,
		EvalContext:   m.EvalContext,
	}
	a.descriptor = host.New(a.registry, mc, a.config.DeveloperMode)
	a.logger.Debug("Host descriptor published.", "dispatcher", d.ID())

	if a.descriptor.DeveloperModeEnabled() {
		a.enableDeveloperSupport(ctx, d)
	}

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
	}
	return nil
}

// enableDeveloperSupport turns on debug-only instrumentation. Failures here
// are logged and never stop the application.
func (a *App) enableDeveloperSupport(ctx context.Context, d *dispatcher.Dispatcher) {
	a.detachDebug = d.Observe(func(_ context.Context, res dispatcher.Result, handled bool) {
		a.logger.Debug("Activity result routed.", "request_code", res.RequestCode, "result_code", res.ResultCode, "handled", handled)
	})
	a.logger.Info("Developer support enabled.")

	if a.config.InspectorURL == "" {
		return
	}
	inspector, err := devtools.Connect(ctx, a.config.InspectorURL, a.config.InspectorInsecure)
	if err != nil {
		a.logger.Warn("Inspector unavailable, continuing without it.", "url", a.config.InspectorURL, "error", err)
		return
	}
	a.attachInspector(inspector, d)
}

func (a *App) attachInspector(inspector *devtools.Inspector, d *dispatcher.Dispatcher) {
	inspector.Attach(d)
	a.descriptor.OnBuild(inspector.PublishModules)
	a.inspector = inspector
}

// Close releases what OnCreate acquired: the healthcheck server, the
// inspector connection and the debug observer. Modules are stopped by
// whoever started them.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.inspector != nil {
		a.inspector.Close()
		a.inspector = nil
	}
	if a.detachDebug != nil {
		a.detachDebug()
		a.detachDebug = nil
	}
	return a.closeHealthcheckServer(ctx)
}
