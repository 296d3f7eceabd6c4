package module

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/manifest"
)

// Kind classifies a capability.
type Kind int

const (
	// KindService is a native service callable from the script bundle.
	KindService Kind = iota
	// KindView is a native view manager.
	KindView
)

func (k Kind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// Capability is one thing a module exposes to the host runtime.
type Capability struct {
	Name string
	Kind Kind
}

// Service is shorthand for a KindService capability.
func Service(name string) Capability { return Capability{Name: name, Kind: KindService} }

// View is shorthand for a KindView capability.
func View(name string) Capability { return Capability{Name: name, Kind: KindView} }

// Module is a feature module. Implementations are not mutated by the host
// after construction.
type Module interface {
	Name() string
	Capabilities() []Capability
}

// Starter is implemented by modules with work to do once the host runs.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by modules that release resources on shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// DispatcherUser is implemented by modules holding the shared dispatcher.
type DispatcherUser interface {
	Dispatcher() *dispatcher.Dispatcher
}

// Factory constructs a module. Every factory receives the same Context.
type Factory func(mc *Context) (Module, error)

// Context is the shared construction context handed to every Factory.
type Context struct {
	Logger        *slog.Logger
	Dispatcher    *dispatcher.Dispatcher
	DeveloperMode bool
	Options       manifest.Options
	EvalContext   *hcl.EvalContext

	mu      sync.Mutex
	decoded map[string]bool
}

// DecodeOptions decodes the manifest options block for the named module into
// target. Without a block target keeps its defaults.
func (c *Context) DecodeOptions(name string, target any) error {
	c.mu.Lock()
	if c.decoded == nil {
		c.decoded = make(map[string]bool)
	}
	c.decoded[name] = true
	c.mu.Unlock()

	return c.Options.Decode(name, c.EvalContext, target)
}

// CheckOptions fails if the named module has an options block it never
// decoded and that block is not empty. Modules without options accept only
// `module "name" {}`.
func (c *Context) CheckOptions(name string) error {
	c.mu.Lock()
	decoded := c.decoded[name]
	c.mu.Unlock()

	if decoded {
		return nil
	}
	return c.Options.Decode(name, c.EvalContext, &struct{}{})
}

// ModuleLogger returns the context logger scoped to one module.
func (c *Context) ModuleLogger(name string) *slog.Logger {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("module", name)
}

// Static implements Module for modules whose capabilities never change.
type Static struct {
	name string
	caps []Capability
}

// NewStatic returns a Static with the given name and capabilities.
func NewStatic(name string, caps ...Capability) Static {
	return Static{name: name, caps: caps}
}

// Name implements Module.
func (s Static) Name() string { return s.name }

// Capabilities implements Module. The returned slice is a copy.
func (s Static) Capabilities() []Capability {
	return append([]Capability(nil), s.caps...)
}
