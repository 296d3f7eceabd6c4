// Package host exposes the Descriptor, the only object the surrounding
// runtime needs from this host: the module list, the entry point of the
// script bundle, and whether developer support is on.
package host

import (
	"sync"

	"github.com/vk/flightdrop/internal/module"
	"github.com/vk/flightdrop/internal/registry"
)

// EntryPoint is the logical name of the script bundle's bootstrap module.
const EntryPoint = "index"

// Descriptor answers the runtime's queries about this host.
type Descriptor struct {
	registry      *registry.Registry
	mc            *module.Context
	developerMode bool

	mu    sync.Mutex
	mods  []module.Module
	hooks []func([]module.Module)
}

// New returns a Descriptor that builds modules from reg with mc.
func New(reg *registry.Registry, mc *module.Context, developerMode bool) *Descriptor {
	return &Descriptor{
		registry:      reg,
		mc:            mc,
		developerMode: developerMode,
	}
}

// DeveloperModeEnabled reports the build-time developer mode flag.
func (d *Descriptor) DeveloperModeEnabled() bool {
	return d.developerMode
}

// EntryPoint returns the name of the bundle's bootstrap module.
func (d *Descriptor) EntryPoint() string {
	return EntryPoint
}

// Modules returns the host's modules in registry order. The first successful
// build is kept, so every module is constructed at most once and repeated
// queries see the same instances. A failed build is returned to the caller
// and not kept.
func (d *Descriptor) Modules() ([]module.Module, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mods == nil {
		mods, err := d.registry.Build(d.mc)
		if err != nil {
			return nil, err
		}
		d.mods = mods
		for _, hook := range d.hooks {
			hook(append([]module.Module(nil), mods...))
		}
		d.hooks = nil
	}
	return append([]module.Module(nil), d.mods...), nil
}

// OnBuild registers fn to receive the module list once it has been built. If
// the modules already exist fn is called immediately.
func (d *Descriptor) OnBuild(fn func([]module.Module)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mods != nil {
		fn(append([]module.Module(nil), d.mods...))
		return
	}
	d.hooks = append(d.hooks, fn)
}
