package registry

import (
	"fmt"

	"github.com/vk/flightdrop/internal/module"
)

// Entry binds a module name to the factory that constructs it.
type Entry struct {
	Name string
	New  module.Factory
}

// Registry is an ordered, immutable list of module entries.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// New creates a Registry from entries, in the given order. Empty names, nil
// factories and duplicate names are programmer errors and panic.
func New(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			panic("module entry must have a name")
		}
		if e.New == nil {
			panic(fmt.Sprintf("module '%s' has no factory", e.Name))
		}
		if _, exists := r.index[e.Name]; exists {
			panic(fmt.Sprintf("module with name '%s' already registered", e.Name))
		}
		r.index[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the registered module names in construction order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Has reports whether a module called name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}
