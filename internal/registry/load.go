package registry

import (
	"errors"
	"fmt"

	"github.com/vk/flightdrop/internal/module"
)

// ErrConstruction wraps every failure to construct a module.
var ErrConstruction = errors.New("module construction failed")

// Build constructs every registered module, in order, from the same
// construction context. The first failure stops the build and is returned
// wrapped with ErrConstruction and the module's name. Manifest options a
// module does not accept are a construction failure.
func (r *Registry) Build(mc *module.Context) ([]module.Module, error) {
	logger := mc.Logger
	mods := make([]module.Module, 0, len(r.entries))

	for _, e := range r.entries {
		m, err := e.New(mc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConstruction, e.Name, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s: factory returned no module", ErrConstruction, e.Name)
		}
		if m.Name() != e.Name {
			return nil, fmt.Errorf("%w: %s: factory built module named %q", ErrConstruction, e.Name, m.Name())
		}
		if err := mc.CheckOptions(e.Name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConstruction, e.Name, err)
		}
		mods = append(mods, m)
		if logger != nil {
			logger.Debug("Module constructed.", "module", e.Name, "capabilities", len(m.Capabilities()))
		}
	}

	return mods, nil
}
