// Package lineargradient renders linear gradient views.
package lineargradient

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "lineargradient"

// Module implements module.Module for this package.
type Module struct {
	module.Static
}

// New constructs the module.
func New(*module.Context) (module.Module, error) {
	return &Module{Static: module.NewStatic(Name,
		module.View("BVLinearGradient"),
	)}, nil
}
