// Package socialshare shares text and links to social network apps.
package socialshare

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "socialshare"

// Module implements module.Module for this package.
type Module struct {
	module.Static
}

// New constructs the module.
func New(*module.Context) (module.Module, error) {
	return &Module{Static: module.NewStatic(Name,
		module.Service("KDSocialShare"),
	)}, nil
}
