// Package core provides the runtime's built-in services and views: storage,
// linking, networking state and the basic view managers.
package core

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "core"

var capabilities = []module.Capability{
	module.Service("AsyncSQLiteDBStorage"),
	module.Service("IntentAndroid"),
	module.Service("NetInfo"),
	module.Service("Networking"),
	module.Service("Vibration"),
	module.View("RCTView"),
	module.View("RCTText"),
	module.View("RCTImageView"),
	module.View("RCTScrollView"),
	module.View("RCTWebView"),
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
}

// New constructs the module.
func New(*module.Context) (module.Module, error) {
	return &Module{Static: module.NewStatic(Name, capabilities...)}, nil
}
