// Package firebase initializes the default Firebase app that the analytics,
// remote config and crashlytics modules build on.
package firebase

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "firebase"

// Options configure the Firebase app.
type Options struct {
	Debug bool `hcl:"debug,optional"`
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	opts Options
}

// New constructs the module. SDK debug logging is off unless the manifest
// turns it on.
func New(mc *module.Context) (module.Module, error) {
	var opts Options
	if err := mc.DecodeOptions(Name, &opts); err != nil {
		return nil, err
	}
	return &Module{
		Static: module.NewStatic(Name, module.Service("RNFirebase"), module.Service("RNFirebaseUtils")),
		opts:   opts,
	}, nil
}

// Options returns the options the app was initialized with.
func (m *Module) Options() Options {
	return m.opts
}
