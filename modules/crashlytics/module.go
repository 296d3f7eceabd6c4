// Package crashlytics reports crashes and non-fatal errors to Firebase Crashlytics.
package crashlytics

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "crashlytics"

type options struct {
	CollectionEnabled *bool `hcl:"collection_enabled,optional"`
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	collectionEnabled bool
}

// New constructs the module. Crash collection is on unless the manifest
// disables it.
func New(mc *module.Context) (module.Module, error) {
	var opts options
	if err := mc.DecodeOptions(Name, &opts); err != nil {
		return nil, err
	}

	enabled := true
	if opts.CollectionEnabled != nil {
		enabled = *opts.CollectionEnabled
	}
	return &Module{
		Static:            module.NewStatic(Name, module.Service("RNFirebaseCrashlytics")),
		collectionEnabled: enabled,
	}, nil
}

// CollectionEnabled reports whether crash reports are sent.
func (m *Module) CollectionEnabled() bool { return m.collectionEnabled }
