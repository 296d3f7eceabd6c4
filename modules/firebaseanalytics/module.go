// Package firebaseanalytics logs analytics events through the Firebase app.
package firebaseanalytics

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "firebaseanalytics"

// Module implements module.Module for this package.
type Module struct {
	module.Static
}

// New constructs the module.
func New(*module.Context) (module.Module, error) {
	return &Module{Static: module.NewStatic(Name,
		module.Service("RNFirebaseAnalytics"),
	)}, nil
}
