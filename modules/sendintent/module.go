// Package sendintent launches platform intents from the script bundle.
package sendintent

import "github.com/vk/flightdrop/internal/module"

// Name is the module's registry name.
const Name = "sendintent"

// Module sends platform intents (SMS, dialer, mail, app launches).
type Module struct {
	module.Static
}

// New constructs the module.
func New(*module.Context) (module.Module, error) {
	return &Module{Static: module.NewStatic(Name, module.Service("SendIntentAndroid"))}, nil
}
