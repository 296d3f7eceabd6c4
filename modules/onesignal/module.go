// Package onesignal delivers push notifications through OneSignal.
package onesignal

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/flightdrop/internal/module"
)

// Name is the module's registry name.
const Name = "onesignal"

type options struct {
	AppID       string `hcl:"app_id,optional"`
	InAppAlerts *bool  `hcl:"in_app_alerts,optional"`
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	appID       string
	inAppAlerts bool
}

// New constructs the module. The app id is optional here because the bundle
// may initialize OneSignal itself, but when given it must be a OneSignal app
// id (a UUID).
func New(mc *module.Context) (module.Module, error) {
	var opts options
	if err := mc.DecodeOptions(Name, &opts); err != nil {
		return nil, err
	}

	appID := ""
	if opts.AppID != "" {
		id, err := uuid.Parse(opts.AppID)
		if err != nil {
			return nil, fmt.Errorf("invalid app_id %q: %w", opts.AppID, err)
		}
		appID = id.String()
	}

	inAppAlerts := true
	if opts.InAppAlerts != nil {
		inAppAlerts = *opts.InAppAlerts
	}

	return &Module{
		Static:      module.NewStatic(Name, module.Service("OneSignal")),
		appID:       appID,
		inAppAlerts: inAppAlerts,
	}, nil
}

// AppID returns the configured app id in canonical form, or "".
func (m *Module) AppID() string { return m.appID }

// InAppAlerts reports whether notifications received in the foreground are shown.
func (m *Module) InAppAlerts() bool { return m.inAppAlerts }
