// Package remoteconfig serves Firebase Remote Config values.
package remoteconfig

import (
	"fmt"
	"time"

	"github.com/vk/flightdrop/internal/module"
)

// Name is the module's registry name.
const Name = "remoteconfig"

const defaultCacheExpiration = 12 * time.Hour

type options struct {
	CacheExpiration string `hcl:"cache_expiration,optional"`
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	developerMode   bool
	cacheExpiration time.Duration
}

// New constructs the module. Developer mode follows the host's developer
// mode, and in developer mode fetched values are never cached.
func New(mc *module.Context) (module.Module, error) {
	var opts options
	if err := mc.DecodeOptions(Name, &opts); err != nil {
		return nil, err
	}

	expiration := defaultCacheExpiration
	if opts.CacheExpiration != "" {
		d, err := time.ParseDuration(opts.CacheExpiration)
		if err != nil {
			return nil, fmt.Errorf("invalid cache_expiration: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid cache_expiration: %s is negative", d)
		}
		expiration = d
	}
	if mc.DeveloperMode {
		expiration = 0
	}

	return &Module{
		Static:          module.NewStatic(Name, module.Service("RNFirebaseRemoteConfig")),
		developerMode:   mc.DeveloperMode,
		cacheExpiration: expiration,
	}, nil
}

// DeveloperMode reports whether Remote Config developer mode is enabled.
func (m *Module) DeveloperMode() bool { return m.developerMode }

// CacheExpiration is how long fetched values are served before refetching.
func (m *Module) CacheExpiration() time.Duration { return m.cacheExpiration }
