// Package deviceinfo exposes device and build information to the script bundle.
package deviceinfo

import (
	"os"
	"runtime"

	"github.com/vk/flightdrop/internal/module"
)

// Name is the module's registry name.
const Name = "deviceinfo"

// Info is the snapshot served to the bundle.
type Info struct {
	OS        string
	Arch      string
	Hostname  string
	GoVersion string
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	info Info
}

// New constructs the module. The snapshot is taken once, at construction.
func New(*module.Context) (module.Module, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Module{
		Static: module.NewStatic(Name, module.Service("RNDeviceInfo")),
		info: Info{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Hostname:  hostname,
			GoVersion: runtime.Version(),
		},
	}, nil
}

// Info returns the device snapshot.
func (m *Module) Info() Info {
	return m.info
}
