package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// InspectorURL is the socket.io endpoint of a developer inspector. Only
	// valid in developer mode.
	InspectorURL      string
	InspectorInsecure bool

	// DeveloperMode is the build-time debug flag. It never changes at runtime.
	DeveloperMode bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.InspectorURL != "" && !cfg.DeveloperMode {
		return nil, errors.New("an inspector can only be attached to a debug build")
	}
	for _, p := range cfg.ManifestPaths {
		if p == "" {
			return nil, errors.New("manifest paths must not be empty")
		}
	}

	cfg.ManifestPaths = append([]string(nil), cfg.ManifestPaths...)
	return &cfg, nil
}
