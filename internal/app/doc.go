// Package app is the host's composition root. It owns the one-time startup
// of the process: loading the manifest, the native bootstrap, creating the
// shared callback dispatcher and publishing the host descriptor that the
// surrounding runtime queries for modules and the bundle entry point.
//
// The App is decoupled from any specific entrypoint; cmd/flightdrop plays the
// role of the surrounding runtime.
package app
