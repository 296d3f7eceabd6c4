// Package registry holds the ordered list of feature module factories
// compiled into the host.
//
// The Registry is the single place that decides which modules exist and in
// which order they are constructed. Building it is deterministic: the same
// Registry produces modules of the same names, in the same order, on every
// call. During startup the registry is also checked against the manifest so
// that options configured for a module the binary does not contain are
// reported instead of silently ignored.
package registry
