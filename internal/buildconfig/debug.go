//go:build debug

package buildconfig

// Debug reports whether this is a debug build.
const Debug = true
