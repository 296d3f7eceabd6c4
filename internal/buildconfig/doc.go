// Package buildconfig holds values fixed when the binary is built.
//
// Debug builds are produced with `go build -tags debug`; every other build is
// a release build.
package buildconfig
