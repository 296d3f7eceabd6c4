// Package testutil provides shared helpers for the host's tests: captured
// logs, temporary manifests, construction contexts and recording modules.
package testutil
