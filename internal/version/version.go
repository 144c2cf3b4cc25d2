// Package version exposes build identification stamped in via ldflags:
//
//	go build -ldflags "-X .../internal/version.Version=v0.3.0 -X .../internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "runtime"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String renders the build identity as a single human-readable line.
func String() string {
	return Version + " (commit " + Commit + ", built " + BuildDate + ", " + GoVersion + ")"
}
