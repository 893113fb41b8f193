// Package version provides build and version information for lakegen.
package version

import (
	"fmt"
	"runtime"
)

// Build information set at compile time via ldflags.
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information.
func Info() string {
	return fmt.Sprintf(
		"lakegen %s (commit: %s, built: %s, go: %s)",
		Version, Commit, BuildDate, runtime.Version(),
	)
}

// Short returns just the version string.
func Short() string {
	return Version
}
