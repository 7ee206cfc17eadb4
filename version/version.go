// Package version carries build metadata, set through -ldflags or read from
// the Go build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Name of the application
	AppName = "blsync"

	// Version of the application
	Version = "dev"

	// Git commit hash of the application
	Revision = "HEAD"

	// Build date of the application
	BuildDate = "unknown"
)

func applyBuildInfo(mainVersion string, settings map[string]string) {
	if Version == "dev" && mainVersion != "" && mainVersion != "(devel)" {
		Version = mainVersion
	}
	if Revision == "HEAD" {
		if r := settings["vcs.revision"]; r != "" {
			if settings["vcs.modified"] == "true" {
				r += "-dirty"
			}
			Revision = r
		}
	}
	if BuildDate == "unknown" {
		if t := settings["vcs.time"]; t != "" {
			BuildDate = t
		}
	}
}

// Short returns `dev (5e23a4)`.
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Revision)
}

// Detailed returns `dev (5e23a4; go1.24.0; linux/amd64; 2025-01-01T00:00:00Z)`.
func Detailed() string {
	return fmt.Sprintf("%s (%s; %s; %s/%s; %s)", Version, Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH, BuildDate)
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}
	settings := map[string]string{}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	applyBuildInfo(info.Main.Version, settings)
}
