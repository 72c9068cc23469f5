// Package buildinfo reports the running binary's version, adapted from
// the teacher's src/version.go: a version string set via -ldflags at
// build time, plus VCS revision/dirty flag pulled from the Go module's
// own build info when available.
package buildinfo

import (
	"runtime/debug"
	"strconv"
)

// Version is set at build time via:
//
//	-ldflags "-X 'github.com/kgraymoore/snaplight/internal/buildinfo.Version=X'"
var Version string

func settingOrDefault(bi *debug.BuildInfo, key, fallback string) string {
	for _, setting := range bi.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}

	return fallback
}

// String renders a one-line version summary: "snaplight <version>
// (revision <rev>, built at <time>)", appending "-DIRTY" to the revision
// when the working tree had uncommitted changes at build time.
func String() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		buildInfo = &debug.BuildInfo{} //nolint:exhaustruct
	}

	buildTime := settingOrDefault(buildInfo, "vcs.time", "unknown")
	revision := settingOrDefault(buildInfo, "vcs.revision", "unknown")

	if dirty, err := strconv.ParseBool(settingOrDefault(buildInfo, "vcs.modified", "false")); err == nil && dirty {
		revision += "-DIRTY"
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	return "snaplight " + version + " (revision " + revision + ", built at " + buildTime + ")"
}
