// Package version exposes the build version of ecotrack.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// defaultVersion is reported when neither ldflags nor the module build info
// carry a usable version.
const defaultVersion = "0.1.0"

// These are set at build time via -ldflags.
//
//nolint:gochecknoglobals // overwritten by the linker
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the semantic version of the running binary: the ldflags
// value when set, else the main module version recorded by `go install`,
// else defaultVersion.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := moduleVersion(info.Main.Version); v != "" {
			return v
		}
	}
	return defaultVersion
}

// moduleVersion strips the leading "v" from a module version and rejects
// "(devel)" and anything else that is not semver.
func moduleVersion(v string) string {
	v = strings.TrimPrefix(v, "v")
	if _, err := semver.StrictNewVersion(v); err != nil {
		return ""
	}
	return v
}

// GetGitCommit returns the commit the binary was built from, falling back to
// the VCS revision recorded by the Go toolchain.
func GetGitCommit() string {
	if gitCommit != "" {
		return gitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetBuildDate returns the build timestamp, or "unknown".
func GetBuildDate() string {
	if buildDate == "" {
		return "unknown"
	}
	return buildDate
}
