// Package version provides build information for codescope.
// Values are injected with -ldflags at release time and fall back to the
// VCS stamps embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

var (
	// Version is the current version of the application
	Version = "dev"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
	// BuildDate is when the binary was built
	BuildDate = "unknown"
	// Modified indicates if the source tree was modified (string: "true" or "false")
	Modified = "false"
)

// Info contains version information
type Info struct {
	Version   string `json:"version" yaml:"version" toml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit" toml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date" toml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version" toml:"go_version"`
	Platform  string `json:"platform" yaml:"platform" toml:"platform"`
	Modified  string `json:"modified" yaml:"modified" toml:"modified"`
}

// GetVersion returns the version information
func GetVersion() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Modified:  Modified,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value
		}
	}
	return info
}

// GetVersionString returns a detailed one-line version string
func GetVersionString() string {
	info := GetVersion()
	return fmt.Sprintf("codescope has version %s built with %s from %s (%s, modified: %s) on %s",
		info.Version,
		info.GoVersion,
		info.GitCommit,
		info.Platform,
		info.Modified,
		info.BuildDate,
	)
}

// GetShortVersionString returns a short version string
func GetShortVersionString() string {
	info := GetVersion()

	dateStr := info.BuildDate
	if t, err := time.Parse(time.RFC3339, info.BuildDate); err == nil {
		dateStr = t.Format("2006-01-02")
	}

	return fmt.Sprintf("codescope version %s (%s)", info.Version, dateStr)
}
