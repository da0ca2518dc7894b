// Package version reports the build of the running storypulse binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

// Set with -ldflags "-X github.com/Sumatoshi-tech/storypulse/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the linked build info. When the commit was not linked in, the
// VCS revision recorded by the Go toolchain is used.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}

	if info.Commit != unknown {
		return info
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.time":
			info.Date = setting.Value
		}
	}

	return info
}

// String renders the info on one line.
func (i Info) String() string {
	return fmt.Sprintf("storypulse %s (commit %s, built %s, %s)", i.Version, i.Commit, i.Date, i.GoVersion)
}
