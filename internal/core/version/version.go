// Package version reports the build of the running binary
package version

import "runtime/debug"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Version   string `json:"version"    example:"v0.3.0"`
	Commit    string `json:"commit"     example:"4f2a9c1"`
	Date      string `json:"date"       example:"2025-09-02"`
	GoVersion string `json:"go_version" example:"go1.25.0"`
	Modified  bool   `json:"modified,omitempty"`
}

// set with -ldflags "-X 'impactlog/internal/core/version.version=v0.3.0'
// -X 'impactlog/internal/core/version.commit=4f2a9c1' -X 'impactlog/internal/core/version.date=2025-09-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns the ldflags values, falling back to the VCS stamp go build embeds
func Info() BuildInfo {
	bi := BuildInfo{Version: version, Commit: commit, Date: date}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return bi
	}
	bi.GoVersion = info.GoVersion
	if bi.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		bi.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = short(s.Value)
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

func short(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
