package contracts

import (
	"runtime"
	"runtime/debug"
)

// Version of the dashboard
const Version = "1.0.0"

// DataFormatVersion names the layout of the unified dataset and its
// exports. It changes when columns are added, removed or renamed.
const DataFormatVersion = "v1"

// APIVersion of the HTTP and WebSocket contracts
const APIVersion = "v1"

// Stamped with -ldflags "-X" at release time
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is what /api/version reports
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo describes the running binary. Without ldflags the commit
// falls back to the VCS revision the go tool embedded, if any.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}
