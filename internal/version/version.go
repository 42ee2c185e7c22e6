// Package version provides version information for the devspell CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Modules whose versions are reported alongside the CLI version.
const (
	cueModule   = "cuelang.org/go"
	genaiModule = "google.golang.org/genai"
)

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK used for config validation.
	CUESDKVersion string `json:"cueSDKVersion"`

	// GenAISDKVersion is the Gemini SDK version.
	GenAISDKVersion string `json:"genaiSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	info := Info{
		Version:         Version,
		GitCommit:       GitCommit,
		BuildDate:       BuildDate,
		GoVersion:       runtime.Version(),
		CUESDKVersion:   "unknown",
		GenAISDKVersion: "unknown",
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := depVersion(bi, cueModule); v != "" {
		info.CUESDKVersion = v
	}
	if v := depVersion(bi, genaiModule); v != "" {
		info.GenAISDKVersion = v
	}
	return info
}

func depVersion(bi *debug.BuildInfo, path string) string {
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("devspell:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nSDKs:\n  CUE:   %s\n  GenAI: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.CUESDKVersion, i.GenAISDKVersion)
}
