// Package version reports build information for retroarcade
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time via -ldflags "-X retroarcade/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const unknown = "unknown"

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Arch       string `json:"arch"`
	Modified   bool   `json:"modified"`
	CGOEnabled bool   `json:"cgo_enabled"`
}

// GetBuildInfo merges the linker-provided values with the VCS stamp the Go
// toolchain embeds
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		applySettings(&info, bi.Settings)
	}

	return info
}

func applySettings(info *BuildInfo, settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == unknown {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == unknown {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		case "CGO_ENABLED":
			info.CGOEnabled = setting.Value == "1"
		}
	}
}

// ShortCommit returns the first seven characters of the commit hash
func (b BuildInfo) ShortCommit() string {
	if len(b.GitCommit) > 7 {
		return b.GitCommit[:7]
	}
	return b.GitCommit
}

// String returns a one-line description such as
// "retroarcade dev-1a2b3c4 (2024-01-02 03:04:05) go1.23.4 linux/amd64"
func (b BuildInfo) String() string {
	s := "retroarcade " + b.Version
	if b.Version == "dev" && b.GitCommit != unknown {
		s += "-" + b.ShortCommit()
		if b.Modified {
			s += "+dirty"
		}
	}

	if b.BuildTime != unknown {
		if t, err := time.Parse(time.RFC3339, b.BuildTime); err == nil {
			s += fmt.Sprintf(" (%s)", t.UTC().Format("2006-01-02 15:04:05"))
		} else {
			s += fmt.Sprintf(" (%s)", b.BuildTime)
		}
	}

	return s + fmt.Sprintf(" %s %s/%s", b.GoVersion, b.Platform, b.Arch)
}

// GetVersion returns the one-line version string
func GetVersion() string {
	return GetBuildInfo().String()
}

// PrintBuildInfo writes the full build information to w
func PrintBuildInfo(w io.Writer) {
	info := GetBuildInfo()

	fmt.Fprintf(w, "RetroArcade Emulator\n")
	fmt.Fprintf(w, "Version:     %s\n", info.Version)
	fmt.Fprintf(w, "Git Commit:  %s\n", info.GitCommit)
	fmt.Fprintf(w, "Build Time:  %s\n", info.BuildTime)
	fmt.Fprintf(w, "Go Version:  %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform:    %s/%s\n", info.Platform, info.Arch)
	fmt.Fprintf(w, "CGO Enabled: %t\n", info.CGOEnabled)
}
