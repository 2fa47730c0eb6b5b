package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	SemVer    string `json:"semver"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`

	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	NumCPU    int    `json:"num_cpu"`

	// Module is the main module path when the binary was built with module
	// support, empty otherwise.
	Module string   `json:"module,omitempty"`
	Deps   []Module `json:"deps,omitempty"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo returns build information for the running binary
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		SemVer:    strings.Split(Version, "-")[0],
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Path
		for _, dep := range bi.Deps {
			info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
		}
		if info.GitCommit == "unknown" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					info.GitCommit = s.Value
				}
			}
		}
	}

	return info
}

// Short returns the one-line version string
func Short() string {
	return fmt.Sprintf("promptpack %s", Version)
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	return formatFull(GetBuildInfo())
}

func formatFull(info BuildInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "promptpack %s\n", info.Version)
	b.WriteString("========================================\n\n")

	b.WriteString("Version Information:\n")
	fmt.Fprintf(&b, "  Version:      %s\n", info.Version)
	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Commit:       %s\n", info.GitCommit)
	b.WriteString("\n")

	b.WriteString("Go Build Information:\n")
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)

	if len(info.Deps) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range info.Deps {
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
	}

	return b.String()
}
