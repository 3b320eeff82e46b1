package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X github.com/kbukum/sessionkit/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary. It is served by /info and printed by
// "sessionctl --version".
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns build information, filling gaps from the embedded VCS settings.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String renders the version as "1.2.0-abc1234-dirty".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}
