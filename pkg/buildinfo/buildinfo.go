// Package buildinfo reports the version goreqs was built as.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// Info is the version data shown by "goreqs version"
type Info struct {
	Version       string
	Module        string
	ModuleVersion string
	GoVersion     string
	Commit        string
	Dirty         bool
}

// Get collects BinaryVersion together with whatever the toolchain recorded.
func Get() Info {
	info := Info{
		Version:   BinaryVersion,
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Path
	info.ModuleVersion = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first eight characters of the commit, or "unknown".
func (i Info) ShortCommit() string {
	switch {
	case i.Commit == "":
		return "unknown"
	case len(i.Commit) > 8:
		return i.Commit[:8]
	default:
		return i.Commit
	}
}
