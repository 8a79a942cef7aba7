// Package buildinfo carries build-time metadata separate from user configuration.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// UnknownValue is reported for metadata that was not injected at build time.
const UnknownValue = "unknown"

// Context holds metadata injected at startup through -ldflags.
type Context struct {
	// Version is the git tag the binary was built from
	Version string

	// BuildDate is the time the binary was built
	BuildDate string

	// Commit is the short git revision
	Commit string
}

// NewContext creates a Context. An empty commit is filled from the
// module's VCS build settings when available.
func NewContext(version, buildDate, commit string) *Context {
	if commit == "" {
		commit = vcsRevision()
	}
	return &Context{Version: version, BuildDate: buildDate, Commit: commit}
}

// GetVersion returns the version or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// GetCommit returns the revision or UnknownValue.
func (c *Context) GetCommit() string {
	if c == nil || c.Commit == "" {
		return UnknownValue
	}
	return c.Commit
}

// String formats the metadata for `pokedex version` and log lines.
func (c *Context) String() string {
	return fmt.Sprintf("pokedex %s (commit %s, built %s)", c.GetVersion(), c.GetCommit(), c.GetBuildDate())
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return ""
}
