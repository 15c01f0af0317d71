// Package version holds build metadata injected at link time.
package version

var (
	// Version is the semantic version, set via -ldflags.
	Version = "dev"
	// GitCommit is the short commit hash of the build.
	GitCommit = ""
	// BuildDate is the UTC build timestamp.
	BuildDate = ""
)
