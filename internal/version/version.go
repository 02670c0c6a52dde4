// Package version provides version information for the validlink CLI.
package version

// Version is set via ldflags during build.
var Version = "dev"

// Commit is the git commit of the build, set via ldflags.
var Commit = ""

// GetVersion returns the current version string, followed by the short
// commit when it is known.
func GetVersion() string {
	if Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + " (" + short + ")"
}
