// Package version holds the janus version information.
// It has no dependencies and can be imported from any package.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Field is one labelled line of version output.
type Field struct {
	Label string
	Value string
}

// Fields returns the version details in display order.
func Fields() []Field {
	return []Field{
		{"Version", Version},
		{"Commit", ShortCommit()},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// ShortCommit shortens the commit hash if it's too long.
func ShortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}
