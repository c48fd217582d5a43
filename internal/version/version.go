// Package version carries the CLI's build metadata. The variables are plain
// strings so -ldflags can override them at build time.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"
	// GitCommit is an optional git commit hash.
	GitCommit = ""
	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored returns Version with each dotted part tinted for terminal output.
// With colors disabled it is identical to Version.
func Colored() string {
	parts := strings.SplitN(Version, ".", len(partColors))
	for i, part := range parts {
		parts[i] = partColors[i].Sprint(part)
	}
	return strings.Join(parts, ".")
}
