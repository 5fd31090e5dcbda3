package version

import "fmt"

var (
	// Version is the main version number. It is overridden at build time with
	// -ldflags "-X github.com/hashicorp-forge/notion-bridge/internal/version.Version=...".
	Version = "0.1.0"

	// GitCommit is the git commit the binary was built from.
	GitCommit = ""
)

// String returns the full version string.
func String() string {
	if GitCommit == "" {
		return fmt.Sprintf("notion-bridge v%s", Version)
	}
	return fmt.Sprintf("notion-bridge v%s (%s)", Version, GitCommit)
}
