package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/fnmeyer/mackup/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/fnmeyer/mackup/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/fnmeyer/mackup/internal/version.Date={{.Date}}
)
