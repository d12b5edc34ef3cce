package types

import (
	"slices"
)

// ManifestSourceBundled marks a manifest that came from the definitions
// compiled into the binary rather than a user file.
const ManifestSourceBundled = "bundled"

// ApplicationManifest describes one application's configuration file set.
// Manifests are immutable once loaded. A user-supplied definition replaces
// the bundled one with the same name wholesale; file lists are never merged
// across sources.
type ApplicationManifest struct {
	// Name is the canonical application key, lowercase (e.g. "git").
	Name string

	// PrettyName is the display name from the definition file (e.g. "Git").
	PrettyName string

	// Files holds the home-relative paths to synchronize, in definition
	// order with duplicates removed. XDG entries are already resolved to
	// home-relative form at load time.
	Files []string

	// Platforms optionally restricts the application to the listed GOOS
	// values ("darwin", "linux", ...). Empty means all platforms.
	Platforms []string

	// Source records where the definition came from: ManifestSourceBundled
	// or the path of the user file that provided it.
	Source string
}

// SupportsPlatform reports whether the manifest applies to the given GOOS.
func (m *ApplicationManifest) SupportsPlatform(goos string) bool {
	if len(m.Platforms) == 0 {
		return true
	}
	return slices.Contains(m.Platforms, goos)
}

// IsUserDefined reports whether the manifest came from a user definition
// file rather than the bundled set.
func (m *ApplicationManifest) IsUserDefined() bool {
	return m.Source != ManifestSourceBundled
}
