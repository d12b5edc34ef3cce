// Package paths provides centralized path handling for mackup.
//
// This package implements the XDG Base Directory specification and provides
// a consistent API for all path operations throughout the mackup codebase.
// It handles:
//
//   - Home directory resolution
//   - XDG config directory validation (must live under home)
//   - Configuration file locations (current and legacy)
//   - Custom application manifest directory
//   - Path normalization and expansion
//
// # Environment Variables
//
// The package respects the following environment variables:
//
//   - HOME: The user's home directory
//   - XDG_CONFIG_HOME: Override XDG config directory (must be under HOME)
//   - XDG_STATE_HOME: Override XDG state directory (log files live here)
//
// # Usage
//
//	import "github.com/fnmeyer/mackup/pkg/paths"
//
//	// Create a new Paths instance
//	p, err := paths.New("")  // Auto-detect home directory
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get various paths
//	cfg := p.ConfigFilePath()     // /home/user/.mackup.toml
//	apps := p.CustomAppsDir()     // /home/user/.mackup
//	abs := p.AbsFromHome(".gitconfig")  // /home/user/.gitconfig
package paths
