package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/fnmeyer/mackup/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvXDGConfigHome overrides the XDG config directory
	EnvXDGConfigHome = "XDG_CONFIG_HOME"

	// EnvXDGStateHome overrides the XDG state directory
	EnvXDGStateHome = "XDG_STATE_HOME"
)

// Default directories and files
// IMPORTANT: These constants define mackup's on-disk conventions and are NOT
// user-configurable. They must remain consistent across all mackup
// installations so that two machines sharing a storage root agree on where
// everything lives. User-configurable paths belong in pkg/config instead.
const (
	// MackupDirName is the directory name for mackup-specific files
	MackupDirName = "mackup"

	// ConfigFileName is the name of the primary configuration file in $HOME
	ConfigFileName = ".mackup.toml"

	// XDGConfigFileName is the configuration file name under
	// $XDG_CONFIG_HOME/mackup/
	XDGConfigFileName = "mackup.toml"

	// LegacyConfigFileName is the pre-TOML configuration file. Its presence
	// is detected so users get a migration pointer instead of silent
	// misconfiguration.
	LegacyConfigFileName = ".mackup.cfg"

	// CustomAppsDirName is the directory in $HOME holding user-defined
	// application manifests
	CustomAppsDirName = ".mackup"

	// LogFileName is the name of the log file
	LogFileName = "mackup.log"
)

// Paths provides centralized path management for mackup
type Paths interface {
	Home() string
	XDGConfigHome() string
	ConfigFilePath() string
	XDGConfigFilePath() string
	LegacyConfigFilePath() string
	CustomAppsDir() string
	StateDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsWithinHome(path string) (bool, error)
	AbsFromHome(relPath string) string
	RelToHome(absPath string) (string, error)
}

// paths provides centralized path management for mackup
type paths struct {
	// home is the user's home directory
	home string

	// xdgConfig is the XDG config directory, always under home
	xdgConfig string
}

// New creates a new Paths instance rooted at the given home directory.
// If homeDir is empty, it is resolved from the environment.
func New(homeDir string) (Paths, error) {
	p := &paths{}

	if homeDir == "" {
		home, err := GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		p.home = home
	} else {
		p.home = expandHome(homeDir)
	}

	absHome, err := filepath.Abs(p.home)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for home directory")
	}
	p.home = absHome

	if err := p.setupXDGConfig(); err != nil {
		return nil, err
	}

	return p, nil
}

// setupXDGConfig resolves the XDG config directory, respecting the
// environment override. Synced entries resolve relative to this directory,
// so it must sit under home for home-relative paths to exist at all.
func (p *paths) setupXDGConfig() error {
	configHome := os.Getenv(EnvXDGConfigHome)
	if configHome == "" {
		p.xdgConfig = filepath.Join(p.home, ".config")
		return nil
	}

	configHome = expandHome(configHome)
	absConfig, err := filepath.Abs(configHome)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for XDG_CONFIG_HOME")
	}

	if !ContainsPath(p.home, absConfig) {
		return errors.Newf(errors.ErrConfigInvalid,
			"XDG_CONFIG_HOME %q must be under the home directory %q", absConfig, p.home)
	}

	p.xdgConfig = absConfig
	return nil
}

// Home returns the user's home directory
func (p *paths) Home() string {
	return p.home
}

// XDGConfigHome returns the XDG config directory, validated to be under home
func (p *paths) XDGConfigHome() string {
	return p.xdgConfig
}

// ConfigFilePath returns the primary configuration file location in $HOME
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.home, ConfigFileName)
}

// XDGConfigFilePath returns the configuration file location under the XDG
// config directory
func (p *paths) XDGConfigFilePath() string {
	return filepath.Join(p.xdgConfig, MackupDirName, XDGConfigFileName)
}

// LegacyConfigFilePath returns the pre-TOML configuration file location
func (p *paths) LegacyConfigFilePath() string {
	return filepath.Join(p.home, LegacyConfigFileName)
}

// CustomAppsDir returns the directory holding user-defined application
// manifests
func (p *paths) CustomAppsDir() string {
	return filepath.Join(p.home, CustomAppsDirName)
}

// StateDir returns the state directory for mackup (log files live here).
// Respects XDG_STATE_HOME if set.
func (p *paths) StateDir() string {
	if stateDir := os.Getenv(EnvXDGStateHome); stateDir != "" {
		return filepath.Join(stateDir, MackupDirName)
	}
	if xdg.StateHome != "" {
		return filepath.Join(xdg.StateHome, MackupDirName)
	}
	return filepath.Join(p.home, ".local", "state", MackupDirName)
}

// LogFilePath returns the path to the mackup log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.StateDir(), LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// IsWithinHome checks if a path is within the home directory
func (p *paths) IsWithinHome(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}

	return ContainsPath(p.home, normalized), nil
}

// AbsFromHome maps a home-relative path to its absolute location
func (p *paths) AbsFromHome(relPath string) string {
	return filepath.Join(p.home, relPath)
}

// RelToHome maps an absolute path under home to its home-relative form
func (p *paths) RelToHome(absPath string) (string, error) {
	normalized, err := p.NormalizePath(absPath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(p.home, normalized)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Newf(errors.ErrInvalidInput,
			"path %q is not under the home directory %q", absPath, p.home)
	}

	return rel, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// GetHomeDirectoryWithDefault returns the home directory or a default value
func GetHomeDirectoryWithDefault(defaultDir string) string {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return defaultDir
	}
	return homeDir
}
