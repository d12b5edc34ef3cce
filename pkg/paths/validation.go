package paths

import (
	"path/filepath"
	"strings"

	"github.com/fnmeyer/mackup/pkg/errors"
)

// ValidateAppName ensures an application name is valid for use in paths.
// App names become storage subdirectory names, so they must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain control characters
func ValidateAppName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "application name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.New(errors.ErrInvalidInput, "application name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "application name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput,
				"application name contains control characters")
		}
	}

	return nil
}

// ValidateRelPath ensures a manifest file entry is a safe home-relative path.
// Entries must:
// - Not be empty
// - Not contain null bytes
// - Not be absolute
// - Not escape upward via .. segments
func ValidateRelPath(relPath string) error {
	if relPath == "" {
		return errors.New(errors.ErrInvalidInput, "file entry cannot be empty")
	}

	if strings.Contains(relPath, "\x00") {
		return errors.New(errors.ErrInvalidInput, "file entry contains null bytes")
	}

	if filepath.IsAbs(relPath) {
		return errors.Newf(errors.ErrInvalidInput,
			"file entry %q must be relative to the home directory", relPath)
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput,
			"file entry %q escapes the home directory", relPath)
	}

	return nil
}

// SanitizePath attempts to clean and make a path safe for use.
// It expands a leading ~, resolves . and .. elements, and removes
// redundant separators.
func SanitizePath(path string) string {
	path = expandHome(path)

	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return "."
	}

	return cleaned
}

// ContainsPath checks if child is contained within parent.
// Both paths are normalized before comparison.
func ContainsPath(parent, child string) bool {
	parent = SanitizePath(parent)
	child = SanitizePath(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	// If relative path starts with .., child is outside parent
	return !strings.HasPrefix(rel, "..")
}
