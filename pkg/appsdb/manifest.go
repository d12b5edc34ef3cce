package appsdb

import (
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

// manifestFile is the on-disk manifest schema, shared by the TOML and
// YAML formats.
type manifestFile struct {
	Application struct {
		Name                  string   `toml:"name" yaml:"name"`
		ConfigurationFiles    []string `toml:"configuration_files" yaml:"configuration_files"`
		XDGConfigurationFiles []string `toml:"xdg_configuration_files" yaml:"xdg_configuration_files"`
		Platforms             []string `toml:"platforms" yaml:"platforms"`
	} `toml:"application" yaml:"application"`
}

// parseManifest parses manifest data into an ApplicationManifest. The
// application name comes from the manifest filename stem, not the file
// content; the content's name field is the display name. xdgRel is the
// home-relative form of the XDG config directory, used to resolve
// xdg_configuration_files entries.
func parseManifest(name, source, format string, data []byte, xdgRel string) (types.ApplicationManifest, error) {
	var raw manifestFile

	switch format {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return types.ApplicationManifest{}, errors.Wrapf(err, errors.ErrManifestParse,
				"failed to parse manifest %s", source)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return types.ApplicationManifest{}, errors.Wrapf(err, errors.ErrManifestParse,
				"failed to parse manifest %s", source)
		}
	default:
		return types.ApplicationManifest{}, errors.Newf(errors.ErrManifestParse,
			"unsupported manifest format %q for %s", format, source)
	}

	if err := paths.ValidateAppName(name); err != nil {
		return types.ApplicationManifest{}, errors.Wrapf(err, errors.ErrManifestInvalid,
			"invalid application name in %s", source)
	}
	if raw.Application.Name == "" {
		return types.ApplicationManifest{}, errors.Newf(errors.ErrManifestInvalid,
			"manifest %s is missing the application name", source)
	}

	manifest := types.ApplicationManifest{
		Name:       name,
		PrettyName: raw.Application.Name,
		Platforms:  raw.Application.Platforms,
		Source:     source,
	}

	// Home-relative entries first, then resolved XDG entries. Duplicates
	// collapse to the first occurrence.
	seen := make(map[string]bool)
	add := func(relPath string) error {
		if err := paths.ValidateRelPath(relPath); err != nil {
			return errors.Wrapf(err, errors.ErrManifestInvalid,
				"invalid file entry in %s", source)
		}
		clean := filepath.Clean(relPath)
		if seen[clean] {
			return nil
		}
		seen[clean] = true
		manifest.Files = append(manifest.Files, clean)
		return nil
	}

	for _, entry := range raw.Application.ConfigurationFiles {
		if err := add(entry); err != nil {
			return types.ApplicationManifest{}, err
		}
	}
	for _, entry := range raw.Application.XDGConfigurationFiles {
		if err := paths.ValidateRelPath(entry); err != nil {
			return types.ApplicationManifest{}, errors.Wrapf(err, errors.ErrManifestInvalid,
				"invalid xdg file entry in %s", source)
		}
		if err := add(filepath.Join(xdgRel, entry)); err != nil {
			return types.ApplicationManifest{}, err
		}
	}

	return manifest, nil
}

// manifestFormat returns the manifest format for a filename, or "" when
// the file is not a manifest.
func manifestFormat(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml", ".yaml", ".yml":
		return ext
	default:
		return ""
	}
}

// manifestName returns the application name for a manifest filename.
func manifestName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
