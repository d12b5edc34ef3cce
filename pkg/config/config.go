package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/paths"
)

var log = logging.GetLogger("config")

// EnvPrefix is the prefix for environment variable overrides.
// MACKUP_STORAGE_ENGINE=file_system overrides storage.engine.
const EnvPrefix = "MACKUP_"

// Storage engine names.
const (
	EngineDropbox     = "dropbox"
	EngineGoogleDrive = "google_drive"
	EngineICloud      = "icloud"
	EngineFileSystem  = "file_system"
)

// systemDefaults is the bottom configuration layer. Values here are
// overridden by the user's TOML file and by MACKUP_* environment
// variables.
func systemDefaults() map[string]interface{} {
	return map[string]interface{}{
		"storage.engine":      EngineDropbox,
		"storage.path":        "",
		"storage.directory":   "Mackup",
		"applications.sync":   []string{},
		"applications.ignore": []string{},
	}
}

// Config is mackup's user-facing configuration.
type Config struct {
	Storage      StorageConfig      `koanf:"storage"`
	Applications ApplicationsConfig `koanf:"applications"`
}

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	// Engine names the storage backend (dropbox, google_drive, icloud,
	// file_system).
	Engine string `koanf:"engine"`

	// Path is the storage root for the file_system engine. Relative values
	// resolve under the home directory.
	Path string `koanf:"path"`

	// Directory is the directory inside the storage root that holds the
	// synced copies. Plain name, no separators.
	Directory string `koanf:"directory"`
}

// ApplicationsConfig narrows which applications are synced.
type ApplicationsConfig struct {
	// Sync is an allowlist of application names. Empty means every known
	// application.
	Sync []string `koanf:"sync"`

	// Ignore lists applications that are never synced, even when named in
	// Sync.
	Ignore []string `koanf:"ignore"`
}

// LoadConfiguration loads the layered configuration: built-in defaults,
// then the user's TOML file, then MACKUP_* environment overrides.
func LoadConfiguration(p paths.Paths) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(systemDefaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. User config file, first existing location wins
	configPath, found := findConfigFile(p)
	if found {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse configuration from %s", configPath)
		}
	} else if fileExists(p.LegacyConfigFilePath()) {
		return nil, errors.Newf(errors.ErrConfigLoad,
			"found legacy configuration at %s: mackup now reads TOML configuration from %s",
			p.LegacyConfigFilePath(), p.ConfigFilePath())
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("engine", cfg.Storage.Engine).
		Str("directory", cfg.Storage.Directory).
		Int("sync", len(cfg.Applications.Sync)).
		Int("ignore", len(cfg.Applications.Ignore)).
		Bool("fromFile", found).
		Msg("Configuration loaded")

	return &cfg, nil
}

// findConfigFile returns the first existing configuration file location.
func findConfigFile(p paths.Paths) (string, bool) {
	for _, candidate := range []string{p.ConfigFilePath(), p.XDGConfigFilePath()} {
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (c *Config) validate() error {
	if c.Storage.Directory == "" {
		return errors.New(errors.ErrConfigInvalid, "storage directory cannot be empty")
	}
	if strings.ContainsAny(c.Storage.Directory, "/\\") {
		return errors.Newf(errors.ErrConfigInvalid,
			"storage directory %q must be a plain directory name", c.Storage.Directory)
	}
	if c.Storage.Directory == paths.CustomAppsDirName {
		return errors.Newf(errors.ErrConfigInvalid,
			"%s cannot be used as a storage directory", paths.CustomAppsDirName)
	}
	if c.Storage.Engine == EngineFileSystem && c.Storage.Path == "" {
		return errors.New(errors.ErrConfigInvalid,
			"the file_system engine requires storage.path to be set")
	}
	return nil
}

// SyncSet returns the configured allowlist as a set. Empty means every
// known application is eligible.
func (c *Config) SyncSet() map[string]bool {
	return toSet(c.Applications.Sync)
}

// IgnoreSet returns the configured ignore list as a set.
func (c *Config) IgnoreSet() map[string]bool {
	return toSet(c.Applications.Ignore)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[name] = true
	}
	return set
}

// fileExists is a helper to check if a file exists
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
