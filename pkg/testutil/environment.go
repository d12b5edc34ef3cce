package testutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/filesystem"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

// EnvType selects how a test environment is backed.
type EnvType int

const (
	// EnvMemoryOnly keeps everything in an afero MemMapFs. Fast, but the
	// configuration file lookup (which reads the real OS) sees nothing, so
	// configuration comes from MACKUP_* variables only.
	EnvMemoryOnly EnvType = iota

	// EnvIsolated uses a real filesystem under t.TempDir.
	EnvIsolated
)

// Environment is an isolated mackup setup for one test: its own home
// directory, a file_system storage engine, and the MACKUP_* variables
// wired so commands resolve everything inside it.
type Environment struct {
	// Home is the environment's home directory.
	Home string

	// SyncDir is the engine root (what a sync client would mirror).
	SyncDir string

	// StorageRoot is SyncDir/Mackup, where per-app subdirectories live.
	StorageRoot string

	FS    types.FS
	Paths paths.Paths

	t *testing.T
}

// StorageDirName is the storage directory every test environment uses.
const StorageDirName = "Mackup"

// NewEnvironment builds a test environment and registers the environment
// variables with t.Setenv, so everything resets when the test ends.
func NewEnvironment(t *testing.T, envType EnvType) *Environment {
	t.Helper()

	env := &Environment{t: t}

	switch envType {
	case EnvMemoryOnly:
		env.Home = "/test/home"
		env.SyncDir = "/test/sync"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
	case EnvIsolated:
		base := t.TempDir()
		env.Home = filepath.Join(base, "home")
		env.SyncDir = filepath.Join(base, "sync")
		env.FS = filesystem.NewOS()
	}
	env.StorageRoot = filepath.Join(env.SyncDir, StorageDirName)

	require.NoError(t, env.FS.MkdirAll(env.Home, 0o755))
	require.NoError(t, env.FS.MkdirAll(env.StorageRoot, 0o755))

	t.Setenv("HOME", env.Home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.Home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.Home, ".local", "state"))
	t.Setenv("MACKUP_STORAGE_ENGINE", "file_system")
	t.Setenv("MACKUP_STORAGE_PATH", env.SyncDir)
	t.Setenv("MACKUP_STORAGE_DIRECTORY", StorageDirName)

	p, err := paths.New(env.Home)
	require.NoError(t, err)
	env.Paths = p

	return env
}

// HomePath returns the absolute path of a home-relative file.
func (env *Environment) HomePath(rel string) string {
	return filepath.Join(env.Home, rel)
}

// StoragePath returns the absolute storage path for one application file.
func (env *Environment) StoragePath(app, rel string) string {
	return filepath.Join(env.StorageRoot, app, rel)
}

// WriteHomeFile creates a file in the home directory.
func (env *Environment) WriteHomeFile(rel, content string) {
	env.t.Helper()
	env.writeFile(env.HomePath(rel), content)
}

// WriteStorageFile creates a file in an application's storage directory.
func (env *Environment) WriteStorageFile(app, rel, content string) {
	env.t.Helper()
	env.writeFile(env.StoragePath(app, rel), content)
}

// WriteUserManifest drops a manifest file into ~/.mackup.
func (env *Environment) WriteUserManifest(filename, content string) {
	env.t.Helper()
	env.writeFile(filepath.Join(env.Home, paths.CustomAppsDirName, filename), content)
}

// WriteConfigFile writes ~/.mackup.toml. The configuration loader reads
// the real OS, so this only has an effect in isolated environments.
func (env *Environment) WriteConfigFile(content string) {
	env.t.Helper()
	env.writeFile(filepath.Join(env.Home, paths.ConfigFileName), content)
}

func (env *Environment) writeFile(path, content string) {
	env.t.Helper()
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(env.t, env.FS.WriteFile(path, []byte(content), 0o644))
}

// ReadFile returns a file's content, following symlinks.
func (env *Environment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	require.NoError(env.t, err)
	return string(data)
}

// RequireLinked asserts that the home copy of app's rel file is a symlink
// pointing at its storage copy.
func (env *Environment) RequireLinked(app, rel string) {
	env.t.Helper()
	target, err := env.FS.Readlink(env.HomePath(rel))
	require.NoError(env.t, err, "%s should be a symlink", rel)
	require.Equal(env.t, env.StoragePath(app, rel), target,
		"%s should point at its storage copy", rel)
}

// RequireRegularFile asserts that the given path is a plain file, not a
// symlink.
func (env *Environment) RequireRegularFile(path string) {
	env.t.Helper()
	info, err := env.FS.Lstat(path)
	require.NoError(env.t, err)
	require.True(env.t, info.Mode().IsRegular(), "%s should be a regular file", path)
}

// RequireAbsent asserts that nothing exists at the given path.
func (env *Environment) RequireAbsent(path string) {
	env.t.Helper()
	_, err := env.FS.Lstat(path)
	require.ErrorIs(env.t, err, fs.ErrNotExist, "%s should not exist", path)
}
