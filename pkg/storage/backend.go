package storage

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

var log = logging.GetLogger("storage")

// Backend addresses configuration files inside the resolved sync root.
// Every application gets its own subdirectory under Root, so two
// applications can both sync a file with the same relative path.
type Backend struct {
	fs         types.FS
	engineRoot string
	root       string
}

// NewBackend resolves the configured engine and returns a backend rooted
// at <engine root>/<storage directory>.
func NewBackend(cfg *config.Config, p paths.Paths, filesystem types.FS) (*Backend, error) {
	engineRoot, err := ResolveRoot(cfg, p, filesystem)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		fs:         filesystem,
		engineRoot: engineRoot,
		root:       filepath.Join(engineRoot, cfg.Storage.Directory),
	}

	log.Debug().
		Str("engine", cfg.Storage.Engine).
		Str("root", b.root).
		Msg("Resolved storage backend")

	return b, nil
}

// EngineRoot returns the sync client's folder (e.g. ~/Dropbox).
func (b *Backend) EngineRoot() string {
	return b.engineRoot
}

// Root returns the directory holding the per-application subdirectories.
func (b *Backend) Root() string {
	return b.root
}

// CheckAvailable verifies the engine root is a reachable directory.
func (b *Backend) CheckAvailable() error {
	info, err := b.fs.Stat(b.engineRoot)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackendUnavailable,
			"storage root %s is unreachable", b.engineRoot)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrBackendUnavailable,
			"storage root %s is not a directory", b.engineRoot)
	}
	return nil
}

// RootExists reports whether the storage directory itself exists.
func (b *Backend) RootExists() bool {
	info, err := b.fs.Stat(b.root)
	return err == nil && info.IsDir()
}

// CreateRoot creates the storage directory under the engine root.
func (b *Backend) CreateRoot() error {
	if err := b.fs.MkdirAll(b.root, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"unable to create the storage directory %s", b.root)
	}
	return nil
}

// AppDir returns the storage subdirectory for one application.
func (b *Backend) AppDir(app string) string {
	return filepath.Join(b.root, app)
}

// EntryPath returns the storage location for one of an application's
// home-relative configuration paths.
func (b *Backend) EntryPath(app, relPath string) string {
	return filepath.Join(b.root, app, relPath)
}

// Entry builds the SyncEntry joining an application's home-relative path
// with its storage location.
func (b *Backend) Entry(p paths.Paths, app, relPath string) types.SyncEntry {
	return types.SyncEntry{
		App:          app,
		RelPath:      relPath,
		OriginalPath: p.AbsFromHome(relPath),
		StoragePath:  b.EntryPath(app, relPath),
	}
}

// Put writes data at a root-relative path, creating parent directories.
func (b *Backend) Put(relPath string, data []byte) error {
	full := filepath.Join(b.root, relPath)
	if err := b.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"unable to create parent directory for %s", full)
	}
	if err := b.fs.WriteFile(full, data, 0o600); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "unable to write %s", full)
	}
	return nil
}

// Get reads the data stored at a root-relative path.
func (b *Backend) Get(relPath string) ([]byte, error) {
	full := filepath.Join(b.root, relPath)
	data, err := b.fs.ReadFile(full)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "%s is not in storage", relPath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "unable to read %s", full)
	}
	return data, nil
}

// Exists reports whether anything is stored at a root-relative path.
func (b *Backend) Exists(relPath string) bool {
	_, err := b.fs.Stat(filepath.Join(b.root, relPath))
	return err == nil
}

// Remove deletes the file or directory at a root-relative path. Removing
// something absent is not an error.
func (b *Backend) Remove(relPath string) error {
	full := filepath.Join(b.root, relPath)
	if err := b.fs.RemoveAll(full); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "unable to remove %s", full)
	}
	return nil
}

// List returns the root-relative paths of all files stored under the given
// prefix, in directory traversal order. A missing prefix yields no paths.
func (b *Backend) List(relPath string) ([]string, error) {
	start := filepath.Join(b.root, relPath)
	info, err := b.fs.Stat(start)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "unable to list %s", start)
	}
	if !info.IsDir() {
		return []string{filepath.Clean(relPath)}, nil
	}

	var files []string
	if err := b.walk(start, filepath.Clean(relPath), &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (b *Backend) walk(dir, rel string, files *[]string) error {
	entries, err := b.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "unable to list %s", dir)
	}
	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())
		if entry.IsDir() {
			if err := b.walk(filepath.Join(dir, entry.Name()), entryRel, files); err != nil {
				return err
			}
			continue
		}
		*files = append(*files, entryRel)
	}
	return nil
}
