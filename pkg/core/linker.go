package core

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

var log = logging.GetLogger("core")

// partialSuffix marks an in-flight copy. An artifact with this suffix left
// on disk means a run was interrupted mid-copy.
const partialSuffix = ".mackup-partial"

// Linker performs the filesystem mutations for a single sync entry.
// Callers are expected to have classified the entry first; the linker
// assumes the operation is safe to perform.
type Linker struct {
	fs types.FS
}

// NewLinker creates a Linker over the given filesystem.
func NewLinker(filesystem types.FS) *Linker {
	return &Linker{fs: filesystem}
}

// Backup moves the original into storage and leaves a symlink behind.
// The copy lands under a temporary name and is renamed into place before
// the original is touched, so an interruption leaves either the
// pre-operation state or a completed migration, never a half-written
// storage copy at the final path.
//
// If the original is itself a symlink (a forced replacement of a stale
// link), the content it resolves to is what gets copied; the link itself
// is what gets removed.
func (l *Linker) Backup(entry types.SyncEntry) error {
	if err := l.fs.MkdirAll(filepath.Dir(entry.StoragePath), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"unable to create the storage directory for %s", entry.RelPath)
	}

	src := entry.OriginalPath
	if info, err := l.fs.Lstat(src); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		target, err := l.fs.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess,
				"unable to read the link at %s", src)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(src), target)
		}
		src = target
	}

	temp := entry.StoragePath + partialSuffix
	// An artifact from an interrupted earlier run is superseded by this one.
	if err := l.fs.RemoveAll(temp); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete,
			"unable to clear the partial copy at %s", temp)
	}

	if err := l.copyAll(src, temp); err != nil {
		return errors.Wrapf(err, errors.ErrPartialWrite,
			"interrupted while copying %s into storage, partial data left at %s",
			entry.RelPath, temp)
	}

	// A replaced storage copy was confirmed by the caller.
	if err := l.fs.RemoveAll(entry.StoragePath); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete,
			"unable to replace the storage copy of %s", entry.RelPath)
	}
	if err := l.fs.Rename(temp, entry.StoragePath); err != nil {
		return errors.Wrapf(err, errors.ErrPartialWrite,
			"interrupted while moving %s into storage, partial data left at %s",
			entry.RelPath, temp)
	}

	clearProtections(entry.OriginalPath)
	if err := l.deleteAll(entry.OriginalPath); err != nil {
		// The original is still in place; take the storage copy back out so
		// the entry stays unmanaged rather than half-managed.
		if rbErr := l.fs.RemoveAll(entry.StoragePath); rbErr != nil {
			log.Error().Err(rbErr).Str("path", entry.StoragePath).
				Msg("Rollback of the storage copy failed")
		}
		return errors.Wrapf(err, errors.ErrFileDelete,
			"unable to remove %s after copying it into storage", entry.OriginalPath)
	}

	if err := l.fs.Symlink(entry.StoragePath, entry.OriginalPath); err != nil {
		// The original is gone. Bring it back from storage before reporting.
		if rbErr := l.copyAll(entry.StoragePath, entry.OriginalPath); rbErr != nil {
			log.Error().Err(rbErr).Str("path", entry.OriginalPath).
				Msg("Rollback copy failed")
			return errors.Wrapf(err, errors.ErrPartialWrite,
				"unable to link %s and unable to roll back, your data is intact at %s",
				entry.OriginalPath, entry.StoragePath)
		}
		if rbErr := l.fs.RemoveAll(entry.StoragePath); rbErr != nil {
			log.Error().Err(rbErr).Str("path", entry.StoragePath).
				Msg("Rollback of the storage copy failed")
		}
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"unable to link %s into place", entry.OriginalPath)
	}

	log.Debug().Str("from", entry.OriginalPath).Str("to", entry.StoragePath).
		Msg("Backed up and linked")
	return nil
}

// Link points the original path at an existing storage copy. Already
// pointing there is a no-op.
func (l *Linker) Link(entry types.SyncEntry) error {
	if target, err := l.fs.Readlink(entry.OriginalPath); err == nil {
		if filepath.Clean(target) == filepath.Clean(entry.StoragePath) {
			return nil
		}
	}

	if err := l.fs.MkdirAll(filepath.Dir(entry.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"unable to create the parent directory for %s", entry.OriginalPath)
	}
	if err := l.fs.Symlink(entry.StoragePath, entry.OriginalPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"unable to link %s to %s", entry.OriginalPath, entry.StoragePath)
	}

	log.Debug().Str("path", entry.OriginalPath).Str("target", entry.StoragePath).
		Msg("Linked")
	return nil
}

// Restore materializes the storage copy back at the original path,
// replacing whatever is there. The storage copy stays put so other
// machines keep syncing.
func (l *Linker) Restore(entry types.SyncEntry) error {
	if err := l.fs.MkdirAll(filepath.Dir(entry.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"unable to create the parent directory for %s", entry.OriginalPath)
	}

	temp := entry.OriginalPath + partialSuffix
	if err := l.fs.RemoveAll(temp); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete,
			"unable to clear the partial copy at %s", temp)
	}

	if err := l.copyAll(entry.StoragePath, temp); err != nil {
		return errors.Wrapf(err, errors.ErrPartialWrite,
			"interrupted while copying the storage copy of %s, partial data left at %s",
			entry.RelPath, temp)
	}

	clearProtections(entry.OriginalPath)
	if err := l.deleteAll(entry.OriginalPath); err != nil {
		if rbErr := l.fs.RemoveAll(temp); rbErr != nil {
			log.Error().Err(rbErr).Str("path", temp).Msg("Rollback of the temp copy failed")
		}
		return errors.Wrapf(err, errors.ErrFileDelete,
			"unable to remove %s", entry.OriginalPath)
	}

	if err := l.fs.Rename(temp, entry.OriginalPath); err != nil {
		return errors.Wrapf(err, errors.ErrPartialWrite,
			"interrupted while restoring %s, the full copy is at %s",
			entry.RelPath, temp)
	}

	log.Debug().Str("from", entry.StoragePath).Str("to", entry.OriginalPath).
		Msg("Restored")
	return nil
}

// copyAll copies src to dst recursively. Files land with mode 0600 and
// directories 0700 so stray group permissions never propagate into a
// shared sync folder. Symlinks below the top level are copied as links.
func (l *Linker) copyAll(src, dst string) error {
	info, err := l.fs.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := l.fs.Readlink(src)
		if err != nil {
			return err
		}
		return l.fs.Symlink(target, dst)

	case info.IsDir():
		if err := l.fs.MkdirAll(dst, 0o700); err != nil {
			return err
		}
		entries, err := l.fs.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := l.copyAll(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		data, err := l.fs.ReadFile(src)
		if err != nil {
			return err
		}
		return l.fs.WriteFile(dst, data, 0o600)
	}
}

// deleteAll removes a file, symlink or directory tree.
func (l *Linker) deleteAll(path string) error {
	info, err := l.fs.Lstat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return l.fs.RemoveAll(path)
	}
	return l.fs.Remove(path)
}
