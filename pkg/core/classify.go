package core

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Classify reports what currently occupies an entry's original path.
// The decision uses the link target's identity, never content comparison.
func Classify(filesystem types.FS, entry types.SyncEntry) (types.LinkState, error) {
	info, err := filesystem.Lstat(entry.OriginalPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return types.StateAbsent, nil
		}
		return types.StateAbsent, errors.Wrapf(err, errors.ErrFileAccess,
			"unable to inspect %s", entry.OriginalPath)
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return types.StateMaterial, nil
	}

	target, err := filesystem.Readlink(entry.OriginalPath)
	if err != nil {
		return types.StateAbsent, errors.Wrapf(err, errors.ErrFileAccess,
			"unable to read the link at %s", entry.OriginalPath)
	}

	// Relative targets resolve against the link's own directory.
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(entry.OriginalPath), target)
	}

	if filepath.Clean(target) == filepath.Clean(entry.StoragePath) {
		return types.StateLinkedCorrect, nil
	}
	return types.StateLinkedStale, nil
}
