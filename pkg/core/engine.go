package core

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/storage"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options configures an Engine.
type Options struct {
	FS      types.FS
	Backend *storage.Backend
	Paths   paths.Paths

	// Confirmer answers replacement prompts. Force replaces it with
	// AutoApprove; nil defaults to AutoDeny so nothing is ever replaced
	// without an explicit decision.
	Confirmer types.Confirmer

	DryRun bool
	Force  bool

	// GOOS overrides the runtime value in tests.
	GOOS string
}

// Engine walks one application at a time, strictly in manifest order, and
// applies the backup, restore or uninstall action to each entry. No
// parallelism: interleaving mutations across applications that may share
// files invites partial states.
type Engine struct {
	fs      types.FS
	backend *storage.Backend
	paths   paths.Paths
	linker  *Linker
	confirm types.Confirmer
	dryRun  bool
	force   bool
	goos    string
}

// NewEngine builds an Engine from the options.
func NewEngine(opts Options) *Engine {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	confirm := opts.Confirmer
	if confirm == nil {
		confirm = types.AutoDeny{}
	}
	if opts.Force {
		confirm = types.AutoApprove{}
	}

	return &Engine{
		fs:      opts.FS,
		backend: opts.Backend,
		paths:   opts.Paths,
		linker:  NewLinker(opts.FS),
		confirm: confirm,
		dryRun:  opts.DryRun,
		force:   opts.Force,
		goos:    goos,
	}
}

// BackupApp moves every present configuration file of one application into
// storage and links it back. Already migrated entries are left alone.
func (e *Engine) BackupApp(m *types.ApplicationManifest) (types.AppResult, error) {
	result := types.AppResult{Name: m.Name, PrettyName: m.PrettyName}

	if !m.SupportsPlatform(e.goos) {
		log.Debug().Str("app", m.Name).Str("goos", e.goos).
			Msg("Application not supported on this platform")
		return result, nil
	}

	for _, rel := range m.Files {
		if !e.entrySyncable(rel) {
			log.Debug().Str("app", m.Name).Str("path", rel).
				Msg("Path only syncs on macOS")
			continue
		}

		entry := e.backend.Entry(e.paths, m.Name, rel)
		state, err := Classify(e.fs, entry)
		if err != nil {
			return result, err
		}
		stored := e.backend.Exists(filepath.Join(m.Name, rel))

		outcome, err := e.backupEntry(entry, state, stored)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrConflict) {
				result.Entries = append(result.Entries, conflictEntry(entry, err))
			}
			return result, err
		}
		if outcome != nil {
			result.Entries = append(result.Entries, *outcome)
		}
	}

	return result, nil
}

func (e *Engine) backupEntry(entry types.SyncEntry, state types.LinkState, stored bool) (*types.EntryResult, error) {
	switch state {
	case types.StateLinkedCorrect:
		return skipped(entry, "already backed up"), nil

	case types.StateLinkedStale:
		if !e.force {
			return nil, e.staleConflict(entry)
		}
		// The link's content, not its identity, is what gets backed up.
		// A dangling link has no content and is left alone.
		if _, err := e.fs.Stat(entry.OriginalPath); err != nil {
			return skipped(entry, "broken link left in place"), nil
		}
		if e.dryRun {
			return acted(entry, types.ActionBackedUp, "replaced stale link"), nil
		}
		if err := e.linker.Backup(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionBackedUp, "replaced stale link"), nil

	case types.StateAbsent:
		if !stored {
			log.Debug().Str("path", entry.RelPath).Msg("Nothing to back up")
			return nil, nil
		}
		if e.dryRun {
			return acted(entry, types.ActionLinked, "linked existing storage copy"), nil
		}
		if err := e.linker.Link(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionLinked, "linked existing storage copy"), nil

	default: // StateMaterial
		if e.dryRun {
			return acted(entry, types.ActionBackedUp, ""), nil
		}
		if stored {
			question := fmt.Sprintf(
				"A backup of %s already exists in storage. Replace it with the current version?",
				entry.RelPath)
			if !e.confirm.Confirm(question) {
				return skipped(entry, "kept the existing storage copy"), nil
			}
		}
		if err := e.linker.Backup(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionBackedUp, ""), nil
	}
}

// RestoreApp links every storage copy of one application into the home
// directory. Used on a fresh machine where the files do not exist yet.
func (e *Engine) RestoreApp(m *types.ApplicationManifest) (types.AppResult, error) {
	result := types.AppResult{Name: m.Name, PrettyName: m.PrettyName}

	if !m.SupportsPlatform(e.goos) {
		log.Debug().Str("app", m.Name).Str("goos", e.goos).
			Msg("Application not supported on this platform")
		return result, nil
	}

	for _, rel := range m.Files {
		if !e.entrySyncable(rel) {
			log.Debug().Str("app", m.Name).Str("path", rel).
				Msg("Path only syncs on macOS")
			continue
		}
		if !e.backend.Exists(filepath.Join(m.Name, rel)) {
			log.Debug().Str("app", m.Name).Str("path", rel).Msg("Not in storage")
			continue
		}

		entry := e.backend.Entry(e.paths, m.Name, rel)
		state, err := Classify(e.fs, entry)
		if err != nil {
			return result, err
		}

		outcome, err := e.restoreEntry(entry, state)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrConflict) {
				result.Entries = append(result.Entries, conflictEntry(entry, err))
			}
			return result, err
		}
		if outcome != nil {
			result.Entries = append(result.Entries, *outcome)
		}
	}

	return result, nil
}

func (e *Engine) restoreEntry(entry types.SyncEntry, state types.LinkState) (*types.EntryResult, error) {
	switch state {
	case types.StateLinkedCorrect:
		return skipped(entry, "already linked"), nil

	case types.StateLinkedStale:
		if !e.force {
			return nil, e.staleConflict(entry)
		}
		if e.dryRun {
			return acted(entry, types.ActionLinked, "replaced stale link"), nil
		}
		if err := e.linker.deleteAll(entry.OriginalPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileDelete,
				"unable to remove the stale link at %s", entry.OriginalPath)
		}
		if err := e.linker.Link(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionLinked, "replaced stale link"), nil

	case types.StateAbsent:
		if e.dryRun {
			return acted(entry, types.ActionLinked, ""), nil
		}
		if err := e.linker.Link(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionLinked, ""), nil

	default: // StateMaterial
		if e.dryRun {
			return acted(entry, types.ActionLinked, "replaced local copy"), nil
		}
		question := fmt.Sprintf(
			"%s already exists at home. Replace it with the synced copy?", entry.RelPath)
		if !e.confirm.Confirm(question) {
			return skipped(entry, "kept the local copy"), nil
		}
		clearProtections(entry.OriginalPath)
		if err := e.linker.deleteAll(entry.OriginalPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileDelete,
				"unable to remove %s", entry.OriginalPath)
		}
		if err := e.linker.Link(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionLinked, "replaced local copy"), nil
	}
}

// UninstallApp copies every storage copy of one application back into the
// home directory and removes the links, leaving the machine independent of
// the storage folder. Storage copies are kept so other machines continue
// to sync.
func (e *Engine) UninstallApp(m *types.ApplicationManifest) (types.AppResult, error) {
	result := types.AppResult{Name: m.Name, PrettyName: m.PrettyName}

	if !m.SupportsPlatform(e.goos) {
		log.Debug().Str("app", m.Name).Str("goos", e.goos).
			Msg("Application not supported on this platform")
		return result, nil
	}

	for _, rel := range m.Files {
		if !e.backend.Exists(filepath.Join(m.Name, rel)) {
			log.Debug().Str("app", m.Name).Str("path", rel).Msg("Not in storage")
			continue
		}

		entry := e.backend.Entry(e.paths, m.Name, rel)
		state, err := Classify(e.fs, entry)
		if err != nil {
			return result, err
		}

		outcome, err := e.uninstallEntry(entry, state)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrConflict) {
				result.Entries = append(result.Entries, conflictEntry(entry, err))
			}
			return result, err
		}
		if outcome != nil {
			result.Entries = append(result.Entries, *outcome)
		}
	}

	return result, nil
}

func (e *Engine) uninstallEntry(entry types.SyncEntry, state types.LinkState) (*types.EntryResult, error) {
	switch state {
	case types.StateAbsent:
		log.Debug().Str("path", entry.RelPath).Msg("Nothing at the original path")
		return nil, nil

	case types.StateLinkedStale:
		if !e.force {
			return nil, e.staleConflict(entry)
		}
		if e.dryRun {
			return acted(entry, types.ActionRestored, "replaced stale link"), nil
		}
		if err := e.linker.Restore(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionRestored, "replaced stale link"), nil

	case types.StateMaterial:
		if e.dryRun {
			return acted(entry, types.ActionRestored, "replaced local copy"), nil
		}
		question := fmt.Sprintf(
			"%s at home is not managed by mackup. Replace it with the storage copy?",
			entry.RelPath)
		if !e.confirm.Confirm(question) {
			return skipped(entry, "kept the local copy"), nil
		}
		if err := e.linker.Restore(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionRestored, "replaced local copy"), nil

	default: // StateLinkedCorrect
		if e.dryRun {
			return acted(entry, types.ActionRestored, ""), nil
		}
		if err := e.linker.Restore(entry); err != nil {
			return nil, err
		}
		return acted(entry, types.ActionRestored, ""), nil
	}
}

// entrySyncable reports whether a home-relative path may be synced on the
// current platform. ~/Library only ever holds real configuration on macOS.
func (e *Engine) entrySyncable(rel string) bool {
	if e.goos == "darwin" {
		return true
	}
	return rel != "Library" && !strings.HasPrefix(rel, "Library"+string(filepath.Separator))
}

func (e *Engine) staleConflict(entry types.SyncEntry) error {
	target, _ := e.fs.Readlink(entry.OriginalPath)
	return errors.Newf(errors.ErrConflict,
		"%s links to %s instead of its storage copy (re-run with --force to replace it)",
		entry.OriginalPath, target)
}

func skipped(entry types.SyncEntry, note string) *types.EntryResult {
	return &types.EntryResult{RelPath: entry.RelPath, Action: types.ActionSkipped, Note: note}
}

func acted(entry types.SyncEntry, action types.EntryAction, note string) *types.EntryResult {
	return &types.EntryResult{RelPath: entry.RelPath, Action: action, Note: note}
}

func conflictEntry(entry types.SyncEntry, err error) types.EntryResult {
	note := err.Error()
	var mackupErr *errors.MackupError
	if stderrors.As(err, &mackupErr) {
		note = mackupErr.Message
	}
	return types.EntryResult{RelPath: entry.RelPath, Action: types.ActionConflict, Note: note}
}
