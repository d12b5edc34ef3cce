// Package backup implements the backup command: move configuration files
// into storage and leave symlinks behind.
package backup

import (
	"fmt"
	"time"

	"github.com/fnmeyer/mackup/pkg/commands/internal"
	"github.com/fnmeyer/mackup/pkg/core"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options defines the options for the backup command.
type Options struct {
	// Apps restricts the run to the named applications. Empty means every
	// application allowed by the configuration.
	Apps []string

	// DryRun reports what would change without touching the filesystem.
	DryRun bool

	// Force auto-approves replacement prompts and overrides stale-link
	// conflicts.
	Force bool

	// Confirmer answers replacement prompts. Nil declines everything.
	Confirmer types.Confirmer

	// HomeDir and FS override the environment in tests.
	HomeDir string
	FS      types.FS
}

// Run backs up the selected applications, one at a time in name order.
// The returned result holds everything processed before any error.
func Run(opts Options) (*types.SyncResult, error) {
	log := logging.GetLogger("commands.backup")
	log.Debug().Strs("apps", opts.Apps).Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).Msg("Executing command")

	rt, err := internal.NewRuntime(internal.Options{HomeDir: opts.HomeDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{
		Command:   "backup",
		DryRun:    opts.DryRun,
		Timestamp: time.Now(),
	}

	backend, err := rt.Backend()
	if err != nil {
		return result, err
	}
	if err := backend.CheckAvailable(); err != nil {
		return result, err
	}

	if !backend.RootExists() && !opts.DryRun {
		confirm := opts.Confirmer
		if confirm == nil {
			confirm = types.AutoDeny{}
		}
		if opts.Force {
			confirm = types.AutoApprove{}
		}
		question := fmt.Sprintf("The storage directory %s does not exist yet. Create it?",
			backend.Root())
		if !confirm.Confirm(question) {
			return result, errors.Newf(errors.ErrBackendUnavailable,
				"cannot back up without the storage directory %s", backend.Root())
		}
		if err := backend.CreateRoot(); err != nil {
			return result, err
		}
	}

	manifests, err := rt.SelectManifests(opts.Apps)
	if err != nil {
		return result, err
	}

	engine := core.NewEngine(core.Options{
		FS:        rt.FS,
		Backend:   backend,
		Paths:     rt.Paths,
		Confirmer: opts.Confirmer,
		DryRun:    opts.DryRun,
		Force:     opts.Force,
	})

	for i := range manifests {
		appResult, err := engine.BackupApp(&manifests[i])
		result.Apps = append(result.Apps, appResult)
		if err != nil {
			return result, err
		}
	}

	log.Info().Int("apps", len(result.Apps)).Int("changed", result.Changed()).
		Msg("Command finished")
	return result, nil
}
