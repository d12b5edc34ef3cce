// Package restore implements the restore command: link the storage copies
// of configuration files into the home directory of a new machine.
package restore

import (
	"time"

	"github.com/fnmeyer/mackup/pkg/commands/internal"
	"github.com/fnmeyer/mackup/pkg/core"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options defines the options for the restore command.
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

// Run links the storage copies of the selected applications into the home
// directory. The storage directory must already hold a backup.
func Run(opts Options) (*types.SyncResult, error) {
	log := logging.GetLogger("commands.restore")
	log.Debug().Strs("apps", opts.Apps).Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).Msg("Executing command")

	rt, err := internal.NewRuntime(internal.Options{HomeDir: opts.HomeDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{
		Command:   "restore",
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
	if !backend.RootExists() {
		return result, errors.Newf(errors.ErrBackendUnavailable,
			"no usable backup found at %s, run backup on a synced machine first",
			backend.Root())
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
		appResult, err := engine.RestoreApp(&manifests[i])
		result.Apps = append(result.Apps, appResult)
		if err != nil {
			return result, err
		}
	}

	log.Info().Int("apps", len(result.Apps)).Int("changed", result.Changed()).
		Msg("Command finished")
	return result, nil
}
