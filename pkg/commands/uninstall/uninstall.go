// Package uninstall implements the uninstall command: copy every storage
// copy back to its original location and remove the symlinks, leaving the
// machine independent of the storage folder.
package uninstall

import (
	"time"

	"github.com/fnmeyer/mackup/pkg/commands/internal"
	"github.com/fnmeyer/mackup/pkg/core"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options defines the options for the uninstall command.
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

// Run materializes the storage copies of the selected applications back at
// their original paths. Storage copies stay put so other machines keep
// syncing.
func Run(opts Options) (*types.SyncResult, error) {
	log := logging.GetLogger("commands.uninstall")
	log.Debug().Strs("apps", opts.Apps).Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).Msg("Executing command")

	rt, err := internal.NewRuntime(internal.Options{HomeDir: opts.HomeDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{
		Command:   "uninstall",
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
			"nothing to uninstall, no backup found at %s", backend.Root())
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
		appResult, err := engine.UninstallApp(&manifests[i])
		result.Apps = append(result.Apps, appResult)
		if err != nil {
			return result, err
		}
	}

	log.Info().Int("apps", len(result.Apps)).Int("changed", result.Changed()).
		Msg("Command finished")
	return result, nil
}
