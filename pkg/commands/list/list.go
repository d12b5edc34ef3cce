// Package list implements the list command.
package list

import (
	"github.com/fnmeyer/mackup/pkg/commands/internal"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options defines the options for the list command.
type Options struct {
	// HomeDir and FS override the environment in tests.
	HomeDir string
	FS      types.FS
}

// Run returns every known application, bundled and user-defined, sorted
// by name.
func Run(opts Options) (*types.ListResult, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Msg("Executing command")

	rt, err := internal.NewRuntime(internal.Options{HomeDir: opts.HomeDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	manifests := rt.Registry.All()
	result := &types.ListResult{
		Apps: make([]types.AppInfo, len(manifests)),
	}
	for i := range manifests {
		result.Apps[i] = types.AppInfo{
			Name:        manifests[i].Name,
			PrettyName:  manifests[i].PrettyName,
			UserDefined: manifests[i].IsUserDefined(),
			FileCount:   len(manifests[i].Files),
		}
	}

	log.Info().Int("appCount", len(result.Apps)).Msg("Command finished")
	return result, nil
}
