// Package show implements the show command.
package show

import (
	"github.com/fnmeyer/mackup/pkg/commands/internal"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options defines the options for the show command.
type Options struct {
	// App is the application to show.
	App string

	// HomeDir and FS override the environment in tests.
	HomeDir string
	FS      types.FS
}

// Run returns one application's manifest: the files it syncs and any
// platform restriction.
func Run(opts Options) (*types.ShowResult, error) {
	log := logging.GetLogger("commands.show")
	log.Debug().Str("app", opts.App).Msg("Executing command")

	rt, err := internal.NewRuntime(internal.Options{HomeDir: opts.HomeDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	manifest, err := rt.Registry.Get(opts.App)
	if err != nil {
		return nil, err
	}

	result := &types.ShowResult{
		App: types.AppInfo{
			Name:        manifest.Name,
			PrettyName:  manifest.PrettyName,
			UserDefined: manifest.IsUserDefined(),
			FileCount:   len(manifest.Files),
		},
		Files:     manifest.Files,
		Platforms: manifest.Platforms,
	}

	log.Info().Str("app", manifest.Name).Int("files", len(result.Files)).
		Msg("Command finished")
	return result, nil
}
