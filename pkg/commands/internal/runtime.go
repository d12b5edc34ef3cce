// Package internal wires the environment every command needs: paths,
// configuration, the manifest registry and the storage backend. Commands
// stay thin; all construction happens here, once per invocation.
package internal

import (
	"github.com/fnmeyer/mackup/pkg/appsdb"
	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/filesystem"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/storage"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Options configures runtime construction. The zero value resolves
// everything from the real environment; tests override HomeDir and FS.
type Options struct {
	// HomeDir overrides the home directory. Empty resolves from the
	// environment.
	HomeDir string

	// FS overrides the filesystem. Nil uses the OS filesystem.
	FS types.FS
}

// Runtime holds the fully constructed dependencies of one command
// invocation. The configuration is an explicit value threaded through,
// never a package-level singleton.
type Runtime struct {
	Paths    paths.Paths
	FS       types.FS
	Config   *config.Config
	Registry *appsdb.Registry
}

// NewRuntime resolves paths, loads the configuration and the application
// manifests. The storage backend is constructed separately because list
// and show never need one.
func NewRuntime(opts Options) (*Runtime, error) {
	p, err := paths.New(opts.HomeDir)
	if err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	cfg, err := config.LoadConfiguration(p)
	if err != nil {
		return nil, err
	}

	registry, err := appsdb.Load(p, fs)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Paths:    p,
		FS:       fs,
		Config:   cfg,
		Registry: registry,
	}, nil
}

// Backend resolves the configured storage engine and returns the backend
// rooted inside it.
func (rt *Runtime) Backend() (*storage.Backend, error) {
	return storage.NewBackend(rt.Config, rt.Paths, rt.FS)
}

// SelectManifests returns the manifests the command operates on. Explicit
// names resolve individually and an unknown one fails the whole run;
// without names, selection falls back to the configured sync and ignore
// lists over every known application.
func (rt *Runtime) SelectManifests(names []string) ([]types.ApplicationManifest, error) {
	if len(names) == 0 {
		return rt.Registry.Select(rt.Config.SyncSet(), rt.Config.IgnoreSet()), nil
	}

	manifests := make([]types.ApplicationManifest, 0, len(names))
	for _, name := range names {
		manifest, err := rt.Registry.Get(name)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}
