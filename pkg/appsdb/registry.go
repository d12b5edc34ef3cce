package appsdb

import (
	"embed"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/logging"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

var log = logging.GetLogger("appsdb")

//go:embed apps/*.toml
var bundledFS embed.FS

// Registry holds every known application manifest, keyed by name.
type Registry struct {
	apps map[string]types.ApplicationManifest
}

// Load builds the registry from the bundled manifests and the user's
// custom manifest directory. User manifests replace bundled ones with the
// same name wholesale.
func Load(p paths.Paths, filesystem types.FS) (*Registry, error) {
	xdgRel, err := p.RelToHome(p.XDGConfigHome())
	if err != nil {
		return nil, err
	}

	reg := &Registry{apps: make(map[string]types.ApplicationManifest)}

	if err := reg.loadBundled(xdgRel); err != nil {
		return nil, err
	}

	userCount, err := reg.loadUserDir(p.CustomAppsDir(), filesystem, xdgRel)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("total", len(reg.apps)).
		Int("user", userCount).
		Msg("Application manifests loaded")

	return reg, nil
}

func (r *Registry) loadBundled(xdgRel string) error {
	entries, err := bundledFS.ReadDir("apps")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to read bundled manifests")
	}

	for _, entry := range entries {
		data, err := bundledFS.ReadFile(filepath.Join("apps", entry.Name()))
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal,
				"failed to read bundled manifest %s", entry.Name())
		}

		manifest, err := parseManifest(
			manifestName(entry.Name()),
			entry.Name(),
			manifestFormat(entry.Name()),
			data,
			xdgRel,
		)
		if err != nil {
			return err
		}
		manifest.Source = types.ManifestSourceBundled
		r.apps[manifest.Name] = manifest
	}

	return nil
}

func (r *Registry) loadUserDir(dir string, filesystem types.FS, xdgRel string) (int, error) {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		// Missing directory means no user manifests.
		if stderrors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read custom manifest directory %s", dir)
	}

	loaded := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format := manifestFormat(entry.Name())
		if format == "" {
			continue
		}

		name := manifestName(entry.Name())
		fullPath := filepath.Join(dir, entry.Name())

		if previous, dup := loaded[name]; dup {
			return 0, errors.Newf(errors.ErrManifestInvalid,
				"duplicate manifests for %q: %s and %s", name, previous, fullPath)
		}

		data, err := filesystem.ReadFile(fullPath)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to read manifest %s", fullPath)
		}

		manifest, err := parseManifest(name, fullPath, format, data, xdgRel)
		if err != nil {
			return 0, err
		}

		if _, bundled := r.apps[name]; bundled {
			log.Debug().Str("app", name).Str("path", fullPath).
				Msg("User manifest replaces bundled manifest")
		}
		r.apps[name] = manifest
		loaded[name] = fullPath
	}

	return len(loaded), nil
}

// Get returns the manifest for an application name.
func (r *Registry) Get(name string) (types.ApplicationManifest, error) {
	manifest, ok := r.apps[name]
	if !ok {
		return types.ApplicationManifest{}, errors.Newf(errors.ErrUnknownApplication,
			"unknown application %q", name)
	}
	return manifest, nil
}

// Names returns every known application name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every manifest, sorted by application name.
func (r *Registry) All() []types.ApplicationManifest {
	manifests := make([]types.ApplicationManifest, 0, len(r.apps))
	for _, name := range r.Names() {
		manifests = append(manifests, r.apps[name])
	}
	return manifests
}

// Len returns the number of known applications.
func (r *Registry) Len() int {
	return len(r.apps)
}

// Select returns the manifests eligible for syncing: the configured
// allowlist (or every known application when empty) minus the ignore
// list, sorted by name. Unknown names in the allowlist are skipped with
// a warning rather than failing the whole run.
func (r *Registry) Select(syncSet, ignoreSet map[string]bool) []types.ApplicationManifest {
	var names []string
	if len(syncSet) == 0 {
		names = r.Names()
	} else {
		for name := range syncSet {
			if _, known := r.apps[name]; !known {
				log.Warn().Str("app", name).
					Msg("Configured application is unknown, skipping")
				continue
			}
			names = append(names, name)
		}
		slices.Sort(names)
	}

	selected := make([]types.ApplicationManifest, 0, len(names))
	for _, name := range names {
		if ignoreSet[name] {
			continue
		}
		selected = append(selected, r.apps[name])
	}
	return selected
}
