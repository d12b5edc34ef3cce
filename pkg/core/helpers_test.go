package core

import (
	"fmt"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/filesystem"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/storage"
	"github.com/fnmeyer/mackup/pkg/types"
)

const testHome = "/test/home"

func newTestCore(t *testing.T) (paths.Paths, types.FS, *storage.Backend) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", "")
	require.NoError(t, os.Unsetenv("XDG_CONFIG_HOME"))

	p, err := paths.New(testHome)
	require.NoError(t, err)

	memfs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, memfs.MkdirAll(testHome, 0o755))
	require.NoError(t, memfs.MkdirAll("/mnt/sync", 0o755))

	cfg := &config.Config{
		Storage: config.StorageConfig{
			Engine:    config.EngineFileSystem,
			Path:      "/mnt/sync",
			Directory: "Mackup",
		},
	}
	backend, err := storage.NewBackend(cfg, p, memfs)
	require.NoError(t, err)

	return p, memfs, backend
}

func demoEntry(p paths.Paths, b *storage.Backend) types.SyncEntry {
	return b.Entry(p, "demo", ".demorc")
}

func demoManifest(files ...string) *types.ApplicationManifest {
	if len(files) == 0 {
		files = []string{".demorc"}
	}
	return &types.ApplicationManifest{
		Name:       "demo",
		PrettyName: "Demo",
		Files:      files,
		Source:     types.ManifestSourceBundled,
	}
}

// renameFailFS simulates a filesystem where renames stop working mid-run.
type renameFailFS struct {
	types.FS
}

func (f *renameFailFS) Rename(oldpath, newpath string) error {
	return fmt.Errorf("rename blocked")
}

// symlinkFailFS simulates a filesystem that cannot create symlinks.
type symlinkFailFS struct {
	types.FS
}

func (f *symlinkFailFS) Symlink(oldname, newname string) error {
	return fmt.Errorf("symlink blocked")
}

// recordingConfirmer captures the questions it was asked.
type recordingConfirmer struct {
	answer    bool
	questions []string
}

func (c *recordingConfirmer) Confirm(question string) bool {
	c.questions = append(c.questions, question)
	return c.answer
}
