package restore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/testutil"
	"github.com/fnmeyer/mackup/pkg/types"
)

const demoManifest = `[application]
name = "Demo"

configuration_files = [
  ".demorc",
]
`

func TestRestore(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteUserManifest("demo.toml", demoManifest)
	env.WriteStorageFile("demo", ".demorc", "X")

	result, err := Run(Options{
		Apps:    []string{"demo"},
		HomeDir: env.Home,
		FS:      env.FS,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changed())
	env.RequireLinked("demo", ".demorc")
	assert.Equal(t, "X", env.ReadFile(env.HomePath(".demorc")))
}

func TestRestore_NoBackupDirectory(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	require.NoError(t, env.FS.RemoveAll(env.StorageRoot))

	_, err := Run(Options{HomeDir: env.Home, FS: env.FS})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
}

func TestRestore_ExistingFileKeptWithoutConfirmation(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteUserManifest("demo.toml", demoManifest)
	env.WriteStorageFile("demo", ".demorc", "synced")
	env.WriteHomeFile(".demorc", "local")

	result, err := Run(Options{
		Apps:    []string{"demo"},
		HomeDir: env.Home,
		FS:      env.FS,
	})
	require.NoError(t, err)

	require.Len(t, result.Apps, 1)
	require.Len(t, result.Apps[0].Entries, 1)
	assert.Equal(t, types.ActionSkipped, result.Apps[0].Entries[0].Action)
	assert.Equal(t, "local", env.ReadFile(env.HomePath(".demorc")))
}

func TestRestore_ExistingFileReplacedWhenConfirmed(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteUserManifest("demo.toml", demoManifest)
	env.WriteStorageFile("demo", ".demorc", "synced")
	env.WriteHomeFile(".demorc", "local")

	result, err := Run(Options{
		Apps:      []string{"demo"},
		Confirmer: types.AutoApprove{},
		HomeDir:   env.Home,
		FS:        env.FS,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changed())
	env.RequireLinked("demo", ".demorc")
	assert.Equal(t, "synced", env.ReadFile(env.HomePath(".demorc")))
}

func TestRestore_Idempotent(t *testing.T) {
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteUserManifest("demo.toml", demoManifest)
	env.WriteStorageFile("demo", ".demorc", "X")

	_, err := Run(Options{Apps: []string{"demo"}, HomeDir: env.Home, FS: env.FS})
	require.NoError(t, err)

	result, err := Run(Options{Apps: []string{"demo"}, HomeDir: env.Home, FS: env.FS})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Changed())
	env.RequireLinked("demo", ".demorc")
}
