package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

func newTestBackend(t *testing.T) (*Backend, paths.Paths, types.FS) {
	t.Helper()

	p, memfs := newTestEnv(t)
	require.NoError(t, memfs.MkdirAll("/mnt/backups", 0o755))

	b, err := NewBackend(engineConfig(config.EngineFileSystem, "/mnt/backups"), p, memfs)
	require.NoError(t, err)

	return b, p, memfs
}

func TestNewBackend(t *testing.T) {
	b, _, _ := newTestBackend(t)

	assert.Equal(t, "/mnt/backups", b.EngineRoot())
	assert.Equal(t, "/mnt/backups/Mackup", b.Root())
}

func TestNewBackend_UnknownEngine(t *testing.T) {
	p, memfs := newTestEnv(t)

	_, err := NewBackend(engineConfig("nfs", ""), p, memfs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEngineUnknown))
}

func TestBackendCheckAvailable(t *testing.T) {
	b, _, memfs := newTestBackend(t)

	require.NoError(t, b.CheckAvailable())

	require.NoError(t, memfs.RemoveAll("/mnt/backups"))
	err := b.CheckAvailable()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
}

func TestBackendCheckAvailable_NotADirectory(t *testing.T) {
	p, memfs := newTestEnv(t)
	require.NoError(t, memfs.WriteFile("/mnt/backups", []byte("file"), 0o644))

	b, err := NewBackend(engineConfig(config.EngineFileSystem, "/mnt/backups"), p, memfs)
	require.NoError(t, err)

	err = b.CheckAvailable()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBackendRoot(t *testing.T) {
	b, _, _ := newTestBackend(t)

	assert.False(t, b.RootExists())
	require.NoError(t, b.CreateRoot())
	assert.True(t, b.RootExists())

	// Creating an existing root is a no-op.
	require.NoError(t, b.CreateRoot())
}

func TestBackendAppPaths(t *testing.T) {
	b, _, _ := newTestBackend(t)

	assert.Equal(t, "/mnt/backups/Mackup/git", b.AppDir("git"))
	assert.Equal(t,
		filepath.Join("/mnt/backups/Mackup/git", ".config/git/config"),
		b.EntryPath("git", ".config/git/config"))
}

func TestBackendEntry(t *testing.T) {
	b, p, _ := newTestBackend(t)

	entry := b.Entry(p, "git", ".gitconfig")
	assert.Equal(t, "git", entry.App)
	assert.Equal(t, ".gitconfig", entry.RelPath)
	assert.Equal(t, testHome+"/.gitconfig", entry.OriginalPath)
	assert.Equal(t, "/mnt/backups/Mackup/git/.gitconfig", entry.StoragePath)
}

func TestBackendPutGet(t *testing.T) {
	b, _, _ := newTestBackend(t)

	require.NoError(t, b.Put("git/.gitconfig", []byte("[user]\nname = x\n")))

	data, err := b.Get("git/.gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "[user]\nname = x\n", string(data))

	_, err = b.Get("git/.missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestBackendExistsRemove(t *testing.T) {
	b, _, _ := newTestBackend(t)

	assert.False(t, b.Exists("vim/.vimrc"))
	require.NoError(t, b.Put("vim/.vimrc", []byte("set nocompatible\n")))
	assert.True(t, b.Exists("vim/.vimrc"))

	require.NoError(t, b.Remove("vim/.vimrc"))
	assert.False(t, b.Exists("vim/.vimrc"))

	// Removing something absent is fine.
	require.NoError(t, b.Remove("vim/.vimrc"))
}

func TestBackendList(t *testing.T) {
	b, _, _ := newTestBackend(t)

	require.NoError(t, b.Put("git/.gitconfig", []byte("a")))
	require.NoError(t, b.Put("git/.config/git/ignore", []byte("b")))
	require.NoError(t, b.Put("vim/.vimrc", []byte("c")))

	files, err := b.List("git")
	require.NoError(t, err)
	assert.Equal(t, []string{"git/.config/git/ignore", "git/.gitconfig"}, files)

	all, err := b.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	missing, err := b.List("emacs")
	require.NoError(t, err)
	assert.Empty(t, missing)

	single, err := b.List("vim/.vimrc")
	require.NoError(t, err)
	assert.Equal(t, []string{"vim/.vimrc"}, single)
}
