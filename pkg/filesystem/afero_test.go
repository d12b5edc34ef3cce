package filesystem

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFS() *aferoFS {
	return NewAferoFS(afero.NewMemMapFs()).(*aferoFS)
}

func TestAferoFS_SymlinkEmulation(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.MkdirAll("/storage/git", 0o755))
	require.NoError(t, memfs.WriteFile("/storage/git/.gitconfig", []byte("[user]\n"), 0o644))
	require.NoError(t, memfs.Symlink("/storage/git/.gitconfig", "/home/u/.gitconfig"))

	t.Run("readlink returns target", func(t *testing.T) {
		target, err := memfs.Readlink("/home/u/.gitconfig")
		require.NoError(t, err)
		assert.Equal(t, "/storage/git/.gitconfig", target)
	})

	t.Run("lstat reports symlink mode", func(t *testing.T) {
		info, err := memfs.Lstat("/home/u/.gitconfig")
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&fs.ModeSymlink)
	})

	t.Run("stat follows link", func(t *testing.T) {
		info, err := memfs.Stat("/home/u/.gitconfig")
		require.NoError(t, err)
		assert.Zero(t, info.Mode()&fs.ModeSymlink)
		assert.Equal(t, int64(len("[user]\n")), info.Size())
	})

	t.Run("read follows link", func(t *testing.T) {
		data, err := memfs.ReadFile("/home/u/.gitconfig")
		require.NoError(t, err)
		assert.Equal(t, "[user]\n", string(data))
	})

	t.Run("readlink on regular file fails", func(t *testing.T) {
		_, err := memfs.Readlink("/storage/git/.gitconfig")
		assert.Error(t, err)
	})
}

func TestAferoFS_SymlinkExisting(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.WriteFile("/home/u/.vimrc", []byte("set nu\n"), 0o644))

	err := memfs.Symlink("/storage/vim/.vimrc", "/home/u/.vimrc")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestAferoFS_RemoveSymlink(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.WriteFile("/storage/f", []byte("x"), 0o644))
	require.NoError(t, memfs.Symlink("/storage/f", "/home/u/f"))

	require.NoError(t, memfs.Remove("/home/u/f"))

	// Link is gone, target remains.
	_, err := memfs.Readlink("/home/u/f")
	assert.Error(t, err)

	data, err := memfs.ReadFile("/storage/f")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestAferoFS_RenamePreservesLink(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.WriteFile("/storage/f", []byte("x"), 0o644))
	require.NoError(t, memfs.Symlink("/storage/f", "/home/u/old"))

	require.NoError(t, memfs.Rename("/home/u/old", "/home/u/new"))

	target, err := memfs.Readlink("/home/u/new")
	require.NoError(t, err)
	assert.Equal(t, "/storage/f", target)

	_, err = memfs.Readlink("/home/u/old")
	assert.Error(t, err)
}

func TestAferoFS_RenameDirectoryMovesNestedLinks(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.MkdirAll("/work/tmp", 0o755))
	require.NoError(t, memfs.WriteFile("/work/tmp/file", []byte("x"), 0o644))
	require.NoError(t, memfs.Symlink("file", "/work/tmp/link"))

	require.NoError(t, memfs.Rename("/work/tmp", "/work/final"))

	target, err := memfs.Readlink("/work/final/link")
	require.NoError(t, err)
	assert.Equal(t, "file", target)

	_, err = memfs.Readlink("/work/tmp/link")
	assert.Error(t, err)
}

func TestAferoFS_RemoveAllDropsNestedLinks(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.MkdirAll("/home/u/.config", 0o755))
	require.NoError(t, memfs.WriteFile("/storage/f", []byte("x"), 0o644))
	require.NoError(t, memfs.Symlink("/storage/f", "/home/u/.config/link"))

	require.NoError(t, memfs.RemoveAll("/home/u"))

	_, err := memfs.Readlink("/home/u/.config/link")
	assert.Error(t, err)
}

func TestAferoFS_ReadDir(t *testing.T) {
	memfs := newMemFS()

	require.NoError(t, memfs.MkdirAll("/dir/sub", 0o755))
	require.NoError(t, memfs.WriteFile("/dir/a.txt", []byte("a"), 0o644))

	entries, err := memfs.ReadDir("/dir")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := []string{entries[0].Name(), entries[1].Name()}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "sub")
}
