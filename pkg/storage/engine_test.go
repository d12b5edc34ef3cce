package storage

import (
	"database/sql"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/filesystem"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

const testHome = "/test/home"

func newTestEnv(t *testing.T) (paths.Paths, types.FS) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", "")
	require.NoError(t, os.Unsetenv("XDG_CONFIG_HOME"))

	p, err := paths.New(testHome)
	require.NoError(t, err)

	return p, filesystem.NewAferoFS(afero.NewMemMapFs())
}

func engineConfig(engine, path string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Engine:    engine,
			Path:      path,
			Directory: "Mackup",
		},
	}
}

func TestResolveRoot_Dropbox(t *testing.T) {
	p, memfs := newTestEnv(t)

	folder := testHome + "/Dropbox"
	encoded := base64.StdEncoding.EncodeToString([]byte(folder))
	hostDB := filepath.Join(testHome, ".dropbox", "host.db")
	require.NoError(t, memfs.MkdirAll(filepath.Dir(hostDB), 0o755))
	require.NoError(t, memfs.WriteFile(hostDB, []byte("abc123\n"+encoded+"\n"), 0o644))

	root, err := ResolveRoot(engineConfig(config.EngineDropbox, ""), p, memfs)
	require.NoError(t, err)
	assert.Equal(t, folder, root)
}

func TestResolveRoot_DropboxUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		hostDB string
	}{
		{name: "missing host.db", hostDB: ""},
		{name: "single field", hostDB: "justonefield"},
		{name: "bad base64", hostDB: "abc123 not-base-64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, memfs := newTestEnv(t)

			if tt.hostDB != "" {
				hostDB := filepath.Join(testHome, ".dropbox", "host.db")
				require.NoError(t, memfs.MkdirAll(filepath.Dir(hostDB), 0o755))
				require.NoError(t, memfs.WriteFile(hostDB, []byte(tt.hostDB), 0o644))
			}

			_, err := ResolveRoot(engineConfig(config.EngineDropbox, ""), p, memfs)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
			assert.Contains(t, err.Error(), "Dropbox")
		})
	}
}

func TestResolveRoot_ICloud(t *testing.T) {
	p, memfs := newTestEnv(t)

	docs := filepath.Join(testHome, "Library", "Mobile Documents", "com~apple~CloudDocs")
	require.NoError(t, memfs.MkdirAll(docs, 0o755))

	root, err := ResolveRoot(engineConfig(config.EngineICloud, ""), p, memfs)
	require.NoError(t, err)
	assert.Equal(t, docs, root)
}

func TestResolveRoot_ICloudUnavailable(t *testing.T) {
	p, memfs := newTestEnv(t)

	_, err := ResolveRoot(engineConfig(config.EngineICloud, ""), p, memfs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
	assert.Contains(t, err.Error(), "iCloud")
}

func TestResolveRoot_FileSystem(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "absolute", path: "/mnt/backups", want: "/mnt/backups"},
		{name: "relative joins home", path: "dotfiles", want: testHome + "/dotfiles"},
		{name: "tilde prefix", path: "~/dotfiles", want: testHome + "/dotfiles"},
		{name: "bare tilde", path: "~", want: testHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, memfs := newTestEnv(t)

			root, err := ResolveRoot(engineConfig(config.EngineFileSystem, tt.path), p, memfs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root)
		})
	}
}

func TestResolveRoot_FileSystemWithoutPath(t *testing.T) {
	p, memfs := newTestEnv(t)

	_, err := ResolveRoot(engineConfig(config.EngineFileSystem, ""), p, memfs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestResolveRoot_UnknownEngine(t *testing.T) {
	p, memfs := newTestEnv(t)

	_, err := ResolveRoot(engineConfig("rsync", ""), p, memfs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEngineUnknown))
	assert.Contains(t, err.Error(), "rsync")
}

func createGoogleDriveDB(t *testing.T, dbPath, root string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0o755))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	_, err = db.Exec("CREATE TABLE data (entry_key TEXT PRIMARY KEY, data_value TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO data (entry_key, data_value) VALUES ('local_sync_root_path', ?)", root)
	require.NoError(t, err)
}

func TestResolveRoot_GoogleDrive(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	require.NoError(t, os.Unsetenv("XDG_CONFIG_HOME"))

	p, err := paths.New(home)
	require.NoError(t, err)

	driveRoot := filepath.Join(home, "Google Drive")
	dbPath := filepath.Join(home, "Library", "Application Support", "Google", "Drive", "sync_config.db")
	createGoogleDriveDB(t, dbPath, driveRoot)

	root, err := ResolveRoot(engineConfig(config.EngineGoogleDrive, ""), p, filesystem.NewOS())
	require.NoError(t, err)
	assert.Equal(t, driveRoot, root)
}

func TestResolveRoot_GoogleDrivePrefersUserDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	require.NoError(t, os.Unsetenv("XDG_CONFIG_HOME"))

	p, err := paths.New(home)
	require.NoError(t, err)

	driveDir := filepath.Join(home, "Library", "Application Support", "Google", "Drive")
	createGoogleDriveDB(t, filepath.Join(driveDir, "sync_config.db"), "/old/root")
	createGoogleDriveDB(t, filepath.Join(driveDir, "user_default", "sync_config.db"), "/new/root")

	root, err := ResolveRoot(engineConfig(config.EngineGoogleDrive, ""), p, filesystem.NewOS())
	require.NoError(t, err)
	assert.Equal(t, "/new/root", root)
}

func TestResolveRoot_GoogleDriveUnavailable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	require.NoError(t, os.Unsetenv("XDG_CONFIG_HOME"))

	p, err := paths.New(home)
	require.NoError(t, err)

	_, err = ResolveRoot(engineConfig(config.EngineGoogleDrive, ""), p, filesystem.NewOS())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackendUnavailable))
	assert.Contains(t, err.Error(), "Google Drive")
}
