package storage

import (
	"database/sql"
	"encoding/base64"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fnmeyer/mackup/pkg/config"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/paths"
	"github.com/fnmeyer/mackup/pkg/types"
)

// Well-known locations the engines inspect, relative to home.
const (
	dropboxHostDB     = ".dropbox/host.db"
	googleDriveDB     = "Library/Application Support/Google/Drive/sync_config.db"
	googleDriveUserDB = "Library/Application Support/Google/Drive/user_default/sync_config.db"
	icloudDocsDir     = "Library/Mobile Documents/com~apple~CloudDocs"
)

// ResolveRoot locates the sync root directory for the configured engine.
func ResolveRoot(cfg *config.Config, p paths.Paths, filesystem types.FS) (string, error) {
	switch cfg.Storage.Engine {
	case config.EngineDropbox:
		return dropboxFolder(p, filesystem)
	case config.EngineGoogleDrive:
		return googleDriveFolder(p, filesystem)
	case config.EngineICloud:
		return icloudFolder(p, filesystem)
	case config.EngineFileSystem:
		return fileSystemFolder(cfg.Storage.Path, p)
	default:
		return "", errors.Newf(errors.ErrEngineUnknown,
			"unknown storage engine %q", cfg.Storage.Engine)
	}
}

// dropboxFolder reads the Dropbox folder location from host.db. The second
// whitespace-separated token is the base64-encoded folder path.
func dropboxFolder(p paths.Paths, filesystem types.FS) (string, error) {
	hostDB := p.AbsFromHome(dropboxHostDB)

	data, err := filesystem.ReadFile(hostDB)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackendUnavailable,
			"unable to find your Dropbox install (missing %s)", hostDB)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return "", errors.Newf(errors.ErrBackendUnavailable,
			"unable to find your Dropbox install (malformed %s)", hostDB)
	}

	folder, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackendUnavailable,
			"unable to find your Dropbox install (malformed %s)", hostDB)
	}

	return string(folder), nil
}

// googleDriveFolder reads the Google Drive folder location from the sync
// client's SQLite database. Newer clients keep it under user_default/.
func googleDriveFolder(p paths.Paths, filesystem types.FS) (string, error) {
	dbPath := p.AbsFromHome(googleDriveDB)
	if userDB := p.AbsFromHome(googleDriveUserDB); fileIsRegular(filesystem, userDB) {
		dbPath = userDB
	}

	if !fileIsRegular(filesystem, dbPath) {
		return "", errors.Newf(errors.ErrBackendUnavailable,
			"unable to find your Google Drive install (missing %s)", dbPath)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackendUnavailable,
			"unable to open the Google Drive database %s", dbPath)
	}
	defer func() { _ = db.Close() }()

	var root string
	row := db.QueryRow("SELECT data_value FROM data WHERE entry_key = 'local_sync_root_path'")
	if err := row.Scan(&root); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackendUnavailable,
			"unable to find your Google Drive folder in %s", dbPath)
	}
	if root == "" {
		return "", errors.Newf(errors.ErrBackendUnavailable,
			"unable to find your Google Drive folder in %s", dbPath)
	}

	return root, nil
}

// icloudFolder returns the iCloud Drive documents folder.
func icloudFolder(p paths.Paths, filesystem types.FS) (string, error) {
	icloudHome := p.AbsFromHome(icloudDocsDir)

	info, err := filesystem.Stat(icloudHome)
	if err != nil || !info.IsDir() {
		return "", errors.Newf(errors.ErrBackendUnavailable,
			"unable to find your iCloud Drive folder at %s", icloudHome)
	}

	return icloudHome, nil
}

// fileSystemFolder resolves the configured path. Relative values resolve
// under the home directory.
func fileSystemFolder(cfgPath string, p paths.Paths) (string, error) {
	if cfgPath == "" {
		return "", errors.New(errors.ErrConfigInvalid,
			"the file_system engine requires storage.path to be set")
	}

	path := cfgPath
	if path == "~" {
		path = p.Home()
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(p.Home(), path[2:])
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return p.AbsFromHome(path), nil
}

func fileIsRegular(filesystem types.FS, path string) bool {
	info, err := filesystem.Stat(path)
	return err == nil && !info.IsDir()
}
