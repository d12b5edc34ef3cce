package types

import (
	"io/fs"
)

// FS is the filesystem interface required for mackup operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
	Chmod(name string, mode fs.FileMode) error

	// Lstat reports on a symlink itself rather than its target.
	// Memory-backed test filesystems may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}
