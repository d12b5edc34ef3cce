package filesystem

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fnmeyer/mackup/pkg/types"
	"github.com/spf13/afero"
)

// aferoFS implements types.FS using afero. Backends without native symlink
// support (such as MemMapFs) get emulated symlinks via an in-memory link
// table, so link classification behaves the same in tests as on disk.
type aferoFS struct {
	fs afero.Fs

	mu    sync.RWMutex
	links map[string]string
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(base afero.Fs) types.FS {
	return &aferoFS{
		fs:    base,
		links: make(map[string]string),
	}
}

// resolve follows emulated links to the final target path.
func (a *aferoFS) resolve(name string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	current := filepath.Clean(name)
	for i := 0; i < 8; i++ {
		target, ok := a.links[current]
		if !ok {
			return current, nil
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = filepath.Clean(target)
	}
	return "", &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	resolved, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return a.fs.Stat(resolved)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	resolved, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	info, err := a.fs.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, resolved)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	resolved, err := a.resolve(name)
	if err != nil {
		return err
	}
	return afero.WriteFile(a.fs, resolved, data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if linker, ok := a.fs.(afero.Linker); ok {
		err := linker.SymlinkIfPossible(oldname, newname)
		if err == nil || !stderrors.Is(err, afero.ErrNoSymlink) {
			return err
		}
	}

	clean := filepath.Clean(newname)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.links[clean]; exists {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}
	if _, err := a.fs.Stat(clean); err == nil {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}

	// Marker file keeps the entry visible to directory listings. The link
	// table is authoritative for target resolution.
	if err := afero.WriteFile(a.fs, clean, []byte(oldname), 0o777); err != nil {
		return err
	}
	a.links[clean] = oldname
	return nil
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if reader, ok := a.fs.(afero.LinkReader); ok {
		target, err := reader.ReadlinkIfPossible(name)
		if err == nil || !stderrors.Is(err, afero.ErrNoReadlink) {
			return target, err
		}
	}

	a.mu.RLock()
	target, ok := a.links[filepath.Clean(name)]
	a.mu.RUnlock()

	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return target, nil
}

func (a *aferoFS) Remove(name string) error {
	clean := filepath.Clean(name)

	a.mu.Lock()
	_, wasLink := a.links[clean]
	delete(a.links, clean)
	a.mu.Unlock()

	err := a.fs.Remove(clean)
	if err != nil && wasLink {
		// Marker may be absent on backends with native symlinks.
		return nil
	}
	return err
}

func (a *aferoFS) RemoveAll(path string) error {
	clean := filepath.Clean(path)

	a.mu.Lock()
	for link := range a.links {
		if link == clean || strings.HasPrefix(link, clean+string(filepath.Separator)) {
			delete(a.links, link)
		}
	}
	a.mu.Unlock()

	return a.fs.RemoveAll(clean)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	cleanOld := filepath.Clean(oldpath)
	cleanNew := filepath.Clean(newpath)

	a.mu.Lock()
	prefix := cleanOld + string(filepath.Separator)
	moved := make(map[string]string)
	for link, target := range a.links {
		// Links inside a renamed directory move with it.
		if link == cleanOld || strings.HasPrefix(link, prefix) {
			moved[cleanNew+link[len(cleanOld):]] = target
			delete(a.links, link)
		}
	}
	for link, target := range moved {
		a.links[link] = target
	}
	a.mu.Unlock()

	return a.fs.Rename(cleanOld, cleanNew)
}

func (a *aferoFS) Chmod(name string, mode fs.FileMode) error {
	resolved, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.fs.Chmod(resolved, mode)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		if info, lstatCalled, err := lstater.LstatIfPossible(name); lstatCalled {
			return info, err
		}
	}

	a.mu.RLock()
	target, ok := a.links[filepath.Clean(name)]
	a.mu.RUnlock()

	if ok {
		return &linkFileInfo{name: filepath.Base(name), target: target}, nil
	}
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

// linkFileInfo is the Lstat result for an emulated symlink.
type linkFileInfo struct {
	name   string
	target string
}

func (l *linkFileInfo) Name() string       { return l.name }
func (l *linkFileInfo) Size() int64        { return int64(len(l.target)) }
func (l *linkFileInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0o777 }
func (l *linkFileInfo) ModTime() time.Time { return time.Time{} }
func (l *linkFileInfo) IsDir() bool        { return false }
func (l *linkFileInfo) Sys() any           { return nil }
