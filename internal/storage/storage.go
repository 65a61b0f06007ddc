// Package storage abstracts the save location. The core consumes these
// operations abstractly; DirStorage is the OS-backed implementation rooted at
// the configured scripts directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/greasekit/greasekit/errs"
)

// FileInfo describes one entry in the save location.
type FileInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Storage is the file-storage collaborator contract.
type Storage interface {
	// List returns the script/style files at the top of the save location.
	// Hidden entries and subdirectories are not listed.
	List() ([]FileInfo, error)
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	// Trash moves a file out of the save location without destroying it.
	Trash(name string) error
	// Remove deletes a file or directory tree outright. Used for cached
	// resource directories.
	Remove(name string) error
	MkdirAll(name string) error
	Exists(name string) bool
}

// TrashDir is where trashed files land, relative to the save location.
const TrashDir = ".trash"

// DirStorage implements Storage on an OS directory.
type DirStorage struct {
	root string
}

// NewDirStorage creates the save location if needed and returns a storage
// rooted there.
func NewDirStorage(root string) (*DirStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.Wrap(errs.KindIO, "storage.NewDirStorage", err)
	}
	return &DirStorage{root: root}, nil
}

// Root returns the absolute save location path.
func (s *DirStorage) Root() string {
	return s.root
}

func (s *DirStorage) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// List implements Storage.
func (s *DirStorage) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, "storage.List", err)
	}
	var out []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:         e.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return out, nil
}

// Read implements Storage.
func (s *DirStorage) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, "storage.Read", err).WithFile(name)
	}
	return data, nil
}

// Write implements Storage.
func (s *DirStorage) Write(name string, data []byte) error {
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return errs.Wrap(errs.KindIO, "storage.Write", err).WithFile(name)
	}
	return nil
}

// Trash implements Storage by moving the file into the trash directory,
// timestamping the destination on collision.
func (s *DirStorage) Trash(name string) error {
	if err := os.MkdirAll(s.path(TrashDir), 0o755); err != nil {
		return errs.Wrap(errs.KindIO, "storage.Trash", err).WithFile(name)
	}
	dest := filepath.Join(s.path(TrashDir), filepath.Base(name))
	if _, err := os.Stat(dest); err == nil {
		dest = fmt.Sprintf("%s.%d", dest, time.Now().UnixNano())
	}
	if err := os.Rename(s.path(name), dest); err != nil {
		return errs.Wrap(errs.KindIO, "storage.Trash", err).WithFile(name)
	}
	return nil
}

// Remove implements Storage.
func (s *DirStorage) Remove(name string) error {
	if err := os.RemoveAll(s.path(name)); err != nil {
		return errs.Wrap(errs.KindIO, "storage.Remove", err).WithFile(name)
	}
	return nil
}

// MkdirAll implements Storage.
func (s *DirStorage) MkdirAll(name string) error {
	if err := os.MkdirAll(s.path(name), 0o755); err != nil {
		return errs.Wrap(errs.KindIO, "storage.MkdirAll", err).WithFile(name)
	}
	return nil
}

// Exists implements Storage.
func (s *DirStorage) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}
