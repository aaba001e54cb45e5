package fsh

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the set of filesystem operations the walker depends on.
type FileSystem interface {
	// ReadDir lists the immediate entries of a directory.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Lstat describes path without following a final symlink.
	Lstat(path string) (fs.FileInfo, error)
	// Stat describes path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// EvalSymlinks returns path with every symlink resolved.
	EvalSymlinks(path string) (string, error)
	// ReadFile reads the whole file.
	ReadFile(path string) ([]byte, error)
	// ReplaceFile replaces the content of an existing file with data.
	ReplaceFile(path string, data []byte) error
}

// Ensure the interface is satisfied.
var _ FileSystem = (*OSFileSystem)(nil)

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// NewFileSystem creates a new OSFileSystem.
func NewFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }

func (*OSFileSystem) Lstat(path string) (fs.FileInfo, error) { return os.Lstat(path) }

func (*OSFileSystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (*OSFileSystem) EvalSymlinks(path string) (string, error) { return filepath.EvalSymlinks(path) }

func (*OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (*OSFileSystem) ReplaceFile(path string, data []byte) error {
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temporary file next to the target and
// renames it into place, so a failed write never leaves a truncated target.
// A symlink is followed and its target replaced; the link itself survives.
// The permission bits of the existing target are kept.
func WriteFileAtomic(path string, data []byte) (err error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "write", Path: path, Err: errors.New("not a regular file")}
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}
