// Package fsh holds the filesystem helpers shared by the walker and the CLI:
// path canonicalisation, environment access and the file operations the
// walker performs. Each sits behind a small interface so tests can inject faults.
package fsh

import (
	"os"
	"path/filepath"
)

// PathResolver provides path resolution operations.
type PathResolver interface {
	// CanonicalPath returns the canonical, absolute path by resolving symlinks.
	CanonicalPath(path string) (string, error)
	// Abs returns the absolute path.
	Abs(path string) (string, error)
	// DefaultRoot returns the canonical current working directory, used when
	// no root path is given.
	DefaultRoot() (string, error)
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct {
	getwd func() (string, error)
}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{getwd: os.Getwd}
}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func (r *StandardPathResolver) CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Abs returns the absolute path.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (r *StandardPathResolver) DefaultRoot() (string, error) {
	wd, err := r.getwd()
	if err != nil {
		return "", err
	}
	return r.CanonicalPath(wd)
}
