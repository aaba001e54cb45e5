package fsh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEnvProvider is a test implementation of EnvProvider.
type mockEnvProvider struct {
	values map[string]string
}

func (m *mockEnvProvider) Get(key string) string {
	if m.values == nil {
		return ""
	}
	return m.values[key]
}

func TestOSEnvProvider(t *testing.T) {
	t.Parallel()

	t.Run("Get returns environment variable", func(t *testing.T) {
		t.Parallel()
		// PATH should always be set
		assert.NotEmpty(t, NewEnvProvider().Get("PATH"))
	})

	t.Run("Get returns empty for unset variable", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, NewEnvProvider().Get("UNLIKELY_TO_BE_SET_12345"))
	})
}

func TestGetOr(t *testing.T) {
	t.Parallel()

	env := &mockEnvProvider{values: map[string]string{"SET": "value", "EMPTY": ""}}

	assert.Equal(t, "value", GetOr(env, "SET", "def"))
	assert.Equal(t, "def", GetOr(env, "EMPTY", "def"))
	assert.Equal(t, "def", GetOr(env, "MISSING", "def"))
	assert.Equal(t, "def", GetOr(nil, "SET", "def"))
}

func TestStandardPathResolver(t *testing.T) {
	t.Parallel()

	t.Run("CanonicalPath resolves symlinks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "target")
		require.NoError(t, os.Mkdir(target, 0o755))
		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(target, link))

		canonical, err := NewPathResolver().CanonicalPath(link)
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, expected, canonical)
	})

	t.Run("CanonicalPath returns error for non-existent path", func(t *testing.T) {
		t.Parallel()
		_, err := NewPathResolver().CanonicalPath(filepath.Join(t.TempDir(), "non-existent"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Abs returns absolute path", func(t *testing.T) {
		t.Parallel()
		abs, err := NewPathResolver().Abs("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(abs))
	})

	t.Run("DefaultRoot canonicalises the working directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		link := filepath.Join(dir, "wd")
		require.NoError(t, os.Symlink(dir, link))

		r := &StandardPathResolver{getwd: func() (string, error) { return link, nil }}
		root, err := r.DefaultRoot()
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(dir)
		assert.Equal(t, expected, root)
	})

	t.Run("DefaultRoot propagates getwd failure", func(t *testing.T) {
		t.Parallel()
		r := &StandardPathResolver{getwd: func() (string, error) { return "", os.ErrPermission }}
		_, err := r.DefaultRoot()
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("DefaultRoot of the real working directory is absolute", func(t *testing.T) {
		t.Parallel()
		root, err := NewPathResolver().DefaultRoot()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(root))
	})
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("replaces content and keeps mode", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "a.go")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o640))

		require.NoError(t, WriteFileAtomic(path, []byte("new content")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new content", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "a.go")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		require.NoError(t, WriteFileAtomic(path, []byte("new")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.go", entries[0].Name())
	})

	t.Run("writes through a symlink and keeps the link", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "real.go")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))
		link := filepath.Join(dir, "link.go")
		require.NoError(t, os.Symlink(target, link))

		require.NoError(t, NewFileSystem().ReplaceFile(link, []byte("new")))

		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		t.Parallel()
		err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing.go"), []byte("x"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("fails for a directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		err := WriteFileAtomic(dir, []byte("x"))
		var pathErr *os.PathError
		require.True(t, errors.As(err, &pathErr))
		assert.Equal(t, "write", pathErr.Op)
	})
}

func TestOSFileSystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o600))
	require.NoError(t, os.Symlink(path, filepath.Join(dir, "b.go")))

	fsys := NewFileSystem()

	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))

	linfo, err := fsys.Lstat(filepath.Join(dir, "b.go"))
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&os.ModeSymlink)

	info, err := fsys.Stat(filepath.Join(dir, "b.go"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	resolved, err := fsys.EvalSymlinks(filepath.Join(dir, "b.go"))
	require.NoError(t, err)
	expected, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expected, resolved)
}
