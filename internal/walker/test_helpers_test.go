package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/prettygo/internal/fsh"
	"github.com/andyballingall/prettygo/internal/reformat"
)

var errSyntax = errors.New("expected declaration, found '!!'")

// fakeReformatter treats content starting with "invalid" as unparsable,
// rewrites the contents listed in rewrites and leaves anything else as it is.
type fakeReformatter struct {
	rewrites map[string]string
}

func (f *fakeReformatter) Name() reformat.Name { return "fake" }

func (f *fakeReformatter) Reformat(_ string, src []byte) ([]byte, error) {
	s := string(src)
	if strings.HasPrefix(s, "invalid") {
		return nil, errSyntax
	}
	if out, ok := f.rewrites[s]; ok {
		return []byte(out), nil
	}
	return src, nil
}

// MockReformatter is a testify mock of reformat.Reformatter.
type MockReformatter struct {
	mock.Mock
}

func (m *MockReformatter) Name() reformat.Name { return "mock" }

func (m *MockReformatter) Reformat(filename string, src []byte) ([]byte, error) {
	args := m.Called(filename, src)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

// faultFS wraps the host filesystem and fails selected operations.
type faultFS struct {
	*fsh.OSFileSystem
	readDirErr map[string]error
	statErr    map[string]error
	replaceErr error
	replaced   []string
}

func newFaultFS() *faultFS {
	return &faultFS{
		OSFileSystem: fsh.NewFileSystem(),
		readDirErr:   map[string]error{},
		statErr:      map[string]error{},
	}
}

func (f *faultFS) ReadDir(dir string) ([]fs.DirEntry, error) {
	if err, ok := f.readDirErr[dir]; ok {
		return nil, err
	}
	return f.OSFileSystem.ReadDir(dir)
}

func (f *faultFS) Stat(path string) (fs.FileInfo, error) {
	if err, ok := f.statErr[path]; ok {
		return nil, err
	}
	return f.OSFileSystem.Stat(path)
}

func (f *faultFS) ReplaceFile(path string, data []byte) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, path)
	return f.OSFileSystem.ReplaceFile(path, data)
}

// writeTree creates files below root; keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// canonicalDir returns t.TempDir() with symlinks resolved, so paths reported
// by the walker compare equal on systems where the temp dir is a link.
func canonicalDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func newTestWalker(t *testing.T, r reformat.Reformatter, opts Options) *Walker {
	t.Helper()
	w, err := New(r, opts)
	require.NoError(t, err)
	return w
}

func gofmt(t *testing.T) reformat.Reformatter {
	t.Helper()
	r, err := reformat.New(reformat.Gofmt, reformat.Options{})
	require.NoError(t, err)
	return r
}
