package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	canonicalGo = "package a\n\nfunc A() int { return 1 }\n"
	messyGo     = "package b\nfunc   B( ) int { return 2 }\n"
	formattedGo = "package b\n\nfunc B() int { return 2 }\n"
	invalidGo   = "package c\nfunc {\n"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Format(ctx context.Context, root string, opts RunOptions) error {
	args := m.Called(ctx, root, opts)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, root string, opts RunOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, root, opts, readyChan)
	return args.Error(0)
}

type mockEnvProvider struct {
	values map[string]string
}

func (m *mockEnvProvider) Get(key string) string {
	return m.values[key]
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

// canonicalDir returns t.TempDir() with symlinks resolved.
func canonicalDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

// absPath mirrors the resolution a user-given root goes through.
func absPath(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func itoa(n int) string { return strconv.Itoa(n) }

// syncWriter serialises writes from the watcher goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
