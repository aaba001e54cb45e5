// Package walker rewrites Go source files in place. It walks a directory tree
// depth first, hands every eligible file to a reformat.Reformatter and writes
// the canonical form back, collecting per-file failures instead of stopping at
// the first one.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/andyballingall/prettygo/internal/fsh"
	"github.com/andyballingall/prettygo/internal/reformat"
)

// DefaultExtension selects Go source files.
const DefaultExtension = ".go"

// Kind is the top-level action chosen for a root path.
type Kind int

const (
	// KindInvalid means the root cannot be formatted.
	KindInvalid Kind = iota
	// KindFile is a single eligible file or symlink.
	KindFile
	// KindTree is a directory.
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindTree:
		return "tree"
	default:
		return "invalid"
	}
}

// Options configures a Walker.
type Options struct {
	// Extension selects eligible files, e.g. ".go". Defaults to DefaultExtension.
	Extension string
	// Check reports what would change without writing anything.
	Check bool
	// Exclude holds filepath.Match patterns matched against entry base names.
	Exclude []string
	// Gitignore skips entries matched by the root directory's .gitignore.
	Gitignore bool
	// Logger receives a debug record per formatted file. Defaults to a discarding logger.
	Logger *slog.Logger
	// FS defaults to the host filesystem.
	FS fsh.FileSystem
}

// Walker formats files and directory trees. A Walker holds no per-run state
// and may be reused.
type Walker struct {
	reformatter reformat.Reformatter
	ext         string
	check       bool
	exclude     []string
	gitignore   bool
	logger      *slog.Logger
	fs          fsh.FileSystem
	now         func() time.Time
}

// New creates a Walker that formats with r.
func New(r reformat.Reformatter, opts Options) (*Walker, error) {
	for _, pattern := range opts.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, &InvalidExcludePatternError{Pattern: pattern, Err: err}
		}
	}

	w := &Walker{
		reformatter: r,
		ext:         opts.Extension,
		check:       opts.Check,
		exclude:     opts.Exclude,
		gitignore:   opts.Gitignore,
		logger:      opts.Logger,
		fs:          opts.FS,
		now:         time.Now,
	}
	if w.ext == "" {
		w.ext = DefaultExtension
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	if w.fs == nil {
		w.fs = fsh.NewFileSystem()
	}
	return w, nil
}

// Check reports whether the walker runs without writing.
func (w *Walker) Check() bool { return w.check }

// Classify decides the top-level action for root.
func (w *Walker) Classify(root string) (Kind, error) {
	if info, err := w.fs.Lstat(root); err == nil && w.eligible(root, info.Mode().Type()) {
		return KindFile, nil
	}
	if info, err := w.fs.Stat(root); err == nil && info.IsDir() {
		return KindTree, nil
	}
	return KindInvalid, &InvalidRootError{Path: root}
}

// eligible reports whether an entry of the given type is handed to the reformatter.
func (w *Walker) eligible(path string, typ fs.FileMode) bool {
	if filepath.Ext(path) != w.ext {
		return false
	}
	return typ.IsRegular() || typ&fs.ModeSymlink != 0
}

// Run formats root, which is either an eligible file or a directory.
func (w *Walker) Run(ctx context.Context, root string) (*Report, error) {
	start := w.now()
	rep := &Report{Root: root, Check: w.check}

	kind, err := w.Classify(root)
	rep.Kind = kind

	var totals Totals
	switch kind {
	case KindFile:
		var o Outcome
		if o, err = w.FormatFile(ctx, root); err == nil {
			totals = totals.add(o)
		}
	case KindTree:
		totals, err = w.FormatTree(ctx, root)
	}
	rep.Duration = w.now().Sub(start)

	if err != nil {
		rep.Failures = failuresOf(root, err)
		return rep, err
	}

	rep.Totals = totals
	if w.check && len(totals.Changed) > 0 {
		return rep, &UnformattedFilesError{Paths: totals.Changed}
	}
	return rep, nil
}

// failuresOf flattens a run error into the failures a report lists.
func failuresOf(root string, err error) []Failure {
	var fe *FailuresError
	if errors.As(err, &fe) {
		return fe.Failures
	}
	var path string
	var re *ReadError
	var pe *ParseError
	var we *WriteError
	var te *TraversalError
	switch {
	case errors.As(err, &re):
		path = re.Path
	case errors.As(err, &pe):
		path = pe.Path
	case errors.As(err, &we):
		path = we.Path
	case errors.As(err, &te):
		path = te.Path
	default:
		path = root
	}
	return []Failure{{Path: path, Err: err}}
}

// loadIgnore returns the matcher for the .gitignore of dir, or nil when
// gitignore filtering is off or dir has none.
func (w *Walker) loadIgnore(dir string) gitignore.IgnoreMatcher {
	if !w.gitignore {
		return nil
	}
	path := filepath.Join(dir, ".gitignore")
	if _, err := w.fs.Stat(path); err != nil {
		return nil
	}
	m, err := gitignore.NewGitIgnore(path, dir)
	if err != nil {
		w.logger.Warn("ignoring unreadable .gitignore", "path", path, "error", err)
		return nil
	}
	return m
}

// skipped reports whether an entry is filtered out by the exclude patterns or
// the gitignore matcher.
func (w *Walker) skipped(ignore gitignore.IgnoreMatcher, path string, isDir bool) bool {
	name := filepath.Base(path)
	for _, pattern := range w.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return ignore != nil && ignore.Match(path, isDir)
}
