package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Totals aggregates the outcomes of the files formatted in a subtree.
type Totals struct {
	Original  int
	Formatted int
	Files     int
	// Changed lists the files that were rewritten, or that need rewriting in check mode.
	Changed []string
}

func (t Totals) add(o Outcome) Totals {
	t.Original += o.Original
	t.Formatted += o.Formatted
	t.Files++
	if o.Changed {
		t.Changed = append(t.Changed, o.Path)
	}
	return t
}

func (t Totals) merge(sub Totals) Totals {
	t.Original += sub.Original
	t.Formatted += sub.Formatted
	t.Files += sub.Files
	t.Changed = append(t.Changed, sub.Changed...)
	return t
}

// visit tracks the canonical paths seen during one walk so that every
// directory is entered and every file formatted at most once, even when
// symlinks alias them or form a loop.
type visit struct {
	dirs   map[string]struct{}
	files  map[string]struct{}
	ignore gitignore.IgnoreMatcher
}

func (v *visit) first(set map[string]struct{}, key string) bool {
	if _, seen := set[key]; seen {
		return false
	}
	set[key] = struct{}{}
	return true
}

// FormatTree formats every eligible file below dir.
//
// A file that cannot be read, parsed or written is recorded and the walk
// carries on with its siblings and cousins; once the walk completes, the
// failures are returned together as a *FailuresError and the totals of the
// files that succeeded are dropped. A directory that cannot be listed, or an
// entry whose type cannot be determined, stops the walk with a *TraversalError.
func (w *Walker) FormatTree(ctx context.Context, dir string) (Totals, error) {
	v := &visit{
		dirs:   make(map[string]struct{}),
		files:  make(map[string]struct{}),
		ignore: w.loadIgnore(dir),
	}
	totals, failures, err := w.formatTree(ctx, dir, v)
	if err != nil {
		return Totals{}, err
	}
	if len(failures) > 0 {
		return Totals{}, &FailuresError{Failures: failures}
	}
	return totals, nil
}

func (w *Walker) formatTree(ctx context.Context, dir string, v *visit) (Totals, []Failure, error) {
	canonical, err := w.fs.EvalSymlinks(dir)
	if err != nil {
		return Totals{}, nil, &TraversalError{Path: dir, Err: err}
	}
	if !v.first(v.dirs, canonical) {
		w.logger.Debug("skipping directory already visited", "path", dir)
		return Totals{}, nil, nil
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return Totals{}, nil, &TraversalError{Path: dir, Err: err}
	}

	var totals Totals
	var failures []Failure
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Totals{}, nil, err
		}

		path := filepath.Join(dir, entry.Name())
		typ := entry.Type()

		if w.skipped(v.ignore, path, typ.IsDir()) {
			w.logger.Debug("skipping excluded entry", "path", path)
			continue
		}

		switch {
		case w.eligible(path, typ):
			if !v.first(v.files, w.fileKey(path)) {
				continue
			}
			o, err := w.FormatFile(ctx, path)
			if err != nil {
				failures = append(failures, Failure{Path: path, Err: err})
				continue
			}
			totals = totals.add(o)

		case typ.IsDir() || typ&fs.ModeSymlink != 0:
			if typ&fs.ModeSymlink != 0 {
				isDir, err := w.linksToDir(path)
				if err != nil {
					return Totals{}, nil, err
				}
				if !isDir {
					w.logger.Debug("skipping symlink to non-directory", "path", path)
					continue
				}
			}
			sub, subFailures, err := w.formatTree(ctx, path, v)
			if err != nil {
				return Totals{}, nil, err
			}
			totals = totals.merge(sub)
			failures = append(failures, subFailures...)
		}
	}
	return totals, failures, nil
}

// linksToDir reports whether the symlink at path resolves to a directory.
// Links to anything else, and dangling links, are not walked.
func (w *Walker) linksToDir(path string) (bool, error) {
	info, err := w.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		w.logger.Debug("skipping dangling symlink", "path", path)
		return false, nil
	}
	if err != nil {
		return false, &TraversalError{Path: path, Err: err}
	}
	return info.IsDir(), nil
}

// fileKey identifies a file by its resolved path. Files whose links cannot be
// resolved keep their own path and fail later with a ReadError.
func (w *Walker) fileKey(path string) string {
	if resolved, err := w.fs.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
