package walker

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	gitignore "github.com/monochromegane/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchFunc receives the result of reformatting a changed file.
type WatchFunc func(o Outcome, err error)

// Watcher monitors a directory tree and reformats eligible files as they change.
type Watcher struct {
	walker   *Walker
	root     string
	logger   *slog.Logger
	debounce time.Duration
	Ready    chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a new Watcher for the tree rooted at root.
func NewWatcher(w *Walker, root string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = w.logger
	}
	return &Watcher{
		walker:     w,
		root:       root,
		logger:     logger.With("component", "watcher"),
		debounce:   DefaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled. Changed files are collected until no new
// change arrives for the debounce period and are then formatted one at a time,
// each result being passed to fn.
func (w *Watcher) Watch(ctx context.Context, fn WatchFunc) error {
	fw, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	ignore := w.walker.loadIgnore(w.root)
	if err := w.addRecursive(fw, ignore, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []string)

	g.Go(func() error {
		defer close(batches)
		return w.collect(gctx, fw, ignore, batches)
	})

	g.Go(func() error {
		for batch := range batches {
			for _, path := range batch {
				o, err := w.walker.FormatFile(gctx, path)
				fn(o, err)
			}
		}
		return nil
	})

	return g.Wait()
}

// collect turns fsnotify events into debounced batches of distinct file paths.
func (w *Watcher) collect(ctx context.Context, fw *fsnotify.Watcher, ignore gitignore.IgnoreMatcher,
	batches chan<- []string,
) error {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(fw, ignore, event)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			clear(pending)
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// handleEvent processes a single fsnotify event. A new directory is added to the
// watcher. The path of a written or created eligible file is returned; other
// events yield "".
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ignore gitignore.IgnoreMatcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		return ""
	}

	if event.Has(fsnotify.Create) && info.IsDir() {
		if err := w.addRecursive(fw, ignore, event.Name); err != nil {
			w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
		}
		return ""
	}

	if !w.walker.eligible(event.Name, info.Mode().Type()) || w.walker.skipped(ignore, event.Name, false) {
		return ""
	}
	return event.Name
}

// addRecursive adds the given path and all its subdirectories to the watcher,
// leaving out hidden and excluded directories. Symlinks to directories are
// followed as the tree walk follows them, each directory being added once.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, ignore gitignore.IgnoreMatcher, root string) error {
	return w.addTree(fw, ignore, root, make(map[string]struct{}))
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, ignore gitignore.IgnoreMatcher, dir string,
	seen map[string]struct{},
) error {
	canonical, err := w.walker.fs.EvalSymlinks(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := seen[canonical]; ok {
		return nil
	}
	seen[canonical] = struct{}{}

	if err := fw.Add(dir); err != nil {
		return err
	}

	entries, err := w.walker.fs.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		typ := entry.Type()
		switch {
		case typ.IsDir():
		case typ&fs.ModeSymlink != 0:
			if isDir, err := w.walker.linksToDir(path); err != nil || !isDir {
				continue
			}
		default:
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") || w.walker.skipped(ignore, path, true) {
			continue
		}
		if err := w.addTree(fw, ignore, path, seen); err != nil {
			return err
		}
	}
	return nil
}
