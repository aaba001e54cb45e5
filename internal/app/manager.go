package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/prettygo/internal/report"
	"github.com/andyballingall/prettygo/internal/walker"
)

// RunOptions selects how the result of a run is reported.
type RunOptions struct {
	Output    string
	Verbose   bool
	UseColour bool
}

// Manager defines the operations behind the prettygo commands.
type Manager interface {
	// Format formats root once and reports the result.
	Format(ctx context.Context, root string, opts RunOptions) error
	// Watch formats root, then keeps formatting changed files until ctx is
	// cancelled. If readyChan is non-nil it is signalled once changes are watched.
	Watch(ctx context.Context, root string, opts RunOptions, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Format(ctx context.Context, root string, opts RunOptions) error {
	return l.check().Format(ctx, root, opts)
}

func (l *LazyManager) Watch(ctx context.Context, root string, opts RunOptions, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, root, opts, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	walker         *walker.Walker
	reporterWriter io.Writer
}

func NewCLIManager(l *slog.Logger, w *walker.Walker, reporterWriter io.Writer) *CLIManager {
	return &CLIManager{
		logger:         l,
		walker:         w,
		reporterWriter: reporterWriter,
	}
}

// reporter returns the reporter for opts. Text output is only written in
// verbose mode, so a successful quiet run prints nothing.
func (m *CLIManager) reporter(opts RunOptions) walker.Reporter {
	switch {
	case opts.Output == OutputJSON:
		return &report.JSONReporter{}
	case opts.Verbose:
		return &report.TextReporter{Verbose: true, UseColour: opts.UseColour}
	default:
		return nil
	}
}

func (m *CLIManager) Format(ctx context.Context, root string, opts RunOptions) error {
	m.logger.Debug("formatting", "root", root, "check", m.walker.Check(), "output", opts.Output)

	rep, err := m.walker.Run(ctx, root)

	if r := m.reporter(opts); r != nil {
		if rErr := r.Write(m.reporterWriter, rep); rErr != nil && err == nil {
			err = rErr
		}
	}
	return err
}

// Watch runs Format once and then watches root, which must be a directory.
// A failing initial run is logged and does not stop the watch.
func (m *CLIManager) Watch(ctx context.Context, root string, opts RunOptions, readyChan chan<- struct{}) error {
	kind, err := m.walker.Classify(root)
	if err != nil {
		return err
	}
	if kind != walker.KindTree {
		return &WatchRequiresDirectoryError{Path: root}
	}

	if err := m.Format(ctx, root, opts); err != nil {
		m.logger.Error("Initial format failed", "error", err)
	}

	watcher := walker.NewWatcher(m.walker, root, m.logger)

	callback := func(o walker.Outcome, err error) {
		switch {
		case err != nil:
			m.logger.Error("Format failed", "error", err)
		case o.Changed && m.walker.Check():
			m.logger.Info("Needs formatting: "+o.Path, "original", o.Original, "formatted", o.Formatted)
		case o.Changed:
			m.logger.Info("Reformatted: "+o.Path, "original", o.Original, "formatted", o.Formatted)
		}
	}

	errc := make(chan error, 1)
	go func() {
		errc <- watcher.Watch(ctx, callback)
	}()

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		select {
		case <-watcher.Ready:
			select {
			case readyChan <- struct{}{}:
			case <-ctx.Done():
			}
		case err := <-errc:
			return err
		}
	}

	return <-errc
}

// WatchStoppedError reports a watch that ended because its context was cancelled.
type WatchStoppedError struct {
	Err error
}

func (e *WatchStoppedError) Error() string {
	return fmt.Sprintf("watch stopped: %v", e.Err)
}

func (e *WatchStoppedError) Unwrap() error { return e.Err }

// WatchRequiresDirectoryError is returned when --watch is used with a file root.
type WatchRequiresDirectoryError struct {
	Path string
}

func (e *WatchRequiresDirectoryError) Error() string {
	return fmt.Sprintf("cannot watch %s: watch mode needs a directory", e.Path)
}
