package walker

import (
	"fmt"
	"strings"
)

// InvalidRootError is returned when the root is neither an eligible file nor a directory.
type InvalidRootError struct {
	Path string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("path %s is not a file, symlink or directory", e.Path)
}

// ReadError is returned when a candidate file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseError is returned when a candidate file is not valid source.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError is returned when the canonical form cannot be written back.
// The target is replaced by rename, so on a WriteError it still holds its
// original content.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TraversalError is returned when a directory cannot be listed or an entry's
// type cannot be determined. It aborts the whole walk.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("failed to traverse %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// Failure records a file that could not be formatted.
type Failure struct {
	Path string
	Err  error
}

// FailuresError carries every file-level failure of a tree walk. When a walk
// returns it, the totals of the files that did succeed are not reported.
type FailuresError struct {
	Failures []Failure
}

func (e *FailuresError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, fmt.Sprintf("error: %s: %v", f.Path, f.Err))
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *FailuresError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// UnformattedFilesError is returned by a check run when files are not in canonical form.
type UnformattedFilesError struct {
	Paths []string
}

func (e *UnformattedFilesError) Error() string {
	return fmt.Sprintf("%d file(s) need formatting:\n%s", len(e.Paths), strings.Join(e.Paths, "\n"))
}

// InvalidExcludePatternError is returned by New for a malformed exclude glob.
type InvalidExcludePatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidExcludePatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern '%s': %v", e.Pattern, e.Err)
}

func (e *InvalidExcludePatternError) Unwrap() error { return e.Err }
