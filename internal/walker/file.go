package walker

import (
	"bytes"
	"context"
	"time"
)

// Outcome describes a successfully formatted file.
type Outcome struct {
	Path      string
	Original  int // bytes as read
	Formatted int // bytes of the canonical form
	// Changed is true when the canonical form differs from the file. In check
	// mode nothing is written and Changed means the file needs formatting.
	Changed bool
	Elapsed time.Duration
}

// FormatFile reformats a single file and writes the canonical form back to
// path. The file is left untouched when reading or parsing fails, and when its
// content is already canonical.
func (w *Walker) FormatFile(ctx context.Context, path string) (Outcome, error) {
	start := w.now()

	src, err := w.fs.ReadFile(path)
	if err != nil {
		return Outcome{}, &ReadError{Path: path, Err: err}
	}

	out, err := w.reformatter.Reformat(path, src)
	if err != nil {
		return Outcome{}, &ParseError{Path: path, Err: err}
	}

	o := Outcome{
		Path:      path,
		Original:  len(src),
		Formatted: len(out),
		Changed:   !bytes.Equal(src, out),
	}

	if o.Changed && !w.check {
		if err := w.fs.ReplaceFile(path, out); err != nil {
			return Outcome{}, &WriteError{Path: path, Err: err}
		}
	}

	o.Elapsed = w.now().Sub(start)
	w.logger.DebugContext(ctx, "formatted file",
		"path", path,
		"original", o.Original,
		"formatted", o.Formatted,
		"changed", o.Changed,
		"elapsed", o.Elapsed,
	)
	return o, nil
}
