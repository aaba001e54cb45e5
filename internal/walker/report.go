package walker

import (
	"io"
	"time"
)

// Report summarises one Run. Totals is only populated when the run succeeded
// or failed the check; Failures only when it failed.
type Report struct {
	Root     string
	Kind     Kind
	Check    bool
	Totals   Totals
	Duration time.Duration
	Failures []Failure
}

// OK reports whether the run had no file or traversal failures.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Reporter renders a Report.
type Reporter interface {
	Write(w io.Writer, r *Report) error
}
