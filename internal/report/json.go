package report

import (
	"encoding/json"
	"io"

	"github.com/andyballingall/prettygo/internal/walker"
)

// JSONReporter implements walker.Reporter for JSON output.
type JSONReporter struct{}

type jsonFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonOutput struct {
	Root     string `json:"root"`
	Kind     string `json:"kind"`
	Check    bool   `json:"check"`
	Status   string `json:"status"`
	Duration string `json:"duration"`
	Stats    struct {
		Files          int `json:"files"`
		OriginalBytes  int `json:"originalBytes"`
		FormattedBytes int `json:"formattedBytes"`
	} `json:"stats"`
	Changed  []string      `json:"changed"`
	Failures []jsonFailure `json:"failures"`
}

// Status values reported in the JSON output.
const (
	StatusOK          = "ok"
	StatusUnformatted = "unformatted"
	StatusFailed      = "failed"
)

func (jr *JSONReporter) Write(w io.Writer, r *walker.Report) error {
	out := jsonOutput{
		Root:     r.Root,
		Kind:     r.Kind.String(),
		Check:    r.Check,
		Status:   StatusOK,
		Duration: r.Duration.String(),
		Changed:  []string{},
		Failures: []jsonFailure{},
	}
	out.Stats.Files = r.Totals.Files
	out.Stats.OriginalBytes = r.Totals.Original
	out.Stats.FormattedBytes = r.Totals.Formatted
	out.Changed = append(out.Changed, r.Totals.Changed...)

	switch {
	case !r.OK():
		out.Status = StatusFailed
		for _, f := range r.Failures {
			out.Failures = append(out.Failures, jsonFailure{Path: f.Path, Error: f.Err.Error()})
		}
	case r.Check && len(r.Totals.Changed) > 0:
		out.Status = StatusUnformatted
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
