// Package report renders walker reports for people and for machines.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/andyballingall/prettygo/internal/walker"
)

// TextReporter implements walker.Reporter for plain text output.
type TextReporter struct {
	// Verbose also lists every file that was rewritten.
	Verbose   bool
	UseColour bool
}

// paint returns a colour that is applied only if colourisation is enabled,
// whatever the global color.NoColor setting is.
func (tr *TextReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if tr.UseColour {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (tr *TextReporter) Write(w io.Writer, r *walker.Report) error {
	red := tr.paint(color.FgRed)
	green := tr.paint(color.FgGreen)
	yellow := tr.paint(color.FgYellow)
	grey := tr.paint(color.FgHiBlack)

	if !r.OK() {
		_, err := fmt.Fprintf(w, "%s %d file(s) could not be formatted %s\n",
			red.Sprint("format failed:"), len(r.Failures), grey.Sprintf("(%s)", r.Duration))
		return err
	}

	if r.Check {
		status := green.Sprint("check completed:")
		if len(r.Totals.Changed) > 0 {
			status = yellow.Sprint("check completed:")
		}
		if _, err := fmt.Fprintf(w, "%s %d file(s) checked, %d need formatting %s\n",
			status, r.Totals.Files, len(r.Totals.Changed), grey.Sprintf("(%s)", r.Duration)); err != nil {
			return err
		}
		for _, path := range r.Totals.Changed {
			if _, err := fmt.Fprintf(w, "  %s %s\n", yellow.Sprint("would reformat"), path); err != nil {
				return err
			}
		}
		return nil
	}

	if tr.Verbose {
		for _, path := range r.Totals.Changed {
			if _, err := fmt.Fprintf(w, "  %s %s\n", green.Sprint("reformatted"), path); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "%s original size: %d bytes, formatted size: %d bytes %s\n",
		green.Sprint("format completed,"), r.Totals.Original, r.Totals.Formatted,
		grey.Sprintf("(%s)", r.Duration))
	return err
}
