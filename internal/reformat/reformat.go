// Package reformat provides the Go source reformatters prettygo can apply.
// A Reformatter parses source text and prints it back in canonical form; it
// fails when the text is not syntactically valid Go.
package reformat

import (
	"fmt"
	"slices"
)

// Name identifies a reformatter implementation.
type Name string

const (
	// Gofumpt applies the stricter gofumpt rules on top of gofmt. It is the default.
	Gofumpt Name = "gofumpt"
	// Gofmt applies the standard gofmt printer.
	Gofmt Name = "gofmt"
	// Goimports applies gofmt and also fixes the import blocks.
	Goimports Name = "goimports"
)

// Default is the reformatter used when none is configured.
const Default = Gofumpt

// Reformatter turns source text into its canonical form.
type Reformatter interface {
	// Name returns the name the reformatter is selected by.
	Name() Name
	// Reformat parses src and returns the canonical rendering. Printers that
	// resolve imports use filename to find the file's package directory; the
	// others ignore it. A non-nil error means src could not be parsed.
	Reformat(filename string, src []byte) ([]byte, error)
}

// Options configures the reformatters. Fields a reformatter does not
// understand are ignored.
type Options struct {
	// LangVersion is the Go version the source is written in, e.g. "go1.22".
	LangVersion string
	// ModulePath is the module the source belongs to.
	ModulePath string
	// ExtraRules enables gofumpt's optional rules.
	ExtraRules bool
}

// Names returns the names of all available reformatters, sorted.
func Names() []Name {
	names := []Name{Gofmt, Gofumpt, Goimports}
	slices.Sort(names)
	return names
}

// Valid reports whether n names an available reformatter.
func (n Name) Valid() bool {
	return slices.Contains(Names(), n)
}

// New returns the reformatter with the given name. An empty name selects Default.
func New(name Name, opts Options) (Reformatter, error) {
	if name == "" {
		name = Default
	}
	switch name {
	case Gofumpt:
		return &gofumptReformatter{opts: opts}, nil
	case Gofmt:
		return &gofmtReformatter{}, nil
	case Goimports:
		return &goimportsReformatter{}, nil
	default:
		return nil, &UnknownFormatterError{Name: string(name)}
	}
}

// UnknownFormatterError is returned by New for a name that is not available.
type UnknownFormatterError struct {
	Name string
}

func (e *UnknownFormatterError) Error() string {
	return fmt.Sprintf("unknown formatter '%s' - valid formatters are: %v", e.Name, Names())
}
