package app

import (
	"fmt"
	"regexp"

	"github.com/andyballingall/prettygo/internal/reformat"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != OutputJSON && v != OutputText {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// formatterValue implements pflag.Value for the names of the available reformatters.
type formatterValue reformat.Name

func (f *formatterValue) String() string {
	return string(*f)
}

func (f *formatterValue) Set(v string) error {
	if !reformat.Name(v).Valid() {
		return fmt.Errorf("must be one of %v", reformat.Names())
	}
	*f = formatterValue(v)
	return nil
}

func (f *formatterValue) Type() string {
	return "<formatter>"
}

// extensionPattern matches the "extension" pattern of the config schema.
var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9_]+$`)

// extensionValue implements pflag.Value for a file extension such as ".go".
type extensionValue string

func (e *extensionValue) String() string {
	return string(*e)
}

func (e *extensionValue) Set(v string) error {
	if !extensionPattern.MatchString(v) {
		return fmt.Errorf("must be a dot followed by letters, digits or underscores, e.g. .go")
	}
	*e = extensionValue(v)
	return nil
}

func (e *extensionValue) Type() string {
	return "<ext>"
}
