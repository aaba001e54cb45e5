// Package config loads the optional .prettygo.yml project file.
package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/prettygo/internal/reformat"
	"github.com/andyballingall/prettygo/internal/validator"
)

// FileName is the project configuration file looked up in the root directory.
const FileName = ".prettygo.yml"

const schemaID = "https://prettygo.dev/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

// DefaultConfigContent is written by `prettygo init`.
const DefaultConfigContent = `# prettygo configuration

# FORMATTER
#
# The printer used to rewrite files. One of:
# - gofumpt (Default): gofmt plus a stricter set of rules
# - gofmt: the standard Go printer
# - goimports: gofmt, also adding and removing imports
formatter: gofumpt

# ELIGIBLE FILES
#
# Only files with this extension are formatted.
extension: .go

# GOFUMPT OPTIONS
#
# langVersion and modulePath let gofumpt apply rules that depend on the Go
# version or module of the code. When unset, gofumpt uses safe defaults.
# langVersion: go1.22
# modulePath: example.com/project
extraRules: false

# FILTERING
#
# By default every eligible file below the root is formatted.
# Set gitignore to skip whatever the root .gitignore matches, and list base
# name globs (e.g. "*_gen.go", "testdata") to exclude.
gitignore: false
exclude: []
`

// Config holds the settings of a prettygo project.
type Config struct {
	Formatter   reformat.Name `yaml:"formatter"`
	Extension   string        `yaml:"extension"`
	LangVersion string        `yaml:"langVersion"`
	ModulePath  string        `yaml:"modulePath"`
	ExtraRules  bool          `yaml:"extraRules"`
	Gitignore   bool          `yaml:"gitignore"`
	Exclude     []string      `yaml:"exclude"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Formatter: reformat.Default,
		Extension: ".go",
	}
}

// ReformatOptions returns the reformatter settings of c.
func (c *Config) ReformatOptions() reformat.Options {
	return reformat.Options{
		LangVersion: c.LangVersion,
		ModulePath:  c.ModulePath,
		ExtraRules:  c.ExtraRules,
	}
}

// Load reads and validates the config file at path, which must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingConfigError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Discover loads FileName from dir, falling back to Default when dir has none.
func Discover(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	var mce *MissingConfigError
	if errors.As(err, &mce) {
		return Default(), nil
	}
	return cfg, err
}

// Parse validates data against the config schema and decodes it. Keys that
// are absent keep their default value. path is used in error messages.
func Parse(path string, data []byte) (*Config, error) {
	doc, err := validator.DecodeYAML(data)
	if err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	v, err := schemaValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(doc); err != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: err}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	cfg.Path = path
	return cfg, nil
}

// WriteDefault creates FileName in dir with DefaultConfigContent. An existing
// file is never overwritten.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", &AlreadyExistsError{Path: path}
	}
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(DefaultConfigContent); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

var schemaValidator = sync.OnceValues(func() (validator.Validator, error) {
	schema, err := validator.DecodeJSON(schemaJSON)
	if err != nil {
		return nil, err
	}
	c := validator.NewCompiler()
	if err := c.AddSchema(schemaID, schema); err != nil {
		return nil, err
	}
	return c.Compile(schemaID)
})
