package reformat

import (
	"go/format"

	"golang.org/x/tools/imports"
	gofumpt "mvdan.cc/gofumpt/format"
)

type gofumptReformatter struct {
	opts Options
}

func (g *gofumptReformatter) Name() Name { return Gofumpt }

func (g *gofumptReformatter) Reformat(_ string, src []byte) ([]byte, error) {
	return gofumpt.Source(src, gofumpt.Options{
		LangVersion: g.opts.LangVersion,
		ModulePath:  g.opts.ModulePath,
		ExtraRules:  g.opts.ExtraRules,
	})
}

// gofmtReformatter uses go/format, which is the gofmt printer itself.
type gofmtReformatter struct{}

func (g *gofmtReformatter) Name() Name { return Gofmt }

func (g *gofmtReformatter) Reformat(_ string, src []byte) ([]byte, error) {
	return format.Source(src)
}

type goimportsReformatter struct{}

func (g *goimportsReformatter) Name() Name { return Goimports }

func (g *goimportsReformatter) Reformat(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
}
