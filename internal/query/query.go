// Package query parses one annotated SQL document into a catalog file.
package query

import (
	"unicode/utf8"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/query/block"
	"github.com/electwix/sqlinclude/internal/query/placeholder"
	"github.com/electwix/sqlinclude/internal/query/segment"
	"github.com/electwix/sqlinclude/internal/query/validate"
)

// Options tunes a parse.
type Options struct {
	// Path is reported in errors and recorded on the file.
	Path string
	// Name is the document base name.
	Name string
	// DefaultVariant replaces catalog.DefaultVariant for statements whose
	// name directive has no symbols.
	DefaultVariant string
}

// Parse builds the catalog of text. The first invalid statement aborts the
// parse; no partial file is returned.
func Parse(text string, opts Options) (*catalog.File, error) {
	lines := segment.Split(text)
	drafts := block.Assembler{
		BaseName:       opts.Name,
		DefaultVariant: opts.DefaultVariant,
	}.Assemble(lines)

	stmts := make([]catalog.Statement, 0, len(drafts))
	for _, d := range drafts {
		stmts = append(stmts, catalog.Statement{
			Name:    d.Name,
			Variant: d.Variant,
			Docs:    d.Docs,
			Params:  d.Params,
			Items:   placeholder.Resolve(d.SQL),
			Line:    d.Line,
		})
	}
	if err := validate.Statements(opts.Path, stmts); err != nil {
		return nil, err
	}
	return &catalog.File{Path: opts.Path, Name: opts.Name, Statements: stmts}, nil
}

// ParseBytes is Parse for raw file content, which must be valid UTF-8.
func ParseBytes(src []byte, opts Options) (*catalog.File, error) {
	if !utf8.Valid(src) {
		return nil, &catalog.Error{
			Kind:    catalog.ErrMalformedStatement,
			Path:    opts.Path,
			Line:    1,
			Message: "input is not valid UTF-8",
		}
	}
	return Parse(string(src), opts)
}
