package sqlinclude

import (
	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/loader"
	"github.com/electwix/sqlinclude/internal/query"
)

// Option customizes a parse.
type Option func(*options)

type options struct {
	name    string
	variant string
}

// WithDefaultName sets the name given to a leading statement that has no
// name directive. It replaces the name derived from the path.
func WithDefaultName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDefaultVariant sets the variant of statements whose name directive
// carries no selector. The default is catalog.DefaultVariant.
func WithDefaultVariant(variant string) Option {
	return func(o *options) { o.variant = variant }
}

func collect(name string, opts []Option) options {
	o := options{name: name}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse parses text. name is the document name; an unnamed first
// statement takes it.
func Parse(name, text string, opts ...Option) (*catalog.File, error) {
	o := collect(name, opts)
	return query.Parse(text, query.Options{Name: o.name, DefaultVariant: o.variant})
}

// ParseBytes parses raw file content read from path. The content must be
// valid UTF-8.
func ParseBytes(path string, src []byte, opts ...Option) (*catalog.File, error) {
	o := collect(BaseName(path), opts)
	return query.ParseBytes(src, query.Options{Path: path, Name: o.name, DefaultVariant: o.variant})
}

// ParseFile reads and parses the file at path. Read failures are returned
// as catalog.ErrIO errors wrapping the original error.
func ParseFile(path string, opts ...Option) (*catalog.File, error) {
	o := collect(BaseName(path), opts)
	return loader.Loader{DefaultVariant: o.variant}.LoadNamed(path, o.name)
}

// BaseName returns the document name derived from path: the file stem
// with dashes replaced by underscores.
func BaseName(path string) string {
	return loader.BaseName(path)
}
