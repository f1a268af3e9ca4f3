// Package export encodes parsed catalogs for generators written outside Go.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/conv"
	"github.com/electwix/sqlinclude/internal/render"
)

// Format is an output encoding.
type Format string

const (
	// FormatYAML writes one YAML document per file.
	FormatYAML Format = "yaml"
	// FormatJSON writes a JSON array with one element per file.
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json". The empty string is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Ext is the file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// Document is the encoded form of a catalog file.
type Document struct {
	File       string      `yaml:"file,omitempty" json:"file,omitempty"`
	Name string `yaml:"name" json:"name"`
	// Type is the CamelCase form of Name, the symbol a generator gives the
	// type holding the file's statements.
	Type       string      `yaml:"type,omitempty" json:"type,omitempty"`
	Statements []Statement `yaml:"statements" json:"statements"`
}

// Statement is the encoded form of a catalog statement.
type Statement struct {
	Name string `yaml:"name" json:"name"`
	// Symbol is the CamelCase form of Name.
	Symbol  string  `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Variant string  `yaml:"variant" json:"variant"`
	Docs    string  `yaml:"docs,omitempty" json:"docs,omitempty"`
	Line    int     `yaml:"line,omitempty" json:"line,omitempty"`
	Params  []Param `yaml:"params,omitempty" json:"params,omitempty"`
	Items   []Item  `yaml:"items" json:"items"`
	// SQL is the statement rendered with positional markers. It is set
	// only when a render style is configured and the statement has no
	// list placeholder.
	SQL string `yaml:"sql,omitempty" json:"sql,omitempty"`
}

// Param is a distinct placeholder with its declared type.
type Param struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Kind    string `yaml:"kind" json:"kind"`
	Ordinal int    `yaml:"ordinal" json:"ordinal"`
}

// Item holds exactly one of its fields.
type Item struct {
	Text string `yaml:"text,omitempty" json:"text,omitempty"`
	Bind string `yaml:"bind,omitempty" json:"bind,omitempty"`
	List string `yaml:"list,omitempty" json:"list,omitempty"`
}

// Options tunes Encode.
type Options struct {
	Format Format
	// Style adds rendered SQL to statements; StyleNone leaves it out.
	Style render.Style
}

// Convert builds the Document of f.
func Convert(f *catalog.File, style render.Style) (Document, error) {
	doc := Document{
		File:       f.Path,
		Name:       f.Name,
		Type:       conv.ToCamelCase(f.Name),
		Statements: make([]Statement, 0, len(f.Statements)),
	}
	for _, s := range f.Statements {
		out := Statement{
			Name:    s.Name,
			Symbol:  conv.ToCamelCase(s.Name),
			Variant: s.Variant,
			Line:    s.Line,
			Items:   make([]Item, 0, len(s.Items)),
		}
		if s.HasDocs() {
			out.Docs = s.Docs
		}
		for i, b := range s.UniqueBinds() {
			out.Params = append(out.Params, Param{
				Name:    b.Value,
				Type:    s.ParamType(b.Value),
				Kind:    b.Kind.String(),
				Ordinal: i + 1,
			})
		}
		for _, it := range s.Items {
			switch it.Kind {
			case catalog.ItemText:
				out.Items = append(out.Items, Item{Text: it.Value})
			case catalog.ItemBind:
				out.Items = append(out.Items, Item{Bind: it.Value})
			case catalog.ItemList:
				out.Items = append(out.Items, Item{List: it.Value})
			}
		}
		if style != render.StyleNone {
			r, err := render.Static(s, style)
			switch {
			case err == nil:
				out.SQL = r.SQL
			case !errors.Is(err, render.ErrListItem):
				return Document{}, err
			}
		}
		doc.Statements = append(doc.Statements, out)
	}
	return doc, nil
}

// Encode writes files to w.
func Encode(w io.Writer, files []*catalog.File, opts Options) error {
	docs := make([]Document, 0, len(files))
	for _, f := range files {
		doc, err := Convert(f, opts.Style)
		if err != nil {
			return fmt.Errorf("export %s: %w", f.Name, err)
		}
		docs = append(docs, doc)
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("export %s: %w", doc.Name, err)
			}
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}
