// Package catalog holds the parsed model of an annotated SQL file.
//
// A File is an ordered list of Statements. Each Statement exposes the
// literal SQL fragments and placeholders it was built from, in source
// order, together with the parameter types declared in its annotations.
// Generators consume this model to produce data-access code.
package catalog

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// DefaultVariant is the variant selector of a statement whose name
// directive carries no symbols.
const DefaultVariant = "!"

// UnknownType marks a placeholder that has no declared parameter type.
const UnknownType = "_"

// ItemKind distinguishes literal SQL text from the two placeholder kinds.
type ItemKind int

const (
	// ItemText is a literal SQL fragment.
	ItemText ItemKind = iota
	// ItemBind is a scalar placeholder.
	ItemBind
	// ItemList is a placeholder that expands to a list of values inside IN (...).
	ItemList
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemBind:
		return "bind"
	case ItemList:
		return "list"
	default:
		return "unknown"
	}
}

// Item is one element of a statement body. Value holds the SQL text for
// ItemText and the snake_case placeholder name otherwise.
type Item struct {
	Kind  ItemKind
	Value string
}

// Text returns a literal SQL fragment item.
func Text(sql string) Item { return Item{Kind: ItemText, Value: sql} }

// Bind returns a scalar placeholder item.
func Bind(name string) Item { return Item{Kind: ItemBind, Value: name} }

// List returns an IN-list placeholder item.
func List(name string) Item { return Item{Kind: ItemList, Value: name} }

// IsParam reports whether the item is a placeholder named name.
func (it Item) IsParam(name string) bool {
	return it.Kind != ItemText && it.Value == name
}

// Statement is a single named SQL statement.
type Statement struct {
	Name string
	// Variant tells a generator what kind of method to produce, for example
	// "?" for a query that yields rows or "!" for an update.
	Variant string
	Docs    string
	// Params maps snake_case parameter names to declared types.
	Params map[string]string
	Items  []Item
	// Line is the 1-based line where the statement's SQL starts, 0 if unknown.
	Line int
}

// UniqueBinds returns every distinct placeholder once, in order of first
// occurrence. The index of a placeholder in this slice is its ordinal.
func (s Statement) UniqueBinds() []Item {
	binds := make([]Item, 0, len(s.Items))
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if item.Kind == ItemText {
			continue
		}
		if _, ok := seen[item.Value]; ok {
			continue
		}
		seen[item.Value] = struct{}{}
		binds = append(binds, item)
	}
	return binds
}

// Ordinal returns the zero-based ordinal of the named placeholder or -1.
func (s Statement) Ordinal(name string) int {
	for i, item := range s.UniqueBinds() {
		if item.Value == name {
			return i
		}
	}
	return -1
}

// ParamType returns the declared type of the named parameter, or
// UnknownType when the statement does not declare one.
func (s Statement) ParamType(name string) string {
	if typ, ok := s.Params[name]; ok {
		return typ
	}
	return UnknownType
}

// HasDocs reports whether the statement carries documentation.
func (s Statement) HasDocs() bool { return s.Docs != "" }

// SQL replays the statement items, asking marker for the text that stands
// in for each placeholder occurrence.
func (s Statement) SQL(marker func(Item) string) string {
	var b strings.Builder
	for _, item := range s.Items {
		if item.Kind == ItemText {
			b.WriteString(item.Value)
			continue
		}
		b.WriteString(marker(item))
	}
	return b.String()
}

// File is the catalog of statements parsed from one document.
type File struct {
	// Path is where the document was read from, empty for in-memory text.
	Path string
	// Name is the document base name, the fallback name of its first statement.
	Name       string
	Statements []Statement
}

// Lookup returns the first statement with the given name.
func (f *File) Lookup(name string) (Statement, bool) {
	for _, stmt := range f.Statements {
		if stmt.Name == name {
			return stmt, true
		}
	}
	return Statement{}, false
}

// Clone returns a copy of f that shares no statements, items or
// parameter maps with it.
func (f *File) Clone() *File {
	out := &File{Path: f.Path, Name: f.Name, Statements: make([]Statement, len(f.Statements))}
	for i, stmt := range f.Statements {
		stmt.Params = maps.Clone(stmt.Params)
		stmt.Items = slices.Clone(stmt.Items)
		out.Statements[i] = stmt
	}
	return out
}

// Generator turns a parsed file into code. Implementations live outside
// this module; the catalog is read-only for them.
type Generator interface {
	Generate(ctx context.Context, file *File) error
}
