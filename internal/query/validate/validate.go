// Package validate checks assembled statements before they reach a generator.
package validate

import (
	"fmt"
	"slices"

	"github.com/electwix/sqlinclude/catalog"
)

// Statements checks the statements and returns the first failure. Names
// and variant selectors of all statements are checked before any
// parameter declaration: SQL must have a name, a variant must be a single
// punctuation token, and every declared parameter must be referenced by a
// placeholder.
func Statements(path string, stmts []catalog.Statement) error {
	for _, stmt := range stmts {
		if err := Shape(path, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range stmts {
		if err := Params(path, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Shape checks the name and the variant selector of a statement with SQL.
func Shape(path string, stmt catalog.Statement) error {
	if len(stmt.Items) == 0 {
		return nil
	}
	if stmt.Name == "" {
		return &catalog.Error{
			Kind:    catalog.ErrMalformedStatement,
			Path:    path,
			Line:    stmt.Line,
			Message: fmt.Sprintf("statement `%s...` must have a name", leadText(stmt.Items[0])),
		}
	}
	if !catalog.ValidVariant(stmt.Variant) {
		return &catalog.Error{
			Kind:      catalog.ErrMalformedVariant,
			Path:      path,
			Line:      stmt.Line,
			Statement: stmt.Name,
			Message:   fmt.Sprintf("statement `%s` variant selector `%s` is not a single punctuation token", stmt.Name, stmt.Variant),
		}
	}
	return nil
}

// Params checks that every declared parameter is used. Parameters are
// checked in name order.
func Params(path string, stmt catalog.Statement) error {
	names := make([]string, 0, len(stmt.Params))
	for name := range stmt.Params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !slices.ContainsFunc(stmt.Items, func(it catalog.Item) bool { return it.IsParam(name) }) {
			return &catalog.Error{
				Kind:      catalog.ErrUnusedParameter,
				Path:      path,
				Line:      stmt.Line,
				Statement: stmt.Name,
				Param:     name,
				Message:   fmt.Sprintf("param `%s` is not found in `%s`", name, stmt.Name),
			}
		}
	}
	return nil
}

func leadText(item catalog.Item) string {
	if item.Kind == catalog.ItemText {
		return item.Value
	}
	return string(':') + item.Value
}
