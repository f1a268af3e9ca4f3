// Package render turns catalog statements into SQL with positional
// markers for a database driver.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/electwix/sqlinclude/catalog"
)

// Style is a positional marker syntax.
type Style int

const (
	// StyleNone renders nothing; it is the zero value.
	StyleNone Style = iota
	// StyleDollar emits $1, $2, ...
	StyleDollar
	// StyleQuestion emits ? for every argument.
	StyleQuestion
	// StyleColon emits :1, :2, ...
	StyleColon
	// StyleAt emits @p1, @p2, ...
	StyleAt
)

var styleNames = map[string]Style{
	"dollar":   StyleDollar,
	"$":        StyleDollar,
	"question": StyleQuestion,
	"?":        StyleQuestion,
	"colon":    StyleColon,
	":":        StyleColon,
	"at":       StyleAt,
	"@":        StyleAt,
}

// ParseStyle maps a configured style name to a Style. The empty string is
// StyleNone.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return StyleNone, nil
	}
	if st, ok := styleNames[s]; ok {
		return st, nil
	}
	return StyleNone, fmt.Errorf("unknown render style %q", s)
}

func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleDollar:
		return "dollar"
	case StyleQuestion:
		return "question"
	case StyleColon:
		return "colon"
	case StyleAt:
		return "at"
	default:
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
}

// Numbered reports whether the style carries argument positions.
func (s Style) Numbered() bool {
	return s == StyleDollar || s == StyleColon || s == StyleAt
}

func (s Style) marker(n int) string {
	switch s {
	case StyleDollar:
		return "$" + strconv.Itoa(n)
	case StyleColon:
		return ":" + strconv.Itoa(n)
	case StyleAt:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

var (
	// ErrNoStyle is returned when rendering with StyleNone.
	ErrNoStyle = errors.New("render: no marker style")
	// ErrListItem is returned by Static for a statement with a list
	// placeholder, whose SQL depends on the list length.
	ErrListItem = errors.New("render: statement has a list placeholder")
)

// Arg tells where a positional argument comes from.
type Arg struct {
	// Name is the placeholder name.
	Name string
	// Index is the element of a list placeholder, -1 for a scalar.
	Index int
}

// Rendered is SQL text plus its argument layout.
type Rendered struct {
	SQL  string
	Args []Arg
}

// Static renders a statement without list placeholders. Numbered styles
// give every use of a name that name's ordinal, so Args holds one entry
// per distinct placeholder. StyleQuestion emits one marker and one Arg per
// occurrence.
func Static(stmt catalog.Statement, style Style) (Rendered, error) {
	if style == StyleNone {
		return Rendered{}, ErrNoStyle
	}
	for _, it := range stmt.Items {
		if it.Kind == catalog.ItemList {
			return Rendered{}, fmt.Errorf("%w: %s uses %s", ErrListItem, stmt.Name, it.Value)
		}
	}

	var out Rendered
	if style.Numbered() {
		for _, it := range stmt.UniqueBinds() {
			out.Args = append(out.Args, Arg{Name: it.Value, Index: -1})
		}
		out.SQL = stmt.SQL(func(it catalog.Item) string {
			return style.marker(stmt.Ordinal(it.Value) + 1)
		})
		return out, nil
	}
	out.SQL = stmt.SQL(func(it catalog.Item) string {
		out.Args = append(out.Args, Arg{Name: it.Value, Index: -1})
		return style.marker(len(out.Args))
	})
	return out, nil
}

// Expand renders a statement whose list placeholders have the lengths in
// lens. Every occurrence takes the next positions; a list expands to
// comma separated markers, or NULL when it is empty.
func Expand(stmt catalog.Statement, style Style, lens map[string]int) (Rendered, error) {
	if style == StyleNone {
		return Rendered{}, ErrNoStyle
	}
	var out Rendered
	var b strings.Builder
	for _, it := range stmt.Items {
		switch it.Kind {
		case catalog.ItemText:
			b.WriteString(it.Value)
		case catalog.ItemBind:
			out.Args = append(out.Args, Arg{Name: it.Value, Index: -1})
			b.WriteString(style.marker(len(out.Args)))
		case catalog.ItemList:
			n, ok := lens[it.Value]
			if !ok || n < 0 {
				return Rendered{}, fmt.Errorf("render: %s: no length for list %s", stmt.Name, it.Value)
			}
			if n == 0 {
				b.WriteString("NULL")
				continue
			}
			for i := range n {
				if i > 0 {
					b.WriteString(", ")
				}
				out.Args = append(out.Args, Arg{Name: it.Value, Index: i})
				b.WriteString(style.marker(len(out.Args)))
			}
		}
	}
	out.SQL = b.String()
	return out, nil
}

// Values lays out argument values in marker order. Scalars are looked up
// in binds and list elements in lists.
func (r Rendered) Values(binds map[string]any, lists map[string][]any) ([]any, error) {
	vals := make([]any, 0, len(r.Args))
	for _, a := range r.Args {
		if a.Index < 0 {
			v, ok := binds[a.Name]
			if !ok {
				return nil, fmt.Errorf("render: missing value for %s", a.Name)
			}
			vals = append(vals, v)
			continue
		}
		list := lists[a.Name]
		if a.Index >= len(list) {
			return nil, fmt.Errorf("render: list %s has no element %d", a.Name, a.Index)
		}
		vals = append(vals, list[a.Index])
	}
	return vals, nil
}
