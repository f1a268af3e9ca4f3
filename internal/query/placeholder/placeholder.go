// Package placeholder splits statement SQL into text and placeholder items.
package placeholder

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/conv"
)

// Sigil introduces a placeholder name.
const Sigil = ':'

// listContext matches a placeholder that is the only content of an
// IN ( ... ) list. Group 1 spans the placeholder including its sigil.
var listContext = regexp.MustCompile(`(?i)\bIN\s*\(\s*(:[a-z][a-z0-9_]*)\s*\)`)

// Resolve returns the items of sql in source order. Placeholders sitting
// alone inside IN ( ... ) are list placeholders, all others are scalar
// binds. A "::" type cast is not a placeholder. Text items are never empty
// and trailing white space of the statement is dropped.
func Resolve(sql string) []catalog.Item {
	lists := listSites(sql)
	items := make([]catalog.Item, 0, 8)
	textStart := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != Sigil {
			continue
		}
		if i > 0 && sql[i-1] == Sigil {
			continue
		}
		end := identEnd(sql, i+1)
		if end == i+1 {
			continue
		}
		if i > textStart {
			items = append(items, catalog.Text(sql[textStart:i]))
		}
		name := conv.ToSnakeCase(sql[i+1 : end])
		if _, ok := lists[i]; ok {
			items = append(items, catalog.List(name))
		} else {
			items = append(items, catalog.Bind(name))
		}
		textStart = end
		i = end - 1
	}
	if tail := strings.TrimRightFunc(sql[textStart:], unicode.IsSpace); tail != "" {
		items = append(items, catalog.Text(tail))
	}
	return items
}

// listSites returns the byte offsets of sigils that start list placeholders.
func listSites(sql string) map[int]struct{} {
	matches := listContext.FindAllStringSubmatchIndex(sql, -1)
	sites := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		sites[m[2]] = struct{}{}
	}
	return sites
}

// identEnd returns the end of the identifier starting at start, or start
// if there is none. Identifiers begin with an ASCII letter.
func identEnd(s string, start int) int {
	if start >= len(s) || !isLetter(s[start]) {
		return start
	}
	end := start + 1
	for end < len(s) && (isLetter(s[end]) || isDigit(s[end]) || s[end] == '_') {
		end++
	}
	return end
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Names returns the distinct placeholder names of items in first
// occurrence order.
func Names(items []catalog.Item) []string {
	binds := catalog.Statement{Items: items}.UniqueBinds()
	names := make([]string, len(binds))
	for i, b := range binds {
		names[i] = b.Value
	}
	return names
}
