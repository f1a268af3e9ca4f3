// Package conv converts identifiers between declaration case and snake_case.
package conv

import "strings"

const separator = '_'

// ToSnakeCase normalizes an identifier written in any case to snake_case.
//
// Acronym runs stay together ("getHTTPResponse" becomes "get_http_response"),
// leading and trailing separators are dropped and separator runs collapse to
// one. Only ASCII letters change case.
func ToSnakeCase(name string) string {
	runes := []rune(strings.Trim(name, string(separator)))
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/4)
	prevSep := false
	for i, r := range runes {
		if r == separator {
			if !prevSep {
				b.WriteRune(separator)
				prevSep = true
			}
			continue
		}
		if isUpper(r) {
			prev := rune(separator)
			if i > 0 {
				prev = runes[i-1]
			}
			next := rune(separator)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if prev != separator && (!isUpper(prev) || startsWord(next)) {
				b.WriteRune(separator)
			}
			r = toLower(r)
		}
		b.WriteRune(r)
		prevSep = false
	}
	return b.String()
}

// ToCamelCase joins the fragments of a snake_case name, capitalizing the
// first letter of each and leaving the rest untouched.
func ToCamelCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, fragment := range strings.Split(name, string(separator)) {
		if fragment == "" {
			continue
		}
		runes := []rune(fragment)
		b.WriteRune(toUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// startsWord reports whether r, following an upper case letter, closes an
// acronym run: anything but another capital or a separator.
func startsWord(r rune) bool {
	return r != separator && !isUpper(r)
}

func isUpper(r rune) bool { return 'A' <= r && r <= 'Z' }

func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}

func toUpper(r rune) rune {
	if 'a' <= r && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
