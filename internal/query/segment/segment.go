// Package segment splits annotated SQL text into comment and code lines.
package segment

import (
	"strings"
	"unicode"
)

// CommentMarker starts both full-line and trailing comments.
const CommentMarker = "--"

// Kind tells comment lines from code lines.
type Kind int

const (
	// KindCode is a line of SQL, trailing comment removed.
	KindCode Kind = iota + 1
	// KindComment is a line whose first non-blank characters are the marker.
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Line is a non-blank source line.
type Line struct {
	// Number is 1-based.
	Number int
	Kind   Kind
	// Text is the SQL of a code line, or everything after the marker of a
	// comment line.
	Text string
}

// Split returns the non-blank lines of text in order. Code lines are cut
// at the first comment marker together with the white space before it.
func Split(text string) []Line {
	raw := splitLines(text)
	lines := make([]Line, 0, len(raw))
	for _, ln := range raw {
		trimmed := strings.TrimRightFunc(ln.text, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		trimmedLeft := strings.TrimLeftFunc(trimmed, unicode.IsSpace)
		if strings.HasPrefix(trimmedLeft, CommentMarker) {
			lines = append(lines, Line{
				Number: ln.line,
				Kind:   KindComment,
				Text:   trimmedLeft[len(CommentMarker):],
			})
			continue
		}
		lines = append(lines, Line{
			Number: ln.line,
			Kind:   KindCode,
			Text:   stripTrailingComment(trimmed),
		})
	}
	return lines
}

func stripTrailingComment(line string) string {
	idx := strings.Index(line, CommentMarker)
	if idx < 0 {
		return line
	}
	return strings.TrimRightFunc(line[:idx], unicode.IsSpace)
}

// Lines returns every line of text, blank ones included, without line
// terminators. Line n of the result is Line.Number n+1.
func Lines(text string) []string {
	raw := splitLines(text)
	out := make([]string, len(raw))
	for i, ln := range raw {
		out[i] = ln.text
	}
	return out
}

type rawLine struct {
	text string
	line int
}

func splitLines(text string) []rawLine {
	if len(text) == 0 {
		return nil
	}
	lines := make([]rawLine, 0, strings.Count(text, "\n")+1)
	idx := 0
	lineNumber := 1
	for idx < len(text) {
		start := idx
		for idx < len(text) && text[idx] != '\n' && text[idx] != '\r' {
			idx++
		}
		end := idx
		if idx < len(text) {
			switch text[idx] {
			case '\r':
				idx++
				if idx < len(text) && text[idx] == '\n' {
					idx++
				}
			case '\n':
				idx++
			}
		}
		lines = append(lines, rawLine{text: text[start:end], line: lineNumber})
		lineNumber++
	}
	return lines
}
