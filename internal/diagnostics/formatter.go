package diagnostics

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics as text.
type Formatter struct {
	// Colorize adds ANSI colors.
	Colorize bool
	// ShowCode appends the error class to the header.
	ShowCode bool
}

// Format renders d. The header is path:line: severity: message; source
// context and help follow on indented lines.
func (f Formatter) Format(d Diagnostic) string {
	var b strings.Builder
	switch {
	case d.Path != "" && d.Line > 0:
		fmt.Fprintf(&b, "%s: ", f.colorize(fmt.Sprintf("%s:%d", d.Path, d.Line), colorCyan))
	case d.Path != "":
		fmt.Fprintf(&b, "%s: ", f.colorize(d.Path, colorCyan))
	}
	fmt.Fprintf(&b, "%s: %s", f.colorize(d.Severity.String(), f.severityColor(d.Severity)), d.Message)
	if f.ShowCode && d.Code != "" {
		fmt.Fprintf(&b, " %s", f.colorize("["+d.Code+"]", colorMagenta))
	}
	b.WriteString("\n")

	if len(d.Context) > 0 {
		width := len(fmt.Sprint(d.ContextStart + len(d.Context) - 1))
		for i, line := range d.Context {
			n := d.ContextStart + i
			gutter := "  "
			if n == d.Line {
				gutter = f.colorize("->", colorBlue)
			}
			fmt.Fprintf(&b, "  %s %*d | %s\n", gutter, width, n, line)
		}
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "  %s %s\n", f.colorize("help:", colorGreen), d.Help)
	}
	return b.String()
}

// Write writes the rendering of d to w.
func (f Formatter) Write(w io.Writer, d Diagnostic) error {
	_, err := io.WriteString(w, f.Format(d))
	return err
}

func (f Formatter) severityColor(s Severity) string {
	if s == SeverityError {
		return colorRed
	}
	return colorYellow
}

func (f Formatter) colorize(s, color string) string {
	if !f.Colorize {
		return s
	}
	return color + s + colorReset
}

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)
