// Package diagnostics formats parse failures for people: a located
// header, the offending source lines and a hint on how to fix them.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/query/segment"
)

// Severity indicates the seriousness of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable problem.
type Diagnostic struct {
	Severity Severity
	Path     string
	// Line is 1-based, 0 when the problem is not tied to a line.
	Line    int
	Message string
	// Code names the error class, for example "unused parameter".
	Code string
	Help string
	// Context holds source lines around Line, starting at ContextStart.
	Context      []string
	ContextStart int
}

// FromError converts a *catalog.Error found in err's chain.
func FromError(err error) (Diagnostic, bool) {
	var perr *catalog.Error
	if !errors.As(err, &perr) {
		return Diagnostic{}, false
	}
	msg := perr.Message
	if msg == "" && perr.Err != nil {
		msg = perr.Err.Error()
	}
	return Diagnostic{
		Severity: SeverityError,
		Path:     perr.Path,
		Line:     perr.Line,
		Message:  msg,
		Code:     perr.Kind.String(),
		Help:     help(perr),
	}, true
}

func help(e *catalog.Error) string {
	switch e.Kind {
	case catalog.ErrMalformedStatement:
		if e.Err == nil && strings.HasSuffix(e.Message, "must have a name") {
			return "add a `-- name: <name>` comment before the statement"
		}
	case catalog.ErrMalformedVariant:
		return "end the name with a single selector such as ? or !"
	case catalog.ErrUnusedParameter:
		if e.Param != "" {
			return fmt.Sprintf("use :%s in the statement or remove its param directive", e.Param)
		}
	}
	return ""
}

// WithContext returns d with up to n source lines of src on each side of
// d.Line attached.
func (d Diagnostic) WithContext(src string, n int) Diagnostic {
	if d.Line < 1 || n < 0 {
		return d
	}
	lines := segment.Lines(src)
	if d.Line > len(lines) {
		return d
	}
	start := max(d.Line-n, 1)
	end := min(d.Line+n, len(lines))
	d.Context = append([]string(nil), lines[start-1:end]...)
	d.ContextStart = start
	return d
}
