package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// ErrMalformedStatement reports SQL with no resolvable name, or input
	// that cannot be read as text.
	ErrMalformedStatement ErrorKind = iota + 1
	// ErrMalformedVariant reports a variant selector that is not a single
	// punctuation token.
	ErrMalformedVariant
	// ErrUnusedParameter reports a declared parameter that no placeholder uses.
	ErrUnusedParameter
	// ErrIO reports a failure to read the source document.
	ErrIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedStatement:
		return "malformed statement"
	case ErrMalformedVariant:
		return "malformed variant"
	case ErrUnusedParameter:
		return "unused parameter"
	case ErrIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the terminal error of a parse.
type Error struct {
	Kind ErrorKind
	Path string
	// Line is a 1-based source position hint, 0 when there is none.
	Line int
	// Statement names the offending statement when it has a name.
	Statement string
	// Param names the unused parameter for ErrUnusedParameter.
	Param   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, msg)
	default:
		return msg
	}
}

// Unwrap returns the underlying cause, set for ErrIO.
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is, or wraps, a catalog error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.Kind == kind
}
