// Package block assembles statement drafts from segmented lines.
//
// The assembler is a two state machine. While idle it collects the name,
// documentation and parameter directives of the next statement; the first
// code line moves it into a statement, whose SQL accumulates until a line
// ends with a terminator, a new name directive arrives, or input ends.
package block

import (
	"strings"
	"unicode"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/query/directive"
	"github.com/electwix/sqlinclude/internal/query/segment"
)

// Terminator ends a statement when it closes a code line.
const Terminator = ";"

// Draft is an assembled statement before placeholder resolution.
type Draft struct {
	Name    string
	Variant string
	Docs    string
	Params  map[string]string
	SQL     string
	// Line is the source line of the first SQL line.
	Line int
}

// Assembler turns a document's lines into drafts.
type Assembler struct {
	// BaseName names the first statement of a document when it has no
	// name directive.
	BaseName string
	// DefaultVariant replaces an empty variant; catalog.DefaultVariant when unset.
	DefaultVariant string
}

type state int

const (
	stateIdle state = iota
	stateInStatement
)

type draft struct {
	name    string
	variant string
	docs    strings.Builder
	params  map[string]string
	sql     strings.Builder
	line    int
}

func (d *draft) appendDoc(text string) {
	if d.docs.Len() > 0 {
		d.docs.WriteByte('\n')
	}
	d.docs.WriteString(text)
}

func (d *draft) appendSQL(line string, number int) {
	if d.sql.Len() == 0 {
		d.line = number
	}
	d.sql.WriteString(line)
}

// resetMeta drops docs and parameters collected so far.
func (d *draft) resetMeta() {
	d.docs.Reset()
	d.params = make(map[string]string)
}

func (d *draft) reset() {
	d.name = ""
	d.variant = ""
	d.sql.Reset()
	d.line = 0
	d.resetMeta()
}

type machine struct {
	cfg    Assembler
	state  state
	cur    draft
	drafts []Draft
}

// Assemble runs the state machine over lines and returns the drafts in
// source order. Drafts whose SQL is empty are dropped.
func (a Assembler) Assemble(lines []segment.Line) []Draft {
	m := &machine{cfg: a}
	m.cur.resetMeta()
	for _, ln := range lines {
		switch ln.Kind {
		case segment.KindComment:
			m.comment(ln)
		case segment.KindCode:
			m.code(ln)
		}
	}
	if m.state == stateInStatement {
		m.emit()
	}
	return m.drafts
}

func (m *machine) comment(ln segment.Line) {
	d := directive.Recognize(ln.Text)
	if d.Kind == directive.KindName {
		if m.state == stateInStatement {
			m.emit()
			m.cur.sql.Reset()
			m.state = stateIdle
		}
		m.cur.resetMeta()
		m.cur.name = d.Name
		m.cur.variant = d.Variant
		return
	}
	if m.state == stateInStatement {
		// comments inside SQL are not documentation
		return
	}
	if d.Kind == directive.KindParam {
		m.cur.appendDoc(directive.ParamDoc(d.Name, d.Text))
		m.cur.params[d.Name] = d.Type
		return
	}
	m.cur.appendDoc(d.Text)
}

func (m *machine) code(ln segment.Line) {
	if m.state == stateInStatement {
		m.cur.sql.WriteByte('\n')
	}
	body, terminated := strings.CutSuffix(ln.Text, Terminator)
	if !terminated {
		m.cur.appendSQL(body, ln.Number)
		m.state = stateInStatement
		return
	}
	m.cur.appendSQL(strings.TrimRightFunc(body, unicode.IsSpace), ln.Number)
	if m.cur.sql.Len() > 0 {
		m.emit()
	}
	m.cur.reset()
	m.state = stateIdle
}

func (m *machine) emit() {
	name := m.cur.name
	if name == "" && len(m.drafts) == 0 {
		name = m.cfg.BaseName
	}
	variant := m.cur.variant
	if variant == "" {
		variant = m.cfg.DefaultVariant
	}
	if variant == "" {
		variant = catalog.DefaultVariant
	}
	m.drafts = append(m.drafts, Draft{
		Name:    name,
		Variant: variant,
		Docs:    m.cur.docs.String(),
		Params:  m.cur.params,
		SQL:     m.cur.sql.String(),
		Line:    m.cur.line,
	})
}
