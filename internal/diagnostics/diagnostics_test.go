package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/query"
)

const countSQL = `-- name: count_positives?
-- param: record_type: &str - record type
SELECT Count(*)
  FROM some_table
 WHERE num_column > 0
   AND record_type = :rec_type
;
`

func TestFromParseError(t *testing.T) {
	t.Parallel()

	_, err := query.Parse(countSQL, query.Options{Path: "count.sql", Name: "count"})
	d, ok := FromError(fmt.Errorf("run: %w", err))
	if !ok {
		t.Fatalf("FromError(%v) found no parse error", err)
	}
	want := Diagnostic{
		Severity: SeverityError,
		Path:     "count.sql",
		Line:     3,
		Message:  "param `record_type` is not found in `count_positives`",
		Code:     "unused parameter",
		Help:     "use :record_type in the statement or remove its param directive",
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("diagnostic mismatch (-want +got):\n%s", diff)
	}

	got := Formatter{ShowCode: true}.Format(d.WithContext(countSQL, 1))
	wantText := "count.sql:3: error: param `record_type` is not found in `count_positives` [unused parameter]\n" +
		"     2 | -- param: record_type: &str - record type\n" +
		"  -> 3 | SELECT Count(*)\n" +
		"     4 |   FROM some_table\n" +
		"  help: use :record_type in the statement or remove its param directive\n"
	if diff := cmp.Diff(wantText, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFromErrorHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *catalog.Error
		help string
	}{
		{&catalog.Error{Kind: catalog.ErrMalformedStatement, Message: "statement `SELECT 1...` must have a name"}, "add a `-- name: <name>` comment before the statement"},
		{&catalog.Error{Kind: catalog.ErrMalformedStatement, Message: "input is not valid UTF-8"}, ""},
		{&catalog.Error{Kind: catalog.ErrMalformedVariant, Message: "bad"}, "end the name with a single selector such as ? or !"},
		{&catalog.Error{Kind: catalog.ErrIO, Path: "x.sql", Err: errors.New("permission denied")}, ""},
	}
	for _, tt := range tests {
		d, ok := FromError(tt.err)
		if !ok {
			t.Fatalf("FromError(%v) = false", tt.err)
		}
		if d.Help != tt.help {
			t.Errorf("help for %v = %q, want %q", tt.err, d.Help, tt.help)
		}
		if d.Message == "" {
			t.Errorf("empty message for %v", tt.err)
		}
	}

	if _, ok := FromError(errors.New("plain")); ok {
		t.Fatal("FromError accepted a plain error")
	}
}

func TestWithContextBounds(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Line: 1}.WithContext("only\n", 3)
	if diff := cmp.Diff([]string{"only"}, d.Context); diff != "" || d.ContextStart != 1 {
		t.Fatalf("context = %v from %d", d.Context, d.ContextStart)
	}
	if d := (Diagnostic{Line: 9}).WithContext("a\nb\n", 1); d.Context != nil {
		t.Fatalf("context past the end = %v", d.Context)
	}
	if d := (Diagnostic{}).WithContext("a\n", 1); d.Context != nil {
		t.Fatal("context attached without a line")
	}
}

func TestFormatterColorize(t *testing.T) {
	t.Parallel()

	got := Formatter{Colorize: true}.Format(Diagnostic{Severity: SeverityWarning, Path: "sqlinclude.toml", Message: "unknown keys"})
	want := colorCyan + "sqlinclude.toml" + colorReset + ": " + colorYellow + "warning" + colorReset + ": unknown keys\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}
