package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/sqlinclude/catalog"
)

func stmt(items ...catalog.Item) catalog.Statement {
	return catalog.Statement{Name: "q", Variant: "?", Items: items}
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	tests := map[string]Style{
		"":         StyleNone,
		"none":     StyleNone,
		"dollar":   StyleDollar,
		"$":        StyleDollar,
		"Question": StyleQuestion,
		" colon ":  StyleColon,
		"@":        StyleAt,
	}
	for in, want := range tests {
		got, err := ParseStyle(in)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseStyle("percent"); err == nil {
		t.Error("ParseStyle(percent) succeeded")
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := stmt(
		catalog.Text("SELECT * FROM t WHERE a = "),
		catalog.Bind("a"),
		catalog.Text(" AND b = "),
		catalog.Bind("b"),
		catalog.Text(" OR a2 = "),
		catalog.Bind("a"),
	)

	tests := []struct {
		style Style
		want  Rendered
	}{
		{
			style: StyleDollar,
			want: Rendered{
				SQL:  "SELECT * FROM t WHERE a = $1 AND b = $2 OR a2 = $1",
				Args: []Arg{{Name: "a", Index: -1}, {Name: "b", Index: -1}},
			},
		},
		{
			style: StyleColon,
			want: Rendered{
				SQL:  "SELECT * FROM t WHERE a = :1 AND b = :2 OR a2 = :1",
				Args: []Arg{{Name: "a", Index: -1}, {Name: "b", Index: -1}},
			},
		},
		{
			style: StyleAt,
			want: Rendered{
				SQL:  "SELECT * FROM t WHERE a = @p1 AND b = @p2 OR a2 = @p1",
				Args: []Arg{{Name: "a", Index: -1}, {Name: "b", Index: -1}},
			},
		},
		{
			style: StyleQuestion,
			want: Rendered{
				SQL:  "SELECT * FROM t WHERE a = ? AND b = ? OR a2 = ?",
				Args: []Arg{{Name: "a", Index: -1}, {Name: "b", Index: -1}, {Name: "a", Index: -1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			t.Parallel()

			got, err := Static(s, tt.style)
			if err != nil {
				t.Fatalf("Static: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Static mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStaticErrors(t *testing.T) {
	t.Parallel()

	withList := stmt(catalog.Text("SELECT 1 WHERE x IN ("), catalog.List("xs"), catalog.Text(")"))
	if _, err := Static(withList, StyleDollar); !errors.Is(err, ErrListItem) {
		t.Fatalf("Static(list) error = %v, want ErrListItem", err)
	}
	if _, err := Static(stmt(catalog.Text("SELECT 1")), StyleNone); !errors.Is(err, ErrNoStyle) {
		t.Fatalf("Static(none) error = %v, want ErrNoStyle", err)
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	s := stmt(
		catalog.Text("SELECT * FROM t WHERE k IN ( "),
		catalog.List("keys"),
		catalog.Text(" ) AND a = "),
		catalog.Bind("a"),
		catalog.Text(" OR k IN ( "),
		catalog.List("keys"),
		catalog.Text(" )"),
	)

	got, err := Expand(s, StyleDollar, map[string]int{"keys": 2})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := Rendered{
		SQL: "SELECT * FROM t WHERE k IN ( $1, $2 ) AND a = $3 OR k IN ( $4, $5 )",
		Args: []Arg{
			{Name: "keys", Index: 0},
			{Name: "keys", Index: 1},
			{Name: "a", Index: -1},
			{Name: "keys", Index: 0},
			{Name: "keys", Index: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Expand mismatch (-want +got):\n%s", diff)
	}

	empty, err := Expand(s, StyleQuestion, map[string]int{"keys": 0})
	if err != nil {
		t.Fatalf("Expand(empty): %v", err)
	}
	if want := "SELECT * FROM t WHERE k IN ( NULL ) AND a = ? OR k IN ( NULL )"; empty.SQL != want {
		t.Fatalf("Expand(empty).SQL = %q, want %q", empty.SQL, want)
	}
	if diff := cmp.Diff([]Arg{{Name: "a", Index: -1}}, empty.Args); diff != "" {
		t.Fatalf("Expand(empty).Args mismatch (-want +got):\n%s", diff)
	}

	if _, err := Expand(s, StyleDollar, nil); err == nil {
		t.Fatal("Expand without list length succeeded")
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	r := Rendered{Args: []Arg{{Name: "ids", Index: 1}, {Name: "user", Index: -1}, {Name: "ids", Index: 0}}}
	got, err := r.Values(map[string]any{"user": "ann"}, map[string][]any{"ids": {7, 9}})
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if diff := cmp.Diff([]any{9, "ann", 7}, got); diff != "" {
		t.Fatalf("Values mismatch (-want +got):\n%s", diff)
	}

	if _, err := r.Values(nil, map[string][]any{"ids": {7, 9}}); err == nil {
		t.Fatal("Values without scalar succeeded")
	}
	if _, err := r.Values(map[string]any{"user": "ann"}, map[string][]any{"ids": {7}}); err == nil {
		t.Fatal("Values with short list succeeded")
	}
}
