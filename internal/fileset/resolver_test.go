package fileset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"queries/books.sql":         &fstest.MapFile{Mode: fs.ModePerm},
		"queries/users.sql":         &fstest.MapFile{Mode: fs.ModePerm},
		"queries/legacy/loans.sql":  &fstest.MapFile{Mode: fs.ModePerm},
		"queries/legacy/README.md":  &fstest.MapFile{Mode: fs.ModePerm},
		"reports/monthly/sales.sql": &fstest.MapFile{Mode: fs.ModePerm},
		"top.sql":                   &fstest.MapFile{Mode: fs.ModePerm},
	}
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "glob",
			patterns: []string{"queries/*.sql"},
			want:     []string{"queries/books.sql", "queries/users.sql"},
		},
		{
			name:     "directory",
			patterns: []string{"queries"},
			want:     []string{"queries/books.sql", "queries/legacy/loans.sql", "queries/users.sql"},
		},
		{
			name:     "double star",
			patterns: []string{"**/*.sql"},
			want: []string{
				"queries/books.sql",
				"queries/legacy/loans.sql",
				"queries/users.sql",
				"reports/monthly/sales.sql",
				"top.sql",
			},
		},
		{
			name:     "double star under prefix",
			patterns: []string{"reports/**/sales.sql"},
			want:     []string{"reports/monthly/sales.sql"},
		},
		{
			name:     "overlapping patterns are merged",
			patterns: []string{"queries/users.sql", "queries/*.sql", "./top.sql"},
			want:     []string{"queries/books.sql", "queries/users.sql", "top.sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewResolver(testTree()).Resolve(tt.patterns)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolverNoMatches(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(testTree()).Resolve([]string{"queries/*.sql", "nope/*.sql", "missing.sql"})
	var noMatch NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}
	if diff := cmp.Diff([]string{"nope/*.sql", "missing.sql"}, noMatch.Patterns); diff != "" {
		t.Fatalf("missing patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverInvalidPattern(t *testing.T) {
	t.Parallel()

	for _, pattern := range []string{"[", "**/[.sql"} {
		_, err := NewResolver(testTree()).Resolve([]string{pattern})
		var patternErr PatternError
		if !errors.As(err, &patternErr) {
			t.Fatalf("Resolve(%q): expected PatternError, got %T: %v", pattern, err, err)
		}
		if patternErr.Pattern != pattern {
			t.Fatalf("pattern on error = %q, want %q", patternErr.Pattern, pattern)
		}
	}
}

func TestResolverNoPatterns(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(fstest.MapFS{}).Resolve(nil)
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("expected ErrNoPatterns, got %v", err)
	}
}

func TestOSResolver(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	outside := t.TempDir()
	for _, p := range []string{
		filepath.Join(base, "queries", "a.sql"),
		filepath.Join(base, "queries", "b.sql"),
		filepath.Join(outside, "c.sql"),
	} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	r, err := NewOSResolver(base)
	if err != nil {
		t.Fatalf("NewOSResolver: %v", err)
	}
	got, err := r.Resolve([]string{"queries", filepath.Join(outside, "*.sql")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		filepath.Join(base, "queries", "a.sql"),
		filepath.Join(base, "queries", "b.sql"),
		filepath.Join(outside, "c.sql"),
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestNewOSResolverRejectsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "x.sql")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewOSResolver(file); err == nil {
		t.Fatal("expected error for non-directory base")
	}
}
