package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const librarySQL = `-- name: get_loaned_books?
-- param: user_id: &str - user ID
SELECT book_title FROM library WHERE loaned_to = :user_id ORDER BY 1;

-- name: loan_books!
-- param: user_id: &str - user ID
-- param: book_ids: usize - book IDs
UPDATE library SET loaned_to = :user_id WHERE book_id IN ( :book_ids );

-- name: count_books?
SELECT Count(*) FROM library;
`

func prepareProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "queries"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "queries", "library.sql"), []byte(librarySQL), 0o600); err != nil {
		t.Fatalf("write queries: %v", err)
	}
	configPath := filepath.Join(dir, "sqlinclude.toml")
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func TestRunList(t *testing.T) {
	t.Parallel()

	configPath := prepareProject(t, `queries = ["queries/*.sql"]`)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{"--config", configPath, "--list"}, stdout, stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", code, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", stderr.String())
	}
	want := "get_loaned_books ? params: user_id:&str\n" +
		"loan_books ! params: user_id:&str, #book_ids:usize\n" +
		"count_books ? params: none\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRunWritesOutput(t *testing.T) {
	t.Parallel()

	configPath := prepareProject(t, "queries = [\"queries\"]\nout = \"gen/catalog.yaml\"\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{"-c", configPath}, stdout, stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(configPath), "gen", "catalog.yaml"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "name: loan_books") {
		t.Fatalf("output missing statement:\n%s", data)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout output: %q", stdout.String())
	}
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()

	configPath := prepareProject(t, "queries = [\"queries\"]\nout = \"gen/catalog.yaml\"\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{"-c", configPath, "--dry-run"}, stdout, stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", code, stderr.String())
	}
	want := filepath.Join(filepath.Dir(configPath), "queries", "library.sql")
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(configPath), "gen")); !os.IsNotExist(err) {
		t.Fatalf("dry run created output: %v", err)
	}
}

func TestRunPathsToStdout(t *testing.T) {
	t.Parallel()

	configPath := prepareProject(t, "")
	doc := filepath.Join(filepath.Dir(configPath), "queries", "library.sql")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{"--format", "json", doc}, stdout, stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "[") || !strings.Contains(stdout.String(), `"name": "count_books"`) {
		t.Fatalf("stdout is not the json catalog:\n%s", stdout.String())
	}
}

func TestRunParseErrorExitCode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "bad.sql")
	if err := os.WriteFile(doc, []byte("-- name: ok?\nSELECT 1;\nSELECT 2;\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{doc}, stdout, stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "bad.sql:3: error: statement `SELECT 2...` must have a name") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "-> 3 | SELECT 2") {
		t.Fatalf("stderr is missing source context: %q", stderr.String())
	}
}

func TestRunWriteErrorExitCode(t *testing.T) {
	t.Parallel()

	configPath := prepareProject(t, "queries = [\"queries\"]\nout = \"blocked/catalog.yaml\"\n")
	// A regular file where the output directory should be.
	if err := os.WriteFile(filepath.Join(filepath.Dir(configPath), "blocked"), nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	if code := run(context.Background(), []string{"-c", configPath}, stdout, stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2; stderr=%q", code, stderr.String())
	}
}

func TestRunFlagErrors(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	if code := run(context.Background(), []string{"-h"}, stdout, stderr); code != 0 {
		t.Fatalf("help exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Usage of sqlinclude") {
		t.Fatalf("help output = %q", stdout.String())
	}
	if code := run(context.Background(), []string{"--nope"}, stdout, stderr); code != 1 {
		t.Fatalf("unknown flag exit code = %d, want 1", code)
	}
	if code := run(context.Background(), []string{"--log-format", "xml", "x.sql"}, stdout, stderr); code != 1 {
		t.Fatalf("bad log format exit code = %d, want 1", code)
	}
}
