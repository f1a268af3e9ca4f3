// Package pipeline runs a parse: configuration, document loading, encoding
// and output.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/cache"
	"github.com/electwix/sqlinclude/internal/config"
	"github.com/electwix/sqlinclude/internal/export"
	"github.com/electwix/sqlinclude/internal/fileset"
	"github.com/electwix/sqlinclude/internal/loader"
	"github.com/electwix/sqlinclude/internal/logging"
	"github.com/electwix/sqlinclude/internal/render"
)

// StdoutPath is the output override that selects standard output.
const StdoutPath = "-"

// Environment captures the external dependencies of a run.
type Environment struct {
	// FSResolver builds the resolver for a base directory. It defaults to
	// fileset.NewOSResolver.
	FSResolver func(base string) (fileset.PathResolver, error)
	// FS is read instead of the OS file system when set. It pairs with a
	// resolver that reports FS paths, such as fileset.MemoryResolver.
	FS     fs.FS
	Logger logging.Logger
	Writer Writer
	// Stdout receives the encoded catalog when no output file is set.
	Stdout io.Writer
	Hooks  Hooks
	// Cache, when set, is shared by the runs of the pipeline so that
	// unchanged documents are parsed once.
	Cache *cache.Memory[*catalog.File]
}

// Writer writes the encoded catalog to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Pipeline runs parses within an Environment.
type Pipeline struct {
	Env Environment
}

// RunOptions configures a run. Non-empty fields override the
// configuration file.
type RunOptions struct {
	ConfigPath string
	// Paths are documents or patterns that replace the configured queries.
	// No configuration file is read when they are set.
	Paths          []string
	OutOverride    string
	Format         string
	Style          string
	DefaultVariant string
	DryRun         bool
	List           bool
	StrictConfig   bool
}

// Summary describes a finished run.
type Summary struct {
	Files      []*catalog.File
	Statements int
	// Output is the file written, empty for standard output.
	Output string
	// Content is the encoded catalog; nil for list runs.
	Content  []byte
	Warnings []string
}

// WriteError wraps failures encountered while writing the output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that replaces files atomically and leaves
// unchanged files untouched.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	if same, err := fileMatches(path, data); err != nil {
		return err
	} else if same {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sqlinclude-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

func fileMatches(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}

// Run executes the pipeline. Configuration problems and parse errors are
// returned as is; parse errors are *catalog.Error values. Output failures
// are *WriteError values.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (summary Summary, err error) {
	logger := p.Env.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	hooks := p.Env.Hooks
	if hooks.AfterWrite != nil {
		defer func() {
			if hookErr := hooks.AfterWrite(ctx, summary); hookErr != nil && err == nil {
				err = hookErr
			}
		}()
	}

	plan, baseDir, warnings, err := p.plan(opts)
	if err != nil {
		return summary, err
	}
	for _, w := range warnings {
		logger.Warn("configuration", "warning", w)
	}
	summary.Warnings = warnings

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if hooks.BeforeParse != nil {
		if err := hooks.BeforeParse(ctx, plan.Queries); err != nil {
			return summary, err
		}
	}

	ld := loader.Loader{FS: p.Env.FS, DefaultVariant: plan.DefaultVariant, Cache: p.Env.Cache}
	files, err := ld.ParseAll(ctx, plan.Queries, plan.Concurrency)
	if err != nil {
		return summary, err
	}
	for _, f := range files {
		logger.Debug("parsed document", "path", f.Path, "statements", len(f.Statements))
		summary.Statements += len(f.Statements)
	}
	summary.Files = files

	if hooks.AfterParse != nil {
		if err := hooks.AfterParse(ctx, files); err != nil {
			return summary, err
		}
	}
	if opts.List {
		return summary, nil
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, files, export.Options{Format: plan.Format, Style: plan.Style}); err != nil {
		return summary, err
	}
	summary.Content = buf.Bytes()

	out := plan.Out
	if opts.OutOverride != "" {
		out = resolveOverride(baseDir, opts.OutOverride)
	}
	summary.Output = out
	logger.Info("catalog encoded",
		"files", len(files),
		"statements", summary.Statements,
		"format", string(plan.Format),
		"output", outputName(out),
	)

	if opts.DryRun {
		return summary, nil
	}
	if hooks.BeforeWrite != nil {
		if err := hooks.BeforeWrite(ctx, Output{Path: out, Content: summary.Content}); err != nil {
			return summary, err
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if out == "" {
		stdout := p.Env.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := stdout.Write(summary.Content); err != nil {
			return summary, &WriteError{Path: "stdout", Err: err}
		}
		return summary, nil
	}
	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	if err := writer.WriteFile(out, summary.Content); err != nil {
		return summary, &WriteError{Path: out, Err: err}
	}
	return summary, nil
}

// plan loads the configuration, or builds one from opts.Paths, and
// applies the option overrides. baseDir anchors relative output paths.
func (p *Pipeline) plan(opts RunOptions) (plan config.JobPlan, baseDir string, warnings []string, err error) {
	resolverFn := p.Env.FSResolver
	if resolverFn == nil {
		resolverFn = func(base string) (fileset.PathResolver, error) {
			return fileset.NewOSResolver(base)
		}
	}

	if len(opts.Paths) > 0 {
		baseDir = "."
		resolver, err := resolverFn(baseDir)
		if err != nil {
			return plan, baseDir, nil, fmt.Errorf("resolve filesystem: %w", err)
		}
		plan, err = config.Plan("command line", config.Config{Queries: opts.Paths}, resolver)
		if err != nil {
			return plan, baseDir, nil, err
		}
	} else {
		configPath := opts.ConfigPath
		if configPath == "" {
			configPath = config.DefaultFileName
		}
		absConfigPath, err := filepath.Abs(configPath)
		if err != nil {
			return plan, baseDir, nil, fmt.Errorf("resolve config path: %w", err)
		}
		baseDir = filepath.Dir(absConfigPath)
		resolver, err := resolverFn(baseDir)
		if err != nil {
			return plan, baseDir, nil, fmt.Errorf("resolve filesystem: %w", err)
		}
		res, err := config.Load(absConfigPath, config.LoadOptions{Strict: opts.StrictConfig, Resolver: resolver})
		if err != nil {
			return plan, baseDir, nil, err
		}
		plan, warnings = res.Plan, res.Warnings
	}

	if opts.Format != "" {
		if plan.Format, err = export.ParseFormat(opts.Format); err != nil {
			return plan, baseDir, warnings, err
		}
	}
	if opts.Style != "" {
		if plan.Style, err = render.ParseStyle(opts.Style); err != nil {
			return plan, baseDir, warnings, err
		}
	}
	if opts.DefaultVariant != "" {
		if !catalog.ValidVariant(opts.DefaultVariant) {
			return plan, baseDir, warnings, fmt.Errorf("default variant %q is not a single punctuation token", opts.DefaultVariant)
		}
		plan.DefaultVariant = opts.DefaultVariant
	}
	return plan, baseDir, warnings, nil
}

func resolveOverride(baseDir, override string) string {
	if override == StdoutPath {
		return ""
	}
	if !filepath.IsAbs(override) {
		override = filepath.Join(baseDir, override)
	}
	return filepath.Clean(override)
}

func outputName(out string) string {
	if out == "" {
		return "stdout"
	}
	return out
}
