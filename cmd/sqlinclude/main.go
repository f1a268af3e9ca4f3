// Package main implements the sqlinclude CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/cli"
	"github.com/electwix/sqlinclude/internal/diagnostics"
	"github.com/electwix/sqlinclude/internal/logging"
	"github.com/electwix/sqlinclude/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logFormat, err := logging.ParseFormat(opts.LogFormat)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}
	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Quiet:   !opts.Verbose,
		Format:  logFormat,
		Writer:  stderr,
	})

	pipe := pipeline.Pipeline{Env: pipeline.Environment{
		Logger: logging.NewSlogAdapter(logger),
		Writer: pipeline.NewOSWriter(),
		Stdout: stdout,
	}}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:     opts.ConfigPath,
		Paths:          opts.Paths,
		OutOverride:    opts.Out,
		Format:         opts.Format,
		Style:          opts.Style,
		DefaultVariant: opts.DefaultVariant,
		DryRun:         opts.DryRun,
		List:           opts.List,
		StrictConfig:   opts.StrictConfig,
	})
	if runErr != nil {
		report(stderr, runErr)
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return 2
		}
		return 1
	}

	switch {
	case opts.List:
		for _, f := range summary.Files {
			printStatements(stdout, f)
		}
	case opts.DryRun:
		for _, f := range summary.Files {
			_, _ = fmt.Fprintln(stdout, f.Path)
		}
	}
	return 0
}

// report prints err to w, with source context when it is a parse error.
func report(w io.Writer, err error) {
	d, ok := diagnostics.FromError(err)
	if !ok {
		_, _ = fmt.Fprintln(w, err.Error())
		return
	}
	if d.Path != "" && d.Line > 0 {
		if src, readErr := os.ReadFile(d.Path); readErr == nil {
			d = d.WithContext(string(src), 2)
		}
	}
	f := diagnostics.Formatter{Colorize: isTerminal(w)}
	_ = f.Write(w, d)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printStatements(w io.Writer, f *catalog.File) {
	for _, stmt := range f.Statements {
		_, _ = fmt.Fprintf(w, "%s %s %s\n", stmt.Name, stmt.Variant, formatParams(stmt))
	}
}

// formatParams lists the distinct placeholders of stmt; list placeholders
// are marked with #.
func formatParams(stmt catalog.Statement) string {
	binds := stmt.UniqueBinds()
	if len(binds) == 0 {
		return "params: none"
	}
	parts := make([]string, 0, len(binds))
	for _, b := range binds {
		segment := b.Value
		if b.Kind == catalog.ItemList {
			segment = "#" + segment
		}
		parts = append(parts, segment+":"+stmt.ParamType(b.Value))
	}
	return "params: " + strings.Join(parts, ", ")
}
