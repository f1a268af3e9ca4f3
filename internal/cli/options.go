// Package cli parses sqlinclude command line flags.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/electwix/sqlinclude/internal/config"
)

// Options are the parsed flags.
type Options struct {
	ConfigPath string
	// Out overrides the configured output file; "-" is standard output.
	Out    string
	Format string
	Style  string
	// DefaultVariant replaces the configured default variant.
	DefaultVariant string
	DryRun         bool
	List           bool
	StrictConfig   bool
	Verbose        bool
	LogFormat      string
	// Paths are documents given on the command line; they bypass the
	// configured query patterns.
	Paths []string
}

// Parse parses args, which exclude the program name. Flag errors,
// flag.ErrHelp included, are returned wrapped with the usage text.
func Parse(args []string) (Options, error) {
	opts := Options{ConfigPath: config.DefaultFileName}

	fs := flag.NewFlagSet("sqlinclude", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.Out, "out", "", "Override the output file; - writes to stdout")
	fs.StringVar(&opts.Format, "format", "", "Output format: yaml or json")
	fs.StringVar(&opts.Style, "style", "", "Render statements with positional markers: dollar, question, colon or at")
	fs.StringVar(&opts.DefaultVariant, "default-variant", "", "Variant of statements whose name has no selector")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Parse and encode without writing the output")
	fs.BoolVar(&opts.List, "list", false, "List parsed statements instead of encoding them")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")
	fs.StringVar(&opts.LogFormat, "log-format", "text", "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}

	opts.Paths = fs.Args()
	return opts, nil
}

// Usage renders the flag defaults of fs.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s: %s [flags] [file.sql ...]\n", fs.Name(), fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
