// Package config loads and validates sqlinclude.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/export"
	"github.com/electwix/sqlinclude/internal/fileset"
	"github.com/electwix/sqlinclude/internal/render"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "sqlinclude.toml"

// RenderConfig is the [render] table.
type RenderConfig struct {
	Style string `toml:"style"`
}

// Config mirrors the TOML schema.
type Config struct {
	Queries        []string     `toml:"queries"`
	Out            string       `toml:"out"`
	Format         string       `toml:"format"`
	DefaultVariant string       `toml:"default_variant"`
	Concurrency    int          `toml:"concurrency"`
	Render         RenderConfig `toml:"render"`
}

// JobPlan is the validated configuration used by the pipeline.
type JobPlan struct {
	// Queries are the resolved document paths.
	Queries []string
	// Out is the output file, empty for standard output.
	Out            string
	Format         export.Format
	DefaultVariant string
	// Concurrency bounds parallel parses; 0 means unbounded.
	Concurrency int
	Style       render.Style
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// Strict turns unknown keys into errors.
	Strict bool
	// Resolver expands query patterns. It defaults to an OS resolver rooted
	// at the configuration directory.
	Resolver fileset.PathResolver
}

// Result is a loaded plan and the non-fatal problems found on the way.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

// Load reads, validates and resolves the configuration at path.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, unknown, err := decode(path, data)
	if err != nil {
		return res, err
	}
	if len(unknown) > 0 {
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknown, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	resolver := opts.Resolver
	if resolver == nil {
		osResolver, err := fileset.NewOSResolver(filepath.Dir(path))
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		resolver = osResolver
	}

	plan, err := Plan(path, cfg, resolver)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	return res, nil
}

// decode parses data and reports unknown keys as dotted paths.
func decode(path string, data []byte) (Config, []string, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err == nil {
		return cfg, nil, nil
	}

	var missing *toml.StrictMissingError
	if !errors.As(err, &missing) {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		return cfg, nil, fmt.Errorf("%s: %w", path, err)
	}

	unknown := make([]string, 0, len(missing.Errors))
	for _, e := range missing.Errors {
		unknown = append(unknown, strings.Join(e.Key(), "."))
	}
	slices.Sort(unknown)
	unknown = slices.Compact(unknown)

	cfg = Config{}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, unknown, nil
}

// Plan validates cfg, read from path, and resolves its query patterns.
func Plan(path string, cfg Config, resolver fileset.PathResolver) (JobPlan, error) {
	var plan JobPlan

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return plan, fmt.Errorf("%s: %w", path, err)
	}
	style, err := render.ParseStyle(cfg.Render.Style)
	if err != nil {
		return plan, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.DefaultVariant != "" && !catalog.ValidVariant(cfg.DefaultVariant) {
		return plan, fmt.Errorf("%s: default_variant %q is not a single punctuation token", path, cfg.DefaultVariant)
	}
	if cfg.Concurrency < 0 {
		return plan, fmt.Errorf("%s: concurrency must not be negative", path)
	}
	out, err := resolveOut(path, cfg.Out)
	if err != nil {
		return plan, err
	}
	queries, err := resolvePatterns(resolver, cfg.Queries)
	if err != nil {
		return plan, fmt.Errorf("%s: %w", path, err)
	}

	return JobPlan{
		Queries:        queries,
		Out:            out,
		Format:         format,
		DefaultVariant: cfg.DefaultVariant,
		Concurrency:    cfg.Concurrency,
		Style:          style,
	}, nil
}

func resolveOut(path, out string) (string, error) {
	if out == "" {
		return "", nil
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: out must be a relative path", path)
	}
	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: out must not traverse upwards", path)
	}
	return filepath.Join(filepath.Dir(path), cleaned), nil
}

func resolvePatterns(resolver fileset.PathResolver, patterns []string) ([]string, error) {
	paths, err := resolver.Resolve(patterns)
	if err == nil {
		return paths, nil
	}
	if errors.Is(err, fileset.ErrNoPatterns) {
		return nil, errors.New("queries must include at least one pattern")
	}
	var noMatch fileset.NoMatchError
	if errors.As(err, &noMatch) {
		return nil, fmt.Errorf("queries patterns matched no files: %s", strings.Join(noMatch.Patterns, ", "))
	}
	return nil, fmt.Errorf("queries: %w", err)
}
