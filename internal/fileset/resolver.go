// Package fileset expands query path patterns into the documents to parse.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// SourceExt is the extension of documents picked up from a directory
// pattern.
const SourceExt = ".sql"

// PathResolver expands patterns into document paths.
type PathResolver interface {
	Resolve(patterns []string) ([]string, error)
}

// ErrNoPatterns indicates that Resolve was invoked without any pattern.
var ErrNoPatterns = errors.New("fileset: no patterns provided")

// PatternError wraps a malformed pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("invalid query pattern %q: %v", e.Pattern, e.Err)
}

func (e PatternError) Unwrap() error { return e.Err }

// NoMatchError lists the patterns that matched no document.
type NoMatchError struct {
	Patterns []string
}

func (e NoMatchError) Error() string {
	return "patterns matched no files: " + strings.Join(e.Patterns, ", ")
}

// Resolver expands patterns against an fs.FS. A pattern is a path, a
// directory (every SourceExt file below it), or a glob in which "**"
// matches any number of path segments.
type Resolver struct {
	fsys fs.FS
	// join maps an fs.FS match to the path handed back to callers.
	join func(name string) string
	// base is set for OS resolvers; patterns outside it are globbed
	// directly on the OS file system.
	base string
}

// NewResolver returns a Resolver that reports fs.FS paths as is.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{fsys: fsys}
}

// NewOSResolver returns a Resolver rooted at base that reports OS paths
// joined to base.
func NewOSResolver(base string) (Resolver, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("resolve base %q: %w", base, err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		return Resolver{}, fmt.Errorf("stat base %q: %w", absBase, err)
	}
	if !info.IsDir() {
		return Resolver{}, fmt.Errorf("base %q is not a directory", absBase)
	}
	return Resolver{
		fsys: os.DirFS(absBase),
		join: func(name string) string {
			return filepath.Join(absBase, filepath.FromSlash(name))
		},
		base: absBase,
	}, nil
}

// Resolve expands every pattern and returns the sorted, de-duplicated
// union. All patterns that match nothing are reported together.
func (r Resolver) Resolve(patterns []string) ([]string, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	var (
		found   []string
		missing []string
	)
	for _, pattern := range patterns {
		matches, err := r.expand(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			missing = append(missing, pattern)
			continue
		}
		found = append(found, matches...)
	}
	if len(missing) > 0 {
		return nil, NoMatchError{Patterns: missing}
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

func (r Resolver) expand(pattern string) ([]string, error) {
	name := filepath.ToSlash(pattern)
	if r.base != "" {
		rel, outside := r.relative(pattern)
		if outside {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, PatternError{Pattern: pattern, Err: err}
			}
			return matches, nil
		}
		name = rel
	}
	name = path.Clean(name)

	var (
		matches []string
		err     error
	)
	switch {
	case strings.Contains(name, "**"):
		matches, err = r.walkGlob(name)
	case isDir(r.fsys, name):
		matches, err = r.walkDir(name)
	default:
		matches, err = fs.Glob(r.fsys, name)
	}
	if err != nil {
		return nil, PatternError{Pattern: pattern, Err: err}
	}
	if r.join != nil {
		for i, m := range matches {
			matches[i] = r.join(m)
		}
	}
	return matches, nil
}

// relative converts an OS pattern to a path inside base.
func (r Resolver) relative(pattern string) (string, bool) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(r.base, pattern)
	}
	rel, err := filepath.Rel(r.base, pattern)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", true
	}
	return filepath.ToSlash(rel), false
}

func (r Resolver) walkDir(dir string) ([]string, error) {
	var out []string
	err := fs.WalkDir(r.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == SourceExt {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func (r Resolver) walkGlob(pattern string) ([]string, error) {
	segments := strings.Split(pattern, "/")
	for _, seg := range segments {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return nil, err
		}
	}
	root := "."
	// Walk from the longest literal prefix.
	for i, seg := range segments {
		if seg == "**" || strings.ContainsAny(seg, `*?[\`) {
			if i > 0 {
				root = path.Join(segments[:i]...)
			}
			break
		}
	}
	if !isDir(r.fsys, root) {
		return nil, nil
	}

	var out []string
	err := fs.WalkDir(r.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && matchSegments(segments, strings.Split(p, "/")) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// matchSegments matches path segments against pattern segments where "**"
// stands for zero or more segments.
func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}

func isDir(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}
