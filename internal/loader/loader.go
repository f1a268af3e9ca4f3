// Package loader reads annotated SQL documents and parses them into
// catalog files.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/electwix/sqlinclude/catalog"
	"github.com/electwix/sqlinclude/internal/cache"
	"github.com/electwix/sqlinclude/internal/query"
)

// Loader parses documents from a file system.
type Loader struct {
	// FS is read instead of the OS file system when set. Paths are then
	// fs.FS paths.
	FS fs.FS
	// DefaultVariant replaces catalog.DefaultVariant when set.
	DefaultVariant string
	// Cache, when set, reuses the result of an earlier parse of the same
	// content under the same path and options. Callers get their own copy
	// of a cached file.
	Cache *cache.Memory[*catalog.File]
}

// BaseName derives a document name from its path: the file stem with
// dashes replaced by underscores.
func BaseName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, "-", "_")
}

// ReadFile returns the raw content of path. Failures are returned as
// catalog.ErrIO errors wrapping the underlying error.
func (l Loader) ReadFile(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if l.FS != nil {
		data, err = fs.ReadFile(l.FS, path)
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return nil, &catalog.Error{Kind: catalog.ErrIO, Path: path, Err: err}
	}
	return data, nil
}

// Load reads and parses a single document named after its path.
func (l Loader) Load(path string) (*catalog.File, error) {
	return l.LoadNamed(path, BaseName(path))
}

// LoadNamed is Load with an explicit document name.
func (l Loader) LoadNamed(path, name string) (*catalog.File, error) {
	data, err := l.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var key string
	if l.Cache != nil {
		key = cache.ComputeKey(path+"\x00"+name+"\x00"+l.DefaultVariant, data)
		if f, ok := l.Cache.Get(key); ok {
			return f.Clone(), nil
		}
	}
	f, err := query.ParseBytes(data, query.Options{
		Path:           path,
		Name:           name,
		DefaultVariant: l.DefaultVariant,
	})
	if err != nil {
		return nil, err
	}
	if l.Cache != nil {
		l.Cache.Set(key, f.Clone())
	}
	return f, nil
}

// ParseAll loads the documents concurrently, at most limit at a time when
// limit is positive. Results keep the order of paths. The first failure
// cancels the documents that have not started yet and is returned alone.
func (l Loader) ParseAll(ctx context.Context, paths []string, limit int) ([]*catalog.File, error) {
	files := make([]*catalog.File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := l.Load(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
