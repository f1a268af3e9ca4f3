package fileset

import (
	"io/fs"
	"sync"
	"testing/fstest"
)

// MemoryResolver is an in-memory document tree. It resolves patterns like
// Resolver and serves the documents as an fs.FS, so a loader can read
// what it resolves.
type MemoryResolver struct {
	mu    sync.RWMutex
	files fstest.MapFS
}

// NewMemoryResolver returns a tree holding files, keyed by slash path.
func NewMemoryResolver(files map[string]string) *MemoryResolver {
	m := &MemoryResolver{files: make(fstest.MapFS, len(files))}
	for name, content := range files {
		m.files[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return m
}

// Resolve implements PathResolver.
func (m *MemoryResolver) Resolve(patterns []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewResolver(m.files).Resolve(patterns)
}

// Open implements fs.FS.
func (m *MemoryResolver) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files.Open(name)
}

// AddFile adds or replaces a document.
func (m *MemoryResolver) AddFile(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}

// RemoveFile deletes a document.
func (m *MemoryResolver) RemoveFile(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
}

// FileCount returns the number of documents.
func (m *MemoryResolver) FileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
