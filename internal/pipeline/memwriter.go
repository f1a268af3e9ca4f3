package pipeline

import (
	"maps"
	"slices"
	"sync"
)

// MemoryWriter is a Writer that keeps files in memory.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
	// Err, when set, is returned by every WriteFile call.
	Err error
}

// WriteFile stores a copy of data.
func (m *MemoryWriter) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// File returns the content written to path.
func (m *MemoryWriter) File(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// Paths returns the written paths in order.
func (m *MemoryWriter) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.files))
}

var _ Writer = (*MemoryWriter)(nil)
