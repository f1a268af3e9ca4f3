// Package cache memoizes parsed documents by content.
//
// Keys are derived from the bytes that determine a parse, so an entry
// stays valid for as long as the document and parse options are the same:
//
//	c := cache.NewMemory[*catalog.File](time.Hour)
//	key := cache.ComputeKey("library.sql", data)
//	if f, ok := c.Get(key); ok {
//		return f
//	}
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// ComputeKey returns a key for content parsed under prefix, which should
// hold everything besides the content that affects the result.
func ComputeKey(prefix string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(prefix))
	h.Write([]byte{0})
	h.Write(content)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-memory cache safe for concurrent use. Entries expire
// after the TTL given to NewMemory; a zero TTL keeps them forever.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{items: make(map[string]entry[V]), ttl: ttl, now: time.Now}
}

func (m *Memory[V]) expired(e entry[V]) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

// Get returns the live value stored under key.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	if !ok || m.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry[V]{value: value}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.items[key] = e
}

func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len counts the stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Cleanup drops expired entries.
func (m *Memory[V]) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.items {
		if m.expired(e) {
			delete(m.items, key)
		}
	}
}
