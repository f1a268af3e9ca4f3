package cache

import (
	"sync"
	"testing"
	"time"
)

func TestComputeKey(t *testing.T) {
	t.Parallel()

	a := ComputeKey("q.sql", []byte("SELECT 1;"))
	if a != ComputeKey("q.sql", []byte("SELECT 1;")) {
		t.Fatal("key is not deterministic")
	}
	if len(a) != 32 {
		t.Fatalf("key length = %d, want 32", len(a))
	}
	for _, other := range []string{
		ComputeKey("q.sql", []byte("SELECT 2;")),
		ComputeKey("r.sql", []byte("SELECT 1;")),
		ComputeKey("q.sq", []byte("lSELECT 1;")),
	} {
		if other == a {
			t.Fatalf("distinct inputs share key %s", a)
		}
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()

	c := NewMemory[string](0)
	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("k", "v")
	if got, ok := c.Get("k"); !ok || got != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok || c.Len() != 0 {
		t.Fatal("Delete kept the entry")
	}
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory[int](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(30 * time.Second)
	c.Set("b", 2)
	now = now.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry returned")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("live entry = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 before cleanup", c.Len())
	}
	c.Cleanup()
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after cleanup", c.Len())
	}
}

func TestMemoryConcurrent(t *testing.T) {
	t.Parallel()

	c := NewMemory[int](0)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			key := ComputeKey("k", []byte{byte(i % 4)})
			c.Set(key, i)
			c.Get(key)
		})
	}
	wg.Wait()
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4", c.Len())
	}
}
