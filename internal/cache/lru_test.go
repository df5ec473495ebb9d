package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Fatalf("overwrite failed, got %d", v)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d, want 1", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache[string](4, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if got := c.CleanExpired(); got != 0 {
		// Get already removed it lazily.
		t.Fatalf("CleanExpired = %d, want 0", got)
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts a, the least recently used
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("b should survive")
	}
}

func TestLRUPurge(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if n := c.Purge(); n != 2 {
		t.Fatalf("Purge = %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Fatalf("Size after purge = %d, want 0", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("purged entry must miss")
	}

	// Cache stays usable after a purge.
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("Set after purge failed")
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted entry must miss")
	}
	c.Delete("never-existed") // no-op
}
