package storage

import (
	"fmt"
	"testing"
)

func TestBoundedCacheEviction(t *testing.T) {
	// Inserting one entry over capacity evicts exactly the first-inserted one
	cache := NewBoundedCache[string, int](1000)

	for i := 0; i < 1001; i++ {
		cache.Set(fmt.Sprintf("tile-%d", i), i)
	}

	if cache.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", cache.Len())
	}

	if _, ok := cache.Get("tile-0"); ok {
		t.Error("first-inserted entry should have been evicted")
	}
	if _, ok := cache.Get("tile-1"); !ok {
		t.Error("second-inserted entry should still be present")
	}
	if _, ok := cache.Get("tile-1000"); !ok {
		t.Error("newest entry should be present")
	}
}

func TestBoundedCacheOverwrite(t *testing.T) {
	cache := NewBoundedCache[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 10) // overwrite keeps insertion position
	cache.Set("c", 3)  // evicts "a", the oldest-inserted

	if _, ok := cache.Get("a"); ok {
		t.Error("overwriting must not refresh insertion order")
	}
	if v, ok := cache.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v; want 2, true", v, ok)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestBoundedCacheMinCapacity(t *testing.T) {
	cache := NewBoundedCache[int, int](0)

	cache.Set(1, 1)
	cache.Set(2, 2)

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
