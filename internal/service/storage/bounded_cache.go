package storage

import "sync"

// BoundedCache - in-memory cache with a fixed capacity. When full, the entry
// inserted earliest is evicted first (insertion order, not recency of use).
// At most one entry exists per key; overwriting a key keeps its original
// insertion position.
type BoundedCache[K comparable, V any] struct {
	capacity int
	data     map[K]V
	order    []K
	mutex    sync.Mutex
}

// NewBoundedCache creates a cache holding at most capacity entries.
// Capacity below 1 is treated as 1.
func NewBoundedCache[K comparable, V any](capacity int) *BoundedCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedCache[K, V]{
		capacity: capacity,
		data:     make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
	}
}

// Get returns the entry for key, if present.
func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, exists := c.data[key]
	return value, exists
}

// Set inserts or overwrites the entry for key, evicting the oldest-inserted
// entry when the capacity is exceeded.
func (c *BoundedCache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; exists {
		c.data[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.data, oldest)
	}

	c.data[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *BoundedCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.data)
}
