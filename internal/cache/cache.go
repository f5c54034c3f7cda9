package cache

import "sync"

// Cache is a fixed-capacity LRU cache. Adding an entry to a full cache
// drops the least recently used one and hands it to the eviction callback.
//
// Cache is safe for concurrent use. The callback runs with the cache
// locked and must not call back into it.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	index    map[K]*entry[K, V]
	order    list[K, V]
	capacity int
	onEvict  func(K, V)

	hits, misses uint64
}

// New returns a cache holding at most capacity entries. A capacity of
// zero or less disables caching: Put drops every value immediately.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		index:    make(map[K]*entry[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value stored under key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.index[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(e)
	return e.value, true
}

// Put stores value under key, replacing and evicting any previous value.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		c.evict(key, value)
		return
	}
	if e, ok := c.index[key]; ok {
		old := e.value
		e.value = value
		c.order.moveToFront(e)
		c.evict(key, old)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.index[key] = e
	c.order.pushFront(e)
	for c.order.len > c.capacity {
		old := c.order.popBack()
		delete(c.index, old.key)
		c.evict(old.key, old.value)
	}
}

// Remove drops every entry whose key matches. It returns the number of
// entries removed.
func (c *Cache[K, V]) Remove(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.index {
		if match(k) {
			c.order.remove(e)
			delete(c.index, k)
			c.evict(k, e.value)
			n++
		}
	}
	return n
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.index {
		c.evict(k, e.value)
	}
	clear(c.index)
	c.order.clear()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len
}

// Stats reports lookup counts since the cache was created.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache[K, V]) evict(k K, v V) {
	if c.onEvict != nil {
		c.onEvict(k, v)
	}
}
