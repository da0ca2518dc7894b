// Package cache provides a generic thread-safe LRU cache with load-through
// lookups.
package cache

import (
	"sync"
	"sync/atomic"
)

// entry is a doubly-linked list node holding a key-value pair.
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// LRU is a count-bounded least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // Most recently used.
	tail       *entry[K, V] // Least recently used.
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats holds cache counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Entries    int
	MaxEntries int
}

// HitRate returns hits as a fraction of lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// NewLRU creates a cache holding at most maxEntries values. Values below one
// are raised to one.
func NewLRU[K comparable, V any](maxEntries int) *LRU[K, V] {
	return &LRU[K, V]{
		entries:    make(map[K]*entry[K, V]),
		maxEntries: max(maxEntries, 1),
	}
}

// Get returns the cached value of key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		var zero V

		return zero, false
	}

	c.hits.Add(1)
	c.moveToFront(ent)

	return ent.value, true
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.putLocked(key, value)
}

// GetOrLoad returns the cached value of key, or calls load and caches its
// result. Errors are returned and not cached. Concurrent misses on the same
// key may each call load; the last result wins.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		var zero V

		return zero, err
	}

	c.Put(key, value)

	return value, nil
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns the current counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Entries:    len(c.entries),
		MaxEntries: c.maxEntries,
	}
}

func (c *LRU[K, V]) putLocked(key K, value V) {
	if ent, ok := c.entries[key]; ok {
		ent.value = value
		c.moveToFront(ent)

		return
	}

	for len(c.entries) >= c.maxEntries && c.tail != nil {
		victim := c.tail
		c.unlink(victim)
		delete(c.entries, victim.key)
	}

	ent := &entry[K, V]{key: key, value: value}
	c.entries[key] = ent
	c.pushFront(ent)
}

func (c *LRU[K, V]) moveToFront(ent *entry[K, V]) {
	if ent == c.head {
		return
	}

	c.unlink(ent)
	c.pushFront(ent)
}

func (c *LRU[K, V]) pushFront(ent *entry[K, V]) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

func (c *LRU[K, V]) unlink(ent *entry[K, V]) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev, ent.next = nil, nil
}
