package rescache

import (
	"weak"
)

// WeakRef is the non-owning strategy: the cache holds a weak observer per
// entry, so a value lives exactly as long as its external strong owners.
// Once the last owner releases it, the next Get for its key reports a miss
// and the dead entry is dropped. There is no memory-budget guarantee; this
// is a convenience cache over lifetimes the caller already manages.
type WeakRef[K comparable, V any] struct {
	items map[K]weakEntry[V]

	hits   uint64
	misses uint64
}

type weakEntry[V any] struct {
	ptr  weak.Pointer[V]
	size int64
}

var _ Cache[uint64, struct{}] = (*WeakRef[uint64, struct{}])(nil)

// NewWeakRef creates an empty weak-observer cache.
func NewWeakRef[K comparable, V any]() *WeakRef[K, V] {
	return &WeakRef[K, V]{items: make(map[K]weakEntry[V])}
}

func (c *WeakRef[K, V]) Get(key K) (*V, bool) {
	ent, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	v := ent.ptr.Value()
	if v == nil {
		// last strong owner is gone; drop the stale entry on access
		delete(c.items, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return v, true
}

// Peek looks up key without touching the hit/miss counters. A dead entry
// reports a miss but stays indexed until Get or PurgeExpired drops it.
func (c *WeakRef[K, V]) Peek(key K) (*V, bool) {
	ent, ok := c.items[key]
	if !ok {
		return nil, false
	}
	v := ent.ptr.Value()
	return v, v != nil
}

func (c *WeakRef[K, V]) Put(key K, value *V, sizeBytes int64) {
	c.items[key] = weakEntry[V]{ptr: weak.Make(value), size: sizeBytes}
}

func (c *WeakRef[K, V]) Remove(key K) bool {
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

func (c *WeakRef[K, V]) Clear() {
	c.items = make(map[K]weakEntry[V])
}

func (c *WeakRef[K, V]) Count() int { return len(c.items) }

// ValidCount reports only entries whose values are still alive.
func (c *WeakRef[K, V]) ValidCount() int {
	n := 0
	for _, ent := range c.items {
		if ent.ptr.Value() != nil {
			n++
		}
	}
	return n
}

// MemoryUsage sums the size hints of indexed entries, including entries not
// yet observed dead; call PurgeExpired first for a live-only figure.
func (c *WeakRef[K, V]) MemoryUsage() int64 {
	var total int64
	for _, ent := range c.items {
		total += ent.size
	}
	return total
}

// PurgeExpired sweeps the whole map, removes every dead entry, and returns
// the count removed.
func (c *WeakRef[K, V]) PurgeExpired() int {
	removed := 0
	for key, ent := range c.items {
		if ent.ptr.Value() == nil {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *WeakRef[K, V]) Stats() Stats {
	return Stats{
		Count:      len(c.items),
		Hits:       c.hits,
		Misses:     c.misses,
		TotalBytes: c.MemoryUsage(),
	}
}
