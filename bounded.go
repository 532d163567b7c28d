package rescache

import (
	"container/list"
)

// Bounded is the strong-ownership strategy: entries stay alive as long as
// they are cached, total size is held under a byte budget, and overflow
// evicts the least-recently-used entries synchronously during Put.
type Bounded[K comparable, V any] struct {
	budget    int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List // front = most recently used

	hits   uint64
	misses uint64
}

type boundedEntry[K comparable, V any] struct {
	key   K
	value *V
	size  int64
}

var _ Cache[uint64, struct{}] = (*Bounded[uint64, struct{}])(nil)

// NewBounded creates an LRU cache that keeps MemoryUsage at or below
// budget bytes after every Put.
func NewBounded[K comparable, V any](budget int64) *Bounded[K, V] {
	return &Bounded[K, V]{
		budget:    budget,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Budget returns the configured byte budget.
func (c *Bounded[K, V]) Budget() int64 { return c.budget }

func (c *Bounded[K, V]) Get(key K) (*V, bool) {
	if el, ok := c.items[key]; ok {
		c.hits++
		c.evictList.MoveToFront(el)
		return el.Value.(*boundedEntry[K, V]).value, true
	}
	c.misses++
	return nil, false
}

// Peek looks up key without touching the hit/miss counters or the LRU
// order.
func (c *Bounded[K, V]) Peek(key K) (*V, bool) {
	if el, ok := c.items[key]; ok {
		return el.Value.(*boundedEntry[K, V]).value, true
	}
	return nil, false
}

func (c *Bounded[K, V]) Put(key K, value *V, sizeBytes int64) {
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*boundedEntry[K, V])
		c.size += sizeBytes - ent.size
		ent.value = value
		ent.size = sizeBytes
		c.evictList.MoveToFront(el)
		c.Evict()
		return
	}
	ent := &boundedEntry[K, V]{key: key, value: value, size: sizeBytes}
	c.items[key] = c.evictList.PushFront(ent)
	c.size += sizeBytes
	c.Evict()
}

// Evict removes entries, oldest first, until MemoryUsage is within budget.
// Put calls it automatically; it is exported for callers that shrink the
// budget or want to reclaim eagerly.
func (c *Bounded[K, V]) Evict() {
	for c.size > c.budget {
		el := c.evictList.Back()
		if el == nil {
			break
		}
		c.removeElement(el)
	}
}

// SetBudget changes the budget and immediately evicts down to it.
func (c *Bounded[K, V]) SetBudget(budget int64) {
	c.budget = budget
	c.Evict()
}

func (c *Bounded[K, V]) Remove(key K) bool {
	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}
	return ok
}

func (c *Bounded[K, V]) Clear() {
	c.items = make(map[K]*list.Element)
	c.evictList.Init()
	c.size = 0
}

func (c *Bounded[K, V]) Count() int         { return len(c.items) }
func (c *Bounded[K, V]) MemoryUsage() int64 { return c.size }

// PurgeExpired is a no-op: strong entries never expire on their own.
func (c *Bounded[K, V]) PurgeExpired() int { return 0 }

func (c *Bounded[K, V]) Stats() Stats {
	return Stats{
		Count:      len(c.items),
		Hits:       c.hits,
		Misses:     c.misses,
		TotalBytes: c.size,
	}
}

func (c *Bounded[K, V]) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	ent := el.Value.(*boundedEntry[K, V])
	delete(c.items, ent.key)
	c.size -= ent.size
}
