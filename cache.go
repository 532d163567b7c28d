package rescache

// Stats carries hit/miss/memory counters. Both cache strategies track them
// identically so callers can stay strategy-agnostic.
type Stats struct {
	Count      int
	Hits       uint64
	Misses     uint64
	TotalBytes int64
}

// HitRate returns hits/(hits+misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is the strategy-agnostic contract shared by Bounded and WeakRef.
// Values are held behind pointers; a nil return from Get means miss.
//
// Neither strategy locks internally. Call sites are single-threaded by
// engine convention; the resource managers add their own exclusion where
// they need it.
type Cache[K comparable, V any] interface {
	// Get returns the cached value for key, or (nil, false) on miss.
	Get(key K) (*V, bool)
	// Peek is Get without side effects: no hit/miss accounting and no
	// recency update. For internal double-checks that must not skew Stats.
	Peek(key K) (*V, bool)
	// Put inserts or replaces the value under key. sizeBytes is the
	// caller's estimate of the resource footprint.
	Put(key K, value *V, sizeBytes int64)
	// Remove drops one entry, reporting whether it was present.
	Remove(key K) bool
	// Clear drops every entry and resets byte accounting. Hit/miss
	// counters survive so rates stay meaningful across level loads.
	Clear()
	// Count reports the number of entries currently indexed (for WeakRef
	// this includes entries not yet observed dead).
	Count() int
	// MemoryUsage reports the summed sizeBytes of indexed entries.
	MemoryUsage() int64
	// PurgeExpired drops entries whose values are gone and returns how
	// many were removed. A no-op returning 0 for Bounded.
	PurgeExpired() int
	// Stats snapshots the counters.
	Stats() Stats
}
