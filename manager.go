package rescache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/driftworks/rescache/provider"
	"github.com/driftworks/rescache/vfs"
)

// defaultBudget is the bounded-cache budget used when Options.Cache is nil.
const defaultBudget = 256 << 20

// Options configures the shared loading pipeline of a resource manager.
// Only Mounts is required.
type Options[V any] struct {
	// Required
	Mounts *vfs.MountTable

	Cache  Cache[Key, V] // nil => Bounded with defaultBudget
	Logger Logger        // nil => NopLogger

	// RawBytes, when set, caches raw file contents below the resource
	// cache so loading another variant of the same file skips the backend
	// read. Keyed by normalized logical path.
	RawBytes    provider.Provider
	RawBytesTTL time.Duration // 0 => no expiry (provider permitting)

	// AsyncReads routes miss reads through the async scheduler instead of
	// the synchronous path. The pipeline still blocks for the result.
	AsyncReads bool
}

// loader is the pipeline both managers share: key -> cache -> single-flight
// miss handling -> cache insert. A small mutex serializes cache access so
// the single-flight guarantee holds even for hosts that call a manager from
// several goroutines; single-threaded hosts pay one uncontended lock.
type loader[V any] struct {
	mounts *vfs.MountTable
	cache  Cache[Key, V]
	log    Logger

	raw     provider.Provider
	rawTTL  time.Duration
	asyncIO bool

	group singleflight.Group

	mu      sync.Mutex
	byPath  map[string]map[Key]struct{} // normalized logical path -> variant keys
	lastErr *vfs.Error
}

func newLoader[V any](opts Options[V]) (*loader[V], *vfs.Error) {
	if opts.Mounts == nil {
		return nil, vfs.NewError(vfs.CodeInvalidMount, "mount table is required")
	}
	l := &loader[V]{
		mounts:  opts.Mounts,
		cache:   opts.Cache,
		raw:     opts.RawBytes,
		rawTTL:  opts.RawBytesTTL,
		asyncIO: opts.AsyncReads,
		byPath:  make(map[string]map[Key]struct{}),
	}
	if l.cache == nil {
		l.cache = NewBounded[Key, V](defaultBudget)
	}
	l.log = coalesce[Logger](opts.Logger, NopLogger{})
	return l, nil
}

// load runs the pipeline for one request. build receives the file bytes and
// returns the constructed resource plus its approximate footprint. Failures
// short-circuit and never populate the cache.
func (l *loader[V]) load(key Key, path string, build func([]byte) (*V, int64, *vfs.Error)) (*V, *vfs.Error) {
	l.mu.Lock()
	v, ok := l.cache.Get(key)
	l.mu.Unlock()
	if ok {
		return v, nil
	}

	res, err, _ := l.group.Do(strconv.FormatUint(uint64(key), 16), func() (any, error) {
		// another flight may have inserted while we queued; Peek so the
		// original miss is not counted a second time
		l.mu.Lock()
		if v, ok := l.cache.Peek(key); ok {
			l.mu.Unlock()
			return v, nil
		}
		l.mu.Unlock()

		data, ferr := l.readBytes(path)
		if ferr != nil {
			return nil, ferr
		}
		built, size, ferr := build(data)
		if ferr != nil {
			return nil, ferr
		}

		norm, _ := vfs.Normalize(path)
		l.mu.Lock()
		l.cache.Put(key, built, size)
		// set semantics: a reload after eviction must not grow the index
		set := l.byPath[norm]
		if set == nil {
			set = make(map[Key]struct{})
			l.byPath[norm] = set
		}
		set[key] = struct{}{}
		l.mu.Unlock()
		return built, nil
	})
	if err != nil {
		ferr := err.(*vfs.Error)
		l.fail(path, ferr)
		return nil, ferr
	}
	return res.(*V), nil
}

// readBytes pulls file contents, consulting the optional raw-bytes cache
// first and seeding it after a backend read.
func (l *loader[V]) readBytes(path string) ([]byte, *vfs.Error) {
	var rawKey string
	if l.raw != nil {
		norm, err := vfs.Normalize(path)
		if err != nil {
			return nil, err
		}
		rawKey = "raw:" + norm
		if b, ok, _ := l.raw.Get(context.Background(), rawKey); ok {
			return b, nil
		}
	}

	var res vfs.ReadResult
	if l.asyncIO {
		res, _ = l.mounts.ReadFileAsync(path).Get()
	} else {
		res = l.mounts.ReadFile(path)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if l.raw != nil {
		_, _ = l.raw.Set(context.Background(), rawKey, res.Bytes, int64(len(res.Bytes)), l.rawTTL)
	}
	return res.Bytes, nil
}

func (l *loader[V]) fail(path string, err *vfs.Error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
	l.log.Warn("resource load failed", Fields{
		"path": path,
		"code": err.Code.String(),
		"err":  err.Error(),
	})
}

// LastError returns the most recent load failure, or nil. This is the error
// side channel for callers that treat a nil resource as "unavailable".
func (l *loader[V]) LastError() *vfs.Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// ClearCache drops every cached resource and the path index.
func (l *loader[V]) ClearCache() {
	l.mu.Lock()
	l.cache.Clear()
	l.byPath = make(map[string]map[Key]struct{})
	l.mu.Unlock()
}

// CacheStats snapshots the underlying cache counters.
func (l *loader[V]) CacheStats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Stats()
}

// PurgeExpired forwards to the cache strategy (meaningful for WeakRef).
func (l *loader[V]) PurgeExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.PurgeExpired()
}

// InvalidatePath drops every cached variant of a logical path plus its
// raw-bytes entry. Returns the number of variants removed. This is the hook
// a hot-reload watcher calls when a file changes on disk.
func (l *loader[V]) InvalidatePath(path string) int {
	norm, err := vfs.Normalize(path)
	if err != nil {
		return 0
	}
	l.mu.Lock()
	removed := 0
	for key := range l.byPath[norm] {
		if l.cache.Remove(key) {
			removed++
		}
	}
	delete(l.byPath, norm)
	l.mu.Unlock()
	if l.raw != nil {
		_ = l.raw.Del(context.Background(), "raw:"+norm)
	}
	return removed
}

// DrainChanges applies InvalidatePath to a batch of change events delivered
// by an external watcher and returns the total variants dropped.
func (l *loader[V]) DrainChanges(paths []string) int {
	total := 0
	for _, p := range paths {
		total += l.InvalidatePath(p)
	}
	return total
}
