package cache

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/dynroute/pkg/metrics"
)

type PathCacheKey struct {
	Origin       string
	Destination  string
	VehicleClass string
}

func NewPathCacheKey(origin, destination, vehicleClass string) PathCacheKey {
	return PathCacheKey{Origin: origin, Destination: destination, VehicleClass: vehicleClass}
}

type pathCacheEntry[V any] struct {
	value    V
	cachedAt time.Time
}

type PathCacheStats struct {
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	HitRate  float64       `json:"hit_rate"` // percent
	Size     int           `json:"size"`
	Capacity int           `json:"capacity"`
	TTL      time.Duration `json:"ttl"`
}

// PathCache stores planned routes for ttl. at capacity the oldest inserted entry is evicted.
// values are copied with clone on the way in and on the way out.
type PathCache[V any] struct {
	mu       sync.Mutex
	entries  *lru.Cache[PathCacheKey, pathCacheEntry[V]] // only Peek is used, so lru order is insertion order
	capacity int
	ttl      time.Duration
	clone    func(V) V
	// bumped by Purge, see PutAtGeneration
	generation uint64

	hits   atomic.Int64
	misses atomic.Int64

	now func() time.Time
}

func NewPathCache[V any](capacity int, ttl time.Duration, clone func(V) V) (*PathCache[V], error) {
	entries, err := lru.New[PathCacheKey, pathCacheEntry[V]](capacity)
	if err != nil {
		return nil, err
	}
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &PathCache[V]{
		entries:  entries,
		capacity: capacity,
		ttl:      ttl,
		clone:    clone,
		now:      time.Now,
	}, nil
}

// Get returns a copy of the value stored for key if it is younger than ttl. expired entries are removed.
func (pc *PathCache[V]) Get(key PathCacheKey) (V, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	var zero V
	entry, ok := pc.entries.Peek(key)
	if !ok {
		pc.miss()
		return zero, false
	}
	if pc.now().Sub(entry.cachedAt) >= pc.ttl {
		pc.entries.Remove(key)
		metrics.CacheEvictions.WithLabelValues(metrics.CACHE_PATH, "expired").Inc()
		pc.miss()
		return zero, false
	}

	pc.hits.Add(1)
	metrics.CacheHits.WithLabelValues(metrics.CACHE_PATH).Inc()
	return pc.clone(entry.value), true
}

func (pc *PathCache[V]) miss() {
	pc.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(metrics.CACHE_PATH).Inc()
}

// Put stores a copy of value. storing an existing key refreshes its insertion time.
func (pc *PathCache[V]) Put(key PathCacheKey, value V) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.put(key, value)
}

// PutAtGeneration stores value only if the cache has not been purged since generation was read.
// it reports whether value was stored.
func (pc *PathCache[V]) PutAtGeneration(key PathCacheKey, value V, generation uint64) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if generation != pc.generation {
		return false
	}
	pc.put(key, value)
	return true
}

func (pc *PathCache[V]) Generation() uint64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.generation
}

func (pc *PathCache[V]) put(key PathCacheKey, value V) {
	if !pc.entries.Contains(key) && pc.entries.Len() >= pc.capacity {
		pc.entries.RemoveOldest()
		metrics.CacheEvictions.WithLabelValues(metrics.CACHE_PATH, "capacity").Inc()
	}
	if pc.entries.Contains(key) {
		// re-insert so the entry moves to the newest position
		pc.entries.Remove(key)
	}
	pc.entries.Add(key, pathCacheEntry[V]{value: pc.clone(value), cachedAt: pc.now()})
}

// PurgeExpired drops every entry older than ttl and returns how many were dropped.
func (pc *PathCache[V]) PurgeExpired() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	removed := 0
	for _, key := range pc.entries.Keys() {
		entry, ok := pc.entries.Peek(key)
		if ok && pc.now().Sub(entry.cachedAt) >= pc.ttl {
			pc.entries.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(metrics.CACHE_PATH, "expired").Add(float64(removed))
	}
	return removed
}

func (pc *PathCache[V]) Purge() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries.Purge()
	pc.generation++
}

func (pc *PathCache[V]) Len() int {
	return pc.entries.Len()
}

func (pc *PathCache[V]) Stats() PathCacheStats {
	hits, misses := pc.hits.Load(), pc.misses.Load()
	return PathCacheStats{
		Hits:     hits,
		Misses:   misses,
		HitRate:  hitRate(hits, misses),
		Size:     pc.entries.Len(),
		Capacity: pc.capacity,
		TTL:      pc.ttl,
	}
}
