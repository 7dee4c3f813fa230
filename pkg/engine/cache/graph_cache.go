package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/metrics"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const graphFlightKey = "graph"

// GraphLoader builds a fresh graph snapshot from the road network source.
type GraphLoader interface {
	LoadGraph(ctx context.Context) (*da.Graph, error)
}

type GraphCacheStats struct {
	Hits            int64         `json:"hits"`
	Misses          int64         `json:"misses"`
	HitRate         float64       `json:"hit_rate"` // percent
	LastRefresh     time.Time     `json:"last_refresh"`
	TTL             time.Duration `json:"ttl"`
	RefreshFailures int64         `json:"refresh_failures"`
	Stale           bool          `json:"stale"` // snapshot is past ttl or invalidated and not yet rebuilt
	Vertices        int           `json:"vertices"`
	Edges           int           `json:"edges"`
}

// GraphCache holds the current graph snapshot and rebuilds it once it is older than ttl.
// concurrent misses share a single rebuild, which runs outside the lock.
type GraphCache struct {
	mu        sync.RWMutex
	graph     *da.Graph
	fetchedAt time.Time
	stale     bool
	// bumped by Invalidate. a rebuild that started under an older generation never marks the snapshot fresh.
	generation uint64

	loader       GraphLoader
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64

	log *zap.Logger
	now func() time.Time
}

func NewGraphCache(loader GraphLoader, ttl, fetchTimeout time.Duration, log *zap.Logger) *GraphCache {
	return &GraphCache{
		loader:       loader,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		log:          log,
		now:          time.Now,
	}
}

// GetGraph returns the cached snapshot while it is younger than ttl, otherwise rebuilds it.
// a failed rebuild always returns an ErrSourceFetch coded error. if a previous snapshot exists it is
// returned alongside the error, so the caller decides whether to serve stale data.
func (gc *GraphCache) GetGraph(ctx context.Context) (*da.Graph, error) {
	if g, ok := gc.fresh(); ok {
		gc.hits.Add(1)
		metrics.CacheHits.WithLabelValues(metrics.CACHE_GRAPH).Inc()
		return g, nil
	}
	gc.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(metrics.CACHE_GRAPH).Inc()
	return gc.rebuild(ctx, false)
}

// Refresh rebuilds the snapshot now regardless of its age.
func (gc *GraphCache) Refresh(ctx context.Context) (*da.Graph, error) {
	return gc.rebuild(ctx, true)
}

// Invalidate makes the next GetGraph rebuild the snapshot, even when a rebuild is already in flight.
func (gc *GraphCache) Invalidate() {
	gc.mu.Lock()
	gc.stale = true
	gc.generation++
	gc.mu.Unlock()
	// callers arriving from now on start a new flight instead of joining one that read old data
	gc.group.Forget(graphFlightKey)
}

// Generation changes every time the snapshot is invalidated.
func (gc *GraphCache) Generation() uint64 {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.generation
}

// Peek returns the current snapshot without checking its age, nil before the first successful build.
func (gc *GraphCache) Peek() *da.Graph {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.graph
}

func (gc *GraphCache) fresh() (*da.Graph, bool) {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	if gc.graph == nil || gc.stale || gc.now().Sub(gc.fetchedAt) >= gc.ttl {
		return nil, false
	}
	return gc.graph, true
}

func (gc *GraphCache) rebuild(ctx context.Context, force bool) (*da.Graph, error) {
	resChan := gc.group.DoChan(graphFlightKey, func() (interface{}, error) {
		if !force {
			// another flight may have finished between our check and this one
			if g, ok := gc.fresh(); ok {
				return g, nil
			}
		}

		// the shared rebuild must not be cancelled by the caller that happened to start it
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gc.fetchTimeout)
		defer cancel()

		gc.mu.RLock()
		generation := gc.generation
		gc.mu.RUnlock()

		start := gc.now()
		g, err := gc.loader.LoadGraph(fetchCtx)
		if err != nil {
			gc.failures.Add(1)
			metrics.GraphRebuildFailures.Inc()
			gc.log.Error("road graph rebuild failed, keeping previous snapshot", zap.Error(err))
			return nil, util.WrapErrorf(err, util.ErrSourceFetch, "graph rebuild failed")
		}
		metrics.GraphRebuildDuration.Observe(gc.now().Sub(start).Seconds())

		gc.mu.Lock()
		current := gc.generation == generation
		switch {
		case current:
			gc.graph = g
			gc.fetchedAt = gc.now()
			gc.stale = false
		case gc.graph == nil:
			// better than nothing, but the next GetGraph rebuilds again
			gc.graph = g
			gc.fetchedAt = gc.now()
		}
		gc.mu.Unlock()

		if !current {
			gc.log.Info("road graph invalidated during rebuild, snapshot stays stale",
				zap.Uint64("generation", generation))
			return g, nil
		}
		gc.log.Info("road graph rebuilt", zap.Int("vertices", g.NumberOfVertices()),
			zap.Int("edges", g.NumberOfEdges()))
		return g, nil
	})

	select {
	case res := <-resChan:
		if res.Err != nil {
			return gc.Peek(), res.Err
		}
		return res.Val.(*da.Graph), nil
	case <-ctx.Done():
		return gc.Peek(), util.WrapErrorf(ctx.Err(), util.ErrSourceFetch, "waiting for graph rebuild")
	}
}

func (gc *GraphCache) GetTTL() time.Duration {
	return gc.ttl
}

func (gc *GraphCache) Stats() GraphCacheStats {
	hits, misses := gc.hits.Load(), gc.misses.Load()
	stats := GraphCacheStats{
		Hits:            hits,
		Misses:          misses,
		HitRate:         hitRate(hits, misses),
		TTL:             gc.ttl,
		RefreshFailures: gc.failures.Load(),
	}

	gc.mu.RLock()
	defer gc.mu.RUnlock()
	stats.LastRefresh = gc.fetchedAt
	if gc.graph != nil {
		stats.Vertices = gc.graph.NumberOfVertices()
		stats.Edges = gc.graph.NumberOfEdges()
		stats.Stale = gc.stale || gc.now().Sub(gc.fetchedAt) >= gc.ttl
	}
	return stats
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
