package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	calls   atomic.Int32
	fail    atomic.Bool
	release chan struct{}
	edges   int
}

func (fl *fakeLoader) LoadGraph(ctx context.Context) (*da.Graph, error) {
	fl.calls.Add(1)
	if fl.release != nil {
		<-fl.release
	}
	if fl.fail.Load() {
		return nil, errors.New("db down")
	}
	g := da.NewGraph()
	fl.edges++
	for i := 0; i < fl.edges; i++ {
		g.AddEdge("A", string(rune('B'+i)), 1, da.NewEdgeData("r", 1, 1, 60, 0))
	}
	return g, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	fc.now = fc.now.Add(d)
	fc.mu.Unlock()
}

func newTestGraphCache(loader GraphLoader, ttl time.Duration) (*GraphCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	gc := NewGraphCache(loader, ttl, time.Second, zap.NewNop())
	gc.now = clock.Now
	return gc, clock
}

func TestGraphCacheTTL(t *testing.T) {
	loader := &fakeLoader{}
	gc, clock := newTestGraphCache(loader, time.Minute)
	ctx := context.Background()

	assert.Nil(t, gc.Peek())

	g1, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	g2, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Same(t, g1, g2)
	assert.Equal(t, int32(1), loader.calls.Load())

	clock.Advance(59 * time.Second)
	_, err = gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), loader.calls.Load())

	clock.Advance(time.Second)
	g3, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.NotSame(t, g1, g3)
	assert.Equal(t, int32(2), loader.calls.Load())

	stats := gc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.InDelta(t, 50.0, stats.HitRate, 1e-9)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 3, stats.Vertices)
	assert.Equal(t, time.Minute, stats.TTL)
}

func TestGraphCacheInvalidate(t *testing.T) {
	loader := &fakeLoader{}
	gc, _ := newTestGraphCache(loader, time.Hour)
	ctx := context.Background()

	_, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	gc.Invalidate()
	// still served by Peek until the next rebuild
	assert.NotNil(t, gc.Peek())

	_, err = gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())

	_, err = gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestGraphCacheFailedRebuildKeepsSnapshot(t *testing.T) {
	loader := &fakeLoader{}
	gc, clock := newTestGraphCache(loader, time.Minute)
	ctx := context.Background()

	g1, err := gc.GetGraph(ctx)
	require.NoError(t, err)

	loader.fail.Store(true)
	_, err = gc.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, util.ErrSourceFetch, util.ErrorCode(err))
	assert.Same(t, g1, gc.Peek())

	// fresh snapshot still served after a failed refresh
	g2, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Same(t, g1, g2)

	// expired: the failure reaches the caller together with the previous snapshot
	clock.Advance(time.Minute)
	stale, err := gc.GetGraph(ctx)
	require.Error(t, err)
	assert.Equal(t, util.ErrSourceFetch, util.ErrorCode(err))
	assert.Same(t, g1, stale)
	assert.Same(t, g1, gc.Peek())
	stats := gc.Stats()
	assert.Equal(t, int64(2), stats.RefreshFailures)
	assert.True(t, stats.Stale)

	loader.fail.Store(false)
	g3, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.NotSame(t, g1, g3)
	assert.False(t, gc.Stats().Stale)
}

func TestGraphCacheFailedFirstBuildReturnsNoGraph(t *testing.T) {
	loader := &fakeLoader{}
	loader.fail.Store(true)
	gc, _ := newTestGraphCache(loader, time.Minute)

	g, err := gc.GetGraph(context.Background())
	require.Error(t, err)
	assert.Nil(t, g)
	assert.False(t, gc.Stats().Stale)
}

// versionLoader builds a single arc whose weight is the source version read when the load started.
type versionLoader struct {
	version atomic.Int32
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (vl *versionLoader) LoadGraph(ctx context.Context) (*da.Graph, error) {
	v := vl.version.Load()
	vl.calls.Add(1)
	select {
	case vl.started <- struct{}{}:
	default:
	}
	<-vl.release

	g := da.NewGraph()
	g.AddEdge("A", "B", float64(v), da.NewEdgeData("ab", float64(v), 1, 60, 0))
	return g, nil
}

func arcWeight(t *testing.T, g *da.Graph) float64 {
	t.Helper()
	require.NotNil(t, g)
	w, ok := g.GetEdgeWeight("A", "B")
	require.True(t, ok)
	return w
}

func TestGraphCacheInvalidateDuringRebuild(t *testing.T) {
	loader := &versionLoader{started: make(chan struct{}, 1), release: make(chan struct{})}
	loader.version.Store(1)
	gc, _ := newTestGraphCache(loader, time.Hour)
	ctx := context.Background()

	first := make(chan *da.Graph, 1)
	go func() {
		g, err := gc.GetGraph(ctx)
		assert.NoError(t, err)
		first <- g
	}()

	// the load has read version 1 and is still running
	<-loader.started
	loader.version.Store(2)
	gc.Invalidate()
	close(loader.release)

	assert.Equal(t, 1.0, arcWeight(t, <-first))

	g, err := gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, arcWeight(t, g))
	assert.Equal(t, int32(2), loader.calls.Load())
	assert.Equal(t, 2.0, arcWeight(t, gc.Peek()))
	assert.False(t, gc.Stats().Stale)

	// fresh again, no further loads
	_, err = gc.GetGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestGraphCacheSingleRebuildUnderContention(t *testing.T) {
	loader := &fakeLoader{release: make(chan struct{})}
	gc, _ := newTestGraphCache(loader, time.Minute)
	ctx := context.Background()

	const callers = 16
	graphs := make([]*da.Graph, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			graphs[i], errs[i] = gc.GetGraph(ctx)
		}(i)
	}

	require.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, graphs[0], graphs[i])
	}
}

func TestGraphCacheCallerCancel(t *testing.T) {
	loader := &fakeLoader{release: make(chan struct{})}
	gc, _ := newTestGraphCache(loader, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gc.GetGraph(ctx)
	require.Error(t, err)
	assert.Equal(t, util.ErrSourceFetch, util.ErrorCode(err))

	// the detached rebuild still completes for later callers
	close(loader.release)
	require.Eventually(t, func() bool { return gc.Peek() != nil }, time.Second, time.Millisecond)
}

func newTestPathCache(capacity int, ttl time.Duration) (*PathCache[[]string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	pc, err := NewPathCache[[]string](capacity, ttl, func(v []string) []string {
		return append([]string(nil), v...)
	})
	if err != nil {
		panic(err)
	}
	pc.now = clock.Now
	return pc, clock
}

func TestPathCacheGetPut(t *testing.T) {
	pc, clock := newTestPathCache(10, time.Minute)
	key := NewPathCacheKey("A", "D", "car")

	_, ok := pc.Get(key)
	assert.False(t, ok)

	pc.Put(key, []string{"A", "B", "D"})
	got, ok := pc.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "D"}, got)

	// callers cannot mutate the stored value
	got[0] = "Z"
	again, _ := pc.Get(key)
	assert.Equal(t, "A", again[0])

	// vehicle class is part of the key
	_, ok = pc.Get(NewPathCacheKey("A", "D", "truck"))
	assert.False(t, ok)

	clock.Advance(time.Minute)
	_, ok = pc.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, pc.Len())

	stats := pc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.InDelta(t, 40.0, stats.HitRate, 1e-9)
	assert.Equal(t, 10, stats.Capacity)
}

func TestPathCacheEvictsOldestInserted(t *testing.T) {
	testCases := []struct {
		name     string
		ops      func(pc *PathCache[[]string])
		evicted  string
		retained []string
	}{
		{
			name: "oldest insertion evicted",
			ops: func(pc *PathCache[[]string]) {
				pc.Put(NewPathCacheKey("a", "x", "car"), []string{"a"})
				pc.Put(NewPathCacheKey("b", "x", "car"), []string{"b"})
				pc.Put(NewPathCacheKey("c", "x", "car"), []string{"c"})
			},
			evicted:  "a",
			retained: []string{"b", "c"},
		},
		{
			name: "reads do not refresh position",
			ops: func(pc *PathCache[[]string]) {
				pc.Put(NewPathCacheKey("a", "x", "car"), []string{"a"})
				pc.Put(NewPathCacheKey("b", "x", "car"), []string{"b"})
				pc.Get(NewPathCacheKey("a", "x", "car"))
				pc.Put(NewPathCacheKey("c", "x", "car"), []string{"c"})
			},
			evicted:  "a",
			retained: []string{"b", "c"},
		},
		{
			name: "re-put refreshes position",
			ops: func(pc *PathCache[[]string]) {
				pc.Put(NewPathCacheKey("a", "x", "car"), []string{"a"})
				pc.Put(NewPathCacheKey("b", "x", "car"), []string{"b"})
				pc.Put(NewPathCacheKey("a", "x", "car"), []string{"a"})
				pc.Put(NewPathCacheKey("c", "x", "car"), []string{"c"})
			},
			evicted:  "b",
			retained: []string{"a", "c"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pc, _ := newTestPathCache(2, time.Hour)
			tc.ops(pc)
			assert.Equal(t, 2, pc.Len())
			_, ok := pc.Get(NewPathCacheKey(tc.evicted, "x", "car"))
			assert.False(t, ok)
			for _, origin := range tc.retained {
				_, ok := pc.Get(NewPathCacheKey(origin, "x", "car"))
				assert.True(t, ok, origin)
			}
		})
	}
}

func TestPathCachePurge(t *testing.T) {
	pc, clock := newTestPathCache(10, time.Minute)
	pc.Put(NewPathCacheKey("a", "x", "car"), []string{"a"})
	clock.Advance(30 * time.Second)
	pc.Put(NewPathCacheKey("b", "x", "car"), []string{"b"})
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, pc.PurgeExpired())
	assert.Equal(t, 1, pc.Len())

	pc.Purge()
	assert.Equal(t, 0, pc.Len())
}

func TestPathCachePutAtGeneration(t *testing.T) {
	pc, _ := newTestPathCache(10, time.Minute)
	key := NewPathCacheKey("a", "x", "car")

	generation := pc.Generation()
	pc.Purge()
	assert.False(t, pc.PutAtGeneration(key, []string{"old"}, generation))
	_, ok := pc.Get(key)
	assert.False(t, ok)

	assert.True(t, pc.PutAtGeneration(key, []string{"new"}, pc.Generation()))
	got, ok := pc.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
}
