package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lintang-b-s/dynroute/pkg"
	"github.com/lintang-b-s/dynroute/pkg/concurrent"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine/cache"
	"github.com/lintang-b-s/dynroute/pkg/engine/routing"
	"github.com/lintang-b-s/dynroute/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

const (
	MESSAGE_ROUTE_PLANNED   = "route planned"
	MESSAGE_EMERGENCY_ROUTE = "emergency vehicle shortest path"
	MESSAGE_SAME_NODE       = "origin and destination are the same node"
	MESSAGE_EMPTY_NETWORK   = "road network is empty"
	MESSAGE_NO_PATH         = "no path found"
)

type RouteQuery struct {
	Origin       string
	Destination  string
	VehicleClass pkg.VehicleClass
}

type CacheStats struct {
	GraphCache cache.GraphCacheStats `json:"graph_cache"`
	PathCache  cache.PathCacheStats  `json:"path_cache"`
}

// RoutePlanner answers route queries over the cached road graph snapshot.
type RoutePlanner struct {
	graphCache *cache.GraphCache
	pathCache  *cache.PathCache[RouteResult]
	scorer     *routing.RouteScorer
	k          int
	workers    int
	log        *zap.Logger
}

func NewRoutePlanner(graphCache *cache.GraphCache, pathCache *cache.PathCache[RouteResult],
	scorer *routing.RouteScorer, k, workers int, log *zap.Logger) *RoutePlanner {
	return &RoutePlanner{
		graphCache: graphCache,
		pathCache:  pathCache,
		scorer:     scorer,
		k:          k,
		workers:    workers,
		log:        log,
	}
}

func (rp *RoutePlanner) GetK() int {
	return rp.k
}

// PlanRoute never panics on bad input, every failure is reported through RouteResult.Failure.
func (rp *RoutePlanner) PlanRoute(ctx context.Context, origin, destination string,
	vehicleClass pkg.VehicleClass) RouteResult {
	if vehicleClass == "" {
		vehicleClass = pkg.VEHICLE_NORMAL
	}

	start := time.Now()
	res := rp.planRoute(ctx, origin, destination, vehicleClass)
	res.ProcessingTime = time.Since(start)

	metrics.RouteQueryTotal.WithLabelValues(res.Outcome(), string(vehicleClass)).Inc()
	metrics.RouteQueryDuration.WithLabelValues(string(vehicleClass)).Observe(res.ProcessingTime.Seconds())
	if !res.Cached && res.Success() {
		metrics.RouteCandidateCount.Observe(float64(res.AlternativeCount))
	}
	return res
}

func (rp *RoutePlanner) planRoute(ctx context.Context, origin, destination string,
	vehicleClass pkg.VehicleClass) RouteResult {
	key := cache.NewPathCacheKey(origin, destination, string(vehicleClass))
	if cached, ok := rp.pathCache.Get(key); ok {
		cached.Cached = true
		return cached
	}

	// read before the graph, so a result computed on a graph that was invalidated meanwhile is not cached
	generation := rp.pathCache.Generation()

	stale := false
	graph, err := rp.graphCache.GetGraph(ctx)
	if err != nil {
		if graph == nil {
			rp.log.Warn("route query without road graph", zap.String("origin", origin),
				zap.String("destination", destination), zap.Error(err))
			return newFailureResult(origin, destination, vehicleClass, FAILURE_SOURCE_FETCH, err.Error())
		}
		rp.log.Warn("road graph rebuild failed, routing on stale snapshot", zap.String("origin", origin),
			zap.String("destination", destination), zap.Error(err))
		stale = true
	}

	res, cacheable := rp.planOnGraph(graph, origin, destination, vehicleClass)
	if stale {
		res.Stale = true
		return res
	}
	if cacheable {
		rp.pathCache.PutAtGeneration(key, res, generation)
	}
	return res
}

// planOnGraph runs the query against one graph snapshot and reports whether the result may be cached.
func (rp *RoutePlanner) planOnGraph(graph *da.Graph, origin, destination string,
	vehicleClass pkg.VehicleClass) (RouteResult, bool) {
	if graph.NumberOfVertices() == 0 {
		return newFailureResult(origin, destination, vehicleClass, FAILURE_EMPTY_NETWORK, MESSAGE_EMPTY_NETWORK), false
	}

	if !graph.HasNode(origin) {
		return newFailureResult(origin, destination, vehicleClass, FAILURE_NODE_NOT_FOUND,
			fmt.Sprintf("origin node %s does not exist", origin)), false
	}
	if !graph.HasNode(destination) {
		return newFailureResult(origin, destination, vehicleClass, FAILURE_NODE_NOT_FOUND,
			fmt.Sprintf("destination node %s does not exist", destination)), false
	}

	if origin == destination {
		return RouteResult{
			Origin:       origin,
			Destination:  destination,
			VehicleClass: vehicleClass,
			Path:         da.NewPath(origin),
			Message:      MESSAGE_SAME_NODE,
		}, true
	}

	if vehicleClass.IsEmergency() {
		return rp.planEmergencyRoute(graph, origin, destination, vehicleClass)
	}

	cands := routing.KShortestPaths(graph, origin, destination, rp.k)
	if len(cands) == 0 {
		return newFailureResult(origin, destination, vehicleClass, FAILURE_NO_PATH_EXISTS, MESSAGE_NO_PATH), true
	}

	best := rp.scorer.Score(cands)
	res := newCandidateResult(origin, destination, vehicleClass, cands[best], MESSAGE_ROUTE_PLANNED)
	res.AlternativeCount = len(cands)
	res.Probabilities = make([]float64, len(cands))
	for i, c := range cands {
		res.Probabilities[i] = c.Probability
	}
	res.Candidates = cands
	return res, true
}

// emergency vehicles take the single shortest path, no alternatives and no softmax dispersion.
// only the no path outcome is cached.
func (rp *RoutePlanner) planEmergencyRoute(graph *da.Graph, origin, destination string,
	vehicleClass pkg.VehicleClass) (RouteResult, bool) {
	path, weight, ok := routing.ShortestPath(graph, origin, destination, nil)
	if !ok {
		return newFailureResult(origin, destination, vehicleClass, FAILURE_NO_PATH_EXISTS, MESSAGE_NO_PATH), true
	}

	cand := da.NewPathCandidate(path, weight)
	cand.FillMetrics(graph)
	cand.Rank = 1
	cand.Probability = 1
	cand.Label = routing.LABEL_FASTEST

	res := newCandidateResult(origin, destination, vehicleClass, cand, MESSAGE_EMERGENCY_ROUTE)
	res.AlternativeCount = 1
	res.Probabilities = []float64{1}
	res.Candidates = []da.PathCandidate{cand}
	return res, false
}

// PlanRoutes plans every query concurrently and returns the results in the order of queries.
func (rp *RoutePlanner) PlanRoutes(ctx context.Context, queries []RouteQuery) []RouteResult {
	return concurrent.MapOrdered(rp.workers, queries, func(q RouteQuery) RouteResult {
		return rp.PlanRoute(ctx, q.Origin, q.Destination, q.VehicleClass)
	})
}

// SampleRoute draws one candidate of res by its softmax probability. rng nil uses the global source.
func (rp *RoutePlanner) SampleRoute(res RouteResult, rng *rand.Rand) (da.PathCandidate, bool) {
	if len(res.Candidates) == 0 {
		return da.PathCandidate{}, false
	}
	probs := make([]float64, len(res.Candidates))
	for i, c := range res.Candidates {
		probs[i] = c.Probability
	}

	var r float64
	if rng == nil {
		r = rand.Float64()
	} else {
		r = rng.Float64()
	}
	idx := routing.SampleIndex(probs, r)
	return res.Candidates[idx].Clone(), true
}

func (rp *RoutePlanner) GetCacheStats() CacheStats {
	return CacheStats{
		GraphCache: rp.graphCache.Stats(),
		PathCache:  rp.pathCache.Stats(),
	}
}

// InvalidateCaches forces a graph rebuild on the next query and drops every planned route.
func (rp *RoutePlanner) InvalidateCaches() {
	rp.graphCache.Invalidate()
	rp.pathCache.Purge()
	rp.log.Info("route caches invalidated")
}

// Snapshot returns the current road graph, rebuilding it if expired. the graph must not be mutated.
// a failed rebuild returns the error together with the previous graph, if any.
func (rp *RoutePlanner) Snapshot(ctx context.Context) (*da.Graph, error) {
	return rp.graphCache.GetGraph(ctx)
}

func (rp *RoutePlanner) RefreshGraph(ctx context.Context) error {
	_, err := rp.graphCache.Refresh(ctx)
	return err
}

func (rp *RoutePlanner) PurgeExpiredRoutes() int {
	return rp.pathCache.PurgeExpired()
}
