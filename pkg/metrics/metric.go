package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CACHE_GRAPH = "graph"
	CACHE_PATH  = "path"
)

var (
	// RouteQueryTotal counts route queries by outcome (success, cached, empty_network, node_not_found,
	// no_path_exists, source_fetch_failure) and vehicle class
	RouteQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dynroute_route_query_total",
		Help: "Total route queries by outcome",
	}, []string{"outcome", "vehicle_class"})

	RouteQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dynroute_route_query_duration_seconds",
		Help:    "Route query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	}, []string{"vehicle_class"})

	RouteCandidateCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dynroute_route_candidate_count",
		Help:    "Number of alternative paths found per query",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 25},
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dynroute_cache_hits_total",
		Help: "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dynroute_cache_misses_total",
		Help: "Total cache misses",
	}, []string{"cache"})

	CacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dynroute_cache_evictions_total",
		Help: "Total cache entries evicted by capacity or expiry",
	}, []string{"cache", "reason"})

	GraphRebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dynroute_graph_rebuild_duration_seconds",
		Help:    "Road graph rebuild duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	GraphRebuildFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dynroute_graph_rebuild_failures_total",
		Help: "Total failed road graph rebuilds",
	})

	TrafficReportsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dynroute_traffic_reports_total",
		Help: "Road traffic reports by result (applied, unknown_road, failed)",
	}, []string{"result"})
)
