package controllers

import (
	"context"

	"github.com/lintang-b-s/dynroute/pkg/customizer"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine"
)

type RoutingService interface {
	// RequestPath returns the planned route. failed plans return the result and a util.Error coded error.
	RequestPath(ctx context.Context, startNode, endNode, vehicleType string) (engine.RouteResult, error)
	ListNodes(ctx context.Context) ([]string, error)
	ListRoads(ctx context.Context) ([]da.RoadSegment, error)
	CacheStats() engine.CacheStats
	InvalidateCaches()
}

type TrafficService interface {
	UpdateTraffic(ctx context.Context, report customizer.TrafficReport) (customizer.TrafficUpdateSummary, error)
	RecentTraffic(limit int) []customizer.TrafficRecord
}
