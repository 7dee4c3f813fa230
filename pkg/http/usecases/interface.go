package usecases

import (
	"context"

	"github.com/lintang-b-s/dynroute/pkg"
	"github.com/lintang-b-s/dynroute/pkg/customizer"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine"
)

type RoutePlanner interface {
	PlanRoute(ctx context.Context, origin, destination string, vehicleClass pkg.VehicleClass) engine.RouteResult
	Snapshot(ctx context.Context) (*da.Graph, error)
	GetCacheStats() engine.CacheStats
	InvalidateCaches()
}

type TrafficUpdater interface {
	ApplyReport(ctx context.Context, report customizer.TrafficReport) (customizer.TrafficUpdateSummary, error)
	RecentRecords(limit int) []customizer.TrafficRecord
}
