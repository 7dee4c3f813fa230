package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"go.uber.org/zap"
)

type RoutingService struct {
	log     *zap.Logger
	planner RoutePlanner
}

func NewRoutingService(log *zap.Logger, planner RoutePlanner) *RoutingService {
	return &RoutingService{
		log:     log,
		planner: planner,
	}
}

// RequestPath plans a route and turns a failed plan into a util.Error carrying the failure as its code.
func (rs *RoutingService) RequestPath(ctx context.Context, startNode, endNode, vehicleType string) (engine.RouteResult,
	error) {
	res := rs.planner.PlanRoute(ctx, startNode, endNode, pkg.VehicleClass(vehicleType))
	if res.Failure == engine.FAILURE_NONE {
		return res, nil
	}

	var code error
	switch res.Failure {
	case engine.FAILURE_NODE_NOT_FOUND:
		code = util.ErrNotFound
	case engine.FAILURE_NO_PATH_EXISTS:
		code = util.ErrNoPath
	case engine.FAILURE_EMPTY_NETWORK:
		code = util.ErrEmptyNetwork
	case engine.FAILURE_SOURCE_FETCH:
		code = util.ErrSourceFetch
	default:
		code = util.ErrInternalServerError
	}
	return res, util.WrapErrorf(errors.New(res.Message), code, "plan route from %s to %s", startNode, endNode)
}

func (rs *RoutingService) ListNodes(ctx context.Context) ([]string, error) {
	g, err := rs.planner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return g.GetNodes(), nil
}

// ListRoads returns the arcs of the current graph snapshot, ordered by (from, to).
func (rs *RoutingService) ListRoads(ctx context.Context) ([]da.RoadSegment, error) {
	g, err := rs.planner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	roads := make([]da.RoadSegment, 0, g.NumberOfEdges())
	g.ForEachEdge(func(key da.EdgeKey, data da.EdgeData) {
		roads = append(roads, da.NewRoadSegment(data.GetRoadID(), key.From, key.To, data.GetLength(),
			data.GetMaxSpeed(), data.GetCongestion()))
	})
	return roads, nil
}

func (rs *RoutingService) CacheStats() engine.CacheStats {
	return rs.planner.GetCacheStats()
}

func (rs *RoutingService) InvalidateCaches() {
	rs.planner.InvalidateCaches()
}
