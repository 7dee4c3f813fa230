package usecases

import (
	"context"
	"testing"

	"github.com/lintang-b-s/dynroute/pkg/customizer"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine"
	"github.com/lintang-b-s/dynroute/pkg/roadnetwork"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServices(t *testing.T) (*RoutingService, *TrafficService) {
	t.Helper()
	source := roadnetwork.NewMemorySource([]da.RoadSegment{
		da.NewRoadSegment("ab", "A", "B", 1, 60, 0),
		da.NewRoadSegment("bc", "B", "C", 2, 60, 0),
		da.NewRoadSegment("ac", "A", "C", 4, 60, 0),
		da.NewRoadSegment("cd", "C", "D", 1, 60, 0),
	})
	e, err := engine.NewEngine(source, engine.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	planner := e.GetRoutePlanner()
	updater := customizer.NewTrafficUpdater(source, planner, 10, zap.NewNop())
	return NewRoutingService(zap.NewNop(), planner), NewTrafficService(zap.NewNop(), updater)
}

func TestRequestPath(t *testing.T) {
	testCases := []struct {
		name         string
		start, end   string
		vehicleType  string
		expectedCode error
	}{
		{name: "route found", start: "A", end: "D", vehicleType: "normal"},
		{name: "default vehicle", start: "A", end: "C", vehicleType: ""},
		{name: "emergency", start: "A", end: "D", vehicleType: "emergency"},
		{name: "unknown node", start: "A", end: "Q", expectedCode: util.ErrNotFound},
		{name: "unreachable", start: "D", end: "A", expectedCode: util.ErrNoPath},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rs, _ := newTestServices(t)
			res, err := rs.RequestPath(context.Background(), tc.start, tc.end, tc.vehicleType)
			if tc.expectedCode != nil {
				require.Error(t, err)
				assert.Equal(t, tc.expectedCode, util.ErrorCode(err))
				assert.False(t, res.Success())
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Success())
			assert.Equal(t, tc.start, res.Path.Source())
			assert.Equal(t, tc.end, res.Path.Target())
		})
	}
}

func TestListNodesAndRoads(t *testing.T) {
	rs, _ := newTestServices(t)
	ctx := context.Background()

	nodes, err := rs.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, nodes)

	roads, err := rs.ListRoads(ctx)
	require.NoError(t, err)
	require.Len(t, roads, 4)
	assert.Equal(t, "ab", roads[0].ID)
	assert.Equal(t, "ac", roads[1].ID)
	assert.Equal(t, "bc", roads[2].ID)
	assert.Equal(t, 2.0, roads[2].LengthKm)
}

func TestTrafficUpdateChangesRoute(t *testing.T) {
	rs, ts := newTestServices(t)
	ctx := context.Background()

	res, err := rs.RequestPath(ctx, "A", "C", "normal")
	require.NoError(t, err)
	require.Equal(t, da.NewPath("A", "B", "C"), res.Path)

	summary, err := ts.UpdateTraffic(ctx, customizer.TrafficReport{
		IntersectionID: "I1",
		Roads:          []customizer.RoadReport{{RoadID: "bc", VehicleCount: 50}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RoadsUpdated)
	assert.Equal(t, 0, rs.CacheStats().PathCache.Size)

	res, err = rs.RequestPath(ctx, "A", "C", "normal")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, da.NewPath("A", "C"), res.Path)

	require.Len(t, ts.RecentTraffic(10), 1)
}
