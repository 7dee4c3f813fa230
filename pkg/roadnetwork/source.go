package roadnetwork

import (
	"context"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

// RoadNetworkSource delivers the current road records. implementations must be safe for concurrent use.
type RoadNetworkSource interface {
	LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error)
}

// CongestionWriter is a source whose per-road congestion can be updated from traffic reports.
type CongestionWriter interface {
	UpdateCongestion(ctx context.Context, roadID string, congestion float64) (bool, error)
}
