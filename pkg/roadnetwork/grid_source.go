package roadnetwork

import (
	"context"
	"fmt"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

// GridSource generates a rows x cols grid with a two way road between every pair of adjacent intersections.
// intersections are named A, B, C, ... row by row when the grid has at most 26 of them, r{row}c{col} otherwise.
type GridSource struct {
	rows, cols int
	lengthKm   float64
	speedKmh   float64
}

func NewGridSource(rows, cols int, lengthKm, speedKmh float64) *GridSource {
	return &GridSource{rows: rows, cols: cols, lengthKm: lengthKm, speedKmh: speedKmh}
}

func (gs *GridSource) LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return gs.Segments(), nil
}

func (gs *GridSource) NodeID(row, col int) string {
	if gs.rows*gs.cols <= 26 {
		return string(rune('A' + row*gs.cols + col))
	}
	return fmt.Sprintf("r%dc%d", row, col)
}

func (gs *GridSource) Segments() []da.RoadSegment {
	segments := make([]da.RoadSegment, 0, 2*(gs.rows*(gs.cols-1)+gs.cols*(gs.rows-1)))

	addTwoWay := func(id, from, to string) {
		segments = append(segments, da.NewRoadSegment(id, from, to, gs.lengthKm, gs.speedKmh, 0))
		segments = append(segments, da.NewRoadSegment(id+"_reverse", to, from, gs.lengthKm, gs.speedKmh, 0))
	}

	for row := 0; row < gs.rows; row++ {
		for col := 0; col+1 < gs.cols; col++ {
			addTwoWay(fmt.Sprintf("road_h_%d_%d", row, col), gs.NodeID(row, col), gs.NodeID(row, col+1))
		}
	}
	for col := 0; col < gs.cols; col++ {
		for row := 0; row+1 < gs.rows; row++ {
			addTwoWay(fmt.Sprintf("road_v_%d_%d", row, col), gs.NodeID(row, col), gs.NodeID(row+1, col))
		}
	}
	return segments
}
