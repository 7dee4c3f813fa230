package roadnetwork

import (
	"context"

	"github.com/lintang-b-s/dynroute/pkg/costfunction"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"go.uber.org/zap"
)

// GraphBuilder turns the records of a RoadNetworkSource into a weighted Graph snapshot.
type GraphBuilder struct {
	source       RoadNetworkSource
	costFunction *costfunction.CongestionFunction
	log          *zap.Logger
}

func NewGraphBuilder(source RoadNetworkSource, costFunction *costfunction.CongestionFunction,
	log *zap.Logger) *GraphBuilder {
	return &GraphBuilder{
		source:       source,
		costFunction: costFunction,
		log:          log,
	}
}

func (gb *GraphBuilder) GetCostFunction() *costfunction.CongestionFunction {
	return gb.costFunction
}

// LoadGraph fetches all road records and builds a fresh graph.
func (gb *GraphBuilder) LoadGraph(ctx context.Context) (*da.Graph, error) {
	segments, err := gb.source.LoadRoadSegments(ctx)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrSourceFetch, "failed to load road segments")
	}
	g := gb.Build(segments)
	gb.checkConnectivity(g)
	return g, nil
}

// checkConnectivity warns when some intersections cannot reach each other.
func (gb *GraphBuilder) checkConnectivity(g *da.Graph) {
	components := g.RunKosaraju()
	if len(components) <= 1 {
		return
	}
	largest := 0
	for _, c := range components {
		largest = max(largest, len(c))
	}
	gb.log.Warn("road graph is not strongly connected, some routes do not exist",
		zap.Int("components", len(components)), zap.Int("largestComponent", largest),
		zap.Int("vertices", g.NumberOfVertices()))
}

// Build creates one arc per record with weight alpha*length/speed*3600 + beta*congestion.
// records without endpoints are skipped.
func (gb *GraphBuilder) Build(segments []da.RoadSegment) *da.Graph {
	g := da.NewGraph()
	skipped := 0
	for _, seg := range segments {
		if seg.StartNode == "" || seg.EndNode == "" {
			skipped++
			continue
		}
		seg = gb.costFunction.NormalizeSegment(seg)
		weight := gb.costFunction.GetWeight(seg)

		g.AddEdge(seg.StartNode, seg.EndNode, weight,
			da.NewEdgeData(seg.ID, weight, seg.LengthKm, seg.MaxSpeedKmh, seg.CurrentCongestion))
	}

	if skipped > 0 {
		gb.log.Warn("skipped road records without endpoints", zap.Int("skipped", skipped))
	}
	gb.log.Debug("road graph built", zap.Int("vertices", g.NumberOfVertices()),
		zap.Int("edges", g.NumberOfEdges()))
	return g
}
