package roadnetwork

import (
	"context"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/osmparser"
	"go.uber.org/zap"
)

// OSMSource extracts road records from an openstreetmap pbf extract on every load.
type OSMSource struct {
	path string
	log  *zap.Logger
}

func NewOSMSource(path string, log *zap.Logger) *OSMSource {
	return &OSMSource{path: path, log: log}
}

func (src *OSMSource) LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error) {
	return osmparser.NewOsmParser(src.log).Parse(ctx, src.path)
}
