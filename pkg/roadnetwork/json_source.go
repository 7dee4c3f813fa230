package roadnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

type roadNetworkFile struct {
	Roads []da.RoadSegment `json:"roads"`
}

// JSONFileSource reads road records from a json file {"roads": [...]} on every load.
type JSONFileSource struct {
	path string
}

func NewJSONFileSource(path string) *JSONFileSource {
	return &JSONFileSource{path: path}
}

func (js *JSONFileSource) LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(js.path)
	if err != nil {
		return nil, fmt.Errorf("open road network file %s: %w", js.path, err)
	}
	defer f.Close()

	var file roadNetworkFile
	if err := json.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode road network file %s: %w", js.path, err)
	}
	return file.Roads, nil
}

// WriteRoadNetworkFile writes segments in the format read by JSONFileSource.
func WriteRoadNetworkFile(path string, segments []da.RoadSegment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create road network file %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(roadNetworkFile{Roads: segments})
}
