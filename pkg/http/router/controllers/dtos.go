package controllers

import (
	"time"

	"github.com/lintang-b-s/dynroute/pkg/customizer"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/engine"
)

type requestPathRequest struct {
	StartNode   string `json:"start_node" validate:"required"`
	EndNode     string `json:"end_node" validate:"required"`
	VehicleType string `json:"vehicle_type" validate:"omitempty,oneof=normal car truck bus emergency"`
}

type pathDetail struct {
	Path        []string `json:"path"`
	Weight      float64  `json:"weight"`
	Distance    float64  `json:"distance"`
	Duration    float64  `json:"duration"`
	Congestion  float64  `json:"congestion"`
	Probability float64  `json:"probability"`
	Rank        int      `json:"rank"`
	Score       float64  `json:"score"`
	Label       string   `json:"label,omitempty"`
}

type pathResponse struct {
	Path             []string     `json:"path"`
	Weight           float64      `json:"weight"`
	Distance         float64      `json:"distance"`
	Duration         float64      `json:"duration"`
	Congestion       float64      `json:"congestion"`
	Message          string       `json:"message"`
	Cached           bool         `json:"cached"`
	Stale            bool         `json:"stale"`
	AlternativePaths int          `json:"alternative_paths"`
	Probabilities    []float64    `json:"probabilities"`
	AllPaths         []pathDetail `json:"all_paths"`
	ProcessingTimeMs float64      `json:"processing_time_ms"`
}

func NewPathResponse(res engine.RouteResult) pathResponse {
	resp := pathResponse{
		Path:             []string(res.Path),
		Weight:           res.TotalWeight,
		Distance:         res.Distance,
		Duration:         res.Duration,
		Congestion:       res.Congestion,
		Message:          res.Message,
		Cached:           res.Cached,
		Stale:            res.Stale,
		AlternativePaths: res.AlternativeCount,
		Probabilities:    res.Probabilities,
		ProcessingTimeMs: float64(res.ProcessingTime) / float64(time.Millisecond),
	}
	if resp.Path == nil {
		resp.Path = []string{}
	}
	if res.Candidates != nil {
		resp.AllPaths = make([]pathDetail, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			resp.AllPaths = append(resp.AllPaths, pathDetail{
				Path:        []string(c.Path),
				Weight:      c.TotalWeight,
				Distance:    c.Distance,
				Duration:    c.Duration,
				Congestion:  c.Congestion,
				Probability: c.Probability,
				Rank:        c.Rank,
				Score:       c.Score,
				Label:       c.Label,
			})
		}
	}
	return resp
}

type nodeResponse struct {
	ID       string `json:"id"`
	NodeType string `json:"node_type"`
}

func NewNodesResponse(nodes []string) []nodeResponse {
	resp := make([]nodeResponse, 0, len(nodes))
	for _, n := range nodes {
		resp = append(resp, nodeResponse{ID: n, NodeType: "intersection"})
	}
	return resp
}

type roadResponse struct {
	RoadID            string  `json:"road_id"`
	StartNode         string  `json:"start_node"`
	EndNode           string  `json:"end_node"`
	Length            float64 `json:"length"`
	MaxSpeed          float64 `json:"max_speed"`
	CurrentCongestion float64 `json:"current_congestion"`
}

func NewRoadsResponse(roads []da.RoadSegment) []roadResponse {
	resp := make([]roadResponse, 0, len(roads))
	for _, r := range roads {
		resp = append(resp, roadResponse{
			RoadID:            r.ID,
			StartNode:         r.StartNode,
			EndNode:           r.EndNode,
			Length:            r.GetLength(),
			MaxSpeed:          r.GetMaxSpeed(),
			CurrentCongestion: r.GetCongestion(),
		})
	}
	return resp
}

type roadData struct {
	RoadID          string  `json:"road_id" validate:"required"`
	VehicleCount    int     `json:"vehicle_count" validate:"gte=0"`
	AverageSpeed    float64 `json:"average_speed" validate:"gte=0"`
	CongestionLevel string  `json:"congestion_level"`
}

type trafficUpdateRequest struct {
	IntersectionID string     `json:"intersection_id" validate:"required"`
	Location       string     `json:"location"`
	Timestamp      string     `json:"timestamp" validate:"required"`
	Roads          []roadData `json:"roads" validate:"required,min=1,dive"`
}

func (req trafficUpdateRequest) toTrafficReport(ts time.Time) customizer.TrafficReport {
	report := customizer.TrafficReport{
		IntersectionID: req.IntersectionID,
		Location:       req.Location,
		Timestamp:      ts,
		Roads:          make([]customizer.RoadReport, 0, len(req.Roads)),
	}
	for _, road := range req.Roads {
		report.Roads = append(report.Roads, customizer.RoadReport{
			RoadID:          road.RoadID,
			VehicleCount:    road.VehicleCount,
			AverageSpeed:    road.AverageSpeed,
			CongestionLevel: road.CongestionLevel,
		})
	}
	return report
}

type trafficUpdateResponse struct {
	Message        string   `json:"message"`
	RecordsSaved   int      `json:"records_saved"`
	RoadsUpdated   int      `json:"roads_updated"`
	UnknownRoads   []string `json:"unknown_roads"`
	IntersectionID string   `json:"intersection_id"`
	Timestamp      string   `json:"timestamp"`
}

func NewTrafficUpdateResponse(summary customizer.TrafficUpdateSummary) trafficUpdateResponse {
	return trafficUpdateResponse{
		Message:        "traffic report saved",
		RecordsSaved:   summary.RecordsSaved,
		RoadsUpdated:   summary.RoadsUpdated,
		UnknownRoads:   summary.UnknownRoads,
		IntersectionID: summary.IntersectionID,
		Timestamp:      summary.Timestamp.Format(time.RFC3339),
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
