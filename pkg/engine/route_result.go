package engine

import (
	"time"

	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

type FailureKind uint8

const (
	FAILURE_NONE FailureKind = iota
	FAILURE_EMPTY_NETWORK
	FAILURE_NODE_NOT_FOUND
	FAILURE_NO_PATH_EXISTS
	FAILURE_SOURCE_FETCH
)

func (f FailureKind) String() string {
	switch f {
	case FAILURE_NONE:
		return "none"
	case FAILURE_EMPTY_NETWORK:
		return "empty_network"
	case FAILURE_NODE_NOT_FOUND:
		return "node_not_found"
	case FAILURE_NO_PATH_EXISTS:
		return "no_path_exists"
	case FAILURE_SOURCE_FETCH:
		return "source_fetch_failure"
	default:
		return "unknown"
	}
}

// RouteResult is the outcome of one route query. on failure Path is empty and Failure says why.
type RouteResult struct {
	Origin       string
	Destination  string
	VehicleClass pkg.VehicleClass

	Path        da.Path
	TotalWeight float64
	Distance    float64 // km
	Duration    float64 // seconds
	Congestion  float64

	Message          string
	Cached           bool
	Stale            bool // computed on the previous graph because the rebuild failed
	Failure          FailureKind
	AlternativeCount int
	Probabilities    []float64
	Candidates       []da.PathCandidate
	ProcessingTime   time.Duration
}

func (r RouteResult) Success() bool {
	return r.Failure == FAILURE_NONE && len(r.Path) > 0
}

// Outcome is the metric label of the result.
func (r RouteResult) Outcome() string {
	if r.Cached {
		return "cached"
	}
	if r.Failure == FAILURE_NONE {
		return "success"
	}
	return r.Failure.String()
}

func (r RouteResult) Clone() RouteResult {
	c := r
	c.Path = r.Path.Clone()
	if r.Probabilities != nil {
		c.Probabilities = make([]float64, len(r.Probabilities))
		copy(c.Probabilities, r.Probabilities)
	}
	c.Candidates = da.ClonePathCandidates(r.Candidates)
	return c
}

func newFailureResult(origin, destination string, vehicleClass pkg.VehicleClass, failure FailureKind,
	message string) RouteResult {
	return RouteResult{
		Origin:       origin,
		Destination:  destination,
		VehicleClass: vehicleClass,
		Path:         da.Path{},
		Failure:      failure,
		Message:      message,
	}
}

func newCandidateResult(origin, destination string, vehicleClass pkg.VehicleClass, primary da.PathCandidate,
	message string) RouteResult {
	return RouteResult{
		Origin:       origin,
		Destination:  destination,
		VehicleClass: vehicleClass,
		Path:         primary.Path.Clone(),
		TotalWeight:  primary.TotalWeight,
		Distance:     primary.Distance,
		Duration:     primary.Duration,
		Congestion:   primary.Congestion,
		Message:      message,
	}
}
