package datastructure

// EdgeKey identifies a directed arc. parallel arcs between the same ordered pair are not allowed.
type EdgeKey struct {
	From string
	To   string
}

func NewEdgeKey(from, to string) EdgeKey {
	return EdgeKey{From: from, To: to}
}

type EdgeData struct {
	roadID     string
	weight     float64 // seconds
	length     float64 // km
	maxSpeed   float64 // km/h
	congestion float64 // seconds of delay
}

func NewEdgeData(roadID string, weight, length, maxSpeed, congestion float64) EdgeData {
	return EdgeData{
		roadID:     roadID,
		weight:     weight,
		length:     length,
		maxSpeed:   maxSpeed,
		congestion: congestion,
	}
}

func (e EdgeData) GetRoadID() string {
	return e.roadID
}

func (e EdgeData) GetWeight() float64 {
	return e.weight
}

func (e EdgeData) GetLength() float64 {
	return e.length
}

func (e EdgeData) GetMaxSpeed() float64 {
	return e.maxSpeed
}

func (e EdgeData) GetCongestion() float64 {
	return e.congestion
}

func (e *EdgeData) setWeight(w float64) {
	e.weight = w
}

// OutEdge. adjacency entry of a vertex
type OutEdge struct {
	To   string
	Data EdgeData
}

func (o OutEdge) GetWeight() float64 {
	return o.Data.weight
}

// RoadSegment is one directed road record as delivered by a road network source.
type RoadSegment struct {
	ID                string  `json:"id"`
	StartNode         string  `json:"start_node"`
	EndNode           string  `json:"end_node"`
	LengthKm          float64 `json:"length"`
	MaxSpeedKmh       float64 `json:"max_speed"`
	CurrentCongestion float64 `json:"current_congestion"`
	Name              string  `json:"name,omitempty"`
}

func NewRoadSegment(id, startNode, endNode string, lengthKm, maxSpeedKmh, congestion float64) RoadSegment {
	return RoadSegment{
		ID:                id,
		StartNode:         startNode,
		EndNode:           endNode,
		LengthKm:          lengthKm,
		MaxSpeedKmh:       maxSpeedKmh,
		CurrentCongestion: congestion,
	}
}

func (r RoadSegment) GetLength() float64 {
	return r.LengthKm
}

func (r RoadSegment) GetMaxSpeed() float64 {
	return r.MaxSpeedKmh
}

func (r RoadSegment) GetCongestion() float64 {
	return r.CurrentCongestion
}

// EdgeSet is a set of arcs excluded from a search.
type EdgeSet map[EdgeKey]struct{}

func NewEdgeSet() EdgeSet {
	return make(EdgeSet)
}

func (s EdgeSet) Add(from, to string) {
	s[EdgeKey{From: from, To: to}] = struct{}{}
}

func (s EdgeSet) Contains(from, to string) bool {
	if s == nil {
		return false
	}
	_, ok := s[EdgeKey{From: from, To: to}]
	return ok
}
