package roadnetwork

import (
	"context"
	"sync"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

// MemorySource keeps road records in memory and accepts congestion updates.
type MemorySource struct {
	mu       sync.RWMutex
	segments []da.RoadSegment
	index    map[string]int // road id -> position in segments
}

func NewMemorySource(segments []da.RoadSegment) *MemorySource {
	ms := &MemorySource{}
	ms.ReplaceSegments(segments)
	return ms
}

// NewMemorySourceFrom loads the records of another source once and keeps them in memory.
func NewMemorySourceFrom(ctx context.Context, source RoadNetworkSource) (*MemorySource, error) {
	segments, err := source.LoadRoadSegments(ctx)
	if err != nil {
		return nil, err
	}
	return NewMemorySource(segments), nil
}

func (ms *MemorySource) LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ms.Segments(), nil
}

// Segments returns a copy of all records.
func (ms *MemorySource) Segments() []da.RoadSegment {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]da.RoadSegment, len(ms.segments))
	copy(out, ms.segments)
	return out
}

func (ms *MemorySource) ReplaceSegments(segments []da.RoadSegment) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.segments = make([]da.RoadSegment, 0, len(segments))
	ms.index = make(map[string]int, len(segments))
	for _, seg := range segments {
		ms.upsertLocked(seg)
	}
}

// UpsertSegment inserts seg or replaces the record with the same id.
func (ms *MemorySource) UpsertSegment(seg da.RoadSegment) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.upsertLocked(seg)
}

func (ms *MemorySource) upsertLocked(seg da.RoadSegment) {
	if i, ok := ms.index[seg.ID]; ok && seg.ID != "" {
		ms.segments[i] = seg
		return
	}
	if seg.ID != "" {
		ms.index[seg.ID] = len(ms.segments)
	}
	ms.segments = append(ms.segments, seg)
}

// UpdateCongestion sets the congestion of road roadID. it returns false if the road is unknown.
func (ms *MemorySource) UpdateCongestion(ctx context.Context, roadID string, congestion float64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i, ok := ms.index[roadID]
	if !ok {
		return false, nil
	}
	if congestion < 0 {
		congestion = 0
	}
	ms.segments[i].CurrentCongestion = congestion
	return true, nil
}

func (ms *MemorySource) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.segments)
}
