package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeOverwritesWithoutDuplicateAdjacency(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 10, NewEdgeData("r1", 0, 1, 60, 0))
	g.AddEdge("A", "C", 5, NewEdgeData("r2", 0, 1, 60, 0))
	g.AddEdge("A", "B", 3, NewEdgeData("r3", 0, 2, 30, 1))

	neighbors := g.GetNeighbors("A")
	require.Len(t, neighbors, 2)
	assert.Equal(t, "B", neighbors[0].To)
	assert.Equal(t, 3.0, neighbors[0].GetWeight())
	assert.Equal(t, "r3", neighbors[0].Data.GetRoadID())
	assert.Equal(t, "C", neighbors[1].To)

	w, ok := g.GetEdgeWeight("A", "B")
	require.True(t, ok)
	assert.Equal(t, 3.0, w)
	assert.Equal(t, 2, g.NumberOfEdges())
	assert.Equal(t, 3, g.NumberOfVertices())
}

func TestGraphLookups(t *testing.T) {
	g := NewGraph()
	g.AddEdge("B", "C", 2, NewEdgeData("r1", 0, 1, 60, 0))
	g.AddEdge("A", "B", 1, NewEdgeData("r2", 0, 1, 60, 0))
	g.AddNode("Z")

	testCases := []struct {
		name     string
		from, to string
		wantOk   bool
		want     float64
	}{
		{name: "existing arc", from: "A", to: "B", wantOk: true, want: 1},
		{name: "reverse arc is absent", from: "B", to: "A", wantOk: false},
		{name: "unknown tail", from: "X", to: "B", wantOk: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.GetEdgeWeight(tt.from, tt.to)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	assert.True(t, g.HasNode("Z"))
	assert.False(t, g.HasNode("Y"))
	assert.Empty(t, g.GetNeighbors("C"))
	assert.Equal(t, []string{"A", "B", "C", "Z"}, g.GetNodes())
}

func TestUpdateEdgeWeight(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 10, NewEdgeData("r1", 0, 1, 60, 0))

	g.UpdateEdgeWeight("A", "B", 4)
	w, _ := g.GetEdgeWeight("A", "B")
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 4.0, g.GetNeighbors("A")[0].GetWeight())

	g.UpdateEdgeWeight("A", "B", -1)
	w, _ = g.GetEdgeWeight("A", "B")
	assert.Equal(t, 0.0, w)

	// missing arc is a no-op
	g.UpdateEdgeWeight("B", "A", 7)
	assert.False(t, g.HasEdge("B", "A"))
}

func TestForEachEdgeIsOrdered(t *testing.T) {
	g := NewGraph()
	g.AddEdge("C", "A", 1, EdgeData{})
	g.AddEdge("A", "C", 1, EdgeData{})
	g.AddEdge("A", "B", 1, EdgeData{})

	var got []EdgeKey
	g.ForEachEdge(func(key EdgeKey, _ EdgeData) {
		got = append(got, key)
	})
	assert.Equal(t, []EdgeKey{{"A", "B"}, {"A", "C"}, {"C", "A"}}, got)
}

func TestPathWeight(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 1.5, EdgeData{})
	g.AddEdge("B", "C", 2.5, EdgeData{})

	w, ok := g.PathWeight(NewPath("A", "B", "C"))
	require.True(t, ok)
	assert.Equal(t, 4.0, w)

	_, ok = g.PathWeight(NewPath("A", "C"))
	assert.False(t, ok)

	w, ok = g.PathWeight(NewPath("A"))
	require.True(t, ok)
	assert.Equal(t, 0.0, w)
}
