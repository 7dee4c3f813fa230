package routing

import (
	"testing"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testArc struct {
	from, to   string
	weight     float64
	length     float64
	congestion float64
}

func buildTestGraph(arcs []testArc) *da.Graph {
	g := da.NewGraph()
	for _, a := range arcs {
		g.AddEdge(a.from, a.to, a.weight, da.NewEdgeData(a.from+"-"+a.to, a.weight, a.length, 60, a.congestion))
	}
	return g
}

// A-B-D 2, A-C-D 3, A-B-C-D 3.5, A-D 5
func fourPathGraph() *da.Graph {
	return buildTestGraph([]testArc{
		{from: "A", to: "B", weight: 1, length: 1},
		{from: "B", to: "D", weight: 1, length: 1},
		{from: "A", to: "C", weight: 1, length: 1},
		{from: "C", to: "D", weight: 2, length: 2},
		{from: "A", to: "D", weight: 5, length: 1},
		{from: "B", to: "C", weight: 0.5, length: 0.5},
	})
}

func TestDijkstraShortestPath(t *testing.T) {
	g := fourPathGraph()
	g.AddNode("E")

	testCases := []struct {
		name       string
		start, end string
		blocked    da.EdgeSet
		wantFound  bool
		wantPath   da.Path
		wantWeight float64
	}{
		{
			name: "shortest path", start: "A", end: "D",
			wantFound: true, wantPath: da.NewPath("A", "B", "D"), wantWeight: 2,
		},
		{
			name: "blocked arc is avoided", start: "A", end: "D",
			blocked:   da.EdgeSet{da.NewEdgeKey("A", "B"): {}},
			wantFound: true, wantPath: da.NewPath("A", "C", "D"), wantWeight: 3,
		},
		{
			name: "same start and end", start: "B", end: "B",
			wantFound: true, wantPath: da.NewPath("B"), wantWeight: 0,
		},
		{
			name: "unreachable target", start: "A", end: "E",
			wantFound: false,
		},
		{
			name: "unknown node", start: "A", end: "Q",
			wantFound: false,
		},
		{
			name: "no arcs against the direction", start: "D", end: "A",
			wantFound: false,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			path, weight, found := ShortestPath(g, tt.start, tt.end, tt.blocked)
			require.Equal(t, tt.wantFound, found)
			if !tt.wantFound {
				assert.Nil(t, path)
				return
			}
			assert.Equal(t, tt.wantPath, path)
			assert.InDelta(t, tt.wantWeight, weight, 1e-9)
		})
	}
}

func TestDijkstraTieBreakIsDeterministic(t *testing.T) {
	g := buildTestGraph([]testArc{
		{from: "S", to: "Y", weight: 1},
		{from: "S", to: "X", weight: 1},
		{from: "Y", to: "T", weight: 1},
		{from: "X", to: "T", weight: 1},
	})

	for i := 0; i < 20; i++ {
		path, weight, found := ShortestPath(g, "S", "T", nil)
		require.True(t, found)
		assert.Equal(t, da.NewPath("S", "X", "T"), path)
		assert.Equal(t, 2.0, weight)
	}
}

func TestDijkstraReuse(t *testing.T) {
	g := fourPathGraph()
	d := NewDijkstra(g)

	p1, _, ok := d.ShortestPath("A", "D", nil)
	require.True(t, ok)
	p2, w2, ok := d.ShortestPath("B", "D", nil)
	require.True(t, ok)
	assert.Equal(t, da.NewPath("A", "B", "D"), p1)
	assert.Equal(t, da.NewPath("B", "D"), p2)
	assert.Equal(t, 1.0, w2)
	assert.Greater(t, d.GetNumSettledNodes(), 0)
}

func TestKShortestPaths(t *testing.T) {
	g := fourPathGraph()

	testCases := []struct {
		name        string
		k           int
		wantPaths   []da.Path
		wantWeights []float64
	}{
		{
			name:        "k larger than available paths",
			k:           10,
			wantPaths:   []da.Path{da.NewPath("A", "B", "D"), da.NewPath("A", "C", "D"), da.NewPath("A", "B", "C", "D"), da.NewPath("A", "D")},
			wantWeights: []float64{2, 3, 3.5, 5},
		},
		{
			name:        "k two",
			k:           2,
			wantPaths:   []da.Path{da.NewPath("A", "B", "D"), da.NewPath("A", "C", "D")},
			wantWeights: []float64{2, 3},
		},
		{
			name:        "k one equals dijkstra",
			k:           1,
			wantPaths:   []da.Path{da.NewPath("A", "B", "D")},
			wantWeights: []float64{2},
		},
		{
			name: "k zero",
			k:    0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := KShortestPaths(g, "A", "D", tt.k)
			require.Len(t, got, len(tt.wantPaths))
			for i, c := range got {
				assert.Equal(t, tt.wantPaths[i], c.Path)
				assert.InDelta(t, tt.wantWeights[i], c.TotalWeight, 1e-9)
				assert.Equal(t, i+1, c.Rank)

				// spliced cost equals the sum of the arc weights
				w, ok := g.PathWeight(c.Path)
				require.True(t, ok)
				assert.InDelta(t, w, c.TotalWeight, 1e-9)
			}
		})
	}
}

func TestKShortestPathsInvariants(t *testing.T) {
	// 3x3 grid with two way arcs
	g := da.NewGraph()
	ids := [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"g", "h", "i"}}
	weight := 1.0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if c+1 < 3 {
				g.AddEdge(ids[r][c], ids[r][c+1], weight, da.EdgeData{})
				g.AddEdge(ids[r][c+1], ids[r][c], weight, da.EdgeData{})
			}
			if r+1 < 3 {
				g.AddEdge(ids[r][c], ids[r+1][c], weight+0.5, da.EdgeData{})
				g.AddEdge(ids[r+1][c], ids[r][c], weight+0.5, da.EdgeData{})
			}
			weight += 0.1
		}
	}

	got := KShortestPaths(g, "a", "i", 8)
	require.Len(t, got, 8)

	seen := make(map[string]struct{})
	for i, c := range got {
		if i > 0 {
			assert.GreaterOrEqual(t, c.TotalWeight, got[i-1].TotalWeight)
		}

		_, dup := seen[c.Path.Key()]
		assert.False(t, dup, "paths must be distinct")
		seen[c.Path.Key()] = struct{}{}

		visited := make(map[string]struct{})
		for _, node := range c.Path {
			_, loop := visited[node]
			assert.False(t, loop, "paths must be loopless")
			visited[node] = struct{}{}
		}
		assert.Equal(t, "a", c.Path.Source())
		assert.Equal(t, "i", c.Path.Target())
	}

	shortest, w, _ := ShortestPath(g, "a", "i", nil)
	assert.Equal(t, shortest, got[0].Path)
	assert.InDelta(t, w, got[0].TotalWeight, 1e-9)
}

func TestKShortestPathsNoPath(t *testing.T) {
	g := fourPathGraph()
	assert.Empty(t, KShortestPaths(g, "D", "A", 5))
	assert.Empty(t, KShortestPaths(g, "A", "missing", 5))
}

func TestKShortestPathsFillsMetrics(t *testing.T) {
	g := buildTestGraph([]testArc{
		{from: "A", to: "B", weight: 10, length: 2, congestion: 4},
		{from: "B", to: "C", weight: 10, length: 3, congestion: 6},
	})
	got := KShortestPaths(g, "A", "C", 3)
	require.Len(t, got, 1)
	assert.InDelta(t, 5.0, got[0].Distance, 1e-9)
	assert.InDelta(t, 10.0, got[0].Congestion, 1e-9)
	assert.InDelta(t, 20.0, got[0].Duration, 1e-9)
}

func TestDijkstraDecreasesQueuedDistance(t *testing.T) {
	// C is queued at 10 through the direct arc, then improved to 2 through B
	g := da.NewGraph()
	g.AddEdge("A", "C", 10, da.EdgeData{})
	g.AddEdge("A", "B", 1, da.EdgeData{})
	g.AddEdge("B", "C", 1, da.EdgeData{})
	g.AddEdge("C", "D", 1, da.EdgeData{})

	var (
		path   da.Path
		weight float64
		ok     bool
	)
	require.NotPanics(t, func() {
		path, weight, ok = ShortestPath(g, "A", "D", nil)
	})
	require.True(t, ok)
	assert.Equal(t, da.NewPath("A", "B", "C", "D"), path)
	assert.InDelta(t, 3.0, weight, 1e-9)
}
