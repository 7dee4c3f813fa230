package datastructure

import (
	"sort"
)

// Graph. weighted directed road graph keyed by string node ids.
// a Graph snapshot is read-only once built; UpdateEdgeWeight must be synchronized by the caller.
type Graph struct {
	nodes     map[string]struct{}
	edges     map[EdgeKey]EdgeData
	adjacency map[string][]string // from -> heads, in insertion order
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]struct{}),
		edges:     make(map[EdgeKey]EdgeData),
		adjacency: make(map[string][]string),
	}
}

// AddEdge inserts the arc from->to. adding an arc that already exists overwrites its data in place,
// the adjacency list never holds the same head twice.
func (g *Graph) AddEdge(from, to string, weight float64, data EdgeData) {
	if weight < 0 {
		weight = 0
	}
	data.setWeight(weight)

	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	key := EdgeKey{From: from, To: to}
	if _, exists := g.edges[key]; !exists {
		g.adjacency[from] = append(g.adjacency[from], to)
	}
	g.edges[key] = data
}

// AddNode registers an isolated vertex.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
}

func (g *Graph) GetNeighbors(node string) []OutEdge {
	heads := g.adjacency[node]
	neighbors := make([]OutEdge, 0, len(heads))
	for _, to := range heads {
		neighbors = append(neighbors, OutEdge{To: to, Data: g.edges[EdgeKey{From: node, To: to}]})
	}
	return neighbors
}

// ForOutEdgesOf calls handle for every outgoing arc of node in insertion order.
func (g *Graph) ForOutEdgesOf(node string, handle func(to string, data EdgeData)) {
	for _, to := range g.adjacency[node] {
		handle(to, g.edges[EdgeKey{From: node, To: to}])
	}
}

func (g *Graph) GetEdgeWeight(from, to string) (float64, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return 0, false
	}
	return e.weight, true
}

func (g *Graph) GetEdge(from, to string) (EdgeData, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	return e, ok
}

func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[EdgeKey{From: from, To: to}]
	return ok
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// UpdateEdgeWeight sets the weight of an existing arc. no-op if the arc is absent.
func (g *Graph) UpdateEdgeWeight(from, to string, weight float64) {
	key := EdgeKey{From: from, To: to}
	e, ok := g.edges[key]
	if !ok {
		return
	}
	if weight < 0 {
		weight = 0
	}
	e.setWeight(weight)
	g.edges[key] = e
}

func (g *Graph) NumberOfVertices() int {
	return len(g.nodes)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

// GetNodes returns all vertex ids in lexicographic order.
func (g *Graph) GetNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// ForEachEdge visits every arc ordered by (from, to).
func (g *Graph) ForEachEdge(handle func(key EdgeKey, data EdgeData)) {
	keys := make([]EdgeKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	for _, k := range keys {
		handle(k, g.edges[k])
	}
}

// PathWeight sums arc weights along path. ok is false if some consecutive pair is not an arc.
func (g *Graph) PathWeight(path Path) (float64, bool) {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		w, ok := g.GetEdgeWeight(path[i], path[i+1])
		if !ok {
			return 0, false
		}
		total += w
	}
	return total, true
}
