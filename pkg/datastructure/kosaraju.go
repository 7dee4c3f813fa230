package datastructure

import (
	"sort"

	"github.com/lintang-b-s/dynroute/pkg/util"
)

// RunKosaraju. runs kosaraju's algorithm to find the strongly connected components (SCCs) of the road graph.
// every component is sorted, components are ordered by their smallest node id.
// a route query between two different components may have no path.
func (g *Graph) RunKosaraju() [][]string {
	nodes := g.GetNodes()

	order := make([]string, 0, len(nodes))
	visited := make(map[string]bool, len(nodes))
	for _, v := range nodes {
		if !visited[v] {
			g.dfs(v, &order, visited, g.adjacency)
		}
	}

	order = util.ReverseG(order)

	reversedAdj := make(map[string][]string, len(g.adjacency))
	for _, from := range nodes {
		for _, to := range g.adjacency[from] {
			reversedAdj[to] = append(reversedAdj[to], from)
		}
	}

	// reset visited
	visited = make(map[string]bool, len(nodes))
	components := make([][]string, 0, 1)
	for _, v := range order {
		if !visited[v] {
			component := make([]string, 0, 10)
			g.dfs(v, &component, visited, reversedAdj)
			sort.Strings(component)
			components = append(components, component)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

func (g *Graph) dfs(v string, output *[]string, visited map[string]bool, adj map[string][]string) {
	visited[v] = true
	for _, w := range adj[v] {
		if !visited[w] {
			g.dfs(w, output, visited, adj)
		}
	}
	*output = append(*output, v)
}
