package routing

import (
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

/*
Yen, J.Y. (1971) "Finding the K Shortest Loopless Paths in a Network", Management Science, 17(11), pp. 712-716.

every accepted path A[k-1] is deviated at each of its nodes (spur node). the prefix up to the spur node (root path)
is kept, the arcs leaving the spur node along any accepted path that shares the same root are removed, the root
nodes before the spur node are removed, and the shortest spur path to the target is spliced onto the root.
*/
type YenKShortestPaths struct {
	graph    *da.Graph
	dijkstra *Dijkstra
}

func NewYenKShortestPaths(graph *da.Graph) *YenKShortestPaths {
	return &YenKShortestPaths{
		graph:    graph,
		dijkstra: NewDijkstra(graph),
	}
}

// FindKShortestPaths returns up to k distinct loopless paths from start to end in non-decreasing order of total
// weight. equal weights are ordered by hop count, then lexicographically by node ids.
func (y *YenKShortestPaths) FindKShortestPaths(start, end string, k int) []da.PathCandidate {
	if k <= 0 {
		return []da.PathCandidate{}
	}

	firstPath, firstWeight, found := y.dijkstra.ShortestPath(start, end, nil)
	if !found {
		return []da.PathCandidate{}
	}

	accepted := []da.PathCandidate{da.NewPathCandidate(firstPath, firstWeight)}
	acceptedKeys := map[string]struct{}{firstPath.Key(): {}}

	candidates := make(map[string]da.PathCandidate)
	candidateQueue := da.NewFourAryHeapWithTieBreak(func(a, b string) bool {
		ca, cb := candidates[a], candidates[b]
		if len(ca.Path) != len(cb.Path) {
			return len(ca.Path) < len(cb.Path)
		}
		return ca.Path.Less(cb.Path)
	})

	for len(accepted) < k {
		lastPath := accepted[len(accepted)-1].Path

		for i := 0; i < len(lastPath)-1; i++ {
			spurNode := lastPath[i]
			rootPath := lastPath[:i+1]

			rootCost, ok := y.graph.PathWeight(rootPath)
			if !ok {
				continue
			}

			blockedEdges := da.NewEdgeSet()
			for _, p := range accepted {
				if len(p.Path) > i+1 && p.Path.HasPrefix(rootPath) {
					blockedEdges.Add(p.Path[i], p.Path[i+1])
				}
			}

			blockedNodes := make(map[string]struct{}, i)
			for _, node := range rootPath[:i] {
				blockedNodes[node] = struct{}{}
			}

			spurPath, spurCost, found := y.dijkstra.ShortestPathExcluding(spurNode, end, blockedEdges, blockedNodes)
			if !found {
				continue
			}

			totalPath := make(da.Path, 0, i+len(spurPath))
			totalPath = append(totalPath, rootPath[:i]...)
			totalPath = append(totalPath, spurPath...)

			key := totalPath.Key()
			if _, ok := acceptedKeys[key]; ok {
				continue
			}
			if _, ok := candidates[key]; ok {
				continue
			}

			// root and spur share only the spur node, so the spliced cost is their sum
			totalCost := rootCost + spurCost
			candidates[key] = da.NewPathCandidate(totalPath, totalCost)
			candidateQueue.Insert(da.NewPriorityQueueNode(totalCost, key))
		}

		if candidateQueue.IsEmpty() {
			break
		}

		best, _ := candidateQueue.ExtractMin()
		key := best.GetItem()
		accepted = append(accepted, candidates[key])
		acceptedKeys[key] = struct{}{}
		delete(candidates, key)
	}

	for i := range accepted {
		accepted[i].Rank = i + 1
		accepted[i].FillMetrics(y.graph)
	}
	return accepted
}

// KShortestPaths. convenience wrapper running Yen's algorithm on g.
func KShortestPaths(g *da.Graph, start, end string, k int) []da.PathCandidate {
	return NewYenKShortestPaths(g).FindKShortestPaths(start, end, k)
}
