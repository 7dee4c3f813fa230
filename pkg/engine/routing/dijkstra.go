package routing

import (
	"fmt"

	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

type vertexInfo struct {
	dist    float64
	parent  string
	settled bool
	pqNode  *da.PriorityQueueNode[string]
}

// Dijkstra. single pair shortest path over a read-only graph snapshot.
// a Dijkstra value is not safe for concurrent use, create one per goroutine.
type Dijkstra struct {
	graph *da.Graph

	info map[string]*vertexInfo
	pq   *da.MinHeap[string]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph) *Dijkstra {
	return &Dijkstra{
		graph: graph,
		info:  make(map[string]*vertexInfo),
		// equal distances are settled in lexicographic node id order
		pq: da.NewFourAryHeapWithTieBreak(func(a, b string) bool { return a < b }),
	}
}

func (d *Dijkstra) reset() {
	d.info = make(map[string]*vertexInfo)
	d.pq.Preallocate(d.graph.NumberOfVertices())
	d.numSettledNodes = 0
}

func (d *Dijkstra) GetNumSettledNodes() int {
	return d.numSettledNodes
}

// ShortestPath returns the minimum weight path from start to end that uses no arc of blocked.
// found is false if start or end is not in the graph or end is unreachable.
func (d *Dijkstra) ShortestPath(start, end string, blocked da.EdgeSet) (da.Path, float64, bool) {
	return d.ShortestPathExcluding(start, end, blocked, nil)
}

// ShortestPathExcluding is ShortestPath that additionally never enters a vertex of blockedNodes.
func (d *Dijkstra) ShortestPathExcluding(start, end string, blocked da.EdgeSet,
	blockedNodes map[string]struct{}) (da.Path, float64, bool) {
	if !d.graph.HasNode(start) || !d.graph.HasNode(end) {
		return nil, pkg.INF_WEIGHT, false
	}
	if start == end {
		return da.NewPath(start), 0, true
	}

	d.reset()

	startNode := da.NewPriorityQueueNode(0, start)
	d.pq.Insert(startNode)
	d.info[start] = &vertexInfo{dist: 0, pqNode: startNode}

	for !d.pq.IsEmpty() {
		minItem, _ := d.pq.ExtractMin()
		u := minItem.GetItem()
		uInfo := d.info[u]
		uInfo.settled = true
		d.numSettledNodes++

		if u == end {
			break
		}

		d.graph.ForOutEdgesOf(u, func(v string, e da.EdgeData) {
			if blocked.Contains(u, v) {
				return
			}
			if _, skip := blockedNodes[v]; skip {
				return
			}

			newDist := uInfo.dist + e.GetWeight()
			vInfo, seen := d.info[v]
			if !seen {
				vNode := da.NewPriorityQueueNode(newDist, v)
				d.pq.Insert(vNode)
				d.info[v] = &vertexInfo{dist: newDist, parent: u, pqNode: vNode}
				return
			}
			if vInfo.settled || newDist >= vInfo.dist {
				return
			}
			vInfo.dist = newDist
			vInfo.parent = u
			// an unsettled vertex is always still queued and newDist is strictly smaller
			if err := d.pq.DecreaseKey(vInfo.pqNode, newDist); err != nil {
				panic(fmt.Sprintf("dijkstra: decrease key of %s: %v", v, err))
			}
		})
	}

	endInfo, ok := d.info[end]
	if !ok || !endInfo.settled {
		return nil, pkg.INF_WEIGHT, false
	}

	path := make(da.Path, 0)
	for cur := end; cur != start; cur = d.info[cur].parent {
		path = append(path, cur)
	}
	path = append(path, start)

	return da.Path(reversePath(path)), endInfo.dist, true
}

// ShortestPath. convenience wrapper running a fresh Dijkstra on g.
func ShortestPath(g *da.Graph, start, end string, blocked da.EdgeSet) (da.Path, float64, bool) {
	return NewDijkstra(g).ShortestPath(start, end, blocked)
}
