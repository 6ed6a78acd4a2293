package trace

import (
	"container/heap"
	"math"
	"sort"
)

// edgeConnection is a geometric continuation from one edge node to
// another through their shared region.
type edgeConnection struct {
	nodeIdx int
	cost    float64
}

// edgeNode is a node in the derived graph whose vertices are region
// adjacencies rather than regions. Geometrically an edge is the segment
// between two region centroids; a path of edge nodes is a chain of such
// segments, and the solver rewards chains whose worst bend is smallest.
type edgeNode struct {
	edge           edge
	connections    []edgeConnection
	pathCost       float64
	prevNodeIdx    int
	leftmostRegion int
	heapIdx        int
}

// buildEdgeGraph creates one edge node per discovered edge, fills in the
// region adjacency lists, and connects pairs of edges incident to a
// common region whose centroid vectors continue each other within
// maxAngleDeg. The transition cost is max(0, 1 - cos^2) of the signed
// squared cosine between the two vectors, so straight continuations are
// nearly free and the angular gate cuts off sharp turns entirely.
func buildEdgeGraph(regions []Region, edges []edge, maxAngleDeg float64) []edgeNode {
	nodes := make([]edgeNode, 0, len(edges))
	nodeIdx := make(map[edge]int, len(edges))

	for _, e := range edges {
		nodeIdx[e] = len(nodes)
		nodes = append(nodes, edgeNode{
			edge:           e,
			pathCost:       math.Inf(1),
			prevNodeIdx:    -1,
			leftmostRegion: -1,
			heapIdx:        -1,
		})
		regions[e.lesser].connectedRegions = append(regions[e.lesser].connectedRegions, e.greater)
		regions[e.greater].connectedRegions = append(regions[e.greater].connectedRegions, e.lesser)
	}

	cosThreshold := math.Cos(maxAngleDeg * math.Pi / 180)
	cosSqThreshold := cosThreshold * cosThreshold

	for regionIdx := range regions {
		region := &regions[regionIdx]
		center := region.Centroid.ToFloat()

		for i := 0; i < len(region.connectedRegions); i++ {
			region1Idx := region.connectedRegions[i]
			node1Idx := nodeIdx[newEdge(regionIdx, region1Idx)]
			vec1 := regions[region1Idx].Centroid.ToFloat().Sub(center)

			for j := i + 1; j < len(region.connectedRegions); j++ {
				region2Idx := region.connectedRegions[j]
				node2Idx := nodeIdx[newEdge(regionIdx, region2Idx)]
				vec2 := regions[region2Idx].Centroid.ToFloat().Sub(center)

				dot := vec1.Dot(vec2)
				cosSq := (math.Abs(dot) * -dot) / (vec1.SquaredNorm() * vec2.SquaredNorm())
				cost := math.Max(1-cosSq, 0)

				if cosSq > cosSqThreshold {
					nodes[node1Idx].connections = append(nodes[node1Idx].connections,
						edgeConnection{nodeIdx: node2Idx, cost: cost})
					nodes[node2Idx].connections = append(nodes[node2Idx].connections,
						edgeConnection{nodeIdx: node1Idx, cost: cost})
				}
			}
		}
	}

	return nodes
}

// pathQueue is an index-tracking heap over edge nodes, ordered by path
// cost. Every swap records the node's heap slot so the solver can
// reposition an already-queued node in place.
type pathQueue struct {
	nodes []edgeNode
	order []int
}

func (q *pathQueue) Len() int { return len(q.order) }

func (q *pathQueue) Less(i, j int) bool {
	return q.nodes[q.order[i]].pathCost < q.nodes[q.order[j]].pathCost
}

func (q *pathQueue) Swap(i, j int) {
	q.order[i], q.order[j] = q.order[j], q.order[i]
	q.nodes[q.order[i]].heapIdx = i
	q.nodes[q.order[j]].heapIdx = j
}

func (q *pathQueue) Push(x interface{}) {
	idx := x.(int)
	q.nodes[idx].heapIdx = len(q.order)
	q.order = append(q.order, idx)
}

func (q *pathQueue) Pop() interface{} {
	n := len(q.order)
	idx := q.order[n-1]
	q.order = q.order[:n-1]
	q.nodes[idx].heapIdx = -1
	return idx
}

// tieBreakEpsilon weights the transition-cost sum into the bottleneck
// cost so that among paths with an equally bad worst turn, the overall
// straighter one wins.
const tieBreakEpsilon = 0.001

// solvePaths finds, for every reachable edge node, the path from a
// leftmost region whose worst single transition is smallest. The
// relaxation rule is minimax with an epsilon tie-break:
//
//	newCost = max(pathCost, transition) + 0.001*transition
//
// It is deliberately not additive-weight Dijkstra.
func solvePaths(nodes []edgeNode, regions []Region) {
	queue := &pathQueue{nodes: nodes}

	for idx := range nodes {
		node := &nodes[idx]
		region1Idx := node.edge.lesser
		region2Idx := node.edge.greater

		if regions[region1Idx].leftmost {
			node.pathCost = 0
			node.leftmostRegion = region1Idx
			heap.Push(queue, idx)
		} else if regions[region2Idx].leftmost {
			node.pathCost = 0
			node.leftmostRegion = region2Idx
			heap.Push(queue, idx)
		}
	}

	for queue.Len() > 0 {
		idx := heap.Pop(queue).(int)
		node := &nodes[idx]

		for _, conn := range node.connections {
			node2 := &nodes[conn.nodeIdx]
			newCost := math.Max(node.pathCost, conn.cost) + tieBreakEpsilon*conn.cost
			if newCost < node2.pathCost {
				node2.pathCost = newCost
				node2.prevNodeIdx = idx
				node2.leftmostRegion = node.leftmostRegion
				if node2.heapIdx == -1 {
					heap.Push(queue, conn.nodeIdx)
				} else {
					heap.Fix(queue, node2.heapIdx)
				}
			}
		}
	}
}

// extractEdgePaths reduces the solved graph to one winning path per
// leftmost-region origin: first the cheapest edge node reaching each
// distinct rightmost region, then the cheapest of those per distinct
// origin. Each winner is walked back through predecessor pointers and
// returned leftmost-first.
func extractEdgePaths(nodes []edgeNode, regions []Region) [][]int {
	// Rightmost region -> cheapest edge node reaching it.
	bestIncoming := make(map[int]int)
	for idx := range nodes {
		node := &nodes[idx]

		var rightmostRegion int
		if regions[node.edge.lesser].rightmost {
			rightmostRegion = node.edge.lesser
		} else if regions[node.edge.greater].rightmost {
			rightmostRegion = node.edge.greater
		} else {
			continue
		}

		if node.leftmostRegion == -1 {
			// No path reached this node.
			continue
		}

		best, ok := bestIncoming[rightmostRegion]
		if !ok || node.pathCost < nodes[best].pathCost {
			bestIncoming[rightmostRegion] = idx
		}
	}

	// Leftmost origin -> cheapest of the incoming winners.
	bestOutgoing := make(map[int]int)
	for _, rightmost := range sortedKeys(bestIncoming) {
		idx := bestIncoming[rightmost]
		origin := nodes[idx].leftmostRegion

		best, ok := bestOutgoing[origin]
		if !ok || nodes[idx].pathCost < nodes[best].pathCost {
			bestOutgoing[origin] = idx
		}
	}

	var paths [][]int
	for _, origin := range sortedKeys(bestOutgoing) {
		var path []int

		idx := bestOutgoing[origin]
		for {
			path = append(path, idx)

			node := &nodes[idx]
			if node.edge.lesser == origin || node.edge.greater == origin {
				break
			}
			idx = node.prevNodeIdx
		}

		// The walk runs right to left; emit paths left to right.
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		paths = append(paths, path)
	}
	return paths
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
