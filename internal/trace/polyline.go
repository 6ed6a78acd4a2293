package trace

import (
	"fmt"

	"page-tracer/pkg/geometry"
)

// edgePathsToPolylines converts each winning edge-node path into an
// ordered sequence of region centroids. Adjacent edges on a path share
// exactly one region; that invariant is established by graph
// construction, so a violation is a bug and aborts the program.
func edgePathsToPolylines(paths [][]int, nodes []edgeNode, regions []Region) [][]geometry.Point2D {
	var polylines [][]geometry.Point2D

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}

		if len(path) == 1 {
			e := nodes[path[0]].edge
			polylines = append(polylines, []geometry.Point2D{
				regions[e.lesser].Centroid.ToFloat(),
				regions[e.greater].Centroid.ToFloat(),
			})
			continue
		}

		regionIndexes := make([]int, 1, len(path)+1)

		for i := 0; i+1 < len(path); i++ {
			connecting := findConnectingRegion(nodes[path[i]].edge, nodes[path[i+1]].edge)
			if connecting == -1 {
				panic(fmt.Sprintf(
					"path edges %v and %v share no region",
					nodes[path[i]].edge, nodes[path[i+1]].edge,
				))
			}
			regionIndexes = append(regionIndexes, connecting)
		}

		// The first and last regions are the edge endpoints not shared
		// with the neighboring edge.
		firstEdge := nodes[path[0]].edge
		if firstEdge.lesser == regionIndexes[1] {
			regionIndexes[0] = firstEdge.greater
		} else {
			regionIndexes[0] = firstEdge.lesser
		}

		lastEdge := nodes[path[len(path)-1]].edge
		if lastEdge.lesser == regionIndexes[len(regionIndexes)-1] {
			regionIndexes = append(regionIndexes, lastEdge.greater)
		} else {
			regionIndexes = append(regionIndexes, lastEdge.lesser)
		}

		polyline := make([]geometry.Point2D, len(regionIndexes))
		for i, regionIdx := range regionIndexes {
			polyline[i] = regions[regionIdx].Centroid.ToFloat()
		}
		polylines = append(polylines, polyline)
	}

	return polylines
}

// findConnectingRegion returns the region shared by both edges, or -1.
func findConnectingRegion(edge1, edge2 edge) int {
	for _, idx1 := range [2]int{edge1.lesser, edge1.greater} {
		for _, idx2 := range [2]int{edge2.lesser, edge2.greater} {
			if idx1 == idx2 {
				return idx1
			}
		}
	}
	return -1
}
