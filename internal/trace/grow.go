package trace

import (
	"container/heap"
	"image"
	"sort"

	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

// Region is a labeled blob of seed pixels. Its centroid is computed from
// the seed pixels only, not from the full grown area. Regions are created
// once and never deleted, only marked.
type Region struct {
	Centroid         geometry.PointInt
	connectedRegions []int
	leftmost         bool
	rightmost        bool
}

// initRegions creates one Region per 8-connected seed blob, in raster
// order of blob discovery.
func initRegions(seeds *imgproc.Bitmap) []Region {
	cmap := imgproc.NewConnMap(seeds, imgproc.Conn8)
	centroids := cmap.Centroids()

	regions := make([]Region, len(centroids))
	for i, c := range centroids {
		regions[i] = Region{Centroid: c}
	}
	return regions
}

// growPosition is an entry in the region-growing queue: a grid offset plus
// the iteration it was queued at, used as a FIFO tie-break.
type growPosition struct {
	gridOffset int
	order      uint32
}

// growQueue orders positions by ascending gray level of their cell,
// breaking ties by earliest queue insertion.
type growQueue struct {
	cells     []gridCell
	positions []growPosition
}

func (q *growQueue) Len() int { return len(q.positions) }

func (q *growQueue) Less(i, j int) bool {
	a, b := q.positions[i], q.positions[j]
	ga := q.cells[a.gridOffset].grayLevel()
	gb := q.cells[b.gridOffset].grayLevel()
	if ga != gb {
		return ga < gb
	}
	return a.order < b.order
}

func (q *growQueue) Swap(i, j int) {
	q.positions[i], q.positions[j] = q.positions[j], q.positions[i]
}

func (q *growQueue) Push(x interface{}) {
	q.positions = append(q.positions, x.(growPosition))
}

func (q *growQueue) Pop() interface{} {
	old := q.positions
	n := len(old)
	item := old[n-1]
	q.positions = old[:n-1]
	return item
}

// buildGrid copies the blurred gray levels into a fresh cell grid and
// marks everything outside the thick mask as permanently finalized, which
// keeps the priority flood inside the mask.
func buildGrid(blurred *image.Gray, thickMask *imgproc.Bitmap) *cellGrid {
	b := blurred.Bounds()
	w, h := b.Dx(), b.Dy()
	grid := newCellGrid(w, h)

	for y := 0; y < h; y++ {
		row := blurred.Pix[y*blurred.Stride : y*blurred.Stride+w]
		for x := 0; x < w; x++ {
			cell := grid.at(x, y)
			cell.setGrayLevel(row[x])
			cell.setFinalized(!thickMask.Get(x, y))
		}
	}
	return grid
}

// growRegions labels every grid cell. Phase A floods region labels
// outward from the region centroids through the thick mask, visiting the
// darkest cells first. Phase B extends labels to all remaining cells by
// anisotropic distance.
func growRegions(grid *cellGrid, regions []Region) {
	queue := &growQueue{cells: grid.cells}

	for idx := range regions {
		c := regions[idx].Centroid
		offset := grid.offsetOf(c.X, c.Y)
		cell := &grid.cells[offset]
		cell.setRegionIdx(idx)
		cell.setFinalized(true)
		queue.positions = append(queue.positions, growPosition{gridOffset: offset})
	}
	heap.Init(queue)

	nbhOffsets := [4]int{-grid.stride, -1, 1, grid.stride}

	var iteration uint32
	for queue.Len() > 0 {
		iteration++

		pos := heap.Pop(queue).(growPosition)
		label := grid.cells[pos.gridOffset].label()

		// Spread the label to 4-connected neighbors.
		for _, d := range nbhOffsets {
			nbhOffset := pos.gridOffset + d
			nbh := &grid.cells[nbhOffset]
			if !nbh.finalized() {
				nbh.setFinalized(true)
				nbh.setLabel(label)
				heap.Push(queue, growPosition{gridOffset: nbhOffset, order: iteration})
			}
		}
	}

	distanceDrivenGrowth(grid)
}

const infSqdist = ^uint32(0)

// Vertical distances are scaled up so that horizontal proximity wins
// 3:1 over vertical when assigning far-away cells to regions.
const vertScale = 3

// proximityRegion is a lower-envelope stack entry for the horizontal
// distance-transform pass.
type proximityRegion struct {
	xOrigin      int
	xMaybeLeader int // where this region may become the closest one
}

// distanceDrivenGrowth labels every cell with its geometrically nearest
// region under the vertically-scaled squared distance, using the
// linear-time two-pass distance transform of Meijster, Roerdink and
// Hesselink (2000): a per-column scan followed by a per-row
// lower-envelope merge.
func distanceDrivenGrowth(grid *cellGrid) {
	w, h := grid.w, grid.h
	stride := grid.stride

	sqdist := make([]uint32, w*h)

	// Per-column pass: scaled squared distance to the closest labeled
	// cell in the same column, propagating labels both ways.
	for x := 0; x < w; x++ {
		off := grid.offsetOf(x, 0)
		soff := x

		y := 0
		for ; y < h && !grid.cells[off].validRegion(); y++ {
			sqdist[soff] = infSqdist
			off += stride
			soff += w
		}
		if y == h {
			continue
		}

		// Incremental (d*vertScale)^2: vsPlus2dvs tracks
		// vertScale + 2*d*vertScale^2 growth terms.
		vsPlus2dvs := uint32(vertScale)
		dvsSquared := uint32(0)
		closestLabel := uint32(0)

		for ; y < h; y++ {
			cell := &grid.cells[off]
			if cell.validRegion() {
				sqdist[soff] = 0
				dvsSquared = 0
				vsPlus2dvs = vertScale
				closestLabel = cell.label()
			} else {
				vsPlus2dvs += 2 * vertScale
				dvsSquared += vertScale * vsPlus2dvs
				sqdist[soff] = dvsSquared
				cell.setLabel(closestLabel)
			}
			off += stride
			soff += w
		}

		y--
		off -= stride
		soff -= w

		// Back up to the lowest labeled cell, then sweep upward.
		for ; y >= 0 && sqdist[soff] != 0; y-- {
			off -= stride
			soff -= w
		}

		for ; y >= 0; y-- {
			cell := &grid.cells[off]
			if sqdist[soff] == 0 {
				dvsSquared = 0
				vsPlus2dvs = vertScale
				closestLabel = cell.label()
			} else {
				vsPlus2dvs += 2 * vertScale
				dvsSquared += vertScale * vsPlus2dvs
				if dvsSquared < sqdist[soff] {
					sqdist[soff] = dvsSquared
					cell.setLabel(closestLabel)
				}
			}
			off -= stride
			soff -= w
		}
	}

	origLabels := make([]uint32, w)
	prxRegs := make([]proximityRegion, w)

	// Per-row pass: merge the column distances through the parabola
	// lower envelope, assigning each cell the label of the winning
	// column.
	for y := 0; y < h; y++ {
		sqdistLine := sqdist[y*w : y*w+w]

		sq := func(elevatedX, groundX int) int64 {
			dx := int64(elevatedX - groundX)
			return dx*dx + int64(sqdistLine[elevatedX])
		}

		next := 0
		prxRegs[0] = proximityRegion{}

		for x := 1; x < w; x++ {
			for sqdistLine[prxRegs[next].xOrigin] == infSqdist ||
				(sqdistLine[x] != infSqdist &&
					sq(prxRegs[next].xOrigin, prxRegs[next].xMaybeLeader) > sq(x, prxRegs[next].xMaybeLeader)) {

				// next will never win over a region with xOrigin == x
				// and can be discarded.
				if next != 0 {
					next--
				} else {
					prxRegs[next].xOrigin = x
					break
				}
			}

			nextX := prxRegs[next].xOrigin
			if x != nextX && sqdistLine[x] != infSqdist {
				// Where would a region with xOrigin at x take over
				// next? It cannot be already taken over; the loop
				// above handles that.
				xTakeOver := 0
				if sqdistLine[nextX] != infSqdist {
					num := int64(x)*int64(x) - int64(nextX)*int64(nextX) +
						int64(sqdistLine[x]) - int64(sqdistLine[nextX])
					xTakeOver = int(num/int64(2*(x-nextX))) + 1
				}
				if xTakeOver >= 0 && xTakeOver < w {
					next++
					prxRegs[next] = proximityRegion{xOrigin: x, xMaybeLeader: xTakeOver}
				}
			}
		}

		rowOff := grid.offsetOf(0, y)
		for x := 0; x < w; x++ {
			origLabels[x] = grid.cells[rowOff+x].label()
		}

		for x := w - 1; x >= 0; x-- {
			grid.cells[rowOff+x].setLabel(origLabels[prxRegs[next].xOrigin])
			if prxRegs[next].xMaybeLeader == x {
				next--
			}
		}
	}
}

// edge is an unordered pair of adjacent regions, canonicalized so it can
// serve as a deduplicating set key.
type edge struct {
	lesser  int
	greater int
}

func newEdge(a, b int) edge {
	if a < b {
		return edge{lesser: a, greater: b}
	}
	return edge{lesser: b, greater: a}
}

// discoverEdges scans horizontal and vertical pixel pairs inside the
// thick mask and collects one canonical edge per adjacent region pair.
// The result is sorted so downstream graph construction is deterministic
// regardless of discovery order.
func discoverEdges(grid *cellGrid, thickMask *imgproc.Bitmap) []edge {
	w, h := grid.w, grid.h
	set := make(map[edge]struct{})

	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			if !thickMask.Get(x, y) || !thickMask.Get(x-1, y) {
				continue
			}
			c1 := grid.cells[grid.offsetOf(x, y)]
			c2 := grid.cells[grid.offsetOf(x-1, y)]
			if c1.validRegion() && c2.validRegion() && c1.regionIdx() != c2.regionIdx() {
				set[newEdge(c1.regionIdx(), c2.regionIdx())] = struct{}{}
			}
		}
	}

	for x := 0; x < w; x++ {
		for y := 1; y < h; y++ {
			if !thickMask.Get(x, y) || !thickMask.Get(x, y-1) {
				continue
			}
			c1 := grid.cells[grid.offsetOf(x, y)]
			c2 := grid.cells[grid.offsetOf(x, y-1)]
			if c1.validRegion() && c2.validRegion() && c1.regionIdx() != c2.regionIdx() {
				set[newEdge(c1.regionIdx(), c2.regionIdx())] = struct{}{}
			}
		}
	}

	edges := make([]edge, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].lesser != edges[j].lesser {
			return edges[i].lesser < edges[j].lesser
		}
		return edges[i].greater < edges[j].greater
	})
	return edges
}

// markEdgeRegions walks the vertical bound lines and marks the regions
// they pass through as leftmost or rightmost. A region can be both on a
// degenerate narrow page, or neither.
func markEdgeRegions(regions []Region, grid *cellGrid, leftBound, rightBound geometry.Line) {
	w, h := grid.w, grid.h

	for y := 0; y < h; y++ {
		leftX := 0
		if x, ok := leftBound.XAtY(float64(y)); ok {
			leftX = clampInt(roundInt(x), 0, w-1)
		}
		if cell := grid.cells[grid.offsetOf(leftX, y)]; cell.validRegion() {
			regions[cell.regionIdx()].leftmost = true
		}

		rightX := w - 1
		if x, ok := rightBound.XAtY(float64(y)); ok {
			rightX = clampInt(roundInt(x), 0, w-1)
		}
		if cell := grid.cells[grid.offsetOf(rightX, y)]; cell.validRegion() {
			regions[cell.regionIdx()].rightmost = true
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
