// Package trace extracts quasi-horizontal text-baseline curves from a
// scanned grayscale page, producing the vertical bounds and horizontal
// curves a distortion model is built from.
package trace

// gridCell packs the per-pixel region-growing state into one word.
//
// Layout (MSB to LSB): [finalized: 1 bit][region label: 23 bits][gray level: 8 bits]
//
// Label 0 means "no region". The three fields are only ever touched
// through the masked accessors below, so partial updates cannot corrupt
// neighboring fields.
type gridCell uint32

const (
	grayLevelMask gridCell = 0x000000FF
	labelMask     gridCell = 0x7FFFFF00
	finalizedMask gridCell = 0x80000000
)

func newGridCell(gray uint8, label uint32, finalized bool) gridCell {
	c := gridCell(label)<<8 | gridCell(gray)
	if finalized {
		c |= finalizedMask
	}
	return c
}

func (c gridCell) grayLevel() uint8 {
	return uint8(c & grayLevelMask)
}

func (c *gridCell) setGrayLevel(gray uint8) {
	*c = (*c &^ grayLevelMask) | gridCell(gray)
}

func (c gridCell) label() uint32 {
	return uint32(c&labelMask) >> 8
}

func (c *gridCell) setLabel(label uint32) {
	*c = (*c &^ labelMask) | gridCell(label)<<8
}

// validRegion reports whether the cell belongs to any region.
func (c gridCell) validRegion() bool {
	return c.label() != 0
}

func (c gridCell) regionIdx() int {
	return int(c.label()) - 1
}

func (c *gridCell) setRegionIdx(idx int) {
	c.setLabel(uint32(idx) + 1)
}

func (c gridCell) finalized() bool {
	return c&finalizedMask != 0
}

func (c *gridCell) setFinalized(finalized bool) {
	if finalized {
		*c |= finalizedMask
	} else {
		*c &^= finalizedMask
	}
}

// cellGrid is a dense w x h cell array with a one-cell padding frame so
// that 4-neighbor walks never need bounds checks. Padding cells are
// permanently finalized with no region.
type cellGrid struct {
	w, h   int
	stride int
	origin int // index of cell (0, 0)
	cells  []gridCell
}

func newCellGrid(w, h int) *cellGrid {
	stride := w + 2
	g := &cellGrid{
		w:      w,
		h:      h,
		stride: stride,
		origin: stride + 1,
		cells:  make([]gridCell, stride*(h+2)),
	}
	padding := newGridCell(0, 0, true)
	for i := range g.cells {
		g.cells[i] = padding
	}
	for y := 0; y < h; y++ {
		row := g.cells[g.origin+y*stride:]
		for x := 0; x < w; x++ {
			row[x] = 0
		}
	}
	return g
}

func (g *cellGrid) offsetOf(x, y int) int {
	return g.origin + y*g.stride + x
}

func (g *cellGrid) at(x, y int) *gridCell {
	return &g.cells[g.offsetOf(x, y)]
}
