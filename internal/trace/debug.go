package trace

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

// DebugSink receives intermediate pipeline images. It is write-only and
// purely observational: a nil sink changes nothing about the results.
type DebugSink interface {
	Add(img image.Image, name string)
}

// dbgAdd forwards an image to the sink if one is attached. The image is
// built lazily so that tracing with no sink pays nothing.
func (t *Tracer) dbgAdd(name string, build func() image.Image) {
	if t.Debug == nil {
		return
	}
	t.Debug.Add(build(), name)
}

// colorForLabel returns a stable, well-separated color for a region
// label. Walking the hue circle by a large stride keeps neighboring
// labels visually distinct.
func colorForLabel(label uint32) color.Color {
	hue := float64((label * 67) % 360)
	return colorful.Hsv(hue, 0.65, 0.95)
}

// visualizeRegions paints each labeled grid cell with its region color;
// unlabeled cells stay transparent.
func visualizeRegions(grid *cellGrid) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, grid.w, grid.h))
	for y := 0; y < grid.h; y++ {
		for x := 0; x < grid.w; x++ {
			cell := grid.cells[grid.offsetOf(x, y)]
			if cell.validRegion() {
				canvas.Set(x, y, colorForLabel(cell.label()))
			}
		}
	}
	return canvas
}

// visualizeBounds draws the two vertical bound lines over the background.
func visualizeBounds(background image.Image, leftBound, rightBound geometry.Line) image.Image {
	dc := gg.NewContextForImage(background)
	dc.SetRGBA(0, 0, 1, 0.7)
	dc.SetLineWidth(2)
	for _, bound := range []geometry.Line{leftBound, rightBound} {
		dc.DrawLine(bound.P1.X, bound.P1.Y, bound.P2.X, bound.P2.Y)
		dc.Stroke()
	}
	return dc.Image()
}

// visualizeGraph draws region connectivity over the background: an edge
// per adjacent region pair and a dot per region, colored by its
// leftmost/rightmost marking.
func visualizeGraph(background image.Image, regions []Region, edges []edge) image.Image {
	dc := gg.NewContextForImage(background)

	dc.SetRGBA(0, 0, 1, 1)
	dc.SetLineWidth(2)
	for _, e := range edges {
		p1 := regions[e.lesser].Centroid.ToFloat()
		p2 := regions[e.greater].Centroid.ToFloat()
		dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		dc.Stroke()
	}

	for _, region := range regions {
		switch {
		case region.leftmost && region.rightmost:
			dc.SetRGB(0, 1, 0)
		case region.leftmost:
			dc.SetRGB(1, 0, 1)
		case region.rightmost:
			dc.SetRGB(0, 1, 1)
		default:
			dc.SetRGB(1, 1, 0)
		}
		c := region.Centroid.ToFloat()
		dc.DrawCircle(c.X, c.Y, 7.5)
		dc.Fill()
	}

	return dc.Image()
}

// visualizePolylines draws traced curves over the background.
func visualizePolylines(background image.Image, polylines [][]geometry.Point2D) image.Image {
	dc := gg.NewContextForImage(background)
	dc.SetRGBA(0, 0, 1, 1)
	dc.SetLineWidth(3)
	for _, polyline := range polylines {
		if len(polyline) == 0 {
			continue
		}
		dc.MoveTo(polyline[0].X, polyline[0].Y)
		for _, pt := range polyline[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
	}
	return dc.Image()
}

// bitmapImage adapts a Bitmap for the debug sink.
func bitmapImage(b *imgproc.Bitmap) image.Image {
	return b.ToImage()
}
