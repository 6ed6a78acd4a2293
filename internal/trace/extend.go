package trace

import (
	"image"
	"math"

	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

// TracerImages bundles the raster context a step tracer works against.
type TracerImages struct {
	Content   *imgproc.Bitmap
	ThickMask *imgproc.Bitmap
	Blurred   *image.Gray
}

// StepTracer extends a polyline endpoint toward a bound line one step at
// a time. Next returns the next point, or false when the endpoint cannot
// be grown any further within maxDist of its starting position.
type StepTracer interface {
	Next(maxDist float64) (geometry.Point2D, bool)
}

// StepTracerFactory creates a StepTracer for one polyline endpoint.
type StepTracerFactory func(imgs TracerImages, bound geometry.Line, start geometry.Point2D) StepTracer

// maxExtensionStep limits how far a single extension step may reach.
const maxExtensionStep = 5.0

// lineStepTracer is the default StepTracer: it walks toward the
// projection of the endpoint onto the bound, preferring the darkest
// nearby blurred pixel at every step so the extension follows the faded
// remainder of the stroke rather than cutting across white space.
type lineStepTracer struct {
	imgs     TracerImages
	bound    geometry.Line
	pos      geometry.Point2D
	traveled float64
}

func newLineStepTracer(imgs TracerImages, bound geometry.Line, start geometry.Point2D) StepTracer {
	return &lineStepTracer{imgs: imgs, bound: bound, pos: start}
}

func (t *lineStepTracer) Next(maxDist float64) (geometry.Point2D, bool) {
	target := t.bound.Project(t.pos)
	delta := target.Sub(t.pos)
	dist := math.Sqrt(delta.SquaredNorm())
	if dist < 1 {
		return geometry.Point2D{}, false
	}

	step := math.Min(maxExtensionStep, dist)
	if t.traveled+step > maxDist {
		return geometry.Point2D{}, false
	}

	dir := delta.Scale(1 / dist)
	base := t.pos.Add(dir.Scale(step))

	w := t.imgs.Blurred.Bounds().Dx()
	h := t.imgs.Blurred.Bounds().Dy()

	// Pick the darkest candidate within a small vertical window.
	bestGray := -1
	var best geometry.Point2D
	for dy := -2; dy <= 2; dy++ {
		cand := geometry.Point2D{X: base.X, Y: base.Y + float64(dy)}
		x, y := roundInt(cand.X), roundInt(cand.Y)
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		gray := int(t.imgs.Blurred.Pix[y*t.imgs.Blurred.Stride+x])
		if bestGray == -1 || gray < bestGray {
			bestGray = gray
			best = cand
		}
	}
	if bestGray == -1 {
		return geometry.Point2D{}, false
	}

	t.traveled += step
	t.pos = best
	return best, true
}

// extendTowardsBounds grows both polyline endpoints toward the nearer
// vertical bound, up to maxDist per endpoint. The head is grown toward
// whichever bound the whole polyline lies closer to on that side.
func extendTowardsBounds(
	polyline []geometry.Point2D,
	leftBound, rightBound geometry.Line,
	imgs TracerImages,
	newTracer StepTracerFactory,
	maxDist float64,
) []geometry.Point2D {
	if len(polyline) == 0 {
		return polyline
	}

	head := polyline[0]
	tail := polyline[len(polyline)-1]

	// Swap bounds if the polyline runs the other way.
	headBound, tailBound := leftBound, rightBound
	if leftBound.ProjectionDist(head)+rightBound.ProjectionDist(tail) >
		leftBound.ProjectionDist(tail)+rightBound.ProjectionDist(head) {
		headBound, tailBound = rightBound, leftBound
	}

	var prefix []geometry.Point2D
	tracer := newTracer(imgs, headBound, head)
	for {
		pt, ok := tracer.Next(maxDist)
		if !ok {
			break
		}
		prefix = append([]geometry.Point2D{pt}, prefix...)
	}

	extended := append(prefix, polyline...)

	tracer = newTracer(imgs, tailBound, tail)
	for {
		pt, ok := tracer.Next(maxDist)
		if !ok {
			break
		}
		extended = append(extended, pt)
	}

	return extended
}
