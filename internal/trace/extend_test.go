package trace

import (
	"testing"

	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

func testTracerImages(w, h int) TracerImages {
	content := imgproc.NewBitmap(w, h)
	content.Fill(true)
	mask := imgproc.NewBitmap(w, h)
	mask.Fill(true)
	return TracerImages{
		Content:   content,
		ThickMask: mask,
		Blurred:   uniformBlurred(w, h, 128),
	}
}

func TestLineStepTracer_WalksToBound(t *testing.T) {
	imgs := testTracerImages(100, 50)
	bound := geometry.NewLine(geometry.NewPoint2D(10, 0), geometry.NewPoint2D(10, 50))

	tracer := newLineStepTracer(imgs, bound, geometry.NewPoint2D(30, 25))

	var pts []geometry.Point2D
	for {
		pt, ok := tracer.Next(30)
		if !ok {
			break
		}
		pts = append(pts, pt)
	}

	if len(pts) == 0 {
		t.Fatal("tracer made no steps")
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X >= pts[i-1].X {
			t.Fatalf("steps not monotonic toward the bound: %v", pts)
		}
	}
	if last := pts[len(pts)-1]; last.X > 12 {
		t.Errorf("tracer stopped at x=%f, too far from the bound", last.X)
	}
}

func TestLineStepTracer_RespectsBudget(t *testing.T) {
	imgs := testTracerImages(200, 50)
	bound := geometry.NewLine(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(0, 50))

	tracer := newLineStepTracer(imgs, bound, geometry.NewPoint2D(150, 25))

	steps := 0
	prev := geometry.NewPoint2D(150, 25)
	for {
		pt, ok := tracer.Next(30)
		if !ok {
			break
		}
		steps++
		prev = pt
	}
	// At most 6 steps of up to 5 px fit in a 30 px budget.
	if steps > 6 {
		t.Errorf("tracer made %d steps, budget allows 6", steps)
	}
	if prev.X < 118 {
		t.Errorf("tracer overshot to x=%f", prev.X)
	}
}

func TestLineStepTracer_FollowsDarkPixels(t *testing.T) {
	imgs := testTracerImages(100, 50)
	// A dark row slightly above the walking line.
	for x := 0; x < 100; x++ {
		imgs.Blurred.Pix[23*imgs.Blurred.Stride+x] = 10
	}
	bound := geometry.NewLine(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(0, 50))

	tracer := newLineStepTracer(imgs, bound, geometry.NewPoint2D(40, 25))
	pt, ok := tracer.Next(30)
	if !ok {
		t.Fatal("tracer made no step")
	}
	if pt.Y != 23 {
		t.Errorf("step y = %f, want 23 (the dark row)", pt.Y)
	}
}

func TestExtendTowardsBounds_GrowsBothEnds(t *testing.T) {
	imgs := testTracerImages(100, 50)
	left, right := vertBoundsAt(5, 95, 50)

	polyline := []geometry.Point2D{{X: 30, Y: 25}, {X: 70, Y: 25}}
	extended := extendTowardsBounds(polyline, left, right, imgs, newLineStepTracer, 30)

	if len(extended) <= 2 {
		t.Fatalf("polyline not extended: %v", extended)
	}
	if extended[0].X >= 30 {
		t.Errorf("head not grown toward the left bound: %v", extended[0])
	}
	if extended[len(extended)-1].X <= 70 {
		t.Errorf("tail not grown toward the right bound: %v", extended[len(extended)-1])
	}
	for i := 1; i < len(extended); i++ {
		if extended[i].X <= extended[i-1].X {
			t.Fatalf("extended polyline not monotonic in x: %v", extended)
		}
	}
}

func TestExtendTowardsBounds_SwapsReversedBounds(t *testing.T) {
	imgs := testTracerImages(100, 50)
	left, right := vertBoundsAt(5, 95, 50)

	// Polyline runs right to left; the head must still grow toward the
	// bound it is closest to.
	polyline := []geometry.Point2D{{X: 70, Y: 25}, {X: 30, Y: 25}}
	extended := extendTowardsBounds(polyline, left, right, imgs, newLineStepTracer, 30)

	if extended[0].X <= 70 {
		t.Errorf("head of reversed polyline grew the wrong way: %v", extended[0])
	}
	if extended[len(extended)-1].X >= 30 {
		t.Errorf("tail of reversed polyline grew the wrong way: %v", extended[len(extended)-1])
	}
}
