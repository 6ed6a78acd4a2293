package trace

import (
	"image"
	"testing"

	"page-tracer/pkg/geometry"
)

// recordingSink captures tracer output.
type recordingSink struct {
	left, right geometry.Line
	boundsSet   bool
	curves      [][]geometry.Point2D
}

func (s *recordingSink) SetVerticalBounds(left, right geometry.Line) {
	s.left, s.right = left, right
	s.boundsSet = true
}

func (s *recordingSink) AddHorizontalCurve(polyline []geometry.Point2D) {
	s.curves = append(s.curves, polyline)
}

// recordingDebugSink counts debug images by name.
type recordingDebugSink struct {
	names []string
}

func (s *recordingDebugSink) Add(img image.Image, name string) {
	s.names = append(s.names, name)
}

// twoLinePage paints two lines of word-like blobs on a light background.
// The gaps between blobs matter: a perfectly uniform stroke blurs into a
// single plateau that seeds just one region, and one region admits no
// edge path. Gapped blobs seed one region per word, giving each line a
// chain of edges to trace.
func twoLinePage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range img.Pix {
		img.Pix[i] = 220
	}
	wordSpans := [][2]int{{10, 40}, {50, 80}, {90, 120}, {130, 160}, {165, 190}}
	for _, lineY := range []int{18, 78} {
		for _, span := range wordSpans {
			for y := lineY; y < lineY+5; y++ {
				for x := span[0]; x < span[1]; x++ {
					img.Pix[y*img.Stride+x] = 30
				}
			}
		}
	}
	return img
}

func TestTracer_TwoTextLines(t *testing.T) {
	img := twoLinePage()
	sink := &recordingSink{}

	tracer := New(DefaultOptions())
	err := tracer.Trace(img, DPI{Horizontal: 200, Vertical: 200}, img.Bounds(), sink)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if !sink.boundsSet {
		t.Fatal("vertical bounds never reported")
	}
	if lx, _ := sink.left.XAtY(50); lx < 0 || lx > 20 {
		t.Errorf("left bound x = %f, want near 10", lx)
	}
	if rx, _ := sink.right.XAtY(50); rx < 180 || rx > 200 {
		t.Errorf("right bound x = %f, want near 190", rx)
	}

	if len(sink.curves) != 2 {
		t.Fatalf("got %d curves, want 2", len(sink.curves))
	}

	sawTop, sawBottom := false, false
	for _, curve := range sink.curves {
		if len(curve) < 2 {
			t.Fatalf("degenerate curve: %v", curve)
		}
		for i := 1; i < len(curve); i++ {
			if curve[i].X <= curve[i-1].X {
				t.Fatalf("curve x not increasing: %v", curve)
			}
		}

		// Each curve must hug one stroke centerline (y=20 or y=80)
		// within 2 px at every point.
		nominal := 20.0
		if curve[0].Y > 50 {
			nominal = 80.0
		}
		for _, pt := range curve {
			if pt.Y < nominal-2 || pt.Y > nominal+2 {
				t.Errorf("curve point %v strays more than 2 px from y=%f", pt, nominal)
			}
		}
		if nominal == 20 {
			sawTop = true
		} else {
			sawBottom = true
		}

		// Curves should span most of the text width.
		if width := curve[len(curve)-1].X - curve[0].X; width < 100 {
			t.Errorf("curve spans only %f px", width)
		}
	}
	if !sawTop || !sawBottom {
		t.Errorf("missing a text line: top=%v bottom=%v", sawTop, sawBottom)
	}
}

func TestTracer_ScalesResultsBackToInputDPI(t *testing.T) {
	// The same page at 400 DPI: twice the size, the tracer downscales
	// internally and must report coordinates in input space.
	small := twoLinePage()
	big := image.NewGray(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			big.Pix[y*big.Stride+x] = small.Pix[(y/2)*small.Stride+x/2]
		}
	}

	sink := &recordingSink{}
	tracer := New(DefaultOptions())
	if err := tracer.Trace(big, DPI{Horizontal: 400, Vertical: 400}, big.Bounds(), sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if len(sink.curves) != 2 {
		t.Fatalf("got %d curves, want 2", len(sink.curves))
	}
	for _, curve := range sink.curves {
		meanY := 0.0
		for _, pt := range curve {
			meanY += pt.Y
		}
		meanY /= float64(len(curve))
		if !(meanY > 28 && meanY < 54) && !(meanY > 148 && meanY < 174) {
			t.Errorf("curve mean y %f not in input coordinates", meanY)
		}
	}
}

func TestTracer_BlankPage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range img.Pix {
		img.Pix[i] = 220
	}

	sink := &recordingSink{}
	tracer := New(DefaultOptions())
	if err := tracer.Trace(img, DPI{Horizontal: 200, Vertical: 200}, img.Bounds(), sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(sink.curves) != 0 {
		t.Errorf("blank page produced %d curves", len(sink.curves))
	}
	if !sink.boundsSet {
		t.Error("bounds not reported for blank page")
	}
}

func TestTracer_InputValidation(t *testing.T) {
	tracer := New(DefaultOptions())
	sink := &recordingSink{}
	img := image.NewGray(image.Rect(0, 0, 10, 10))

	if err := tracer.Trace(nil, DPI{Horizontal: 200, Vertical: 200}, image.Rectangle{}, sink); err == nil {
		t.Error("nil input accepted")
	}
	if err := tracer.Trace(img, DPI{Horizontal: 200, Vertical: 200}, img.Bounds(), nil); err == nil {
		t.Error("nil sink accepted")
	}
	if err := tracer.Trace(img, DPI{}, img.Bounds(), sink); err == nil {
		t.Error("zero dpi accepted")
	}

	empty := image.NewGray(image.Rect(0, 0, 0, 0))
	if err := tracer.Trace(empty, DPI{Horizontal: 200, Vertical: 200}, empty.Bounds(), sink); err != nil {
		t.Errorf("empty image returned error: %v", err)
	}
}

func TestTracer_DebugSinkReceivesStages(t *testing.T) {
	img := twoLinePage()
	sink := &recordingSink{}
	dbg := &recordingDebugSink{}

	tracer := New(DefaultOptions())
	tracer.Debug = dbg
	if err := tracer.Trace(img, DPI{Horizontal: 200, Vertical: 200}, img.Bounds(), sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	want := map[string]bool{"binarized": false, "thick_mask": false, "regions": false}
	for _, name := range dbg.names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("debug stage %q never emitted", name)
		}
	}
}

// refinerSpy records that the refiner runs between the two filters.
type refinerSpy struct {
	calls      int
	iterations int
}

func (r *refinerSpy) Refine(polylines [][]geometry.Point2D, iterations int) [][]geometry.Point2D {
	r.calls++
	r.iterations = iterations
	return polylines
}

func TestTracer_RefinerInvoked(t *testing.T) {
	img := twoLinePage()
	sink := &recordingSink{}
	spy := &refinerSpy{}

	tracer := New(DefaultOptions())
	tracer.Refiner = spy
	if err := tracer.Trace(img, DPI{Horizontal: 200, Vertical: 200}, img.Bounds(), sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if spy.calls != 1 {
		t.Errorf("refiner called %d times, want 1", spy.calls)
	}
	if spy.iterations != DefaultOptions().RefineIterations {
		t.Errorf("refiner iterations = %d, want %d", spy.iterations, DefaultOptions().RefineIterations)
	}
}
