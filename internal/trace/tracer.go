package trace

import (
	"fmt"
	"image"

	"page-tracer/internal/binarize"
	"page-tracer/internal/bounds"
	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

// DPI is the input resolution per axis.
type DPI struct {
	Horizontal int
	Vertical   int
}

// DistortionModelSink consumes the tracer's findings, expressed in the
// coordinate system of the original input image.
type DistortionModelSink interface {
	SetVerticalBounds(left, right geometry.Line)
	AddHorizontalCurve(polyline []geometry.Point2D)
}

// Binarizer turns a grayscale image into an ink bitmap.
type Binarizer func(src *image.Gray) *imgproc.Bitmap

// BoundsDetector finds the left and right vertical content bounds of an
// ink bitmap.
type BoundsDetector func(ink *imgproc.Bitmap) (left, right geometry.Line)

// Refiner adjusts traced curves in place between the filtering stages,
// for up to the given number of iterations.
type Refiner interface {
	Refine(polylines [][]geometry.Point2D, iterations int) [][]geometry.Point2D
}

// Options holds the tracing parameters. All window sizes and distances
// assume the 200 DPI working resolution.
type Options struct {
	// BlurSigmaH and BlurSigmaV shape the anisotropic blur that merges
	// characters into line-long blobs.
	BlurSigmaH float64
	BlurSigmaV float64

	// ErodeWindow is the side of the grayscale erosion window used to
	// estimate the local background.
	ErodeWindow int

	// MaskTolerance is the maximum eroded-minus-blurred difference for a
	// pixel to count as part of a thick text stroke.
	MaskTolerance uint8

	// PeakWindowW and PeakWindowH bound the local-minimum search that
	// seeds text line regions.
	PeakWindowW int
	PeakWindowH int

	// SeedDilation is the side of the square dilation applied to the
	// grown seeds.
	SeedDilation int

	// TransitionAngleDeg is the maximum turn, in degrees, allowed
	// between consecutive inter-region steps of a traced path.
	TransitionAngleDeg float64

	// CurvatureAngleDeg is the deviation from straight, in degrees,
	// beyond which a curve segment counts as sharply bent.
	CurvatureAngleDeg float64

	// MaxExtension is how far, in pixels, curve endpoints may be grown
	// toward the vertical bounds.
	MaxExtension float64

	// RefineIterations caps the refiner.
	RefineIterations int
}

// DefaultOptions returns the parameters tuned for 200 DPI scans.
func DefaultOptions() Options {
	return Options{
		BlurSigmaH:         17,
		BlurSigmaV:         5,
		ErodeWindow:        31,
		MaskTolerance:      8,
		PeakWindowW:        31,
		PeakWindowH:        15,
		SeedDilation:       9,
		TransitionAngleDeg: 15,
		CurvatureAngleDeg:  6,
		MaxExtension:       30,
		RefineIterations:   100,
	}
}

// Tracer extracts quasi-horizontal text line curves from a scanned page.
// The zero value is not usable; construct with New.
type Tracer struct {
	Options Options

	// Binarize, DetectBounds and NewStepTracer are preset by New and may
	// be swapped before calling Trace.
	Binarize      Binarizer
	DetectBounds  BoundsDetector
	NewStepTracer StepTracerFactory

	// Refiner, when non-nil, is run on the curves between the
	// out-of-bounds and the curvature filters.
	Refiner Refiner

	// Debug, when non-nil, receives intermediate images.
	Debug DebugSink
}

// New returns a Tracer with the default collaborators wired in.
func New(opts Options) *Tracer {
	return &Tracer{
		Options: opts,
		Binarize: func(src *image.Gray) *imgproc.Bitmap {
			return binarize.Wolf(src, binarize.DefaultOptions())
		},
		DetectBounds:  bounds.DetectVertical,
		NewStepTracer: newLineStepTracer,
	}
}

// Trace runs the full pipeline on input and reports the vertical bounds
// and every text line curve it finds to sink. contentRect limits the
// area considered, in input coordinates.
func (t *Tracer) Trace(input image.Image, dpi DPI, contentRect image.Rectangle, sink DistortionModelSink) error {
	if input == nil {
		return fmt.Errorf("trace: nil input image")
	}
	if sink == nil {
		return fmt.Errorf("trace: nil sink")
	}
	if dpi.Horizontal <= 0 || dpi.Vertical <= 0 {
		return fmt.Errorf("trace: invalid dpi %dx%d", dpi.Horizontal, dpi.Vertical)
	}
	srcBounds := input.Bounds()
	if srcBounds.Dx() <= 0 || srcBounds.Dy() <= 0 {
		return nil
	}

	gray := imgproc.ToGray(input)
	downscaled := downscale(gray, dpi)
	t.dbgAdd("downscaled", func() image.Image { return downscaled })

	fx := float64(downscaled.Bounds().Dx()) / float64(srcBounds.Dx())
	fy := float64(downscaled.Bounds().Dy()) / float64(srcBounds.Dy())
	toOrig := geometry.Scaling(1/fx, 1/fy)

	scaledRect := image.Rect(
		roundInt(float64(contentRect.Min.X-srcBounds.Min.X)*fx),
		roundInt(float64(contentRect.Min.Y-srcBounds.Min.Y)*fy),
		roundInt(float64(contentRect.Max.X-srcBounds.Min.X)*fx),
		roundInt(float64(contentRect.Max.Y-srcBounds.Min.Y)*fy),
	)

	ink := t.Binarize(downscaled)
	t.dbgAdd("binarized", func() image.Image { return bitmapImage(ink) })

	content := sanitize(ink, scaledRect)
	t.dbgAdd("sanitized", func() image.Image { return bitmapImage(content) })

	leftBound, rightBound := t.DetectBounds(content)
	sink.SetVerticalBounds(leftBound.MapBy(toOrig), rightBound.MapBy(toOrig))
	t.dbgAdd("vert_bounds", func() image.Image { return visualizeBounds(bitmapImage(content), leftBound, rightBound) })

	blurred := imgproc.GaussBlur(imgproc.StretchGrayRange(downscaled), t.Options.BlurSigmaH, t.Options.BlurSigmaV)
	t.dbgAdd("blurred", func() image.Image { return blurred })

	eroded := imgproc.ErodeGray(blurred, t.Options.ErodeWindow, t.Options.ErodeWindow)
	thickMask := makeThickMask(blurred, eroded, t.Options.MaskTolerance)
	t.dbgAdd("thick_mask", func() image.Image { return bitmapImage(thickMask) })

	polylines := t.segment(blurred, thickMask, content, leftBound, rightBound)

	polylines = filterOutOfBoundsCurves(polylines, leftBound, rightBound)
	if t.Refiner != nil {
		polylines = t.Refiner.Refine(polylines, t.Options.RefineIterations)
	}
	polylines = filterEdgyCurves(polylines, t.Options.CurvatureAngleDeg)
	t.dbgAdd("filtered", func() image.Image { return visualizePolylines(blurred, polylines) })

	for _, polyline := range polylines {
		if len(polyline) < 2 {
			continue
		}
		mapped := make([]geometry.Point2D, len(polyline))
		for i, pt := range polyline {
			mapped[i] = toOrig.Apply(pt)
		}
		sink.AddHorizontalCurve(mapped)
	}
	return nil
}

// segment splits the page into per-text-line regions, traces the
// cheapest left-to-right path through each band of regions and extends
// the resulting polylines toward the vertical bounds.
func (t *Tracer) segment(
	blurred *image.Gray,
	thickMask, content *imgproc.Bitmap,
	leftBound, rightBound geometry.Line,
) [][]geometry.Point2D {
	seeds := findRegionSeeds(blurred, thickMask, t.Options)
	t.dbgAdd("region_seeds", func() image.Image { return bitmapImage(seeds) })

	regions := initRegions(seeds)
	if len(regions) == 0 {
		return nil
	}

	grid := buildGrid(blurred, thickMask)
	for idx := range regions {
		c := regions[idx].Centroid
		regions[idx].Centroid.X = clampInt(c.X, 0, grid.w-1)
		regions[idx].Centroid.Y = clampInt(c.Y, 0, grid.h-1)
	}
	growRegions(grid, regions)
	t.dbgAdd("regions", func() image.Image { return visualizeRegions(grid) })

	markEdgeRegions(regions, grid, leftBound, rightBound)
	edges := discoverEdges(grid, thickMask)
	t.dbgAdd("connectivity", func() image.Image { return visualizeGraph(blurred, regions, edges) })

	nodes := buildEdgeGraph(regions, edges, t.Options.TransitionAngleDeg)
	solvePaths(nodes, regions)
	paths := extractEdgePaths(nodes, regions)
	polylines := edgePathsToPolylines(paths, nodes, regions)

	imgs := TracerImages{Content: content, ThickMask: thickMask, Blurred: blurred}
	for i := range polylines {
		polylines[i] = extendTowardsBounds(
			polylines[i], leftBound, rightBound, imgs, t.NewStepTracer, t.Options.MaxExtension)
	}
	t.dbgAdd("extended", func() image.Image { return visualizePolylines(blurred, polylines) })

	return polylines
}
