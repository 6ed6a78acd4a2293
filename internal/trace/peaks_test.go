package trace

import (
	"testing"

	"page-tracer/internal/imgproc"
)

func TestMakeThickMask_KeepsDarkStrokes(t *testing.T) {
	// A dark band on a light background. Erosion (lightest-in-window)
	// lifts stroke pixels to near background, so the mask covers exactly
	// the pixels that are darker than their surroundings.
	blurred := uniformBlurred(60, 40, 230)
	for y := 18; y < 23; y++ {
		for x := 5; x < 55; x++ {
			blurred.Pix[y*blurred.Stride+x] = 60
		}
	}
	eroded := imgproc.ErodeGray(blurred, 31, 31)

	mask := makeThickMask(blurred, eroded, 8)

	if !mask.Get(30, 20) {
		t.Error("stroke center not in thick mask")
	}
	if mask.Get(30, 2) {
		t.Error("background pixel in thick mask")
	}
}

func TestMakeThickMask_ToleranceSuppressesFlatAreas(t *testing.T) {
	// Mild texture within tolerance must not enter the mask.
	blurred := uniformBlurred(40, 40, 200)
	blurred.Pix[20*blurred.Stride+20] = 195 // 5 levels below surroundings
	eroded := imgproc.ErodeGray(blurred, 31, 31)

	if mask := makeThickMask(blurred, eroded, 8); mask.Count() != 0 {
		t.Errorf("mask has %d pixels on near-flat input", mask.Count())
	}
}

func TestFindRegionSeeds_OneBlobPerStroke(t *testing.T) {
	opts := DefaultOptions()

	// Two dark spots far apart vertically; both are local minima.
	blurred := uniformBlurred(100, 80, 220)
	blurred.Pix[20*blurred.Stride+50] = 30
	blurred.Pix[60*blurred.Stride+50] = 30

	eroded := imgproc.ErodeGray(blurred, opts.ErodeWindow, opts.ErodeWindow)
	thickMask := makeThickMask(blurred, eroded, opts.MaskTolerance)

	seeds := findRegionSeeds(blurred, thickMask, opts)
	regions := initRegions(seeds)

	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if regions[0].Centroid.X != 50 || regions[0].Centroid.Y != 20 {
		t.Errorf("first centroid = %+v, want (50,20)", regions[0].Centroid)
	}
	if regions[1].Centroid.Y != 60 {
		t.Errorf("second centroid = %+v, want y 60", regions[1].Centroid)
	}
}

func TestFindRegionSeeds_DiscardsPeaksOutsideMask(t *testing.T) {
	opts := DefaultOptions()

	blurred := uniformBlurred(100, 60, 220)
	blurred.Pix[30*blurred.Stride+50] = 30

	// An empty thick mask must leave no seeds at all.
	emptyMask := imgproc.NewBitmap(100, 60)
	if seeds := findRegionSeeds(blurred, emptyMask, opts); seeds.Count() != 0 {
		t.Errorf("got %d seed pixels with an empty mask", seeds.Count())
	}
}
