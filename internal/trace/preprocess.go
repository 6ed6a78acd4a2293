package trace

import (
	"image"

	"page-tracer/internal/imgproc"
)

// canonicalDPI is the resolution the pipeline operates at. Several
// constants below it (window sizes, extension distance) assume it.
const canonicalDPI = 200

// downscale resamples the input to roughly 200 DPI. Inputs already
// within [180, 220] DPI on both axes are kept as is.
func downscale(input *image.Gray, dpi DPI) *image.Gray {
	b := input.Bounds()
	w, h := b.Dx(), b.Dy()

	if dpi.Horizontal < 180 || dpi.Horizontal > 220 || dpi.Vertical < 180 || dpi.Vertical > 220 {
		w = max(1, w*canonicalDPI/dpi.Horizontal)
		h = max(1, h*canonicalDPI/dpi.Vertical)
	}
	return imgproc.ScaleGray(input, w, h)
}

// sanitize removes artifacts that confuse content-bounds detection:
// 8-connected components touching the image border, speckles too small to
// survive a 2x3 or 3x2 opening, and everything outside the content
// rectangle.
func sanitize(ink *imgproc.Bitmap, contentRect image.Rectangle) *imgproc.Bitmap {
	// Kill connected components touching the borders.
	seed := imgproc.NewBitmap(ink.W, ink.H)
	seed.FillFrame(true)
	touchingBorder := imgproc.SeedFill(seed, ink, imgproc.Conn8)

	cleaned := ink.Clone()
	cleaned.Subtract(touchingBorder)

	// Poor man's despeckle: reseed from opening survivors and refill.
	contentSeeds := imgproc.OpenBrick(cleaned, 2, 3)
	contentSeeds.Or(imgproc.OpenBrick(cleaned, 3, 2))
	cleaned = imgproc.SeedFill(contentSeeds, cleaned, imgproc.Conn8)

	// Clear margins.
	cleaned.FillExcept(contentRect, false)
	return cleaned
}
