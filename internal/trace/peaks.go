package trace

import (
	"image"

	"page-tracer/internal/imgproc"
)

// makeThickMask derives the mask of probable ink strokes by comparing the
// blurred image against its grayscale erosion: a pixel is kept when the
// lightest value in its erosion window exceeds the blurred value by more
// than tolerance gray levels, meaning the pixel is distinctly darker than
// its local background. Blurring smears text lines into dark bands, so
// the mask covers whole strokes rather than individual glyphs.
func makeThickMask(blurred, eroded *image.Gray, tolerance uint8) *imgproc.Bitmap {
	b := blurred.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := imgproc.NewBitmap(w, h)

	for y := 0; y < h; y++ {
		blurredRow := blurred.Pix[y*blurred.Stride : y*blurred.Stride+w]
		erodedRow := eroded.Pix[y*eroded.Stride : y*eroded.Stride+w]
		for x := 0; x < w; x++ {
			if int(erodedRow[x]) > int(blurredRow[x])+int(tolerance) {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

// findRegionSeeds locates candidate stroke centers: local gray minima of
// the blurred image. Peaks outside the thick mask mostly come from
// pictures and are discarded by a mask-restricted seed fill. Equal-valued
// peaks near each other survive minimum suppression, so the remaining
// peaks are dilated to fuse near-duplicates into single seed blobs.
func findRegionSeeds(blurred *image.Gray, thickMask *imgproc.Bitmap, opts Options) *imgproc.Bitmap {
	seeds := imgproc.FindGrayPeaks(blurred, opts.PeakWindowW, opts.PeakWindowH)
	seeds = imgproc.SeedFill(thickMask, seeds, imgproc.Conn8)
	return imgproc.DilateBrick(seeds, opts.SeedDilation, opts.SeedDilation)
}
