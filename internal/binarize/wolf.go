package binarize

import (
	"image"

	"page-tracer/internal/imgproc"
)

// Options configures Wolf binarization.
type Options struct {
	WindowSize int     // local window side, must be odd
	K          float64 // threshold aggressiveness
	LowerBound uint8   // pixels below are always ink
	UpperBound uint8   // pixels above are never ink
}

// DefaultOptions returns the parameters used for 200 DPI page images.
func DefaultOptions() Options {
	return Options{
		WindowSize: 31,
		K:          0.3,
		LowerBound: 1,
		UpperBound: 254,
	}
}

// Wolf binarizes src with the Wolf-Jolion local threshold:
//
//	T = m - k*(1 - s/R)*(m - M)
//
// where m and s are the windowed mean and deviation, M the darkest gray
// level of the image and R the largest windowed deviation. Ink pixels are
// set in the returned bitmap.
func Wolf(src *image.Gray, opts Options) *imgproc.Bitmap {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := imgproc.NewBitmap(w, h)
	if w == 0 || h == 0 {
		return out
	}

	in := NewIntegral(src)

	minGray := uint8(255)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for _, v := range row {
			if v < minGray {
				minGray = v
			}
		}
	}

	maxDev := 0.0
	devs := make([]float64, w*h)
	means := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m, s := in.MeanStdDev(x, y, opts.WindowSize)
			means[y*w+x] = m
			devs[y*w+x] = s
			if s > maxDev {
				maxDev = s
			}
		}
	}
	if maxDev == 0 {
		// Constant image, nothing to separate.
		return out
	}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			v := row[x]
			if v < opts.LowerBound {
				out.Set(x, y, true)
				continue
			}
			if v > opts.UpperBound {
				continue
			}
			m := means[y*w+x]
			s := devs[y*w+x]
			threshold := m - opts.K*(1-s/maxDev)*(m-float64(minGray))
			if float64(v) < threshold {
				out.Set(x, y, true)
			}
		}
	}
	return out
}
