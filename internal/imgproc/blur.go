package imgproc

import (
	"image"
	"math"
)

// GaussBlur applies a separable Gaussian blur with independent horizontal
// and vertical sigmas. Text-line tracing relies on a strongly anisotropic
// blur (wide horizontally) to smear glyphs into continuous dark bands.
// Kernels are truncated at three sigmas and renormalized at borders.
func GaussBlur(src *image.Gray, sigmaH, sigmaV float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	kh := gaussKernel(sigmaH)
	kv := gaussKernel(sigmaV)

	// Horizontal pass into a float buffer.
	tmp := make([]float64, w*h)
	rh := len(kh) - 1
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var sum, weight float64
			for d := -rh; d <= rh; d++ {
				xi := x + d
				if xi < 0 || xi >= w {
					continue
				}
				k := kh[abs(d)]
				sum += k * float64(row[xi])
				weight += k
			}
			tmp[y*w+x] = sum / weight
		}
	}

	// Vertical pass.
	rv := len(kv) - 1
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum, weight float64
			for d := -rv; d <= rv; d++ {
				yi := y + d
				if yi < 0 || yi >= h {
					continue
				}
				k := kv[abs(d)]
				sum += k * tmp[yi*w+x]
				weight += k
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / weight))
		}
	}
	return out
}

// gaussKernel returns the non-negative half of a Gaussian kernel,
// kernel[0] being the center tap.
func gaussKernel(sigma float64) []float64 {
	if sigma < 0.3 {
		sigma = 0.3
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, radius+1)
	denom := 2 * sigma * sigma
	for i := 0; i <= radius; i++ {
		kernel[i] = math.Exp(-float64(i*i) / denom)
	}
	return kernel
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
