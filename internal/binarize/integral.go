// Package binarize implements Wolf-style local binarization of grayscale
// page images, the thresholding step the text-line tracer feeds on.
package binarize

import (
	"image"
	"math"
)

// Integral holds an integral image and its squared companion, allowing
// windowed mean and standard deviation queries in constant time.
type Integral struct {
	w, h int
	sums []uint64 // (w+1) x (h+1) inclusive-exclusive prefix sums
	sq   []uint64
}

// NewIntegral builds the integral images of src.
func NewIntegral(src *image.Gray) *Integral {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	in := &Integral{
		w:    w,
		h:    h,
		sums: make([]uint64, (w+1)*(h+1)),
		sq:   make([]uint64, (w+1)*(h+1)),
	}

	stride := w + 1
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		var rowSum, rowSq uint64
		for x := 0; x < w; x++ {
			v := uint64(row[x])
			rowSum += v
			rowSq += v * v
			idx := (y+1)*stride + (x + 1)
			in.sums[idx] = in.sums[idx-stride] + rowSum
			in.sq[idx] = in.sq[idx-stride] + rowSq
		}
	}
	return in
}

// MeanStdDev returns the mean and standard deviation of the size x size
// window centered at (x, y), clamped to the image.
func (in *Integral) MeanStdDev(x, y, size int) (float64, float64) {
	step := size / 2
	x0, x1 := x-step, x+step
	y0, y1 := y-step, y+step
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > in.w-1 {
		x1 = in.w - 1
	}
	if y1 > in.h-1 {
		y1 = in.h - 1
	}

	stride := in.w + 1
	area := float64((x1 - x0 + 1) * (y1 - y0 + 1))

	sum := in.sums[(y1+1)*stride+x1+1] - in.sums[y0*stride+x1+1] -
		in.sums[(y1+1)*stride+x0] + in.sums[y0*stride+x0]
	sqSum := in.sq[(y1+1)*stride+x1+1] - in.sq[y0*stride+x1+1] -
		in.sq[(y1+1)*stride+x0] + in.sq[y0*stride+x0]

	mean := float64(sum) / area
	variance := float64(sqSum)/area - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
