// Package bounds detects the two near-vertical lines delimiting page
// content in a binarized image. The text-line tracer uses them to decide
// which regions count as leftmost and rightmost.
package bounds

import (
	"gonum.org/v1/gonum/stat"

	"page-tracer/internal/imgproc"
	"page-tracer/pkg/geometry"
)

// DetectVertical returns the left and right content-bound lines of the
// binarized page. Each bound is fitted to the leftmost (respectively
// rightmost) ink pixel of every scanline that has any ink, with a single
// outlier-trimming refit pass. An image with no ink degrades to the image
// edges.
func DetectVertical(ink *imgproc.Bitmap) (left, right geometry.Line) {
	w, h := ink.W, ink.H

	var ys, leftXs, rightXs []float64
	for y := 0; y < h; y++ {
		first, last := -1, -1
		for x := 0; x < w; x++ {
			if ink.Get(x, y) {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first >= 0 {
			ys = append(ys, float64(y))
			leftXs = append(leftXs, float64(first))
			rightXs = append(rightXs, float64(last))
		}
	}

	left = fitVertical(ys, leftXs, 0, float64(h))
	right = fitVertical(ys, rightXs, float64(w), float64(h))
	return left, right
}

// fitVertical fits x = alpha + beta*y to the samples and returns the line
// spanning [0, height]. Fewer than two samples yield the vertical line at
// fallbackX.
func fitVertical(ys, xs []float64, fallbackX, height float64) geometry.Line {
	if len(ys) < 2 {
		return geometry.NewLine(
			geometry.NewPoint2D(fallbackX, 0),
			geometry.NewPoint2D(fallbackX, height),
		)
	}

	alpha, beta := stat.LinearRegression(ys, xs, nil, false)

	// Trim gross outliers (pictures, marginalia) and refit once.
	residuals := make([]float64, len(ys))
	for i := range ys {
		residuals[i] = xs[i] - (alpha + beta*ys[i])
	}
	_, dev := stat.MeanStdDev(residuals, nil)
	if dev > 0 {
		var tys, txs []float64
		for i := range ys {
			if residuals[i] >= -2*dev && residuals[i] <= 2*dev {
				tys = append(tys, ys[i])
				txs = append(txs, xs[i])
			}
		}
		if len(tys) >= 2 {
			alpha, beta = stat.LinearRegression(tys, txs, nil, false)
		}
	}

	return geometry.NewLine(
		geometry.NewPoint2D(alpha, 0),
		geometry.NewPoint2D(alpha+beta*height, height),
	)
}
