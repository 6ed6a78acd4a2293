package imgproc

import (
	"image"
	"image/color"
)

var grayWhite = color.Gray{Y: 255}

// StretchGrayRange linearly stretches the gray levels of src so that its
// darkest pixel maps to 0 and its lightest to 255. A constant image is
// returned unchanged.
func StretchGrayRange(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	lo, hi := uint8(255), uint8(0)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo >= hi {
		copyGray(out, src)
		return out
	}

	span := int(hi) - int(lo)
	for y := 0; y < h; y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+w]
		dstRow := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range srcRow {
			dstRow[x] = uint8((int(v-lo)*255 + span/2) / span)
		}
	}
	return out
}

// ErodeGray performs grayscale erosion with a ww x wh rectangular window,
// replacing each pixel with the lightest value in its window. The window
// is clamped at image borders. Erosion makes light areas grow, which
// shrinks ink.
func ErodeGray(src *image.Gray, ww, wh int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	left, right := (ww-1)/2, ww/2
	top, bottom := (wh-1)/2, wh/2

	// Separable: row-wise max, then column-wise max.
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+w]
		dstRow := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w]
		for x := 0; x < w; x++ {
			x0, x1 := x-left, x+right
			if x0 < 0 {
				x0 = 0
			}
			if x1 > w-1 {
				x1 = w - 1
			}
			best := uint8(0)
			for xi := x0; xi <= x1; xi++ {
				if srcRow[xi] > best {
					best = srcRow[xi]
				}
			}
			dstRow[x] = best
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			y0, y1 := y-top, y+bottom
			if y0 < 0 {
				y0 = 0
			}
			if y1 > h-1 {
				y1 = h - 1
			}
			best := uint8(0)
			for yi := y0; yi <= y1; yi++ {
				if v := tmp.Pix[yi*tmp.Stride+x]; v > best {
					best = v
				}
			}
			out.Pix[y*out.Stride+x] = best
		}
	}
	return out
}

func copyGray(dst, src *image.Gray) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}
