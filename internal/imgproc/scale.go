package imgproc

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ScaleGray resamples src to the given size with bilinear interpolation.
func ScaleGray(src *image.Gray, w, h int) *image.Gray {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		out := image.NewGray(image.Rect(0, 0, w, h))
		copyGray(out, src)
		return out
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(out, out.Bounds(), src, b, xdraw.Src, nil)
	return out
}

// ToGray converts any image to 8-bit grayscale anchored at the origin.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), src, b.Min, xdraw.Src)
	return out
}
