package imgproc

import (
	"image"
)

// FindGrayPeaks locates local intensity minima: pixels whose gray level is
// the darkest within a ww x wh window that also contains at least one
// strictly lighter pixel. The second condition rejects flat areas, where
// every pixel would otherwise qualify. A dark plateau yields one seed
// pixel per plateau member; callers are expected to merge those through
// connected-component labeling and dilation.
func FindGrayPeaks(src *image.Gray, ww, wh int) *Bitmap {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewBitmap(w, h)

	left, right := (ww-1)/2, ww/2
	top, bottom := (wh-1)/2, wh/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := src.Pix[y*src.Stride+x]

			x0, x1 := x-left, x+right
			if x0 < 0 {
				x0 = 0
			}
			if x1 > w-1 {
				x1 = w - 1
			}
			y0, y1 := y-top, y+bottom
			if y0 < 0 {
				y0 = 0
			}
			if y1 > h-1 {
				y1 = h - 1
			}

			isMin := true
			hasLighter := false
		window:
			for yi := y0; yi <= y1; yi++ {
				row := src.Pix[yi*src.Stride:]
				for xi := x0; xi <= x1; xi++ {
					nv := row[xi]
					if nv < v {
						isMin = false
						break window
					}
					if nv > v {
						hasLighter = true
					}
				}
			}

			if isMin && hasLighter {
				out.Set(x, y, true)
			}
		}
	}
	return out
}
