package imgproc

// ErodeBrick erodes the bitmap with a bw x bh rectangular window: a pixel
// stays set only if every window pixel is set. Pixels outside the image
// count as clear.
func ErodeBrick(b *Bitmap, bw, bh int) *Bitmap {
	out := NewBitmap(b.W, b.H)
	left, top := (bw-1)/2, (bh-1)/2
	right, bottom := bw/2, bh/2

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			all := true
		window:
			for dy := -top; dy <= bottom; dy++ {
				for dx := -left; dx <= right; dx++ {
					if !b.Get(x+dx, y+dy) {
						all = false
						break window
					}
				}
			}
			if all {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// DilateBrick dilates the bitmap with a bw x bh rectangular window: a pixel
// becomes set if any window pixel is set. The window is reflected relative
// to ErodeBrick so that open and close operations are symmetric.
func DilateBrick(b *Bitmap, bw, bh int) *Bitmap {
	out := NewBitmap(b.W, b.H)
	left, top := bw/2, bh/2
	right, bottom := (bw-1)/2, (bh-1)/2

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
		window:
			for dy := -top; dy <= bottom; dy++ {
				for dx := -left; dx <= right; dx++ {
					if b.Get(x+dx, y+dy) {
						out.Set(x, y, true)
						break window
					}
				}
			}
		}
	}
	return out
}

// OpenBrick erodes then dilates with the same window, removing features
// smaller than the window.
func OpenBrick(b *Bitmap, bw, bh int) *Bitmap {
	return DilateBrick(ErodeBrick(b, bw, bh), bw, bh)
}
