package imgproc

// SeedFill grows the seed bitmap within the mask bitmap: the result
// contains exactly those mask pixels reachable from a set seed pixel
// through mask pixels, under the given connectivity. Seed pixels outside
// the mask contribute nothing. All three bitmaps share the same size.
func SeedFill(seed, mask *Bitmap, conn Connectivity) *Bitmap {
	w, h := mask.W, mask.H
	out := NewBitmap(w, h)

	queue := make([]int, 0, 256)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if seed.Get(x, y) && mask.Get(x, y) {
				out.Set(x, y, true)
				queue = append(queue, y*w+x)
			}
		}
	}

	offsets := neighborOffsets(conn)

	for len(queue) > 0 {
		off := queue[0]
		queue = queue[1:]
		x, y := off%w, off/w

		for _, d := range offsets {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if mask.Get(nx, ny) && !out.Get(nx, ny) {
				out.Set(nx, ny, true)
				queue = append(queue, ny*w+nx)
			}
		}
	}

	return out
}

func neighborOffsets(conn Connectivity) [][2]int {
	if conn == Conn4 {
		return [][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	}
	return [][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
}
