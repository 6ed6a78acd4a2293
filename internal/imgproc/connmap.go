package imgproc

import (
	"page-tracer/pkg/geometry"
)

// ConnMap assigns a 1-based label to every connected component of a
// bitmap. Label 0 means background. Components are numbered in raster
// order of their first pixel, so labeling is deterministic.
type ConnMap struct {
	W, H     int
	Labels   []uint32
	MaxLabel uint32
}

// NewConnMap labels the connected components of b.
func NewConnMap(b *Bitmap, conn Connectivity) *ConnMap {
	w, h := b.W, b.H
	m := &ConnMap{W: w, H: h, Labels: make([]uint32, w*h)}

	offsets := neighborOffsets(conn)
	queue := make([]int, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !b.Get(x, y) || m.Labels[y*w+x] != 0 {
				continue
			}
			m.MaxLabel++
			label := m.MaxLabel
			m.Labels[y*w+x] = label
			queue = append(queue[:0], y*w+x)

			for len(queue) > 0 {
				off := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				cx, cy := off%w, off/w

				for _, d := range offsets {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					noff := ny*w + nx
					if b.Get(nx, ny) && m.Labels[noff] == 0 {
						m.Labels[noff] = label
						queue = append(queue, noff)
					}
				}
			}
		}
	}

	return m
}

// Label returns the label at (x, y).
func (m *ConnMap) Label(x, y int) uint32 {
	return m.Labels[y*m.W+x]
}

// Centroids returns the centroid of each component, indexed by label-1.
// Coordinates are arithmetic means of member pixels, rounded half-up, so
// the result does not depend on pixel visiting order.
func (m *ConnMap) Centroids() []geometry.PointInt {
	sumX := make([]int64, m.MaxLabel)
	sumY := make([]int64, m.MaxLabel)
	num := make([]int64, m.MaxLabel)

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if label := m.Labels[y*m.W+x]; label != 0 {
				sumX[label-1] += int64(x)
				sumY[label-1] += int64(y)
				num[label-1]++
			}
		}
	}

	centroids := make([]geometry.PointInt, m.MaxLabel)
	for i := range centroids {
		if num[i] == 0 {
			continue
		}
		half := num[i] >> 1
		centroids[i] = geometry.PointInt{
			X: int((sumX[i] + half) / num[i]),
			Y: int((sumY[i] + half) / num[i]),
		}
	}
	return centroids
}
