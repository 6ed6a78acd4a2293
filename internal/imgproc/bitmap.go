// Package imgproc provides the raster primitives the tracing pipeline is
// built on: a packed one-bit-per-pixel bitmap with raster operations, seed
// fill, brick morphology, connected-component labeling and grayscale
// filtering over image.Gray.
package imgproc

import (
	"image"
)

// Connectivity selects 4- or 8-connected neighborhoods.
type Connectivity int

const (
	Conn4 Connectivity = 4
	Conn8 Connectivity = 8
)

// Bitmap is a binary image storing one bit per pixel, packed MSB-first
// into 32-bit words with an explicit words-per-line stride. A set bit
// means ink.
type Bitmap struct {
	W, H  int
	WPL   int // words per line
	Words []uint32
}

// NewBitmap creates an all-clear bitmap of the given size.
func NewBitmap(w, h int) *Bitmap {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	wpl := (w + 31) / 32
	return &Bitmap{W: w, H: h, WPL: wpl, Words: make([]uint32, wpl*h)}
}

// Get reports whether the pixel at (x, y) is set. Out-of-bounds pixels
// read as clear.
func (b *Bitmap) Get(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	return b.Words[y*b.WPL+(x>>5)]&(1<<(31-uint(x&31))) != 0
}

// Set sets or clears the pixel at (x, y). Out-of-bounds pixels are ignored.
func (b *Bitmap) Set(x, y int, v bool) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	idx := y*b.WPL + (x >> 5)
	mask := uint32(1) << (31 - uint(x&31))
	if v {
		b.Words[idx] |= mask
	} else {
		b.Words[idx] &^= mask
	}
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{W: b.W, H: b.H, WPL: b.WPL, Words: make([]uint32, len(b.Words))}
	copy(out.Words, b.Words)
	return out
}

// Or sets every pixel that is set in src. Sizes must match.
func (b *Bitmap) Or(src *Bitmap) {
	for i := range b.Words {
		b.Words[i] |= src.Words[i]
	}
}

// And clears every pixel that is clear in src. Sizes must match.
func (b *Bitmap) And(src *Bitmap) {
	for i := range b.Words {
		b.Words[i] &= src.Words[i]
	}
}

// Subtract clears every pixel that is set in src. Sizes must match.
func (b *Bitmap) Subtract(src *Bitmap) {
	for i := range b.Words {
		b.Words[i] &^= src.Words[i]
	}
}

// Fill sets or clears every pixel.
func (b *Bitmap) Fill(v bool) {
	if !v {
		for i := range b.Words {
			b.Words[i] = 0
		}
		return
	}
	for i := range b.Words {
		b.Words[i] = ^uint32(0)
	}
	b.clearPadding()
}

// FillExcept sets every pixel outside rect to v.
func (b *Bitmap) FillExcept(rect image.Rectangle, v bool) {
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			pt := image.Pt(x, y)
			if !pt.In(rect) {
				b.Set(x, y, v)
			}
		}
	}
}

// FillFrame sets the one-pixel border to v.
func (b *Bitmap) FillFrame(v bool) {
	if b.W == 0 || b.H == 0 {
		return
	}
	for x := 0; x < b.W; x++ {
		b.Set(x, 0, v)
		b.Set(x, b.H-1, v)
	}
	for y := 0; y < b.H; y++ {
		b.Set(0, y, v)
		b.Set(b.W-1, y, v)
	}
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.Get(x, y) {
				n++
			}
		}
	}
	return n
}

// clearPadding zeroes the unused bits of the last word of each row so that
// whole-word raster operations never see stray bits.
func (b *Bitmap) clearPadding() {
	rem := b.W & 31
	if rem == 0 || b.WPL == 0 {
		return
	}
	mask := ^uint32(0) << (32 - uint(rem))
	for y := 0; y < b.H; y++ {
		b.Words[y*b.WPL+b.WPL-1] &= mask
	}
}

// ToImage renders the bitmap as a grayscale image (ink black on white).
func (b *Bitmap) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if !b.Get(x, y) {
				img.SetGray(x, y, grayWhite)
			}
		}
	}
	return img
}
