package imgproc

import "testing"

// blob sets a filled rectangle of ink.
func blob(b *Bitmap, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.Set(x, y, true)
		}
	}
}

func TestSeedFill_GrowsWithinMask(t *testing.T) {
	mask := NewBitmap(20, 10)
	blob(mask, 2, 2, 8, 5)   // component A
	blob(mask, 12, 2, 18, 5) // component B, disconnected from A

	seed := NewBitmap(20, 10)
	seed.Set(3, 3, true)

	filled := SeedFill(seed, mask, Conn8)

	if got, want := filled.Count(), 6*3; got != want {
		t.Errorf("filled Count = %d, want %d", got, want)
	}
	if filled.Get(13, 3) {
		t.Error("fill leaked into a disconnected component")
	}
}

func TestSeedFill_Conn4VsConn8(t *testing.T) {
	// Two pixels touching only diagonally.
	mask := NewBitmap(5, 5)
	mask.Set(1, 1, true)
	mask.Set(2, 2, true)

	seed := NewBitmap(5, 5)
	seed.Set(1, 1, true)

	if got := SeedFill(seed, mask, Conn4).Count(); got != 1 {
		t.Errorf("4-connected fill Count = %d, want 1", got)
	}
	if got := SeedFill(seed, mask, Conn8).Count(); got != 2 {
		t.Errorf("8-connected fill Count = %d, want 2", got)
	}
}

func TestSeedFill_SeedOutsideMask(t *testing.T) {
	mask := NewBitmap(5, 5)
	blob(mask, 0, 0, 2, 2)

	seed := NewBitmap(5, 5)
	seed.Set(4, 4, true)

	if got := SeedFill(seed, mask, Conn8).Count(); got != 0 {
		t.Errorf("fill from a seed outside the mask Count = %d, want 0", got)
	}
}
