package trial

import "math/rand/v2"

// Mask is a square field of random signs used for backward masking.
type Mask struct {
	Size  int
	Cells []int8 // row-major, each -1 or +1
}

// NewMask draws a fresh size×size sign field.
func NewMask(rng *rand.Rand, size int) *Mask {
	cells := make([]int8, size*size)
	for i := range cells {
		if rng.IntN(2) == 0 {
			cells[i] = -1
		} else {
			cells[i] = 1
		}
	}
	return &Mask{Size: size, Cells: cells}
}

// At returns the sign at column x, row y.
func (m *Mask) At(x, y int) int8 {
	return m.Cells[y*m.Size+x]
}
