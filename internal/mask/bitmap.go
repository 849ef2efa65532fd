// Package mask provides binary occupancy grids and the raster operations
// that convert between polygon and mask representations of a segment.
package mask

import (
	"annotator/pkg/geometry"
)

// Bitmap is a binary occupancy grid in row-major order. A set pixel means
// the pixel belongs to the region. Bitmaps are plain owned values; copy with
// Clone before handing one to another owner.
type Bitmap struct {
	W, H int
	Pix  []bool
}

// New creates an all-false Bitmap of the given size.
func New(h, w int) *Bitmap {
	return &Bitmap{W: w, H: h, Pix: make([]bool, w*h)}
}

// Size returns the bitmap dimensions.
func (b *Bitmap) Size() geometry.Size {
	return geometry.Size{Height: b.H, Width: b.W}
}

// At reports whether the pixel at (x, y) is set. Out-of-range coordinates
// read as false.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	return b.Pix[y*b.W+x]
}

// Set sets or clears the pixel at (x, y). Out-of-range coordinates are ignored.
func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = on
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, on := range b.Pix {
		if on {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is set.
func (b *Bitmap) Empty() bool {
	for _, on := range b.Pix {
		if on {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{W: b.W, H: b.H, Pix: make([]bool, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether two bitmaps have identical size and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.W != other.W || b.H != other.H {
		return false
	}
	for i, on := range b.Pix {
		if on != other.Pix[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether any pixel is set in both bitmaps. Bitmaps of
// different sizes never overlap.
func (b *Bitmap) Overlaps(other *Bitmap) bool {
	if other == nil || b.W != other.W || b.H != other.H {
		return false
	}
	for i, on := range b.Pix {
		if on && other.Pix[i] {
			return true
		}
	}
	return false
}

// Or returns the union of two same-sized bitmaps.
func (b *Bitmap) Or(other *Bitmap) *Bitmap {
	out := b.Clone()
	if other == nil || b.W != other.W || b.H != other.H {
		return out
	}
	for i, on := range other.Pix {
		if on {
			out.Pix[i] = true
		}
	}
	return out
}

// And returns the intersection of two same-sized bitmaps.
func (b *Bitmap) And(other *Bitmap) *Bitmap {
	out := New(b.H, b.W)
	if other == nil || b.W != other.W || b.H != other.H {
		return out
	}
	for i, on := range b.Pix {
		out.Pix[i] = on && other.Pix[i]
	}
	return out
}

// AndNot returns the pixels set in b but not in other. Callers use this to
// subtract an erase region from a segment mask.
func (b *Bitmap) AndNot(other *Bitmap) *Bitmap {
	out := b.Clone()
	if other == nil || b.W != other.W || b.H != other.H {
		return out
	}
	for i, on := range other.Pix {
		if on {
			out.Pix[i] = false
		}
	}
	return out
}

// IoU returns the intersection-over-union ratio of two same-sized bitmaps.
// Returns 0 when sizes differ or both bitmaps are empty.
func (b *Bitmap) IoU(other *Bitmap) float64 {
	if other == nil || b.W != other.W || b.H != other.H {
		return 0
	}
	inter, union := 0, 0
	for i, on := range b.Pix {
		if on && other.Pix[i] {
			inter++
		}
		if on || other.Pix[i] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
