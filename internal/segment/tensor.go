package segment

import (
	"annotator/internal/mask"
)

// Tensor is a dense multi-channel binary tensor, one channel per output
// class, ready for an external export component to serialize.
type Tensor struct {
	H, W     int
	Channels []*mask.Bitmap
}

// At reports whether channel c is active at pixel (x, y).
func (t *Tensor) At(x, y, c int) bool {
	if c < 0 || c >= len(t.Channels) {
		return false
	}
	return t.Channels[c].At(x, y)
}

// BuildTensorOptions configures tensor construction.
type BuildTensorOptions struct {
	// ClassOrder maps output channel index to class id. Segments whose
	// class is absent are left out of the tensor.
	ClassOrder []int
	// Priority resolves multi-class pixels to a single winning channel.
	Priority bool
	// Ascending makes the lowest active channel win; otherwise the highest.
	Ascending bool
	// View selects which geometry multi-view segments contribute.
	// ViewNone builds from single-view geometries only.
	View ViewID
}

// BuildTensor composites every segment into a (h, w, len(classOrder))
// binary tensor. Each segment is rasterized (polygons scan-filled) and
// OR-ed into its class's channel. With priority enabled, pixels active in
// more than one channel are resolved in a single uniform pass, so the
// result depends only on the class order and per-pixel channel activity,
// never on segment insertion order.
func (st *Store) BuildTensor(h, w int, opts BuildTensorOptions) *Tensor {
	channelOf := make(map[int]int, len(opts.ClassOrder))
	for ch, classID := range opts.ClassOrder {
		channelOf[classID] = ch
	}

	t := &Tensor{H: h, W: w, Channels: make([]*mask.Bitmap, len(opts.ClassOrder))}
	for i := range t.Channels {
		t.Channels[i] = mask.New(h, w)
	}

	for _, id := range st.order {
		seg := st.segments[id]
		ch, ok := channelOf[seg.ClassID]
		if !ok {
			continue
		}

		g := seg.View(opts.View)
		if g == nil {
			continue
		}
		bm, err := g.Bitmap(h, w)
		if err != nil {
			continue
		}

		dst := t.Channels[ch]
		for i, on := range bm.Pix {
			if on {
				dst.Pix[i] = true
			}
		}
	}

	if opts.Priority {
		applyPixelPriority(t, opts.Ascending)
	}
	return t
}

// applyPixelPriority zeroes all but one channel at every multi-class pixel.
// Ascending keeps the lowest active channel, descending the highest.
func applyPixelPriority(t *Tensor, ascending bool) {
	n := len(t.Channels)
	if n < 2 {
		return
	}

	for i := 0; i < t.H*t.W; i++ {
		winner := -1
		active := 0
		for c := 0; c < n; c++ {
			if !t.Channels[c].Pix[i] {
				continue
			}
			active++
			if winner == -1 {
				winner = c
			} else if !ascending {
				winner = c
			}
		}
		if active < 2 {
			continue
		}
		for c := 0; c < n; c++ {
			t.Channels[c].Pix[i] = c == winner
		}
	}
}
