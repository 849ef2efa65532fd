package mask

// RLE is a run-length encoded bitmap for JSON persistence. Runs alternate
// off/on starting with an off run, scanning row-major.
type RLE struct {
	Height int   `json:"height"`
	Width  int   `json:"width"`
	Runs   []int `json:"runs"`
}

// EncodeRLE run-length encodes a bitmap.
func EncodeRLE(b *Bitmap) RLE {
	rle := RLE{Height: b.H, Width: b.W}

	cur := false
	run := 0
	for _, on := range b.Pix {
		if on == cur {
			run++
			continue
		}
		rle.Runs = append(rle.Runs, run)
		cur = on
		run = 1
	}
	if run > 0 {
		rle.Runs = append(rle.Runs, run)
	}
	return rle
}

// DecodeRLE reconstructs a bitmap from its run-length encoding. Runs beyond
// the bitmap's pixel count are truncated.
func DecodeRLE(rle RLE) *Bitmap {
	b := New(rle.Height, rle.Width)
	pos := 0
	on := false
	for _, run := range rle.Runs {
		for i := 0; i < run && pos < len(b.Pix); i++ {
			b.Pix[pos] = on
			pos++
		}
		on = !on
	}
	return b
}
