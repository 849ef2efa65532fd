package image

import (
	"image"
	"image/color"
	"image/draw"

	"annotator/internal/segment"
	"annotator/pkg/colorutil"
)

// OverlayOptions configures segment overlay rendering.
type OverlayOptions struct {
	Opacity float64        // overlay opacity, 0.0 - 1.0
	View    segment.ViewID // which view's geometry to draw
}

// DefaultOverlayOptions returns sensible overlay defaults.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		Opacity: 0.7,
		View:    segment.ViewNone,
	}
}

// RenderOverlay draws every segment over the base image as a translucent
// class-colored fill and returns the composited result. Segments are drawn
// bottom-up in store z-order, so later segments cover earlier ones where
// they overlap.
func RenderOverlay(base image.Image, store *segment.Store, opts OverlayOptions) *image.RGBA {
	bounds := base.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), base, bounds.Min, draw.Src)

	for _, id := range store.IDs() {
		seg, ok := store.Get(id)
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

		tint := colorutil.ClassColor(seg.ClassID)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !bm.At(x, y) {
					continue
				}
				out.Set(x, y, blend(out.RGBAAt(x, y), tint, opts.Opacity))
			}
		}
	}

	return out
}

// blend alpha-blends the tint over the destination pixel.
func blend(dst color.RGBA, tint color.RGBA, opacity float64) color.RGBA {
	mix := func(d, s uint8) uint8 {
		v := float64(d)*(1-opacity) + float64(s)*opacity
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: mix(dst.R, tint.R),
		G: mix(dst.G, tint.G),
		B: mix(dst.B, tint.B),
		A: 255,
	}
}
