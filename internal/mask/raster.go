package mask

import (
	"errors"
	"image"
	"image/color"

	"annotator/pkg/geometry"

	"gocv.io/x/gocv"
)

// Named no-op reasons. Callers that want "nothing to do" to be silent can
// compare against these; tests can assert on the reason.
var (
	// ErrNoPoints is returned when rasterizing an empty point sequence.
	ErrNoPoints = errors.New("mask: no polygon points")
	// ErrEmptyMask is returned when vectorizing a bitmap with no set pixels.
	ErrEmptyMask = errors.New("mask: empty mask")
	// ErrDegeneratePolygon is returned when simplification yields fewer
	// than three vertices.
	ErrDegeneratePolygon = errors.New("mask: degenerate polygon")
)

// FromPolygon rasterizes an ordered point sequence into a Bitmap of the
// given size using the standard polygon scan-fill rule. The polygon does not
// need to repeat its first point. A zero-area polygon produces an all-false
// bitmap, not an error.
func FromPolygon(points []geometry.Point2D, h, w int) (*Bitmap, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	ipts := make([]image.Point, len(points))
	for i, p := range points {
		ipts[i] = image.Point{X: int(p.X), Y: int(p.Y)}
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	defer mat.Close()

	pv := gocv.NewPointsVectorFromPoints([][]image.Point{ipts})
	defer pv.Close()
	gocv.FillPoly(&mat, pv, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	return fromMat(mat), nil
}

// ToPolygon vectorizes a bitmap back into an ordered point sequence. The
// largest connected foreground region is traced (first-found on ties) and
// its boundary simplified with epsilon = epsilonFactor * perimeter.
// Typical epsilonFactor values are 0.0005-0.005.
func ToPolygon(b *Bitmap, epsilonFactor float64) ([]geometry.Point2D, error) {
	if b == nil || b.Empty() {
		return nil, ErrEmptyMask
	}

	mat := toMat(b)
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, ErrEmptyMask
	}

	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			bestArea = area
			best = i
		}
	}

	contour := contours.At(best)
	epsilon := epsilonFactor * gocv.ArcLength(contour, true)

	approx := gocv.ApproxPolyDP(contour, epsilon, true)
	defer approx.Close()

	pts := approx.ToPoints()
	if len(pts) < 3 {
		return nil, ErrDegeneratePolygon
	}

	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return out, nil
}

// Components splits a bitmap into its 8-connected foreground components,
// discarding components with fewer than minPixels set pixels. Components are
// returned in label order (scan order of first pixel).
func Components(b *Bitmap, minPixels int) []*Bitmap {
	if b == nil || b.Empty() {
		return nil
	}

	mat := toMat(b)
	defer mat.Close()

	labels := gocv.NewMat()
	defer labels.Close()

	numLabels := gocv.ConnectedComponentsWithParams(mat, &labels, 8, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	// Label 0 is background.
	comps := make([]*Bitmap, numLabels-1)
	counts := make([]int, numLabels)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			label := int(labels.GetIntAt(y, x))
			if label == 0 {
				continue
			}
			if comps[label-1] == nil {
				comps[label-1] = New(b.H, b.W)
			}
			comps[label-1].Set(x, y, true)
			counts[label]++
		}
	}

	var out []*Bitmap
	for i, c := range comps {
		if c != nil && counts[i+1] >= minPixels {
			out = append(out, c)
		}
	}
	return out
}

// ResizeNearest resizes a bitmap with nearest-neighbor sampling so binary
// semantics are preserved. Used to reconcile legacy masks whose size no
// longer matches the current image.
func ResizeNearest(b *Bitmap, h, w int) *Bitmap {
	if b == nil {
		return nil
	}
	if b.H == h && b.W == w {
		return b.Clone()
	}

	mat := toMat(b)
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(mat, &dst, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationNearestNeighbor)

	return fromMat(dst)
}

// toMat converts a Bitmap to an 8-bit single-channel Mat with 255 for set pixels.
func toMat(b *Bitmap) gocv.Mat {
	mat := gocv.NewMatWithSize(b.H, b.W, gocv.MatTypeCV8U)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.Pix[y*b.W+x] {
				mat.SetUCharAt(y, x, 255)
			}
		}
	}
	return mat
}

// fromMat converts an 8-bit single-channel Mat to a Bitmap; any nonzero
// pixel is treated as set.
func fromMat(mat gocv.Mat) *Bitmap {
	h, w := mat.Rows(), mat.Cols()
	b := New(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mat.GetUCharAt(y, x) > 0 {
				b.Pix[y*w+x] = true
			}
		}
	}
	return b
}
