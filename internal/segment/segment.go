// Package segment owns the canonical representation of annotated regions:
// the segment store, the erase/split engine, class merging, and the class
// compositor that produces the exportable mask tensor.
package segment

import (
	"annotator/internal/mask"
	"annotator/pkg/geometry"
)

// ID is a stable segment identity. IDs increase monotonically per store and
// are never reused; deleting a segment does not perturb any other id.
type ID int64

// ViewID identifies one viewer in multi-view mode.
type ViewID int

// ViewNone selects the single-view geometry of a segment.
const ViewNone ViewID = -1

// ClassNone marks a segment whose class has not been assigned yet. Add
// always resolves it, so stored segments only carry it transiently.
const ClassNone = -1

// Kind describes how a segment's geometry came to be.
type Kind int

const (
	// KindPolygon is a vector segment drawn as an ordered point sequence.
	KindPolygon Kind = iota
	// KindPredicted is a raster segment produced by a model prediction or
	// by splitting an erased segment into connected components.
	KindPredicted
	// KindMerged is a raster segment produced by class merge. It is a lossy
	// union and no longer editable as a polygon.
	KindMerged
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "Polygon"
	case KindPredicted:
		return "Predicted"
	case KindMerged:
		return "Merged"
	default:
		return "Unknown"
	}
}

// Geometry is one view's shape payload. Exactly one concrete variant exists
// per view: Polygon (vertices) or Raster (occupancy bitmap).
type Geometry interface {
	// Bitmap materializes the geometry as an occupancy grid of the given
	// size. Raster geometries of a different size are resized with
	// nearest-neighbor sampling so binary semantics are preserved.
	Bitmap(h, w int) (*mask.Bitmap, error)
	// Clone returns a deep copy.
	Clone() Geometry
	// Contains reports whether the image point lies inside the geometry.
	Contains(x, y float64) bool
}

// Polygon is a vector geometry.
type Polygon struct {
	Vertices []geometry.Point2D
}

// Bitmap rasterizes the polygon.
func (p Polygon) Bitmap(h, w int) (*mask.Bitmap, error) {
	return mask.FromPolygon(p.Vertices, h, w)
}

// Clone returns a deep copy.
func (p Polygon) Clone() Geometry {
	verts := make([]geometry.Point2D, len(p.Vertices))
	copy(verts, p.Vertices)
	return Polygon{Vertices: verts}
}

// Contains tests the point against the polygon outline.
func (p Polygon) Contains(x, y float64) bool {
	return geometry.PointInPolygon(geometry.Point2D{X: x, Y: y}, p.Vertices)
}

// Raster is a mask geometry.
type Raster struct {
	Mask *mask.Bitmap
}

// Bitmap returns the mask, nearest-neighbor resized if its size differs
// from the requested one (legacy-data compatibility).
func (r Raster) Bitmap(h, w int) (*mask.Bitmap, error) {
	if r.Mask == nil {
		return nil, mask.ErrEmptyMask
	}
	if r.Mask.H == h && r.Mask.W == w {
		return r.Mask.Clone(), nil
	}
	return mask.ResizeNearest(r.Mask, h, w), nil
}

// Clone returns a deep copy.
func (r Raster) Clone() Geometry {
	if r.Mask == nil {
		return Raster{}
	}
	return Raster{Mask: r.Mask.Clone()}
}

// Contains tests the point against the mask.
func (r Raster) Contains(x, y float64) bool {
	if r.Mask == nil {
		return false
	}
	return r.Mask.At(int(x), int(y))
}

// Segment is one annotated region. Single-view segments populate Geometry;
// multi-view segments populate Views with an independent geometry per viewer
// and leave Geometry nil. The two are never both set.
type Segment struct {
	Kind    Kind
	ClassID int
	// Geometry holds the shape for single-view segments.
	Geometry Geometry
	// Views holds one shape per viewer for multi-view segments. Views are
	// created and erased together but edited independently.
	Views map[ViewID]Geometry
}

// NewPolygon creates an unclassified single-view polygon segment.
func NewPolygon(vertices []geometry.Point2D) *Segment {
	return &Segment{Kind: KindPolygon, ClassID: ClassNone, Geometry: Polygon{Vertices: vertices}}
}

// NewPredicted creates an unclassified single-view raster segment.
func NewPredicted(bm *mask.Bitmap) *Segment {
	return &Segment{Kind: KindPredicted, ClassID: ClassNone, Geometry: Raster{Mask: bm}}
}

// MultiView reports whether the segment carries per-view geometries.
func (s *Segment) MultiView() bool {
	return s.Views != nil
}

// View returns the geometry for the given view. ViewNone selects the
// single-view geometry. Returns nil when the segment has no geometry for
// that view.
func (s *Segment) View(view ViewID) Geometry {
	if s.Views != nil {
		if view == ViewNone {
			return nil
		}
		return s.Views[view]
	}
	// Single-view segments answer for any viewer: the geometry is shared
	// across linked images.
	return s.Geometry
}

// Clone returns a deep copy of the segment record.
func (s *Segment) Clone() *Segment {
	out := &Segment{Kind: s.Kind, ClassID: s.ClassID}
	if s.Geometry != nil {
		out.Geometry = s.Geometry.Clone()
	}
	if s.Views != nil {
		out.Views = make(map[ViewID]Geometry, len(s.Views))
		for id, g := range s.Views {
			if g != nil {
				out.Views[id] = g.Clone()
			}
		}
	}
	return out
}

// Snapshot is a pre-mutation copy of a segment, returned to the caller's
// undo/redo collaborator so a destructive operation can be reversed exactly.
type Snapshot struct {
	ID      ID
	Z       int // render-order position at snapshot time
	Segment *Segment
}
