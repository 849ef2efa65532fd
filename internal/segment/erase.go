package segment

import (
	"annotator/internal/mask"
	"annotator/pkg/geometry"
)

// MinComponentPixels is the smallest connected remainder that survives an
// erase as its own segment; anything smaller is dropped as noise.
const MinComponentPixels = 10

// EraseResult describes a destructive erase pass for the caller's undo/redo
// collaborator: which segments were touched, pre-erase copies of everything
// removed, and the ids of the replacement segments.
type EraseResult struct {
	Modified []ID
	Removed  []Snapshot
	Added    []ID
}

// Empty reports whether the erase touched nothing.
func (r EraseResult) Empty() bool {
	return len(r.Modified) == 0
}

// ErasePolygon rasterizes an erase shape and applies it. An empty shape
// erases nothing.
func (st *Store) ErasePolygon(vertices []geometry.Point2D, size geometry.Size, view ViewID) EraseResult {
	erase, err := mask.FromPolygon(vertices, size.Height, size.Width)
	if err != nil {
		return EraseResult{}
	}
	return st.EraseMask(erase, view)
}

// EraseMask removes the erase region's pixels from every overlapping
// segment. Segments left empty are removed outright; segments whose
// remaining shape is disconnected are split into one predicted raster
// segment per 8-connected component (components under MinComponentPixels
// are discarded), each inheriting the original's class.
//
// In multi-view mode (view >= 0), overlap is tested against the given
// view's geometry only, but the same erase region is mirrored to every
// other view of a hit segment. This assumes the linked images are spatially
// registered; it is the user-intent behavior, not a validated one.
//
// Removal is applied before insertion so surviving z-order stays coherent;
// replacements are appended at the top.
func (st *Store) EraseMask(erase *mask.Bitmap, view ViewID) EraseResult {
	if erase == nil || erase.Empty() || len(st.order) == 0 {
		return EraseResult{}
	}

	h, w := erase.H, erase.W

	var result EraseResult
	var additions []*Segment

	for _, id := range st.IDs() {
		seg := st.segments[id]
		g := seg.View(view)
		if g == nil {
			continue
		}

		bm, err := g.Bitmap(h, w)
		if err != nil {
			continue
		}
		if !bm.Overlaps(erase) {
			continue
		}

		result.Modified = append(result.Modified, id)
		result.Removed = append(result.Removed, Snapshot{ID: id, Z: st.Z(id), Segment: seg.Clone()})

		remaining := bm.AndNot(erase)
		if remaining.Empty() {
			continue
		}

		comps := mask.Components(remaining, MinComponentPixels)
		if len(comps) == 0 {
			continue
		}

		if seg.MultiView() {
			// Mirror the erase to every other view once; each split
			// component then carries the triggering view's piece plus
			// the mirrored remainder of the rest.
			mirrored := make(map[ViewID]Geometry, len(seg.Views))
			for vid, vg := range seg.Views {
				if vid == view || vg == nil {
					continue
				}
				mirrored[vid] = eraseFromView(vg, erase)
			}

			for _, comp := range comps {
				views := map[ViewID]Geometry{view: Raster{Mask: comp}}
				for vid, vg := range mirrored {
					views[vid] = vg.Clone()
				}
				additions = append(additions, &Segment{
					Kind:    KindPredicted,
					ClassID: seg.ClassID,
					Views:   views,
				})
			}
		} else {
			for _, comp := range comps {
				additions = append(additions, &Segment{
					Kind:     KindPredicted,
					ClassID:  seg.ClassID,
					Geometry: Raster{Mask: comp},
				})
			}
		}
	}

	if len(result.Modified) == 0 {
		return result
	}

	// Removal first, in descending z-order; then append replacements on top.
	for i := len(result.Removed) - 1; i >= 0; i-- {
		st.remove(result.Removed[i].ID)
	}
	for _, seg := range additions {
		result.Added = append(result.Added, st.insertAt(seg, -1))
	}
	st.updateNextClassID()

	return result
}

// eraseFromView applies the erase region to another view's geometry.
// Polygon views are rasterized, erased, and traced back to a polygon
// outline (largest remaining region); raster views are erased in place.
// A fully erased view becomes an empty geometry of the same variant.
func eraseFromView(g Geometry, erase *mask.Bitmap) Geometry {
	h, w := erase.H, erase.W

	switch v := g.(type) {
	case Polygon:
		bm, err := v.Bitmap(h, w)
		if err != nil {
			return g.Clone()
		}
		remaining := bm.AndNot(erase)
		verts, err := mask.ToPolygon(remaining, 0)
		if err != nil {
			return Polygon{}
		}
		return Polygon{Vertices: verts}
	case Raster:
		bm, err := v.Bitmap(h, w)
		if err != nil {
			return Raster{}
		}
		return Raster{Mask: bm.AndNot(erase)}
	default:
		return g.Clone()
	}
}
