package segment

import (
	"annotator/internal/mask"
)

// PolygonizePredicted converts live predicted raster segments into polygon
// segments by tracing and simplifying their mask boundary. Only
// KindPredicted segments convert; merged rasters are counted as skipped and
// polygons are left alone. Multi-view segments convert only when every view
// yields a valid polygon, so a segment never ends up with mixed geometry
// kinds across views.
//
// epsilonFactor controls boundary simplification; typical values are
// 0.0005-0.005. Returns the number of segments converted and skipped.
func (st *Store) PolygonizePredicted(epsilonFactor float64) (converted, skipped int) {
	for _, id := range st.order {
		seg := st.segments[id]
		switch seg.Kind {
		case KindMerged:
			skipped++
			continue
		case KindPolygon:
			continue
		}

		if seg.MultiView() {
			views := make(map[ViewID]Geometry, len(seg.Views))
			ok := true
			for vid, g := range seg.Views {
				r, isRaster := g.(Raster)
				if !isRaster || r.Mask == nil {
					ok = false
					break
				}
				verts, err := mask.ToPolygon(r.Mask, epsilonFactor)
				if err != nil {
					ok = false
					break
				}
				views[vid] = Polygon{Vertices: verts}
			}
			if !ok || len(views) == 0 {
				continue
			}
			seg.Kind = KindPolygon
			seg.Views = views
			converted++
			continue
		}

		r, isRaster := seg.Geometry.(Raster)
		if !isRaster || r.Mask == nil {
			continue
		}
		verts, err := mask.ToPolygon(r.Mask, epsilonFactor)
		if err != nil {
			continue
		}
		seg.Kind = KindPolygon
		seg.Geometry = Polygon{Vertices: verts}
		converted++
	}
	return converted, skipped
}
