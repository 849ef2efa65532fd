package segment

import (
	"sort"

	"annotator/internal/mask"
)

// MergeStatus names the outcome of a class merge, so "nothing happened" is
// distinguishable from "merged into one segment per class".
type MergeStatus int

const (
	// MergeOK means segments were merged.
	MergeOK MergeStatus = iota
	// MergeNoSegments means the store was empty.
	MergeNoSegments
	// MergeNoClasses means no segment carried a class id.
	MergeNoClasses
	// MergeNoRaster means no segment carried a mask to size the merge
	// grids from, so the merge could not run.
	MergeNoRaster
)

func (s MergeStatus) String() string {
	switch s {
	case MergeOK:
		return "merged"
	case MergeNoSegments:
		return "no segments"
	case MergeNoClasses:
		return "no classified segments"
	case MergeNoRaster:
		return "no raster segments"
	default:
		return "unknown"
	}
}

// MergeResult reports what a class merge did.
type MergeResult struct {
	Status  MergeStatus
	Classes []int // classes that produced a merged segment, ascending
}

// MergeByClass collapses all segments sharing a class into a single raster
// segment per class: the logical OR of every member's occupancy grid, with
// polygons rasterized first. The grid size comes from the first raster
// segment in z-order. The entire segment list is replaced in one pass; this
// is lossy and one-directional, polygon vertex data is discarded.
func (st *Store) MergeByClass() MergeResult {
	if len(st.order) == 0 {
		return MergeResult{Status: MergeNoSegments}
	}

	byClass := make(map[int][]ID)
	for _, id := range st.order {
		c := st.segments[id].ClassID
		if c == ClassNone {
			continue
		}
		byClass[c] = append(byClass[c], id)
	}
	if len(byClass) == 0 {
		return MergeResult{Status: MergeNoClasses}
	}

	// Masks are required: polygons have no inherent pixel size, so the
	// merge grid size comes from the first mask-bearing segment.
	var h, w int
	found := false
	for _, id := range st.order {
		if r, ok := st.segments[id].Geometry.(Raster); ok && r.Mask != nil {
			h, w = r.Mask.H, r.Mask.W
			found = true
			break
		}
	}
	if !found {
		return MergeResult{Status: MergeNoRaster}
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	var merged []*Segment
	var mergedClasses []int
	for _, c := range classes {
		union := mask.New(h, w)
		for _, id := range byClass[c] {
			g := st.segments[id].Geometry
			if g == nil {
				continue
			}
			bm, err := g.Bitmap(h, w)
			if err != nil {
				continue
			}
			for i, on := range bm.Pix {
				if on {
					union.Pix[i] = true
				}
			}
		}
		if union.Empty() {
			continue
		}
		merged = append(merged, &Segment{
			Kind:     KindMerged,
			ClassID:  c,
			Geometry: Raster{Mask: union},
		})
		mergedClasses = append(mergedClasses, c)
	}

	// Replace the whole list. Unclassified segments are dropped with it.
	st.segments = make(map[ID]*Segment, len(merged))
	st.order = st.order[:0]
	for _, seg := range merged {
		st.insertAt(seg, -1)
	}
	st.updateNextClassID()

	return MergeResult{Status: MergeOK, Classes: mergedClasses}
}
