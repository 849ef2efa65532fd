package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annotator/internal/mask"
	"annotator/pkg/geometry"
)

func TestEraseMask_FullCoverRemoves(t *testing.T) {
	st := NewStore()
	id := st.Add(NewPredicted(rectMask(50, 50, 10, 10, 20, 20)))

	erase := rectMask(50, 50, 0, 0, 30, 30)
	result := st.EraseMask(erase, ViewNone)

	assert.Equal(t, []ID{id}, result.Modified)
	require.Len(t, result.Removed, 1)
	assert.Equal(t, id, result.Removed[0].ID)
	assert.Empty(t, result.Added)
	assert.Zero(t, st.Len())
}

func TestEraseMask_DisjointIsNoOp(t *testing.T) {
	st := NewStore()
	id := st.Add(NewPredicted(rectMask(50, 50, 0, 0, 10, 10)))

	erase := rectMask(50, 50, 30, 30, 50, 50)
	result := st.EraseMask(erase, ViewNone)

	assert.True(t, result.Empty())
	assert.Equal(t, []ID{id}, st.IDs())
	s, _ := st.Get(id)
	assert.Equal(t, 100, s.Geometry.(Raster).Mask.Count())
}

func TestEraseMask_EmptyInputsAreNoOps(t *testing.T) {
	st := NewStore()
	st.Add(NewPredicted(rectMask(50, 50, 0, 0, 10, 10)))

	assert.True(t, st.EraseMask(nil, ViewNone).Empty())
	assert.True(t, st.EraseMask(mask.New(50, 50), ViewNone).Empty())
	assert.Equal(t, 1, st.Len())

	empty := NewStore()
	assert.True(t, empty.EraseMask(rectMask(50, 50, 0, 0, 10, 10), ViewNone).Empty())
}

func TestEraseMask_SplitsIntoComponents(t *testing.T) {
	st := NewStore()
	bar := rectMask(100, 300, 10, 40, 290, 60)
	seg := NewPredicted(bar.Clone())
	seg.ClassID = 3
	id := st.Add(seg)

	erase := rectMask(100, 300, 100, 0, 200, 100)
	result := st.EraseMask(erase, ViewNone)

	assert.Equal(t, []ID{id}, result.Modified)
	require.Len(t, result.Removed, 1)
	require.Len(t, result.Added, 2)
	assert.Equal(t, 2, st.Len())

	// Each piece is a predicted raster inheriting the original class, and
	// together they are exactly the surviving pixels.
	union := mask.New(100, 300)
	for _, newID := range result.Added {
		s, ok := st.Get(newID)
		require.True(t, ok)
		assert.Equal(t, KindPredicted, s.Kind)
		assert.Equal(t, 3, s.ClassID)
		union = union.Or(s.Geometry.(Raster).Mask)
	}
	assert.True(t, union.Equal(bar.AndNot(erase)))
}

func TestEraseMask_DropsSubThresholdPieces(t *testing.T) {
	st := NewStore()
	// One-pixel-tall bar: erasing the middle leaves a 5 px and a 50 px run.
	bar := rectMask(20, 100, 0, 10, 60, 11)
	st.Add(NewPredicted(bar))

	erase := rectMask(20, 100, 5, 0, 10, 20)
	result := st.EraseMask(erase, ViewNone)

	require.Len(t, result.Added, 1)
	s, _ := st.Get(result.Added[0])
	assert.Equal(t, 50, s.Geometry.(Raster).Mask.Count())
	assert.Equal(t, 1, st.Len())
}

func TestEraseMask_ExactThresholdSurvives(t *testing.T) {
	st := NewStore()
	// Erasing the middle leaves two runs of exactly MinComponentPixels.
	bar := rectMask(20, 100, 0, 10, 25, 11)
	st.Add(NewPredicted(bar))

	erase := rectMask(20, 100, 10, 0, 15, 20)
	result := st.EraseMask(erase, ViewNone)

	require.Len(t, result.Added, 2)
	for _, id := range result.Added {
		s, _ := st.Get(id)
		assert.Equal(t, MinComponentPixels, s.Geometry.(Raster).Mask.Count())
	}
}

func TestErasePolygon_HalfErasesPolygonSegment(t *testing.T) {
	st := NewStore()
	seg := NewPolygon([]geometry.Point2D{
		{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}, {X: 10, Y: 50},
	})
	seg.ClassID = 5
	id := st.Add(seg)

	eraseShape := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 60}, {X: 0, Y: 60},
	}
	result := st.ErasePolygon(eraseShape, geometry.NewSize(60, 60), ViewNone)

	assert.Equal(t, []ID{id}, result.Modified)
	require.Len(t, result.Added, 1)

	s, ok := st.Get(result.Added[0])
	require.True(t, ok)
	assert.Equal(t, KindPredicted, s.Kind)
	assert.Equal(t, 5, s.ClassID)

	remaining := s.Geometry.(Raster).Mask
	assert.Greater(t, remaining.Count(), 0)
	for y := 0; y < remaining.H; y++ {
		for x := 0; x < remaining.W; x++ {
			if remaining.At(x, y) {
				assert.GreaterOrEqual(t, x, 30, "pixel (%d,%d) should have been erased", x, y)
			}
		}
	}
}

func TestErasePolygon_NoPointsIsNoOp(t *testing.T) {
	st := NewStore()
	st.Add(NewPredicted(rectMask(50, 50, 0, 0, 10, 10)))

	result := st.ErasePolygon(nil, geometry.NewSize(50, 50), ViewNone)
	assert.True(t, result.Empty())
	assert.Equal(t, 1, st.Len())
}

func TestEraseMask_MultiViewMirrors(t *testing.T) {
	st := NewStore()
	barA := rectMask(100, 300, 10, 40, 290, 60)
	barB := rectMask(100, 300, 10, 30, 290, 50)
	seg := &Segment{
		Kind:    KindPredicted,
		ClassID: 2,
		Views: map[ViewID]Geometry{
			0: Raster{Mask: barA.Clone()},
			1: Raster{Mask: barB.Clone()},
		},
	}
	st.Add(seg)

	erase := rectMask(100, 300, 100, 0, 200, 100)
	result := st.EraseMask(erase, 0)

	require.Len(t, result.Added, 2)
	for _, id := range result.Added {
		s, _ := st.Get(id)
		require.True(t, s.MultiView())
		assert.Equal(t, 2, s.ClassID)

		// View 1 carries the mirrored erase of its own geometry.
		mirror := s.Views[1].(Raster).Mask
		assert.True(t, mirror.Equal(barB.AndNot(erase)))
	}

	// The triggering view's pieces cover exactly the surviving pixels.
	union := mask.New(100, 300)
	for _, id := range result.Added {
		s, _ := st.Get(id)
		union = union.Or(s.Views[0].(Raster).Mask)
	}
	assert.True(t, union.Equal(barA.AndNot(erase)))
}

func TestEraseMask_SingleViewEraseSkipsMultiViewSegments(t *testing.T) {
	st := NewStore()
	seg := &Segment{
		Kind:    KindPredicted,
		ClassID: 0,
		Views: map[ViewID]Geometry{
			0: Raster{Mask: rectMask(50, 50, 0, 0, 20, 20)},
		},
	}
	st.Add(seg)

	result := st.EraseMask(rectMask(50, 50, 0, 0, 50, 50), ViewNone)
	assert.True(t, result.Empty())
	assert.Equal(t, 1, st.Len())
}

func TestEraseMask_OnlyOverlappingSegmentsTouched(t *testing.T) {
	st := NewStore()
	hit := st.Add(NewPredicted(rectMask(50, 50, 0, 0, 10, 10)))
	spared := st.Add(NewPredicted(rectMask(50, 50, 30, 30, 45, 45)))

	result := st.EraseMask(rectMask(50, 50, 0, 0, 20, 20), ViewNone)

	assert.Equal(t, []ID{hit}, result.Modified)
	assert.Equal(t, []ID{spared}, st.IDs())
	assert.Equal(t, 0, st.Z(spared))
}
