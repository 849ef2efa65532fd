package session

import (
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annotator/internal/mask"
	"annotator/internal/prefs"
	"annotator/internal/segment"
	"annotator/pkg/geometry"
)

// writeTestPNG writes a blank PNG of the given size and returns its path.
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, goimage.NewRGBA(goimage.Rect(0, 0, w, h))))
	return path
}

func barMask(h, w, x0, y0, x1, y1 int) *mask.Bitmap {
	b := mask.New(h, w)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.Set(x, y, true)
		}
	}
	return b
}

func TestSessionLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "board.png", 64, 48)

	s := New(prefs.Default())
	var loaded int
	s.On(EventImageLoaded, func(interface{}) { loaded++ })

	require.NoError(t, s.LoadImage(path))
	assert.Equal(t, 1, loaded)
	assert.False(t, s.MultiView())
	assert.Equal(t, geometry.NewSize(48, 64), s.Size())
	assert.False(t, s.Modified())
}

func TestSessionLoadImage_Missing(t *testing.T) {
	s := New(prefs.Default())
	err := s.LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSessionLoadLinkedImages(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", 32, 32)
	b := writeTestPNG(t, dir, "b.png", 32, 32)

	s := New(prefs.Default())
	require.NoError(t, s.LoadLinkedImages([]string{a, b}))
	assert.True(t, s.MultiView())
	assert.Len(t, s.Layers(), 2)

	// A missing view fails the whole load.
	err := s.LoadLinkedImages([]string{a, filepath.Join(dir, "missing.png")})
	assert.ErrorContains(t, err, "view 1")

	assert.Error(t, s.LoadLinkedImages(nil))
}

func TestSessionMutationsMarkModified(t *testing.T) {
	s := New(prefs.Default())
	var changed int
	s.On(EventSegmentsChanged, func(interface{}) { changed++ })

	id := s.AddPrediction(barMask(50, 50, 0, 0, 20, 20))
	assert.True(t, s.Modified())
	assert.Equal(t, 1, changed)

	_, ok := s.Store().Get(id)
	assert.True(t, ok)

	s.SetModified(false)
	result := s.EraseMask(barMask(50, 50, 0, 0, 50, 50), segment.ViewNone)
	assert.False(t, result.Empty())
	assert.True(t, s.Modified())
	assert.Equal(t, 2, changed)

	// An erase that touches nothing does not dirty the session.
	s.SetModified(false)
	result = s.EraseMask(barMask(50, 50, 40, 40, 50, 50), segment.ViewNone)
	assert.True(t, result.Empty())
	assert.False(t, s.Modified())
	assert.Equal(t, 2, changed)
}

func TestSessionClear(t *testing.T) {
	s := New(prefs.Default())
	s.AddPolygon([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	require.Equal(t, 1, s.Store().Len())

	var cleared bool
	s.On(EventCleared, func(interface{}) { cleared = true })

	s.Clear()
	assert.True(t, cleared)
	assert.Zero(t, s.Store().Len())
	assert.False(t, s.Modified())
	assert.Empty(t, s.Layers())
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/data/board.annotations.json", SidecarPath("/data/board.png"))
	assert.Equal(t, "scan.annotations.json", SidecarPath("scan.tiff"))
}

func TestAnnotationsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "board.annotations.json")

	s := New(prefs.Default())
	polyID := s.AddPolygon([]geometry.Point2D{
		{X: 5, Y: 5}, {X: 20, Y: 5}, {X: 20, Y: 20}, {X: 5, Y: 20},
	})
	rasterID := s.AddPrediction(barMask(40, 40, 25, 25, 35, 35))
	s.Store().SetAlias(0, "trace")
	s.Store().SetAlias(1, "pad")

	origPoly, _ := s.Store().Get(polyID)
	origRaster, _ := s.Store().Get(rasterID)

	require.NoError(t, s.SaveAnnotations(sidecar))
	assert.False(t, s.Modified())

	loaded := New(prefs.Default())
	var events int
	loaded.On(EventAnnotationsLoaded, func(interface{}) { events++ })
	require.NoError(t, loaded.LoadAnnotations(sidecar))
	assert.Equal(t, 1, events)

	st := loaded.Store()
	require.Equal(t, 2, st.Len())
	assert.Equal(t, "trace", st.Alias(0))
	assert.Equal(t, "pad", st.Alias(1))
	assert.Equal(t, 2, st.NextClassID())

	ids := st.IDs()
	p, _ := st.Get(ids[0])
	assert.Equal(t, segment.KindPolygon, p.Kind)
	assert.Equal(t, origPoly.ClassID, p.ClassID)
	assert.Equal(t, origPoly.Geometry.(segment.Polygon).Vertices, p.Geometry.(segment.Polygon).Vertices)

	r, _ := st.Get(ids[1])
	assert.Equal(t, segment.KindPredicted, r.Kind)
	assert.Equal(t, origRaster.ClassID, r.ClassID)
	assert.True(t, r.Geometry.(segment.Raster).Mask.Equal(origRaster.Geometry.(segment.Raster).Mask))
}

func TestAnnotationsRoundTrip_MultiView(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "linked.annotations.json")

	s := New(prefs.Default())
	seg := &segment.Segment{
		Kind:    segment.KindPredicted,
		ClassID: 3,
		Views: map[segment.ViewID]segment.Geometry{
			0: segment.Raster{Mask: barMask(30, 30, 0, 0, 10, 10)},
			1: segment.Polygon{Vertices: []geometry.Point2D{
				{X: 1, Y: 1}, {X: 9, Y: 1}, {X: 9, Y: 9},
			}},
		},
	}
	s.Store().Add(seg)

	require.NoError(t, s.SaveAnnotations(sidecar))

	loaded := New(prefs.Default())
	require.NoError(t, loaded.LoadAnnotations(sidecar))

	st := loaded.Store()
	require.Equal(t, 1, st.Len())
	got, _ := st.Get(st.IDs()[0])
	require.True(t, got.MultiView())
	assert.Equal(t, 3, got.ClassID)

	r, ok := got.Views[0].(segment.Raster)
	require.True(t, ok)
	assert.True(t, r.Mask.Equal(seg.Views[0].(segment.Raster).Mask))

	p, ok := got.Views[1].(segment.Polygon)
	require.True(t, ok)
	assert.Len(t, p.Vertices, 3)
}

func TestLoadAnnotations_BadInput(t *testing.T) {
	dir := t.TempDir()

	s := New(prefs.Default())
	assert.Error(t, s.LoadAnnotations(filepath.Join(dir, "absent.json")))

	garbled := filepath.Join(dir, "garbled.json")
	require.NoError(t, os.WriteFile(garbled, []byte("{not json"), 0o644))
	assert.ErrorContains(t, s.LoadAnnotations(garbled), "parse annotations")

	noGeom := filepath.Join(dir, "nogeom.json")
	require.NoError(t, os.WriteFile(noGeom,
		[]byte(`{"version":1,"segments":[{"kind":"Polygon","class_id":0}]}`), 0o644))
	assert.ErrorContains(t, s.LoadAnnotations(noGeom), "no geometry")
}

func TestPolygonizePredictedUsesSessionEpsilon(t *testing.T) {
	settings := prefs.Default()
	settings.SimplifyEpsilonFactor = 0.001

	s := New(settings)
	id := s.AddPrediction(barMask(100, 100, 20, 20, 80, 80))
	s.SetModified(false)

	converted, skipped := s.PolygonizePredicted()
	assert.Equal(t, 1, converted)
	assert.Zero(t, skipped)
	assert.True(t, s.Modified())

	seg2, _ := s.Store().Get(id)
	assert.Equal(t, segment.KindPolygon, seg2.Kind)
}
