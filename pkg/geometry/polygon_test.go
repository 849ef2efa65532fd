package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	assert.True(t, PointInPolygon(Point2D{X: 5, Y: 5}, square))
	assert.False(t, PointInPolygon(Point2D{X: 15, Y: 5}, square))
	assert.False(t, PointInPolygon(Point2D{X: -1, Y: -1}, square))
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	assert.False(t, PointInPolygon(Point2D{X: 0, Y: 0}, nil))
	assert.False(t, PointInPolygon(Point2D{X: 0, Y: 0}, []Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}))
}

func TestPolygonArea(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	assert.InDelta(t, 100.0, PolygonArea(square), 1e-9)

	triangle := []Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}
	assert.InDelta(t, 6.0, PolygonArea(triangle), 1e-9)

	assert.Zero(t, PolygonArea([]Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}))
}

func TestPolygonPerimeter(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	assert.InDelta(t, 40.0, PolygonPerimeter(square), 1e-9)
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 2, Y: 3}, {X: 8, Y: 1}, {X: 5, Y: 9}}
	box := BoundingBox(pts)

	assert.Equal(t, 2.0, box.X)
	assert.Equal(t, 1.0, box.Y)
	assert.Equal(t, 6.0, box.Width)
	assert.Equal(t, 8.0, box.Height)
	assert.True(t, box.Contains(Point2D{X: 5, Y: 5}))
}

func TestCentroid(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := Centroid(pts)
	assert.Equal(t, Point2D{X: 5, Y: 5}, c)

	assert.Equal(t, Point2D{}, Centroid(nil))
}
