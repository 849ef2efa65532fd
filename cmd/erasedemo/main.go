// Command erasedemo exercises the erase engine on a synthetic segment and
// reports how it splits.
package main

import (
	"flag"
	"fmt"

	"annotator/internal/mask"
	"annotator/internal/segment"
	"annotator/pkg/geometry"
)

func main() {
	width := flag.Int("width", 300, "Image width")
	height := flag.Int("height", 100, "Image height")
	flag.Parse()

	store := segment.NewStore()

	// A horizontal bar across the middle of the image.
	bar := mask.New(*height, *width)
	for y := *height/2 - 10; y < *height/2+10; y++ {
		for x := 10; x < *width-10; x++ {
			bar.Set(x, y, true)
		}
	}
	id := store.Add(segment.NewPredicted(bar))
	seg, _ := store.Get(id)
	fmt.Printf("Added bar segment %d (class %d, %d px)\n", id, seg.ClassID, bar.Count())

	// Erase the middle third.
	third := float64(*width) / 3
	eraseShape := []geometry.Point2D{
		{X: third, Y: 0},
		{X: 2 * third, Y: 0},
		{X: 2 * third, Y: float64(*height)},
		{X: third, Y: float64(*height)},
	}
	result := store.ErasePolygon(eraseShape, geometry.NewSize(*height, *width), segment.ViewNone)

	fmt.Printf("Erase touched %d segment(s), removed %d, added %d\n",
		len(result.Modified), len(result.Removed), len(result.Added))

	for _, newID := range result.Added {
		s, ok := store.Get(newID)
		if !ok {
			continue
		}
		r := s.Geometry.(segment.Raster)
		fmt.Printf("  segment %d: kind=%s class=%d pixels=%d\n",
			newID, s.Kind, s.ClassID, r.Mask.Count())
	}

	fmt.Printf("Store now holds %d segment(s); next class id %d\n", store.Len(), store.NextClassID())
}
