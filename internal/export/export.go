// Package export serializes the compositor's class tensor to per-class
// mask images with a JSON manifest and coverage statistics.
package export

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"annotator/internal/segment"
)

// Manifest describes an exported class tensor.
type Manifest struct {
	Height  int         `json:"height"`
	Width   int         `json:"width"`
	Classes []ClassFile `json:"classes"`
}

// ClassFile maps one exported channel to its mask file.
type ClassFile struct {
	ClassID int    `json:"class_id"`
	Alias   string `json:"alias"`
	File    string `json:"file"`
	Pixels  int    `json:"pixels"`
}

// WriteClassMasks writes one black-and-white PNG per tensor channel into
// dir, plus a manifest.json describing the channels. The alias function
// supplies display names; pass store.Alias.
func WriteClassMasks(t *segment.Tensor, classOrder []int, alias func(int) string, dir string) (*Manifest, error) {
	if len(classOrder) != len(t.Channels) {
		return nil, fmt.Errorf("class order has %d entries for %d channels", len(classOrder), len(t.Channels))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	manifest := &Manifest{Height: t.H, Width: t.W}
	for ch, classID := range classOrder {
		bm := t.Channels[ch]

		img := image.NewGray(image.Rect(0, 0, t.W, t.H))
		for y := 0; y < t.H; y++ {
			for x := 0; x < t.W; x++ {
				if bm.At(x, y) {
					img.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}

		name := fmt.Sprintf("class_%03d.png", classID)
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if err := png.Encode(file, img); err != nil {
			file.Close()
			return nil, err
		}
		if err := file.Close(); err != nil {
			return nil, err
		}

		manifest.Classes = append(manifest.Classes, ClassFile{
			ClassID: classID,
			Alias:   alias(classID),
			File:    name,
			Pixels:  bm.Count(),
		})
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644); err != nil {
		return nil, err
	}

	return manifest, nil
}
