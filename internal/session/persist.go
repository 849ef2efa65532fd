package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"annotator/internal/mask"
	"annotator/internal/segment"
	"annotator/pkg/geometry"
)

// annotationFile is the JSON sidecar written next to an annotated image.
type annotationFile struct {
	Version  int             `json:"version"`
	Images   []string        `json:"images,omitempty"`
	Aliases  map[int]string  `json:"aliases,omitempty"`
	Segments []segmentRecord `json:"segments"`
}

// geomRecord serializes one view's geometry: vertices for polygons,
// run-length encoded mask for rasters.
type geomRecord struct {
	Vertices []geometry.Point2D `json:"vertices,omitempty"`
	Mask     *mask.RLE          `json:"mask,omitempty"`
}

type segmentRecord struct {
	Kind     string             `json:"kind"`
	ClassID  int                `json:"class_id"`
	Geometry *geomRecord        `json:"geometry,omitempty"`
	Views    map[int]geomRecord `json:"views,omitempty"`
}

// SidecarPath returns the annotation sidecar path for an image path.
func SidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".annotations.json"
}

// SaveAnnotations writes the store to a JSON sidecar file.
func (s *Session) SaveAnnotations(path string) error {
	file := annotationFile{
		Version: 1,
		Aliases: make(map[int]string),
	}
	for _, layer := range s.layers {
		file.Images = append(file.Images, filepath.Base(layer.Path))
	}
	for _, classID := range s.store.UniqueClassIDs() {
		file.Aliases[classID] = s.store.Alias(classID)
	}

	for _, id := range s.store.IDs() {
		seg, ok := s.store.Get(id)
		if !ok {
			continue
		}
		rec := segmentRecord{
			Kind:    seg.Kind.String(),
			ClassID: seg.ClassID,
		}
		if seg.MultiView() {
			rec.Views = make(map[int]geomRecord, len(seg.Views))
			for vid, g := range seg.Views {
				rec.Views[int(vid)] = encodeGeometry(g)
			}
		} else {
			gr := encodeGeometry(seg.Geometry)
			rec.Geometry = &gr
		}
		file.Segments = append(file.Segments, rec)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	s.SetModified(false)
	s.Emit(EventAnnotationsSaved, path)
	return nil
}

// LoadAnnotations replaces the store's segments with the sidecar contents.
// Loaded raster segments come back as predicted masks unless they were
// saved as merged.
func (s *Session) LoadAnnotations(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file annotationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse annotations: %w", err)
	}

	s.store.Clear()
	for classID, alias := range file.Aliases {
		s.store.SetAlias(classID, alias)
	}

	for i, rec := range file.Segments {
		seg := &segment.Segment{
			Kind:    parseKind(rec.Kind),
			ClassID: rec.ClassID,
		}
		if len(rec.Views) > 0 {
			seg.Views = make(map[segment.ViewID]segment.Geometry, len(rec.Views))
			for vid, gr := range rec.Views {
				seg.Views[segment.ViewID(vid)] = decodeGeometry(gr)
			}
		} else if rec.Geometry != nil {
			seg.Geometry = decodeGeometry(*rec.Geometry)
		} else {
			return fmt.Errorf("segment %d: no geometry", i)
		}
		s.store.Add(seg)
	}

	s.SetModified(false)
	s.Emit(EventAnnotationsLoaded, path)
	return nil
}

func encodeGeometry(g segment.Geometry) geomRecord {
	switch v := g.(type) {
	case segment.Polygon:
		return geomRecord{Vertices: v.Vertices}
	case segment.Raster:
		if v.Mask == nil {
			return geomRecord{}
		}
		rle := mask.EncodeRLE(v.Mask)
		return geomRecord{Mask: &rle}
	default:
		return geomRecord{}
	}
}

func decodeGeometry(gr geomRecord) segment.Geometry {
	if gr.Mask != nil {
		return segment.Raster{Mask: mask.DecodeRLE(*gr.Mask)}
	}
	return segment.Polygon{Vertices: gr.Vertices}
}

func parseKind(s string) segment.Kind {
	switch s {
	case "Polygon":
		return segment.KindPolygon
	case "Merged":
		return segment.KindMerged
	default:
		return segment.KindPredicted
	}
}
