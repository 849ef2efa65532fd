// Package session owns the state of one annotation session: the open image
// (or linked multi-view images), the segment store, settings, and events.
package session

import (
	"fmt"
	"sync"

	"annotator/internal/image"
	"annotator/internal/mask"
	"annotator/internal/prefs"
	"annotator/internal/segment"
	"annotator/pkg/geometry"
)

// EventType identifies session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventSegmentsChanged
	EventClassesChanged
	EventAnnotationsLoaded
	EventAnnotationsSaved
	EventCleared
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session holds everything scoped to one open image or linked image set.
// Geometry mutations must come from the session's owning goroutine; the
// mutex only guards listener registration and the modified flag.
type Session struct {
	mu sync.RWMutex

	layers   []*image.Layer
	store    *segment.Store
	settings prefs.Settings
	modified bool

	listeners map[EventType][]EventListener
}

// New creates an empty session with the given settings.
func New(settings prefs.Settings) *Session {
	return &Session{
		store:     segment.NewStore(),
		settings:  settings,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *Session) SetModified(modified bool) {
	s.mu.Lock()
	s.modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Modified reports whether the session has unsaved changes.
func (s *Session) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Store returns the segment store.
func (s *Session) Store() *segment.Store {
	return s.store
}

// Settings returns the session settings.
func (s *Session) Settings() prefs.Settings {
	return s.settings
}

// Layers returns the loaded image layers, one per view.
func (s *Session) Layers() []*image.Layer {
	return s.layers
}

// MultiView reports whether the session has linked views.
func (s *Session) MultiView() bool {
	return len(s.layers) > 1
}

// Size returns the pixel dimensions of the session's image, taken from the
// first loaded layer.
func (s *Session) Size() geometry.Size {
	if len(s.layers) == 0 {
		return geometry.Size{}
	}
	return s.layers[0].Size()
}

// LoadImage opens a single image, discarding any previous session content.
func (s *Session) LoadImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.Clear()
	s.layers = []*image.Layer{layer}
	s.Emit(EventImageLoaded, layer)
	return nil
}

// LoadLinkedImages opens a set of spatially linked images for multi-view
// annotation, discarding any previous session content. All images must
// decode; the first defines the working size.
func (s *Session) LoadLinkedImages(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no images given")
	}

	layers := make([]*image.Layer, len(paths))
	for i, path := range paths {
		layer, err := image.Load(path)
		if err != nil {
			return fmt.Errorf("view %d: %w", i, err)
		}
		layers[i] = layer
	}

	s.Clear()
	s.layers = layers
	for _, layer := range layers {
		s.Emit(EventImageLoaded, layer)
	}
	return nil
}

// Clear discards all segments, layers, and class state. Called when the
// user moves to a new image; nothing in the store outlives the session.
func (s *Session) Clear() {
	s.store.Clear()
	s.layers = nil
	s.mu.Lock()
	s.modified = false
	s.mu.Unlock()
	s.Emit(EventCleared, nil)
}

// AddPolygon adds a drawn polygon segment and returns its id.
func (s *Session) AddPolygon(vertices []geometry.Point2D) segment.ID {
	id := s.store.Add(segment.NewPolygon(vertices))
	s.SetModified(true)
	s.Emit(EventSegmentsChanged, id)
	return id
}

// AddPrediction adds a model-predicted raster segment and returns its id.
func (s *Session) AddPrediction(bm *mask.Bitmap) segment.ID {
	id := s.store.Add(segment.NewPredicted(bm))
	s.SetModified(true)
	s.Emit(EventSegmentsChanged, id)
	return id
}

// Erase applies an erase shape to every overlapping segment. The view
// argument selects the triggering viewer in multi-view mode; pass
// segment.ViewNone for single view.
func (s *Session) Erase(vertices []geometry.Point2D, view segment.ViewID) segment.EraseResult {
	result := s.store.ErasePolygon(vertices, s.Size(), view)
	if !result.Empty() {
		s.SetModified(true)
		s.Emit(EventSegmentsChanged, nil)
	}
	return result
}

// EraseMask applies an erase bitmap to every overlapping segment.
func (s *Session) EraseMask(erase *mask.Bitmap, view segment.ViewID) segment.EraseResult {
	result := s.store.EraseMask(erase, view)
	if !result.Empty() {
		s.SetModified(true)
		s.Emit(EventSegmentsChanged, nil)
	}
	return result
}

// MergeByClass collapses all segments of each class into one raster segment.
func (s *Session) MergeByClass() segment.MergeResult {
	result := s.store.MergeByClass()
	if result.Status == segment.MergeOK {
		s.SetModified(true)
		s.Emit(EventSegmentsChanged, nil)
	}
	return result
}

// PolygonizePredicted converts predicted raster segments to polygons using
// the session's simplification factor.
func (s *Session) PolygonizePredicted() (converted, skipped int) {
	converted, skipped = s.store.PolygonizePredicted(s.settings.SimplifyEpsilonFactor)
	if converted > 0 {
		s.SetModified(true)
		s.Emit(EventSegmentsChanged, nil)
	}
	return converted, skipped
}
