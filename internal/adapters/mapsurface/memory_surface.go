package mapsurface

import (
	"errors"
	"fmt"
	"sync"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb/geojson"
)

var (
	ErrDuplicateLayer = errors.New("layer already exists")
	ErrUnknownLayer   = errors.New("layer does not exist")
	ErrUnknownMarker  = errors.New("marker does not exist")
)

// Marker is one placed pin.
type Marker struct {
	ID    string
	At    domain.Coordinates
	Color string
}

// MemorySurface keeps markers and line layers in memory the way a browser
// map keeps layers and sources: ids are unique and adding an existing id
// fails. Every command fails with ErrSurfaceNotReady until Init is called.
type MemorySurface struct {
	mu      sync.RWMutex
	ready   bool
	markers []Marker
	layers  []ports.LineLayer
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// Init marks the surface ready to accept commands.
func (s *MemorySurface) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

func (s *MemorySurface) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *MemorySurface) AddMarker(id string, at domain.Coordinates, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.ErrSurfaceNotReady
	}
	s.markers = append(s.markers, Marker{ID: id, At: at, Color: color})
	return nil
}

func (s *MemorySurface) RemoveMarker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.ErrSurfaceNotReady
	}
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove marker %q: %w", id, ErrUnknownMarker)
}

func (s *MemorySurface) LayerIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, domain.ErrSurfaceNotReady
	}
	ids := make([]string, len(s.layers))
	for i, l := range s.layers {
		ids[i] = l.ID
	}
	return ids, nil
}

func (s *MemorySurface) HasLayer(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return false, domain.ErrSurfaceNotReady
	}
	return s.indexOf(id) >= 0, nil
}

func (s *MemorySurface) AddLineLayer(layer ports.LineLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.ErrSurfaceNotReady
	}
	if s.indexOf(layer.ID) >= 0 {
		return fmt.Errorf("add layer %q: %w", layer.ID, ErrDuplicateLayer)
	}
	if layer.Source == nil {
		return fmt.Errorf("add layer %q: missing source", layer.ID)
	}
	s.layers = append(s.layers, layer)
	return nil
}

func (s *MemorySurface) RemoveLayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.ErrSurfaceNotReady
	}
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove layer %q: %w", id, ErrUnknownLayer)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return nil
}

// Markers returns the placed markers in placement order.
func (s *MemorySurface) Markers() []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// Layer returns the layer with id, if present.
func (s *MemorySurface) Layer(id string) (ports.LineLayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.layers[i], true
	}
	return ports.LineLayer{}, false
}

// FeatureCollection exports the surface for a browser client: one point
// feature per marker, then every layer's features tagged with its style.
func (s *MemorySurface) FeatureCollection() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fc := geojson.NewFeatureCollection()

	for _, m := range s.markers {
		f := geojson.NewFeature(m.At.Point())
		f.ID = m.ID
		f.Properties["kind"] = "marker"
		f.Properties["marker_id"] = m.ID
		f.Properties["color"] = m.Color
		fc.Append(f)
	}

	for _, l := range s.layers {
		for _, src := range l.Source.Features {
			f := geojson.NewFeature(src.Geometry)
			for k, v := range src.Properties {
				f.Properties[k] = v
			}
			f.Properties["kind"] = "line"
			f.Properties["layer_id"] = l.ID
			f.Properties["color"] = l.Color
			f.Properties["line_width"] = l.Width
			f.Properties["line_join"] = l.LineJoin
			f.Properties["line_cap"] = l.LineCap
			fc.Append(f)
		}
	}

	return fc
}

// Caller holds mu.
func (s *MemorySurface) indexOf(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}
