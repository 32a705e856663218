package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

const (
	routeLineWidth  = 8
	routeLineJoin   = "round"
	routeLineCap    = "round"
	routeLayerToken = "route"
)

// MapSynchronizer is the only component that mutates the map surface.
// It remembers the markers it placed so a new search can remove them.
type MapSynchronizer struct {
	surface ports.MapSurface

	mu      sync.Mutex
	markers []string
}

func NewMapSynchronizer(surface ports.MapSurface) *MapSynchronizer {
	return &MapSynchronizer{surface: surface}
}

// ClearSearchArtifacts removes every route layer and every marker placed
// by this synchronizer. Calling it on an empty surface is a no-op.
func (m *MapSynchronizer) ClearSearchArtifacts() error {
	if m.surface == nil {
		return fmt.Errorf("clear search artifacts: %w", domain.ErrSurfaceNotReady)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error

	ids, err := m.surface.LayerIDs()
	if err != nil {
		return fmt.Errorf("clear search artifacts: list layers: %w", err)
	}
	for _, id := range ids {
		if !strings.Contains(id, routeLayerToken) {
			continue
		}
		if err := m.surface.RemoveLayer(id); err != nil {
			errs = append(errs, fmt.Errorf("remove layer %q: %w", id, err))
		}
	}

	kept := m.markers[:0]
	for _, id := range m.markers {
		if err := m.surface.RemoveMarker(id); err != nil {
			errs = append(errs, fmt.Errorf("remove marker %q: %w", id, err))
			kept = append(kept, id)
		}
	}
	m.markers = kept

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear search artifacts: %w", err)
	}
	return nil
}

// PlaceMarker adds one marker coloured by role. Markers are not de-duplicated.
func (m *MapSynchronizer) PlaceMarker(at domain.Coordinates, role domain.MarkerRole) error {
	if m.surface == nil {
		return fmt.Errorf("place %s marker: %w", role, domain.ErrSurfaceNotReady)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := string(role) + "-" + uuid.NewString()
	if err := m.surface.AddMarker(id, at, role.Color()); err != nil {
		return fmt.Errorf("place %s marker: %w", role, err)
	}
	m.markers = append(m.markers, id)
	return nil
}

// UpsertRouteLayer replaces the layer named layerID with a line drawn from
// geometry, so at most one layer per id exists at any time.
func (m *MapSynchronizer) UpsertRouteLayer(layerID string, geometry *geojson.FeatureCollection, color string) error {
	if m.surface == nil {
		return fmt.Errorf("upsert layer %q: %w", layerID, domain.ErrSurfaceNotReady)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.surface.HasLayer(layerID)
	if err != nil {
		return fmt.Errorf("upsert layer %q: %w", layerID, err)
	}
	if exists {
		if err := m.surface.RemoveLayer(layerID); err != nil {
			return fmt.Errorf("upsert layer %q: remove previous: %w", layerID, err)
		}
	}

	err = m.surface.AddLineLayer(ports.LineLayer{
		ID:       layerID,
		Source:   geometry,
		Color:    color,
		Width:    routeLineWidth,
		LineJoin: routeLineJoin,
		LineCap:  routeLineCap,
	})
	if err != nil {
		return fmt.Errorf("upsert layer %q: %w", layerID, err)
	}
	return nil
}

// MarkerCount is the number of markers currently tracked.
func (m *MapSynchronizer) MarkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers)
}
