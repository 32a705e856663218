package mapsurface

import (
	"testing"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.LineString{{77.59, 12.97}, {77.64, 12.93}})
	f.Properties["preference"] = "fastest"
	fc.Append(f)
	return fc
}

func TestMemorySurface_NotReady(t *testing.T) {
	s := NewMemorySurface()

	require.ErrorIs(t, s.AddMarker("m1", domain.Coordinates{}, "red"), domain.ErrSurfaceNotReady)
	_, err := s.LayerIDs()
	require.ErrorIs(t, err, domain.ErrSurfaceNotReady)
	_, err = s.HasLayer("fastest-route")
	require.ErrorIs(t, err, domain.ErrSurfaceNotReady)
	require.ErrorIs(t, s.AddLineLayer(ports.LineLayer{ID: "x", Source: line()}), domain.ErrSurfaceNotReady)
}

func TestMemorySurface_LayerIDsAreUnique(t *testing.T) {
	s := NewMemorySurface()
	s.Init()

	require.NoError(t, s.AddLineLayer(ports.LineLayer{ID: "fastest-route", Source: line(), Color: "purple"}))
	err := s.AddLineLayer(ports.LineLayer{ID: "fastest-route", Source: line()})
	require.ErrorIs(t, err, ErrDuplicateLayer)

	require.NoError(t, s.RemoveLayer("fastest-route"))
	require.ErrorIs(t, s.RemoveLayer("fastest-route"), ErrUnknownLayer)

	ids, err := s.LayerIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemorySurface_FeatureCollection(t *testing.T) {
	s := NewMemorySurface()
	s.Init()

	require.NoError(t, s.AddMarker("start-1", domain.Coordinates{Lon: 77.59, Lat: 12.97}, "green"))
	require.NoError(t, s.AddLineLayer(ports.LineLayer{
		ID: "shortest-route", Source: line(), Color: "green", Width: 8, LineJoin: "round", LineCap: "round",
	}))

	fc := s.FeatureCollection()
	require.Len(t, fc.Features, 2)

	marker := fc.Features[0]
	assert.Equal(t, "marker", marker.Properties["kind"])
	assert.Equal(t, "green", marker.Properties["color"])
	assert.Equal(t, orb.Point{77.59, 12.97}, marker.Geometry)

	route := fc.Features[1]
	assert.Equal(t, "shortest-route", route.Properties["layer_id"])
	assert.Equal(t, 8.0, route.Properties["line_width"])
	assert.Equal(t, "fastest", route.Properties["preference"])

	require.NoError(t, s.RemoveMarker("start-1"))
	require.ErrorIs(t, s.RemoveMarker("start-1"), ErrUnknownMarker)
}
