package ports

import (
	"route-planning-service/internal/domain"

	"github.com/paulmach/orb/geojson"
)

// A named line layer together with the GeoJSON source it draws.
type LineLayer struct {
	ID       string
	Source   *geojson.FeatureCollection
	Color    string
	Width    float64
	LineJoin string
	LineCap  string
}

// Port: the rendering surface. It owns its rendering lifecycle; callers only
// issue commands. Every method reports ErrSurfaceNotReady before the surface
// is initialized.
type MapSurface interface {
	AddMarker(id string, at domain.Coordinates, color string) error
	RemoveMarker(id string) error
	LayerIDs() ([]string, error)
	HasLayer(id string) (bool, error)
	// Add the layer and its source under the same id.
	AddLineLayer(layer LineLayer) error
	// Remove the layer and its source.
	RemoveLayer(id string) error
}
