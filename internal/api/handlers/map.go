package handlers

import (
	"net/http"

	"github.com/paulmach/orb/geojson"
)

// MapExporter renders the current map artifacts as GeoJSON.
type MapExporter interface {
	Ready() bool
	FeatureCollection() *geojson.FeatureCollection
}

type MapHandler struct {
	Surface MapExporter
}

// Map returns markers and route lines for a browser map to draw.
func (h *MapHandler) Map(w http.ResponseWriter, r *http.Request) {
	if !h.Surface.Ready() {
		writeError(w, r, http.StatusServiceUnavailable, "map surface not initialized")
		return
	}

	body, err := h.Surface.FeatureCollection().MarshalJSON()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
