package handlers

import (
	"net/http"
)

// ReadinessChecker reports whether the map surface accepts commands.
type ReadinessChecker interface {
	Ready() bool
}

type HealthHandler struct {
	Surface ReadinessChecker
}

// Health is a liveness check that also reports map surface readiness.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"status":      "ok",
		"map_surface": h.Surface != nil && h.Surface.Ready(),
	}
	writeJSON(w, r, http.StatusOK, res)
}
