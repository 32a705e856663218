package handlers

import (
	"net/http"
	"strconv"

	"route-planning-service/internal/api/dto"
	"route-planning-service/internal/services"
)

// WaypointHandler edits the coordinator's waypoint slots.
type WaypointHandler struct {
	Coordinator *services.SearchCoordinator
}

func (h *WaypointHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.WaypointsResponse{Waypoints: h.Coordinator.Waypoints()})
}

func (h *WaypointHandler) Add(w http.ResponseWriter, r *http.Request) {
	idx := h.Coordinator.AddWaypoint()
	writeJSON(w, r, http.StatusCreated, dto.AddWaypointResponse{Index: idx})
}

func (h *WaypointHandler) Set(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	var req dto.SetWaypointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Coordinator.SetWaypoint(idx, req.Address); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.WaypointsResponse{Waypoints: h.Coordinator.Waypoints()})
}
