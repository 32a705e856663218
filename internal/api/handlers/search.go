package handlers

import (
	"context"
	"net/http"
	"time"

	"route-planning-service/internal/api/dto"
	"route-planning-service/internal/domain"
	"route-planning-service/internal/services"

	"github.com/rs/zerolog"
)

// SearchHandler exposes find-route cycles and their results.
type SearchHandler struct {
	Coordinator *services.SearchCoordinator
	Timeout     time.Duration
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	report, err := h.Coordinator.FindRoute(ctx, domain.SearchInput{
		Start:     req.Start,
		Stop:      req.Stop,
		Waypoints: req.Waypoints,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	for _, n := range report.Notices {
		zerolog.Ctx(ctx).Warn().
			Str("stage", string(n.Stage)).
			Str("preference", string(n.Preference)).
			Msg(n.Message)
	}

	writeJSON(w, r, http.StatusOK, dto.Search(report))
}

func (h *SearchHandler) Routes(w http.ResponseWriter, r *http.Request) {
	snap := h.Coordinator.Snapshot()

	writeJSON(w, r, http.StatusOK, dto.RoutesResponse{
		Generation: snap.Generation,
		State:      string(snap.State),
		Start:      snap.Input.Start,
		Stop:       snap.Input.Stop,
		Waypoints:  snap.Waypoints,
		Routes:     dto.Routes(snap.Routes),
	})
}

func (h *SearchHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	url, err := h.Coordinator.NavigationURL()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NavigateResponse{URL: url})
}

func (h *SearchHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Coordinator.Reset(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
