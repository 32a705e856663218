package api

import (
	"net/http"
	"time"

	"route-planning-service/internal/api/handlers"
	"route-planning-service/internal/platform/metrics"
	"route-planning-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Deps struct {
	Coordinator   *services.SearchCoordinator
	Surface       handlers.MapExporter
	Logger        zerolog.Logger
	SearchTimeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Surface: d.Surface}
	search := &handlers.SearchHandler{Coordinator: d.Coordinator, Timeout: d.SearchTimeout}
	waypoints := &handlers.WaypointHandler{Coordinator: d.Coordinator}
	mapView := &handlers.MapHandler{Surface: d.Surface}

	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /waypoints", waypoints.List)
	mux.HandleFunc("POST /waypoints", waypoints.Add)
	mux.HandleFunc("PUT /waypoints/{index}", waypoints.Set)

	mux.HandleFunc("POST /search", search.Search)
	mux.HandleFunc("GET /routes", search.Routes)
	mux.HandleFunc("GET /navigate", search.Navigate)
	mux.HandleFunc("POST /reset", search.Reset)

	mux.HandleFunc("GET /map", mapView.Map)

	return requestContext(d.Logger, loggingMiddleware(recoverMiddleware(mux)))
}
