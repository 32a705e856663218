package ports

import (
	"context"

	"route-planning-service/internal/domain"

	"github.com/paulmach/orb"
)

// Request sent to a routing service. Locations are visited in order.
type RouteRequest struct {
	Locations []domain.Coordinates
	RouteType domain.RoutePreference
	Traffic   bool
}

type RouteSummary struct {
	LengthInMeters      float64
	TravelTimeInSeconds float64
}

// One candidate route as ranked by the provider.
type CandidateRoute struct {
	Summary  RouteSummary
	Geometry orb.LineString
}

// Contract for computing routes through an ordered list of coordinates.
type RoutingProvider interface {
	// Return candidates best-first; an empty slice means no route exists.
	CalculateRoute(ctx context.Context, req RouteRequest) ([]CandidateRoute, error)
}
