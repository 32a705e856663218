package services

import (
	"context"
	"fmt"
	"math"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/platform/metrics"
	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RoutePlanner asks the routing provider for one preference's route through
// an ordered list of coordinates.
type RoutePlanner struct {
	provider ports.RoutingProvider
}

func NewRoutePlanner(provider ports.RoutingProvider) *RoutePlanner {
	return &RoutePlanner{provider: provider}
}

// Plan requests a traffic-aware route visiting start, every waypoint in
// order, then stop. Locations are never reordered.
//
// Only the first candidate is used. Zero candidates yield ErrNoRouteFound;
// any provider failure yields ErrServiceUnavailable.
func (p *RoutePlanner) Plan(
	ctx context.Context,
	start domain.Coordinates,
	stop domain.Coordinates,
	waypoints []domain.Coordinates,
	preference domain.RoutePreference,
) (_ *domain.PlannedRoute, err error) {
	defer obs.Time(ctx, "planner.Plan."+string(preference))(&err)

	locations := domain.Locations(start, stop, waypoints)

	candidates, err := p.provider.CalculateRoute(ctx, ports.RouteRequest{
		Locations: locations,
		RouteType: preference,
		Traffic:   true,
	})
	if err != nil {
		metrics.RoutePlansTotal.WithLabelValues(string(preference), "unavailable").Inc()
		return nil, fmt.Errorf("plan %s route: %w: %w", preference, domain.ErrServiceUnavailable, err)
	}
	if len(candidates) == 0 {
		metrics.RoutePlansTotal.WithLabelValues(string(preference), "no_route").Inc()
		return nil, fmt.Errorf("plan %s route: %w", preference, domain.ErrNoRouteFound)
	}

	best := candidates[0]

	wps := make([]domain.Coordinates, len(waypoints))
	copy(wps, waypoints)

	result := domain.RouteResult{
		Preference:        preference,
		DistanceKm:        best.Summary.LengthInMeters / 1000,
		TravelTimeMinutes: int(math.Round(best.Summary.TravelTimeInSeconds / 60)),
		Start:             start,
		Stop:              stop,
		Waypoints:         wps,
	}

	metrics.RoutePlansTotal.WithLabelValues(string(preference), "ok").Inc()

	return &domain.PlannedRoute{
		Result:   result,
		LayerID:  preference.LayerID(),
		Geometry: routeGeometry(result, best.Geometry),
	}, nil
}

// routeGeometry wraps the route line in a FeatureCollection carrying the
// summary as properties. A provider that sent no shape still gets a
// straight polyline through the requested locations.
func routeGeometry(result domain.RouteResult, line orb.LineString) *geojson.FeatureCollection {
	if len(line) < 2 {
		locs := domain.Locations(result.Start, result.Stop, result.Waypoints)
		line = make(orb.LineString, 0, len(locs))
		for _, c := range locs {
			line = append(line, c.Point())
		}
	}

	f := geojson.NewFeature(line)
	f.Properties["preference"] = string(result.Preference)
	f.Properties["distance_km"] = result.DistanceKm
	f.Properties["travel_time_minutes"] = result.TravelTimeMinutes

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc
}
