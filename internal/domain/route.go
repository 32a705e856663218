package domain

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Represents the summary of one computed route for a single preference.
// A RouteResult is produced only by a successful plan and records the
// coordinates that were sent to the routing service, in request order.
type RouteResult struct {
	Preference        RoutePreference
	DistanceKm        float64
	TravelTimeMinutes int
	Start             Coordinates
	Stop              Coordinates
	Waypoints         []Coordinates
}

// Summary formats the result the way the route panel shows it.
func (r RouteResult) Summary() string {
	return fmt.Sprintf("%s: %.2f km, %d min", r.Preference, r.DistanceKm, r.TravelTimeMinutes)
}

// Represents a planner output: the route summary plus the geometry to render.
// Geometry is a GeoJSON FeatureCollection ready to be handed to a map surface
// under LayerID.
type PlannedRoute struct {
	Result   RouteResult
	LayerID  string
	Geometry *geojson.FeatureCollection
}

// Locations returns the ordered sequence sent to the routing service:
// start, every waypoint in entry order, stop.
func Locations(start, stop Coordinates, waypoints []Coordinates) []Coordinates {
	out := make([]Coordinates, 0, len(waypoints)+2)
	out = append(out, start)
	out = append(out, waypoints...)
	out = append(out, stop)
	return out
}
