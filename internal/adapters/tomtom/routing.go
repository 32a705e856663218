package tomtom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"route-planning-service/internal/adapters/httpclient"
	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb"
)

type routeResponse struct {
	Routes []struct {
		Summary struct {
			LengthInMeters      float64 `json:"lengthInMeters"`
			TravelTimeInSeconds float64 `json:"travelTimeInSeconds"`
		} `json:"summary"`
		Legs []struct {
			Points []struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"points"`
		} `json:"legs"`
	} `json:"routes"`
}

// CalculateRoute asks the routing API for a route visiting every location
// in order. A NO_ROUTE_FOUND answer is reported as zero candidates.
func (c *Client) CalculateRoute(ctx context.Context, rr ports.RouteRequest) (_ []ports.CandidateRoute, err error) {
	defer obs.Time(ctx, "tomtom.CalculateRoute")(&err)

	if len(rr.Locations) < 2 {
		return nil, errors.New("tomtom routing: need at least two locations")
	}

	stops := make([]string, len(rr.Locations))
	for i, l := range rr.Locations {
		stops[i] = l.LatLng()
	}

	endpoint := fmt.Sprintf("%s/routing/1/calculateRoute/%s/json", c.baseURL, strings.Join(stops, ":"))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tomtom routing: %w", err)
	}

	q := req.URL.Query()
	q.Set("routeType", string(rr.RouteType))
	q.Set("traffic", strconv.FormatBool(rr.Traffic))
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) && strings.Contains(se.Body, "NO_ROUTE_FOUND") {
			return nil, nil
		}
		return nil, fmt.Errorf("tomtom routing: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("tomtom routing: decode response: %w", err)
	}

	out := make([]ports.CandidateRoute, 0, len(decoded.Routes))
	for _, r := range decoded.Routes {
		var line orb.LineString
		for _, leg := range r.Legs {
			for _, p := range leg.Points {
				line = append(line, orb.Point{p.Longitude, p.Latitude})
			}
		}
		out = append(out, ports.CandidateRoute{
			Summary: ports.RouteSummary{
				LengthInMeters:      r.Summary.LengthInMeters,
				TravelTimeInSeconds: r.Summary.TravelTimeInSeconds,
			},
			Geometry: line,
		})
	}

	return out, nil
}
