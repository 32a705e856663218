package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"route-planning-service/internal/adapters/httpclient"
	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ORS error codes meaning the request was fine but no route exists.
const (
	codeRouteNotFound = 2009
	codePointNotFound = 2010
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Preference  string      `json:"preference"`
}

type routeSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CalculateRoute posts to /v2/directions/{profile}/geojson. Each returned
// feature becomes one candidate. ORS has no traffic model, so req.Traffic
// is ignored.
func (c *Client) CalculateRoute(ctx context.Context, rr ports.RouteRequest) (_ []ports.CandidateRoute, err error) {
	defer obs.Time(ctx, "ors.CalculateRoute")(&err)

	if len(rr.Locations) < 2 {
		return nil, errors.New("ors directions: need at least two locations")
	}

	body := directionsRequest{
		Coordinates: make([][]float64, 0, len(rr.Locations)),
		Preference:  string(rr.RouteType),
	}
	for _, l := range rr.Locations {
		body.Coordinates = append(body.Coordinates, l.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ors directions: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ors directions: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if noRoute(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ors directions: %w", err)
	}
	defer resp.Body.Close()

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("ors directions: read response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ors directions: decode response: %w", err)
	}

	out := make([]ports.CandidateRoute, 0, len(fc.Features))
	for _, f := range fc.Features {
		var summary routeSummary
		if s, ok := f.Properties["summary"]; ok {
			b, err := json.Marshal(s)
			if err != nil {
				return nil, fmt.Errorf("ors directions: summary: %w", err)
			}
			if err := json.Unmarshal(b, &summary); err != nil {
				return nil, fmt.Errorf("ors directions: summary: %w", err)
			}
		}

		line, _ := f.Geometry.(orb.LineString)
		out = append(out, ports.CandidateRoute{
			Summary: ports.RouteSummary{
				LengthInMeters:      summary.Distance,
				TravelTimeInSeconds: summary.Duration,
			},
			Geometry: line,
		})
	}

	return out, nil
}

func noRoute(err error) bool {
	var se *httpclient.StatusError
	if !errors.As(err, &se) {
		return false
	}

	var decoded errorResponse
	if json.Unmarshal([]byte(se.Body), &decoded) != nil {
		return false
	}
	switch decoded.Error.Code {
	case codeRouteNotFound, codePointNotFound:
		return true
	}
	return false
}
