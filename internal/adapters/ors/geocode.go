package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"
)

const geocodeSize = "5"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves one address through /geocode/search.
func (c *Client) Geocode(ctx context.Context, query string) (_ []ports.GeocodeMatch, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/geocode/search", nil)
	if err != nil {
		return nil, fmt.Errorf("ors geocode: %w", err)
	}

	q := req.URL.Query()
	q.Set("text", query)
	q.Set("size", geocodeSize)
	if c.country != "" {
		q.Set("boundary.country", c.country)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ors geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ors geocode: decode response: %w", err)
	}

	matches := make([]ports.GeocodeMatch, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		m := ports.GeocodeMatch{Label: f.Properties.Label}
		if coords := f.Geometry.Coordinates; len(coords) == 2 {
			lon, lat := coords[0], coords[1]
			m.Lon, m.Lat = &lon, &lat
		}
		matches = append(matches, m)
	}

	return matches, nil
}
