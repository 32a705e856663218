package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"
)

const searchLimit = "5"

type searchResponse struct {
	Results []struct {
		Address struct {
			FreeformAddress string `json:"freeformAddress"`
		} `json:"address"`
		Position *struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

// Geocode runs a fuzzy search and returns results best-first.
func (c *Client) Geocode(ctx context.Context, query string) (_ []ports.GeocodeMatch, err error) {
	defer obs.Time(ctx, "tomtom.Geocode")(&err)

	endpoint := fmt.Sprintf("%s/search/2/search/%s.json", c.baseURL, url.PathEscape(query))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tomtom search: %w", err)
	}

	q := req.URL.Query()
	q.Set("limit", searchLimit)
	if c.countrySet != "" {
		q.Set("countrySet", c.countrySet)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tomtom search %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("tomtom search: decode response: %w", err)
	}

	matches := make([]ports.GeocodeMatch, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		m := ports.GeocodeMatch{Label: r.Address.FreeformAddress}
		if r.Position != nil {
			m.Lon, m.Lat = r.Position.Lon, r.Position.Lat
		}
		matches = append(matches, m)
	}

	return matches, nil
}
