package dto

import "route-planning-service/internal/domain"

type SearchRequest struct {
	Start string `json:"start" validate:"max=512"`
	Stop  string `json:"stop" validate:"max=512"`
	// When present, replaces every waypoint slot before searching.
	Waypoints *[]string `json:"waypoints,omitempty" validate:"omitempty,max=25,dive,max=512"`
}

type CoordinateResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type RouteResponse struct {
	Preference        string               `json:"preference"`
	DistanceKm        float64              `json:"distance_km"`
	TravelTimeMinutes int                  `json:"travel_time_minutes"`
	Summary           string               `json:"summary"`
	LayerID           string               `json:"layer_id"`
	Color             string               `json:"color"`
	Start             CoordinateResponse   `json:"start"`
	Stop              CoordinateResponse   `json:"stop"`
	Waypoints         []CoordinateResponse `json:"waypoints"`
}

type NoticeResponse struct {
	Stage      string `json:"stage"`
	Preference string `json:"preference,omitempty"`
	Address    string `json:"address,omitempty"`
	Message    string `json:"message"`
}

type SearchResponse struct {
	Generation uint64           `json:"generation"`
	Superseded bool             `json:"superseded"`
	Routes     []RouteResponse  `json:"routes"`
	Notices    []NoticeResponse `json:"notices"`
}

type RoutesResponse struct {
	Generation uint64          `json:"generation"`
	State      string          `json:"state"`
	Start      string          `json:"start,omitempty"`
	Stop       string          `json:"stop,omitempty"`
	Waypoints  []string        `json:"waypoints"`
	Routes     []RouteResponse `json:"routes"`
}

type NavigateResponse struct {
	URL string `json:"url"`
}

// ResolutionErrorResponse is returned with 422 when an address cannot be resolved.
// Index is the waypoint slot index, blank slots included; it is omitted for
// start and stop.
type ResolutionErrorResponse struct {
	Error   string `json:"error"`
	Role    string `json:"role"`
	Index   *int   `json:"index,omitempty"`
	Address string `json:"address"`
}

func Coordinate(c domain.Coordinates) CoordinateResponse {
	return CoordinateResponse{Lon: c.Lon, Lat: c.Lat}
}

func Route(r domain.RouteResult) RouteResponse {
	wps := make([]CoordinateResponse, 0, len(r.Waypoints))
	for _, w := range r.Waypoints {
		wps = append(wps, Coordinate(w))
	}
	return RouteResponse{
		Preference:        string(r.Preference),
		DistanceKm:        r.DistanceKm,
		TravelTimeMinutes: r.TravelTimeMinutes,
		Summary:           r.Summary(),
		LayerID:           r.Preference.LayerID(),
		Color:             r.Preference.Color(),
		Start:             Coordinate(r.Start),
		Stop:              Coordinate(r.Stop),
		Waypoints:         wps,
	}
}

// Routes lists results in display order, skipping absent preferences.
func Routes(results map[domain.RoutePreference]domain.RouteResult) []RouteResponse {
	out := make([]RouteResponse, 0, len(results))
	for _, p := range domain.RoutePreferences() {
		if r, ok := results[p]; ok {
			out = append(out, Route(r))
		}
	}
	return out
}

func Search(report *domain.SearchReport) SearchResponse {
	notices := make([]NoticeResponse, 0, len(report.Notices))
	for _, n := range report.Notices {
		notices = append(notices, NoticeResponse{
			Stage:      string(n.Stage),
			Preference: string(n.Preference),
			Address:    n.Address,
			Message:    n.Message,
		})
	}
	return SearchResponse{
		Generation: report.Generation,
		Superseded: report.Superseded,
		Routes:     Routes(report.Routes),
		Notices:    notices,
	}
}
