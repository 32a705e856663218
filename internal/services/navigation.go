package services

import (
	"net/url"
	"strings"

	"route-planning-service/internal/domain"
)

const navigationBaseURL = "https://www.google.com/maps/dir/"

// BuildNavigationURL renders a turn-by-turn directions link. Waypoints are
// "lat,lng" pairs joined by "|" in visiting order.
func BuildNavigationURL(origin, destination string, waypoints []domain.Coordinates) string {
	var b strings.Builder
	b.WriteString(navigationBaseURL)
	b.WriteString("?api=1")
	b.WriteString("&origin=" + url.QueryEscape(origin))
	b.WriteString("&destination=" + url.QueryEscape(destination))

	if len(waypoints) > 0 {
		pairs := make([]string, len(waypoints))
		for i, w := range waypoints {
			pairs[i] = w.LatLng()
		}
		b.WriteString("&waypoints=" + url.QueryEscape(strings.Join(pairs, "|")))
	}

	b.WriteString("&dir_action=navigate")
	return b.String()
}
