package domain

import "fmt"

// RoutePreference is the optimization criterion requested from the routing service.
type RoutePreference string

const (
	Fastest  RoutePreference = "fastest"
	Shortest RoutePreference = "shortest"
)

// RoutePreferences lists every preference a search plans, in display order.
func RoutePreferences() []RoutePreference {
	return []RoutePreference{Fastest, Shortest}
}

func ParseRoutePreference(s string) (RoutePreference, error) {
	switch RoutePreference(s) {
	case Fastest, Shortest:
		return RoutePreference(s), nil
	default:
		return "", fmt.Errorf("parse route preference: unknown value %q", s)
	}
}

// LayerID is the stable map layer identifier for this preference.
// It is reused across searches so an update replaces the previous line.
func (p RoutePreference) LayerID() string {
	return string(p) + "-route"
}

// Color is the stroke colour of the preference's route line.
func (p RoutePreference) Color() string {
	if p == Fastest {
		return "purple"
	}
	return "green"
}
