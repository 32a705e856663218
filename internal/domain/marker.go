package domain

// MarkerRole distinguishes the markers placed for one search.
type MarkerRole string

const (
	RoleStart    MarkerRole = "start"
	RoleStop     MarkerRole = "stop"
	RoleWaypoint MarkerRole = "waypoint"
)

func (r MarkerRole) Color() string {
	switch r {
	case RoleStart:
		return "green"
	case RoleStop:
		return "red"
	default:
		return "blue"
	}
}
