package dto

type WaypointsResponse struct {
	Waypoints []string `json:"waypoints"`
}

type AddWaypointResponse struct {
	Index int `json:"index"`
}

type SetWaypointRequest struct {
	Address string `json:"address" validate:"max=512"`
}
