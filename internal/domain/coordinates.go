package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// NewCoordinates validates a provider position before it enters the domain.
// Both components must be finite and inside the WGS84 range.
func NewCoordinates(lon, lat float64) (Coordinates, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinates{}, fmt.Errorf("new coordinates: non-finite position lon=%v lat=%v", lon, lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("new coordinates: longitude %v out of range", lon)
	}
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("new coordinates: latitude %v out of range", lat)
	}

	return Coordinates{Lon: lon, Lat: lat}, nil
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Point converts to an orb point (x=lon, y=lat).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// LatLng renders "lat,lng", the order navigation links and TomTom paths expect.
func (c Coordinates) LatLng() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
