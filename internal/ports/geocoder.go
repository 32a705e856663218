package ports

import (
	"context"
	"errors"
)

// ErrTransient marks provider failures worth retrying (network errors,
// 429 and 5xx responses). Adapters wrap it; retry decorators test for it.
var ErrTransient = errors.New("transient provider failure")

// One ranked geocoding candidate. Lon/Lat are nil when the provider
// returned a match without usable position fields.
type GeocodeMatch struct {
	Label string
	Lon   *float64
	Lat   *float64
}

// Contract for resolving free-text addresses against a geocoding service.
type Geocoder interface {
	// Return matches best-first; an empty slice means nothing matched.
	Geocode(ctx context.Context, query string) ([]GeocodeMatch, error)
}
