package ports

import (
	"context"

	"route-planning-service/internal/domain"
)

// Port: a cache of address -> coordinate lookups. Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
