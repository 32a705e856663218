package mock

import (
	"context"
	"sync"

	"route-planning-service/internal/domain"
)

// GeocodeCache is a map-backed cache. Err, when set, fails every call.
type GeocodeCache struct {
	mu      sync.Mutex
	entries map[string]domain.Coordinates
	Err     error
}

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{entries: make(map[string]domain.Coordinates)}
}

func (c *GeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		if v, ok := c.entries[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *GeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}
	for k, v := range results {
		c.entries[k] = v
	}
	return nil
}

func (c *GeocodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
