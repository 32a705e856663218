package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/platform/metrics"
	"route-planning-service/internal/platform/obs"
	"route-planning-service/internal/ports"

	"github.com/rs/zerolog"
)

// CoordinateResolver turns one free-text address into one coordinate.
// It always takes the provider's best match and never retries.
type CoordinateResolver struct {
	geocoder ports.Geocoder
	cache    ports.GeocodeCache
}

// NewCoordinateResolver wires a geocoder and an optional cache (nil disables caching).
func NewCoordinateResolver(geocoder ports.Geocoder, cache ports.GeocodeCache) *CoordinateResolver {
	return &CoordinateResolver{geocoder: geocoder, cache: cache}
}

func (r *CoordinateResolver) Resolve(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "resolver.Resolve")(&err)

	key := normalize(address)
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve: %w", domain.ErrMissingInput)
	}

	if c, ok := r.lookupCache(ctx, key); ok {
		metrics.GeocodeLookupsTotal.WithLabelValues("cache", "ok").Inc()
		return c, nil
	}

	matches, err := r.geocoder.Geocode(ctx, key)
	if err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("provider", "unavailable").Inc()
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w: %w", key, domain.ErrServiceUnavailable, err)
	}
	if len(matches) == 0 {
		metrics.GeocodeLookupsTotal.WithLabelValues("provider", "not_found").Inc()
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", key, domain.ErrNotFound)
	}

	best := matches[0]
	if best.Lon == nil || best.Lat == nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("provider", "ambiguous").Inc()
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", key, domain.ErrAmbiguousPosition)
	}
	c, err := domain.NewCoordinates(*best.Lon, *best.Lat)
	if err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("provider", "ambiguous").Inc()
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w: %w", key, domain.ErrAmbiguousPosition, err)
	}

	metrics.GeocodeLookupsTotal.WithLabelValues("provider", "ok").Inc()
	r.storeCache(ctx, key, c)

	return c, nil
}

func (r *CoordinateResolver) lookupCache(ctx context.Context, key string) (domain.Coordinates, bool) {
	if r.cache == nil {
		return domain.Coordinates{}, false
	}

	cached, err := r.cache.GetMany(ctx, []string{key})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("address", key).Msg("geocode cache read failed")
		return domain.Coordinates{}, false
	}

	c, ok := cached[key]
	return c, ok
}

// Cache writes are best effort; a lost write only costs another lookup.
func (r *CoordinateResolver) storeCache(ctx context.Context, key string, c domain.Coordinates) {
	if r.cache == nil {
		return
	}
	if err := r.cache.PutMany(ctx, map[string]domain.Coordinates{key: c}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("address", key).Msg("geocode cache write failed")
	}
}

// normalize collapses runs of whitespace so equivalent addresses share a cache key.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isCanceled reports whether err came from the caller giving up.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
