// Package retry wraps provider ports with exponential backoff. Only errors
// marked ports.ErrTransient are retried; everything else returns at once.
package retry

import (
	"context"
	"errors"
	"time"

	"route-planning-service/internal/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

type Policy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultPolicy is four attempts starting at 200ms.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxElapsedTime:  10 * time.Second,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.Multiplier = 2
	eb.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
}

func do[T any](ctx context.Context, p Policy, op string, fn func() (T, error)) (T, error) {
	attempt := 0
	return backoff.RetryWithData(func() (T, error) {
		attempt++
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ports.ErrTransient) {
			return v, backoff.Permanent(err)
		}
		zerolog.Ctx(ctx).Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("transient provider failure")
		return v, err
	}, p.backOff(ctx))
}

type Geocoder struct {
	next   ports.Geocoder
	policy Policy
}

func NewGeocoder(next ports.Geocoder, policy Policy) *Geocoder {
	return &Geocoder{next: next, policy: policy}
}

func (g *Geocoder) Geocode(ctx context.Context, query string) ([]ports.GeocodeMatch, error) {
	return do(ctx, g.policy, "geocode", func() ([]ports.GeocodeMatch, error) {
		return g.next.Geocode(ctx, query)
	})
}

type RoutingProvider struct {
	next   ports.RoutingProvider
	policy Policy
}

func NewRoutingProvider(next ports.RoutingProvider, policy Policy) *RoutingProvider {
	return &RoutingProvider{next: next, policy: policy}
}

func (r *RoutingProvider) CalculateRoute(ctx context.Context, req ports.RouteRequest) ([]ports.CandidateRoute, error) {
	return do(ctx, r.policy, "calculate_route", func() ([]ports.CandidateRoute, error) {
		return r.next.CalculateRoute(ctx, req)
	})
}
