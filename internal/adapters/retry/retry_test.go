package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyGeocoder struct {
	failures int
	err      error
	calls    int
}

func (f *flakyGeocoder) Geocode(ctx context.Context, query string) ([]ports.GeocodeMatch, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	lon, lat := 77.6, 12.9
	return []ports.GeocodeMatch{{Label: query, Lon: &lon, Lat: &lat}}, nil
}

type flakyRouter struct {
	failures int
	calls    int
}

func (f *flakyRouter) CalculateRoute(ctx context.Context, req ports.RouteRequest) ([]ports.CandidateRoute, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("%w: 503", ports.ErrTransient)
	}
	return []ports.CandidateRoute{{Summary: ports.RouteSummary{LengthInMeters: 1000}}}, nil
}

func fastPolicy() Policy {
	return Policy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxElapsedTime: time.Second}
}

func TestGeocoder_RetriesTransient(t *testing.T) {
	inner := &flakyGeocoder{failures: 2, err: fmt.Errorf("%w: 502", ports.ErrTransient)}

	got, err := NewGeocoder(inner, fastPolicy()).Geocode(context.Background(), "MG Road")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, inner.calls)
}

func TestGeocoder_PermanentErrorNotRetried(t *testing.T) {
	inner := &flakyGeocoder{failures: 5, err: errors.New("403 forbidden")}

	_, err := NewGeocoder(inner, fastPolicy()).Geocode(context.Background(), "MG Road")
	require.Error(t, err)
	assert.EqualError(t, err, "403 forbidden")
	assert.Equal(t, 1, inner.calls)
}

func TestGeocoder_GivesUp(t *testing.T) {
	inner := &flakyGeocoder{failures: 10, err: fmt.Errorf("%w: 429", ports.ErrTransient)}

	_, err := NewGeocoder(inner, fastPolicy()).Geocode(context.Background(), "MG Road")
	require.ErrorIs(t, err, ports.ErrTransient)
	assert.Equal(t, 4, inner.calls)
}

func TestRoutingProvider_RetriesTransient(t *testing.T) {
	inner := &flakyRouter{failures: 1}

	got, err := NewRoutingProvider(inner, fastPolicy()).CalculateRoute(context.Background(), ports.RouteRequest{
		Locations: []domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}},
		RouteType: domain.Fastest,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, inner.calls)
}
