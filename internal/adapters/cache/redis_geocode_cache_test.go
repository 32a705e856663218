package cache

import (
	"context"
	"testing"
	"time"

	"route-planning-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisGeocodeCache(client, ttl), mr
}

func TestRedisGeocodeCache_RoundTrip(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"MG Road": {Lon: 77.607, Lat: 12.9757},
	}))

	raw, err := mr.Get("geocode:MG Road")
	require.NoError(t, err)
	assert.Equal(t, "77.607,12.9757", raw)

	got, err := c.GetMany(ctx, []string{"MG Road", "Atlantis"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"MG Road": {Lon: 77.607, Lat: 12.9757}}, got)
}

func TestRedisGeocodeCache_Expiry(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"MG Road": {Lon: 1, Lat: 2}}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"MG Road"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCache_CorruptEntry(t *testing.T) {
	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("geocode:Bad", "not-a-coordinate"))

	_, err := c.GetMany(context.Background(), []string{"Bad"})
	require.Error(t, err)
}
