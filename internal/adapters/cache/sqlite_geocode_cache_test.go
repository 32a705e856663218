package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteCache(t *testing.T) *SqliteGeocodeCache {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn, DialectSQLite))
	return NewSqliteGeocodeCache(conn)
}

func TestSqliteGeocodeCache_RoundTrip(t *testing.T) {
	c := newSqliteCache(t)
	ctx := context.Background()

	err := c.PutMany(ctx, map[string]domain.Coordinates{
		"MG Road":     {Lon: 77.607, Lat: 12.9757},
		"Koramangala": {Lon: 77.6245, Lat: 12.9352},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, []string{"MG Road", " MG Road ", "Atlantis", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"MG Road": {Lon: 77.607, Lat: 12.9757}}, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"MG Road": {Lon: 1, Lat: 2}}))
	got, err = c.GetMany(ctx, []string{"MG Road"})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 1, Lat: 2}, got["MG Road"])
}

func TestSqliteGeocodeCache_RejectsEmptyKey(t *testing.T) {
	c := newSqliteCache(t)
	err := c.PutMany(context.Background(), map[string]domain.Coordinates{"  ": {}})
	require.Error(t, err)
}

func TestInitSchema_UnknownDialect(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.Error(t, InitSchema(context.Background(), conn, Dialect("oracle")))
}

func TestSeedFromJSON(t *testing.T) {
	c := newSqliteCache(t)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"address": "  MG   Road ", "lon": 77.607, "lat": 12.9757},
		{"address": "Indiranagar", "lon": 77.6408, "lat": 12.9784}
	]`), 0o600))

	n, err := SeedFromJSON(context.Background(), c, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := c.GetMany(context.Background(), []string{"MG Road", "Indiranagar"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSeedFromJSON_InvalidCoordinates(t *testing.T) {
	c := newSqliteCache(t)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"address": "Nowhere", "lon": 200, "lat": 0}]`), 0o600))

	_, err := SeedFromJSON(context.Background(), c, path)
	require.Error(t, err)
}
