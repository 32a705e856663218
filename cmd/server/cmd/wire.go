package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"route-planning-service/internal/adapters/cache"
	"route-planning-service/internal/adapters/mapsurface"
	"route-planning-service/internal/adapters/ors"
	"route-planning-service/internal/adapters/retry"
	"route-planning-service/internal/adapters/tomtom"
	"route-planning-service/internal/config"
	"route-planning-service/internal/platform/db"
	"route-planning-service/internal/ports"
	"route-planning-service/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app is the composition root: concrete adapters behind ports, built once.
type app struct {
	coordinator *services.SearchCoordinator
	surface     *mapsurface.MemorySurface
	closers     []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	geocoder, router, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Retry.Enabled {
		policy := retry.Policy{
			MaxRetries:      cfg.Retry.MaxRetries,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
		}
		geocoder = retry.NewGeocoder(geocoder, policy)
		router = retry.NewRoutingProvider(router, policy)
	}

	geocodeCache, closeCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	if closeCache != nil {
		a.closers = append(a.closers, closeCache)
	}

	a.surface = mapsurface.NewMemorySurface()
	a.surface.Init()

	a.coordinator = services.NewSearchCoordinator(
		services.NewCoordinateResolver(geocoder, geocodeCache),
		services.NewRoutePlanner(router),
		services.NewMapSynchronizer(a.surface),
	)

	logger.Info().
		Str("provider", cfg.Provider.Name).
		Str("cache", cfg.Cache.Driver).
		Bool("retry", cfg.Retry.Enabled).
		Msg("application wired")

	return a, nil
}

func newProvider(cfg config.Config) (ports.Geocoder, ports.RoutingProvider, error) {
	switch cfg.Provider.Name {
	case "tomtom":
		c, err := tomtom.New(tomtom.Config{
			APIKey:            cfg.Provider.TomTom.APIKey,
			BaseURL:           cfg.Provider.TomTom.BaseURL,
			CountrySet:        cfg.Provider.TomTom.CountrySet,
			Timeout:           cfg.Provider.Timeout,
			RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("tomtom provider: %w", err)
		}
		return c, c, nil
	case "ors":
		c, err := ors.New(ors.Config{
			APIKey:            cfg.Provider.ORS.APIKey,
			BaseURL:           cfg.Provider.ORS.BaseURL,
			Profile:           cfg.Provider.ORS.Profile,
			Country:           cfg.Provider.ORS.Country,
			Timeout:           cfg.Provider.Timeout,
			RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ors provider: %w", err)
		}
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

// openCache returns a nil cache for driver "none". SQL schemas are created
// on open so a fresh database works without running "cache init".
func openCache(ctx context.Context, cfg config.CacheConfig) (ports.GeocodeCache, func() error, error) {
	switch cfg.Driver {
	case "none", "":
		return nil, nil, nil
	case "sqlite", "postgres":
		conn, dialect, err := openSQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(ctx, conn, dialect); err != nil {
			conn.Close()
			return nil, nil, err
		}
		if dialect == cache.DialectSQLite {
			return cache.NewSqliteGeocodeCache(conn), conn.Close, nil
		}
		return cache.NewPostgresGeocodeCache(conn), conn.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open redis cache %q: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisGeocodeCache(client, cfg.RedisTTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func openSQL(cfg config.CacheConfig) (*sql.DB, cache.Dialect, error) {
	if cfg.Driver == "postgres" {
		conn, err := db.Open(cfg.PostgresURL)
		return conn, cache.DialectPostgres, err
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create sqlite dir %q: %w", dir, err)
		}
	}
	conn, err := db.OpenSQLite(cfg.SQLitePath)
	return conn, cache.DialectSQLite, err
}
