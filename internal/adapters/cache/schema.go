package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// InitSchema creates the geocode_cache table for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectSQLite:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`}
	case DialectPostgres:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`}
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

type GeocodeSeed struct {
	Address string  `json:"address"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
}

// SeedFromJSON preloads known addresses into any geocode cache.
// Addresses are whitespace-normalized the same way lookups are.
func SeedFromJSON(ctx context.Context, c ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocode cache: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed geocode cache: parse json: %w", err)
	}

	entries := make(map[string]domain.Coordinates, len(data))
	for i, item := range data {
		addr := strings.Join(strings.Fields(item.Address), " ")
		if addr == "" {
			return 0, fmt.Errorf("seed geocode cache: item %d: address cannot be empty", i+1)
		}
		coord, err := domain.NewCoordinates(item.Lon, item.Lat)
		if err != nil {
			return 0, fmt.Errorf("seed geocode cache: item %d %q: %w", i+1, addr, err)
		}
		entries[addr] = coord
	}

	if err := c.PutMany(ctx, entries); err != nil {
		return 0, fmt.Errorf("seed geocode cache: %w", err)
	}
	return len(entries), nil
}
