package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"aid-delivery-router/internal/domain"
)

// SQLite-backed cache mapping address strings to geographic coordinates.
// Suited to single-process local runs; the Postgres variant serves shared
// deployments.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// InitSqliteSchema creates the geocode cache table if it does not exist.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create geocode_cache: %w", err)
	}

	return nil
}

// Get fetches cached coordinates for an address.
func (s *SqliteGeocodeCache) Get(
	ctx context.Context,
	address string,
) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, nil
	}

	q := `
	SELECT lat, lon
	FROM geocode_cache
	WHERE address = ?;
	`

	var c domain.Coordinates
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Put stores an address -> coordinates mapping in the cache.
func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, lat, lon)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, address, coords.Lat, coords.Lon); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}

	return nil
}
