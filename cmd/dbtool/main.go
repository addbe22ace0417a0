package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"aid-delivery-router/internal/adapters/cache"
	"aid-delivery-router/internal/config"
	"aid-delivery-router/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// dbtool initializes the geocode cache schema for the configured backend.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	backend := config.Get("CACHE_BACKEND", "sqlite")

	switch backend {
	case "sqlite":
		path := config.Get("CACHE_DB_PATH", "data/geocode.db")
		sqlDB, err := sql.Open("sqlite", path)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := initSchema(sqlDB, backend); err != nil {
			log.Fatal(err)
		}
		log.Printf("SQLite cache schema ready at %s", path)

	case "postgres":
		sqlDB, err := db.Open(config.Get("DATABASE_URL", ""))
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := initSchema(sqlDB, backend); err != nil {
			log.Fatal(err)
		}
		log.Println("Postgres cache schema ready")

	default:
		log.Fatalf("dbtool supports sqlite and postgres backends, got %q", backend)
	}
}

func initSchema(sqlDB *sql.DB, backend string) error {
	if backend == "sqlite" {
		if err := cache.InitSqliteSchema(sqlDB); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		return nil
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`
	if _, err := sqlDB.Exec(q); err != nil {
		return fmt.Errorf("init schema: create geocode_cache: %w", err)
	}
	return nil
}
