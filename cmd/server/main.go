package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"aid-delivery-router/internal/adapters/cache"
	"aid-delivery-router/internal/adapters/geocode"
	"aid-delivery-router/internal/adapters/routing"
	"aid-delivery-router/internal/api"
	"aid-delivery-router/internal/config"
	"aid-delivery-router/internal/platform/db"
	"aid-delivery-router/internal/platform/ratelimit"
	"aid-delivery-router/internal/platform/retry"
	"aid-delivery-router/internal/ports"
	"aid-delivery-router/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires the Nominatim and OSRM adapters plus an optional geocode cache
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	nominatimURL := config.Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	osrmURL := config.Get("OSRM_URL", "https://router.project-osrm.org")
	osrmProfile := config.Get("OSRM_PROFILE", "driving")
	userAgent := config.Get("GEOCODER_USER_AGENT", "aid-delivery-router/1.0")

	geocodeCache, closeCache, err := openGeocodeCache()
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	// The public Nominatim instance requires at least one second between
	// requests; a single shared limiter enforces the spacing process-wide.
	limiter := ratelimit.New(1100 * time.Millisecond)
	geocoder := geocode.NewNominatimClient(nominatimURL, userAgent, limiter)
	optimizer := routing.NewOSRMClient(osrmURL, osrmProfile)

	resolver := services.NewAddressResolver(geocoder, geocodeCache, retry.Policy{})
	pipeline := services.NewRoutingPipeline(resolver, optimizer)

	router := api.NewRouter(pipeline, resolver)

	// Timeouts are tuned for cold-cache route planning: a large upload can
	// hold the connection through many rate-limited geocoding calls.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openGeocodeCache selects a cache backend from CACHE_BACKEND:
// "sqlite" (default), "postgres", "redis", or "none".
func openGeocodeCache() (ports.GeocodeCache, func(), error) {
	switch backend := config.Get("CACHE_BACKEND", "sqlite"); backend {
	case "none":
		return nil, nil, nil

	case "sqlite":
		path := config.Get("CACHE_DB_PATH", "data/geocode.db")
		sqlDB, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSqliteSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return cache.NewSqliteGeocodeCache(sqlDB), func() { sqlDB.Close() }, nil

	case "postgres":
		sqlDB, err := db.Open(config.Get("DATABASE_URL", ""))
		if err != nil {
			return nil, nil, err
		}
		return cache.NewSQLGeocodeCache(sqlDB), func() { sqlDB.Close() }, nil

	case "redis":
		opts, err := redis.ParseURL(config.Get("REDIS_URL", "redis://localhost:6379/0"))
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		return cache.NewRedisGeocodeCache(client, 0), func() { client.Close() }, nil

	default:
		log.Printf("Unknown CACHE_BACKEND %q, running without a cache", backend)
		return nil, nil, nil
	}
}
