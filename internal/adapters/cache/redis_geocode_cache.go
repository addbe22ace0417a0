package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"aid-delivery-router/internal/domain"
)

const redisKeyPrefix = "geocode:"

// Redis-backed geocode cache. Entries are stored as "lat,lon" strings
// under a prefixed address key, with an optional TTL (zero means no
// expiry).
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

// Get fetches cached coordinates for an address.
func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	if c.client == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: redis client is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, nil
	}

	val, err := c.client.Get(ctx, redisKeyPrefix+address).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	coords, err := parseCoordinateValue(val)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: key %q: %w", address, err)
	}

	return coords, true, nil
}

// Put stores an address -> coordinates mapping in the cache.
func (c *RedisGeocodeCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	if c.client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	val := formatCoordinateValue(coords)
	if err := c.client.Set(ctx, redisKeyPrefix+address, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}

	return nil
}

func formatCoordinateValue(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func parseCoordinateValue(val string) (domain.Coordinates, error) {
	lat, lon, ok := strings.Cut(val, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed cache value %q", val)
	}

	latF, latErr := strconv.ParseFloat(lat, 64)
	lonF, lonErr := strconv.ParseFloat(lon, 64)
	if latErr != nil || lonErr != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed cache value %q", val)
	}

	return domain.Coordinates{Lat: latF, Lon: lonF}, nil
}
