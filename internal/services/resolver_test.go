package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/platform/retry"
	"aid-delivery-router/internal/ports"
)

// fakeGeocoder scripts responses per exact query. Queries with no script
// entry return failEvery when set and ErrAddressNotFound otherwise.
type fakeGeocoder struct {
	lookups   map[string]ports.Place
	searches  map[string][]ports.Place
	failEvery error

	calls []string
}

func (f *fakeGeocoder) Lookup(ctx context.Context, query string) (ports.Place, error) {
	f.calls = append(f.calls, query)
	if p, ok := f.lookups[query]; ok {
		return p, nil
	}
	if f.failEvery != nil {
		return ports.Place{}, f.failEvery
	}
	return ports.Place{}, ports.ErrAddressNotFound
}

func (f *fakeGeocoder) Search(ctx context.Context, query string, limit int) ([]ports.Place, error) {
	f.calls = append(f.calls, query)
	if ps, ok := f.searches[query]; ok {
		if len(ps) > limit {
			ps = ps[:limit]
		}
		return ps, nil
	}
	if f.failEvery != nil {
		return nil, f.failEvery
	}
	return nil, ports.ErrAddressNotFound
}

type fakeGeocodeCache struct {
	entries map[string]domain.Coordinates
	puts    int
}

func newFakeGeocodeCache() *fakeGeocodeCache {
	return &fakeGeocodeCache{entries: make(map[string]domain.Coordinates)}
}

func (f *fakeGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	coords, ok := f.entries[address]
	return coords, ok, nil
}

func (f *fakeGeocodeCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	f.puts++
	f.entries[address] = coords
	return nil
}

var testPolicy = retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

func TestResolveWalksVariationLadder(t *testing.T) {
	geocoder := &fakeGeocoder{lookups: map[string]ports.Place{
		"12 Oak Street": {Coordinates: domain.Coordinates{Lat: 33.45, Lon: -112.07}},
	}}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	place, err := resolver.Resolve(context.Background(), "12 Oak St")

	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Lat: 33.45, Lon: -112.07}, place.Coordinates)

	// The original form is tried before the expanded one, and the search
	// stops at the first hit.
	require.Equal(t, []string{"12 Oak St", "12 Oak Street"}, geocoder.calls)
}

func TestResolveNotFound(t *testing.T) {
	geocoder := &fakeGeocoder{}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	place, err := resolver.Resolve(context.Background(), "12 Oak St")

	require.Nil(t, place)
	require.ErrorIs(t, err, ports.ErrAddressNotFound)

	// One call per variation; no-match answers are not retried.
	require.Equal(t, []string{"12 Oak St", "12 Oak Street", "12 Oak St, USA"}, geocoder.calls)
}

func TestResolveRetriesTransientFailures(t *testing.T) {
	geocoder := &fakeGeocoder{failEvery: ports.ErrGeocodeTimeout}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	_, err := resolver.Resolve(context.Background(), "12 Oak St")

	require.ErrorIs(t, err, ports.ErrGeocodeTimeout)

	// Three variations, each retried to exhaustion.
	require.Len(t, geocoder.calls, 9)
}

func TestResolveDoesNotRetryServiceErrors(t *testing.T) {
	geocoder := &fakeGeocoder{failEvery: &ports.GeocodeServiceError{Reason: "bad request"}}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	_, err := resolver.Resolve(context.Background(), "12 Oak St")

	var svcErr *ports.GeocodeServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Len(t, geocoder.calls, 3)
}

func TestResolveHitsCacheFirst(t *testing.T) {
	cache := newFakeGeocodeCache()
	cache.entries["12 Oak St"] = domain.Coordinates{Lat: 1, Lon: 2}

	geocoder := &fakeGeocoder{}
	resolver := NewAddressResolver(geocoder, cache, testPolicy)

	place, err := resolver.Resolve(context.Background(), "  12 Oak St  ")

	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Lat: 1, Lon: 2}, place.Coordinates)
	require.Empty(t, geocoder.calls)
}

func TestResolveStoresSuccessInCache(t *testing.T) {
	cache := newFakeGeocodeCache()
	geocoder := &fakeGeocoder{lookups: map[string]ports.Place{
		"12 Oak St": {Coordinates: domain.Coordinates{Lat: 33.45, Lon: -112.07}},
	}}
	resolver := NewAddressResolver(geocoder, cache, testPolicy)

	_, err := resolver.Resolve(context.Background(), "12 Oak St")

	require.NoError(t, err)
	require.Equal(t, 1, cache.puts)
	require.Equal(t, domain.Coordinates{Lat: 33.45, Lon: -112.07}, cache.entries["12 Oak St"])
}

func TestResolveWithinRadiusPicksFirstCandidateInRange(t *testing.T) {
	start := domain.Coordinates{Lat: 0, Lon: 0}

	far := ports.Place{Coordinates: domain.Coordinates{Lat: 10, Lon: 0}, DisplayName: "far"}
	near := ports.Place{Coordinates: domain.Coordinates{Lat: 0.5, Lon: 0}, DisplayName: "near"}

	geocoder := &fakeGeocoder{searches: map[string][]ports.Place{
		"12 Oak St": {far, near},
	}}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	place, err := resolver.ResolveWithinRadius(context.Background(), "12 Oak St", start, 100)

	require.NoError(t, err)
	require.Equal(t, "near", place.DisplayName)
	require.Equal(t, []string{"12 Oak St"}, geocoder.calls)
}

func TestResolveWithinRadiusRejectsAllOutOfRange(t *testing.T) {
	start := domain.Coordinates{Lat: 0, Lon: 0}
	far := ports.Place{Coordinates: domain.Coordinates{Lat: 10, Lon: 0}}

	geocoder := &fakeGeocoder{searches: map[string][]ports.Place{
		"12 Oak St":      {far},
		"12 Oak Street":  {far},
		"12 Oak St, USA": {far},
	}}
	resolver := NewAddressResolver(geocoder, nil, testPolicy)

	place, err := resolver.ResolveWithinRadius(context.Background(), "12 Oak St", start, 100)

	require.Nil(t, place)
	require.ErrorIs(t, err, ports.ErrAddressNotFound)
	require.Len(t, geocoder.calls, 3)
}

func TestResolveWithinRadiusIgnoresOutOfRangeCacheEntry(t *testing.T) {
	start := domain.Coordinates{Lat: 0, Lon: 0}

	cache := newFakeGeocodeCache()
	cache.entries["12 Oak St"] = domain.Coordinates{Lat: 10, Lon: 0}

	near := ports.Place{Coordinates: domain.Coordinates{Lat: 0.5, Lon: 0}}
	geocoder := &fakeGeocoder{searches: map[string][]ports.Place{
		"12 Oak St": {near},
	}}
	resolver := NewAddressResolver(geocoder, cache, testPolicy)

	place, err := resolver.ResolveWithinRadius(context.Background(), "12 Oak St", start, 100)

	require.NoError(t, err)
	require.Equal(t, near.Coordinates, place.Coordinates)
	require.NotEmpty(t, geocoder.calls)
}
