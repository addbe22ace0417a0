package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/platform/retry"
	"aid-delivery-router/internal/ports"
)

const kmPerMile = 1.609344

// DefaultRetryPolicy matches the upstream geocoding service's guidance:
// three attempts per variation with a doubling one-second backoff.
var DefaultRetryPolicy = retry.Policy{MaxAttempts: 3, BaseDelay: time.Second}

// AddressResolver maps one free-text address to coordinates, tolerant of
// messy input. It walks the variation ladder, retrying transient lookup
// failures per variation, and consults an optional persistent cache before
// issuing any external call.
type AddressResolver struct {
	geocoder ports.Geocoder
	cache    ports.GeocodeCache
	policy   retry.Policy
}

// NewAddressResolver wires a resolver over a geocoder and an optional
// cache. A zero policy selects DefaultRetryPolicy.
func NewAddressResolver(geocoder ports.Geocoder, cache ports.GeocodeCache, policy retry.Policy) *AddressResolver {
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy
	}

	return &AddressResolver{
		geocoder: geocoder,
		cache:    cache,
		policy:   policy,
	}
}

// Resolve returns the best match for an address. On exhaustion of all
// variations it returns the last lookup failure, defaulting to
// ErrAddressNotFound when no attempt produced a more specific error.
func (a *AddressResolver) Resolve(ctx context.Context, address string) (*ports.Place, error) {
	trimmed := strings.TrimSpace(address)
	if coords, ok := a.cacheGet(ctx, trimmed); ok {
		return &ports.Place{Coordinates: coords}, nil
	}

	var lastErr error

	for _, variation := range AddressVariations(address) {
		if strings.TrimSpace(variation) == "" {
			continue
		}

		var place ports.Place
		err := a.policy.Do(ctx, ports.IsTransientGeocodeError, func() error {
			p, err := a.geocoder.Lookup(ctx, variation)
			if err != nil {
				return err
			}
			place = p
			return nil
		})

		if err == nil {
			a.cachePut(ctx, trimmed, place.Coordinates)
			return &place, nil
		}

		// A no-match moves on without becoming the reported error; real
		// failures are remembered as the most recent cause.
		if !errors.Is(err, ports.ErrAddressNotFound) {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = ports.ErrAddressNotFound
	}
	return nil, lastErr
}

// ResolveWithinRadius resolves an address against up to five ranked
// candidates per variation, accepting the first candidate within
// radiusMiles of the start point. Acceptance stops the search across both
// candidates and remaining variations.
func (a *AddressResolver) ResolveWithinRadius(
	ctx context.Context,
	address string,
	start domain.Coordinates,
	radiusMiles float64,
) (*ports.Place, error) {
	trimmed := strings.TrimSpace(address)
	if coords, ok := a.cacheGet(ctx, trimmed); ok {
		if domain.DistanceKm(start, coords)/kmPerMile <= radiusMiles {
			return &ports.Place{Coordinates: coords}, nil
		}
	}

	var lastErr error

	for _, variation := range AddressVariations(address) {
		if strings.TrimSpace(variation) == "" {
			continue
		}

		var places []ports.Place
		err := a.policy.Do(ctx, ports.IsTransientGeocodeError, func() error {
			ps, err := a.geocoder.Search(ctx, variation, 5)
			if err != nil {
				return err
			}
			places = ps
			return nil
		})

		if err != nil {
			if !errors.Is(err, ports.ErrAddressNotFound) {
				lastErr = err
			}
			continue
		}

		// Candidates arrive in service rank order; the first one inside
		// the radius wins.
		for _, p := range places {
			if domain.DistanceKm(start, p.Coordinates)/kmPerMile <= radiusMiles {
				place := p
				a.cachePut(ctx, trimmed, place.Coordinates)
				return &place, nil
			}
		}
	}

	if lastErr == nil {
		lastErr = ports.ErrAddressNotFound
	}
	return nil, lastErr
}

func (a *AddressResolver) cacheGet(ctx context.Context, address string) (domain.Coordinates, bool) {
	if a.cache == nil || address == "" {
		return domain.Coordinates{}, false
	}

	coords, ok, err := a.cache.Get(ctx, address)
	if err != nil {
		log.Printf("geocode cache read failed: %v", err)
		return domain.Coordinates{}, false
	}
	return coords, ok
}

func (a *AddressResolver) cachePut(ctx context.Context, address string, coords domain.Coordinates) {
	if a.cache == nil || address == "" {
		return
	}

	if err := a.cache.Put(ctx, address, coords); err != nil {
		log.Printf("geocode cache write failed: %v", err)
	}
}
