package ports

import (
	"context"
	"errors"

	"aid-delivery-router/internal/domain"
)

// Place is a single geocoding candidate returned by the lookup service.
type Place struct {
	Coordinates domain.Coordinates
	DisplayName string
	State       string
	Country     string
}

// Failure kinds surfaced by geocoding adapters. Timeout and unavailable
// are transient and eligible for retry; the rest are not.
var (
	ErrAddressNotFound    = errors.New("address not found")
	ErrGeocodeTimeout     = errors.New("geocoding timed out")
	ErrGeocodeUnavailable = errors.New("geocoding service unavailable")
)

// GeocodeServiceError is a non-transient failure reported by the service
// itself (bad request, unexpected payload, unhandled status).
type GeocodeServiceError struct {
	Reason string
}

func (e *GeocodeServiceError) Error() string {
	return "geocoding service error: " + e.Reason
}

// IsTransientGeocodeError reports whether a lookup failure is worth
// retrying with backoff.
func IsTransientGeocodeError(err error) bool {
	return errors.Is(err, ErrGeocodeTimeout) || errors.Is(err, ErrGeocodeUnavailable)
}

// Contract for the external point-lookup geocoding service.
type Geocoder interface {
	// Lookup returns the single best match for a free-text query, or
	// ErrAddressNotFound when the service has no match.
	Lookup(ctx context.Context, query string) (Place, error)

	// Search returns up to limit candidates in service rank order. An
	// empty result is returned as ErrAddressNotFound.
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}
