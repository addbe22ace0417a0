package ports

import (
	"context"

	"aid-delivery-router/internal/domain"
)

// Port: persistent address -> coordinates cache consulted before issuing
// external lookups. Implementations must treat the address key as opaque;
// callers normalize before use.
type GeocodeCache interface {
	// Get returns the cached coordinates for an address and whether the
	// entry exists.
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)

	// Put stores or replaces the coordinates for an address.
	Put(ctx context.Context, address string, coords domain.Coordinates) error
}
