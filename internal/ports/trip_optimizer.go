package ports

import (
	"context"
	"errors"

	"aid-delivery-router/internal/domain"
)

// TripResult is the outcome of one trip-optimization call.
type TripResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	// Road polyline as ordered coordinates.
	Geometry []domain.Coordinates
	// WaypointOrder[i] is the position of input point i in the optimized
	// visiting order. Always the same length as the input point list.
	WaypointOrder []int
}

// Failure kinds surfaced by trip-optimization adapters. Callers are
// expected to absorb both into a local fallback.
var (
	ErrTripNetwork           = errors.New("trip service unreachable")
	ErrTripMalformedResponse = errors.New("trip service returned a malformed response")
)

// Contract for the external trip-optimization (TSP) service.
type TripOptimizer interface {
	// OptimizeTrip requests a round-trip visiting order for the given
	// points. When fixedStart is true the first point is pinned as the
	// trip's start.
	OptimizeTrip(ctx context.Context, points []domain.Coordinates, fixedStart bool) (*TripResult, error)
}
