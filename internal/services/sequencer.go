package services

import (
	"context"
	"log"
	"math"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/ports"
)

// Straight-line-to-road correction applied to haversine leg sums when the
// trip service supplied no road distance.
const roadDistanceFactor = 1.35

// SequencedRoute is the sequencer's output: a visiting order (always a
// permutation of the input cluster) with aggregate travel metrics.
// Geometry is empty when the route was ordered by the local fallback.
type SequencedRoute struct {
	Recipients      []*domain.Recipient
	DistanceKm      float64
	DurationMinutes float64
	Geometry        []domain.Coordinates
}

// RouteSequencer orders a cluster's stops to approximate minimum travel.
// The external trip-optimization service is the primary path; every
// failure mode there is absorbed by a deterministic greedy
// nearest-neighbor fallback, so sequencing itself never fails.
type RouteSequencer struct {
	// Optimizer may be nil, which forces the local fallback.
	Optimizer ports.TripOptimizer
}

// Sequence orders one cluster, starting and ending at the depot when one
// is configured.
func (s *RouteSequencer) Sequence(ctx context.Context, cluster domain.Cluster, depot *domain.Depot) SequencedRoute {
	if len(cluster) <= 1 {
		return SequencedRoute{Recipients: append([]*domain.Recipient{}, cluster...)}
	}

	if s.Optimizer != nil {
		if out, ok := s.sequenceExternal(ctx, cluster, depot); ok {
			return out
		}
	}

	ordered := greedyOrder(cluster, depot)
	return SequencedRoute{
		Recipients: ordered,
		DistanceKm: fallbackDistanceKm(ordered, depot),
	}
}

func (s *RouteSequencer) sequenceExternal(
	ctx context.Context,
	cluster domain.Cluster,
	depot *domain.Depot,
) (SequencedRoute, bool) {
	points := make([]domain.Coordinates, 0, len(cluster)+1)
	if depot != nil {
		points = append(points, depot.Coordinates)
	}
	points = append(points, cluster.Coords()...)

	res, err := s.Optimizer.OptimizeTrip(ctx, points, depot != nil)
	if err != nil {
		log.Printf("trip optimization failed, using local fallback: %v", err)
		return SequencedRoute{}, false
	}

	// waypoint_index maps each input point to its slot in the optimized
	// order; the depot occupies slot zero and is skipped via the offset.
	offset := 0
	if depot != nil {
		offset = 1
	}

	slots := make([]*domain.Recipient, len(cluster))
	for i, pos := range res.WaypointOrder {
		orig := i - offset
		opt := pos - offset
		if orig >= 0 && orig < len(cluster) && opt >= 0 && opt < len(cluster) {
			slots[opt] = cluster[orig]
		}
	}

	ordered := make([]*domain.Recipient, 0, len(cluster))
	for _, r := range slots {
		if r != nil {
			ordered = append(ordered, r)
		}
	}

	if len(ordered) != len(cluster) {
		// Waypoint data did not cover the whole cluster. Order locally
		// but keep the trip's road metrics, which are still valid.
		log.Printf("trip waypoints incomplete (%d of %d), ordering locally", len(ordered), len(cluster))
		return SequencedRoute{
			Recipients:      greedyOrder(cluster, depot),
			DistanceKm:      res.DistanceMeters / 1000,
			DurationMinutes: res.DurationSeconds / 60,
			Geometry:        res.Geometry,
		}, true
	}

	return SequencedRoute{
		Recipients:      ordered,
		DistanceKm:      res.DistanceMeters / 1000,
		DurationMinutes: res.DurationSeconds / 60,
		Geometry:        res.Geometry,
	}, true
}

// greedyOrder builds a visiting order by repeatedly taking the unvisited
// member nearest the current position, starting at the depot when present
// and otherwise at the cluster's first member.
func greedyOrder(cluster domain.Cluster, depot *domain.Depot) []*domain.Recipient {
	current := cluster[0].Coords()
	if depot != nil {
		current = depot.Coordinates
	}

	remaining := append(domain.Cluster{}, cluster...)
	ordered := make([]*domain.Recipient, 0, len(cluster))

	for len(remaining) > 0 {
		best := 0
		bestDist := math.MaxFloat64
		for i, r := range remaining {
			if d := domain.DistanceKm(current, r.Coords()); d < bestDist {
				best = i
				bestDist = d
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		remaining = append(remaining[:best], remaining[best+1:]...)
		current = next.Coords()
	}

	return ordered
}

// fallbackDistanceKm approximates road distance as the corrected sum of
// consecutive-stop great-circle legs, including the depot legs when a
// depot anchors the round trip.
func fallbackDistanceKm(ordered []*domain.Recipient, depot *domain.Depot) float64 {
	if len(ordered) == 0 {
		return 0
	}

	var total float64
	if depot != nil {
		total += domain.DistanceKm(depot.Coordinates, ordered[0].Coords())
	}
	for i := 0; i+1 < len(ordered); i++ {
		total += domain.DistanceKm(ordered[i].Coords(), ordered[i+1].Coords())
	}
	if depot != nil {
		total += domain.DistanceKm(ordered[len(ordered)-1].Coords(), depot.Coordinates)
	}

	return total * roadDistanceFactor
}
