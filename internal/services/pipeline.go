package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/ports"
)

// ErrInvalidParams is the pipeline's only fatal failure: callers must
// normalize stop bounds before invoking it.
var ErrInvalidParams = errors.New("invalid pipeline parameters")

// Bounded fan-out for per-cluster sequencing. Clusters share no mutable
// state, and the trip service carries no rate limit, so a few concurrent
// requests are safe.
const maxConcurrentSequences = 4

// PipelineParams configure one planning run.
type PipelineParams struct {
	MaxStops           int
	MinStops           int
	Depot              *domain.Depot
	UseExternalRouting bool
	// RadiusMiles > 0 with a depot enables radius-filtered resolution.
	RadiusMiles float64
}

// RoutingPipeline orchestrates resolution, clustering, and sequencing into
// final Route records.
type RoutingPipeline struct {
	resolver  *AddressResolver
	optimizer ports.TripOptimizer
}

func NewRoutingPipeline(resolver *AddressResolver, optimizer ports.TripOptimizer) *RoutingPipeline {
	return &RoutingPipeline{resolver: resolver, optimizer: optimizer}
}

// PlanRoutes resolves coordinates for every non-excluded recipient not
// already resolved, partitions the resolved set, sequences each cluster
// against the shared depot, and assigns 1-based route and sequence
// numbers. Geocoding failures are recorded on the recipient and never
// abort the batch.
func (p *RoutingPipeline) PlanRoutes(
	ctx context.Context,
	recipients []*domain.Recipient,
	params PipelineParams,
) ([]*domain.Route, error) {
	if params.MinStops < 1 || params.MaxStops < 1 || params.MinStops > params.MaxStops {
		return nil, fmt.Errorf("%w: minStops=%d maxStops=%d",
			ErrInvalidParams, params.MinStops, params.MaxStops)
	}

	// Resolution is strictly sequential: the geocoding service allows a
	// single in-flight call process-wide.
	for _, r := range recipients {
		if r.Excluded || r.IsGeocoded() {
			continue
		}

		var (
			place *ports.Place
			err   error
		)
		if params.Depot != nil && params.RadiusMiles > 0 {
			place, err = p.resolver.ResolveWithinRadius(ctx, r.Address, params.Depot.Coordinates, params.RadiusMiles)
		} else {
			place, err = p.resolver.Resolve(ctx, r.Address)
		}

		if err != nil {
			r.SetGeocodeFailure(err.Error())
			continue
		}
		r.SetCoordinates(place.Coordinates.Lat, place.Coordinates.Lon)
	}

	clusters := ClusterRecipients(recipients, params.MinStops, params.MaxStops)
	if len(clusters) == 0 {
		return []*domain.Route{}, nil
	}

	sequencer := &RouteSequencer{}
	if params.UseExternalRouting {
		sequencer.Optimizer = p.optimizer
	}

	routes := make([]*domain.Route, len(clusters))

	sem := make(chan struct{}, maxConcurrentSequences)
	var wg sync.WaitGroup
	for i, cluster := range clusters {
		wg.Add(1)
		go func(i int, cluster domain.Cluster) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			out := sequencer.Sequence(ctx, cluster, params.Depot)
			routes[i] = &domain.Route{
				RouteNumber:              i + 1,
				Recipients:               out.Recipients,
				TotalDistanceKm:          out.DistanceKm,
				EstimatedDurationMinutes: out.DurationMinutes,
				Geometry:                 out.Geometry,
			}
		}(i, cluster)
	}
	wg.Wait()

	for _, route := range routes {
		for seq, r := range route.Recipients {
			r.RouteNumber = route.RouteNumber
			r.RouteSequence = seq + 1
		}
	}

	return routes, nil
}
