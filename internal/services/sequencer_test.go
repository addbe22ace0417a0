package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/ports"
)

type fakeOptimizer struct {
	res *ports.TripResult
	err error

	calls         int
	gotPoints     []domain.Coordinates
	gotFixedStart bool
}

func (f *fakeOptimizer) OptimizeTrip(ctx context.Context, points []domain.Coordinates, fixedStart bool) (*ports.TripResult, error) {
	f.calls++
	f.gotPoints = points
	f.gotFixedStart = fixedStart
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func TestSequenceSingleStop(t *testing.T) {
	r := testRecipient(1, 33.45, -112.07)
	s := &RouteSequencer{}

	out := s.Sequence(context.Background(), domain.Cluster{r}, nil)

	require.Equal(t, []*domain.Recipient{r}, out.Recipients)
	require.Zero(t, out.DistanceKm)
	require.Zero(t, out.DurationMinutes)
}

func TestSequenceExternalOrder(t *testing.T) {
	r0 := testRecipient(1, 33.45, -112.07)
	r1 := testRecipient(2, 33.46, -112.08)
	r2 := testRecipient(3, 33.47, -112.09)
	cluster := domain.Cluster{r0, r1, r2}

	geometry := []domain.Coordinates{{Lat: 33.45, Lon: -112.07}, {Lat: 33.47, Lon: -112.09}}
	opt := &fakeOptimizer{res: &ports.TripResult{
		DistanceMeters:  9000,
		DurationSeconds: 600,
		Geometry:        geometry,
		WaypointOrder:   []int{2, 0, 1},
	}}
	s := &RouteSequencer{Optimizer: opt}

	out := s.Sequence(context.Background(), cluster, nil)

	require.Equal(t, []*domain.Recipient{r1, r2, r0}, out.Recipients)
	require.InDelta(t, 9.0, out.DistanceKm, 1e-9)
	require.InDelta(t, 10.0, out.DurationMinutes, 1e-9)
	require.Equal(t, geometry, out.Geometry)
	require.False(t, opt.gotFixedStart)
	require.Len(t, opt.gotPoints, 3)
}

func TestSequenceExternalWithDepot(t *testing.T) {
	depot := &domain.Depot{Name: "warehouse", Coordinates: domain.Coordinates{Lat: 33.40, Lon: -112.00}}
	r0 := testRecipient(1, 33.45, -112.07)
	r1 := testRecipient(2, 33.46, -112.08)
	r2 := testRecipient(3, 33.47, -112.09)
	cluster := domain.Cluster{r0, r1, r2}

	opt := &fakeOptimizer{res: &ports.TripResult{
		DistanceMeters:  12000,
		DurationSeconds: 900,
		WaypointOrder:   []int{0, 2, 1, 3},
	}}
	s := &RouteSequencer{Optimizer: opt}

	out := s.Sequence(context.Background(), cluster, depot)

	require.Equal(t, []*domain.Recipient{r1, r0, r2}, out.Recipients)
	require.True(t, opt.gotFixedStart)
	require.Len(t, opt.gotPoints, 4)
	require.Equal(t, depot.Coordinates, opt.gotPoints[0])
}

func TestSequenceFallbackOnServiceError(t *testing.T) {
	pFar := testRecipient(1, 0, 2)
	pNear := testRecipient(2, 0, 0)
	pMid := testRecipient(3, 0, 1)
	cluster := domain.Cluster{pFar, pNear, pMid}

	opt := &fakeOptimizer{err: ports.ErrTripNetwork}
	s := &RouteSequencer{Optimizer: opt}

	out := s.Sequence(context.Background(), cluster, nil)

	// Greedy from the first member: (0,2) -> (0,1) -> (0,0).
	require.Equal(t, []*domain.Recipient{pFar, pMid, pNear}, out.Recipients)
	require.Empty(t, out.Geometry)
	require.Zero(t, out.DurationMinutes)

	want := 1.35 * (domain.DistanceKm(pFar.Coords(), pMid.Coords()) +
		domain.DistanceKm(pMid.Coords(), pNear.Coords()))
	require.InDelta(t, want, out.DistanceKm, 1e-9)
	require.Equal(t, 1, opt.calls)
}

func TestSequenceFallbackWithDepot(t *testing.T) {
	depot := &domain.Depot{Coordinates: domain.Coordinates{Lat: 0, Lon: 0}}
	pFar := testRecipient(1, 0, 2)
	pNear := testRecipient(2, 0, 1)
	cluster := domain.Cluster{pFar, pNear}

	s := &RouteSequencer{}

	out := s.Sequence(context.Background(), cluster, depot)

	// Greedy from the depot: (0,1) then (0,2), closing back at the depot.
	require.Equal(t, []*domain.Recipient{pNear, pFar}, out.Recipients)

	want := 1.35 * (domain.DistanceKm(depot.Coordinates, pNear.Coords()) +
		domain.DistanceKm(pNear.Coords(), pFar.Coords()) +
		domain.DistanceKm(pFar.Coords(), depot.Coordinates))
	require.InDelta(t, want, out.DistanceKm, 1e-9)
}

func TestSequenceWaypointMismatchKeepsTripMetrics(t *testing.T) {
	r0 := testRecipient(1, 0, 0)
	r1 := testRecipient(2, 0, 1)
	r2 := testRecipient(3, 0, 2)
	cluster := domain.Cluster{r0, r1, r2}

	geometry := []domain.Coordinates{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 2}}
	opt := &fakeOptimizer{res: &ports.TripResult{
		DistanceMeters:  15000,
		DurationSeconds: 1200,
		Geometry:        geometry,
		// Duplicate slot zero leaves one stop unplaced.
		WaypointOrder: []int{0, 0, 1},
	}}
	s := &RouteSequencer{Optimizer: opt}

	out := s.Sequence(context.Background(), cluster, nil)

	require.Equal(t, []*domain.Recipient{r0, r1, r2}, out.Recipients)
	require.InDelta(t, 15.0, out.DistanceKm, 1e-9)
	require.InDelta(t, 20.0, out.DurationMinutes, 1e-9)
	require.Equal(t, geometry, out.Geometry)
}

func TestSequenceAlwaysPermutes(t *testing.T) {
	cluster := domain.Cluster{
		testRecipient(1, 33.45, -112.07),
		testRecipient(2, 33.46, -112.08),
		testRecipient(3, 33.47, -112.09),
		testRecipient(4, 33.48, -112.10),
	}

	cases := map[string]*RouteSequencer{
		"nil optimizer":      {},
		"failing optimizer":  {Optimizer: &fakeOptimizer{err: ports.ErrTripMalformedResponse}},
		"external optimizer": {Optimizer: &fakeOptimizer{res: &ports.TripResult{WaypointOrder: []int{3, 1, 0, 2}}}},
	}

	for name, s := range cases {
		out := s.Sequence(context.Background(), cluster, nil)
		require.ElementsMatch(t, []*domain.Recipient(cluster), out.Recipients, name)
	}
}
