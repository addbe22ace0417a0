package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/platform/obs"
	"aid-delivery-router/internal/ports"
)

// OSRMClient implements the TripOptimizer port against the OSRM trip
// service, which solves the visiting-order problem over a road network and
// returns the driven geometry.
type OSRMClient struct {
	baseURL string
	profile string
	session *http.Client
}

type tripResponse struct {
	Code  string `json:"code"`
	Trips []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"trips"`
	Waypoints []struct {
		WaypointIndex int `json:"waypoint_index"`
	} `json:"waypoints"`
}

// NewOSRMClient returns a client for the given OSRM base URL and routing
// profile (e.g. "driving").
func NewOSRMClient(baseURL, profile string) *OSRMClient {
	return &OSRMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		session: &http.Client{Timeout: 30 * time.Second},
	}
}

// OptimizeTrip requests a round-trip visiting order for the given points.
// When fixedStart is true the first point is pinned as the trip's source.
func (c *OSRMClient) OptimizeTrip(
	ctx context.Context,
	points []domain.Coordinates,
	fixedStart bool,
) (_ *ports.TripResult, err error) {
	defer obs.Time(ctx, "osrm.trip")(&err)

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ports.ErrTripMalformedResponse)
	}

	coords := make([]string, 0, len(points))
	for _, p := range points {
		coords = append(coords,
			strconv.FormatFloat(p.Lon, 'f', 6, 64)+","+strconv.FormatFloat(p.Lat, 'f', 6, 64))
	}

	q := url.Values{}
	q.Set("roundtrip", "true")
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	if fixedStart {
		q.Set("source", "first")
	}

	endpoint := fmt.Sprintf("%s/trip/v1/%s/%s?%s",
		c.baseURL, c.profile, strings.Join(coords, ";"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrTripNetwork, err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrTripNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ports.ErrTripNetwork, resp.StatusCode)
	}

	var decoded tripResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ports.ErrTripMalformedResponse, err)
	}

	// OSRM reports errors in-band: anything but the "Ok" sentinel is a failure.
	if decoded.Code != "Ok" {
		return nil, fmt.Errorf("%w: code=%s", ports.ErrTripMalformedResponse, decoded.Code)
	}

	if len(decoded.Trips) == 0 {
		return nil, fmt.Errorf("%w: no trips", ports.ErrTripMalformedResponse)
	}
	if len(decoded.Waypoints) != len(points) {
		return nil, fmt.Errorf("%w: waypoints=%d points=%d",
			ports.ErrTripMalformedResponse, len(decoded.Waypoints), len(points))
	}

	trip := decoded.Trips[0]

	geometry := make([]domain.Coordinates, 0, len(trip.Geometry.Coordinates))
	for _, pair := range trip.Geometry.Coordinates {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: geometry pair of length %d",
				ports.ErrTripMalformedResponse, len(pair))
		}
		geometry = append(geometry, domain.Coordinates{Lon: pair[0], Lat: pair[1]})
	}

	order := make([]int, 0, len(decoded.Waypoints))
	for _, wp := range decoded.Waypoints {
		order = append(order, wp.WaypointIndex)
	}

	return &ports.TripResult{
		DistanceMeters:  trip.Distance,
		DurationSeconds: trip.Duration,
		Geometry:        geometry,
		WaypointOrder:   order,
	}, nil
}
