package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aid-delivery-router/internal/platform/obs"
	"aid-delivery-router/internal/platform/ratelimit"
	"aid-delivery-router/internal/ports"
)

// NominatimClient implements the Geocoder port against a Nominatim-style
// search endpoint.
//
// Every outbound call acquires the shared rate limiter first; the public
// Nominatim instance requires at least one second between requests, so one
// limiter instance must be shared by all call paths in the process.
type NominatimClient struct {
	baseURL   string
	userAgent string
	session   *http.Client
	limiter   *ratelimit.Limiter
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// NewNominatimClient returns a client for the given base URL. The limiter
// governs spacing between calls and may be nil in tests.
func NewNominatimClient(baseURL, userAgent string, limiter *ratelimit.Limiter) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		session:   &http.Client{Timeout: 10 * time.Second},
		limiter:   limiter,
	}
}

// Lookup returns the single best match for a free-text query.
func (c *NominatimClient) Lookup(ctx context.Context, query string) (ports.Place, error) {
	places, err := c.search(ctx, query, 1)
	if err != nil {
		return ports.Place{}, err
	}
	return places[0], nil
}

// Search returns up to limit candidates in service rank order.
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]ports.Place, error) {
	return c.search(ctx, query, limit)
}

func (c *NominatimClient) search(ctx context.Context, query string, limit int) (_ []ports.Place, err error) {
	defer obs.Time(ctx, "nominatim.search")(&err)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGeocodeTimeout, err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("addressdetails", "1")

	endpoint := c.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ports.GeocodeServiceError{Reason: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, classifyStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ports.GeocodeServiceError{Reason: "decode response: " + err.Error()}
	}

	if len(decoded) == 0 {
		return nil, ports.ErrAddressNotFound
	}

	places := make([]ports.Place, 0, len(decoded))
	for _, p := range decoded {
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lon, lonErr := strconv.ParseFloat(p.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		place := ports.Place{
			DisplayName: p.DisplayName,
			State:       p.Address.State,
			Country:     p.Address.Country,
		}
		place.Coordinates.Lat = lat
		place.Coordinates.Lon = lon
		places = append(places, place)
	}

	if len(places) == 0 {
		return nil, &ports.GeocodeServiceError{Reason: "no parseable coordinates in response"}
	}

	return places, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ports.ErrGeocodeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.ErrGeocodeTimeout
	}
	return fmt.Errorf("%w: %v", ports.ErrGeocodeUnavailable, err)
}

func classifyStatusError(code int, body string) error {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", ports.ErrGeocodeUnavailable, code)
	}
	return &ports.GeocodeServiceError{Reason: fmt.Sprintf("HTTP %d: %s", code, body)}
}
