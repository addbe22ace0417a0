package handlers

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"aid-delivery-router/internal/api/dto"
	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/services"
)

const (
	defaultRadiusMiles = 100
	kmPerMile          = 1.609344
)

// GeocodeHandler resolves address lists for the upload-review flow. The
// first address establishes the start point; remaining addresses accept
// only candidates within the radius of that point.
type GeocodeHandler struct {
	Resolver *services.AddressResolver
}

func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.GeocodeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Addresses) == 0 {
		writeError(w, r, http.StatusBadRequest, "addresses is required")
		return
	}

	radius := req.RadiusMiles
	if radius <= 0 {
		radius = defaultRadiusMiles
	}

	res := dto.GeocodeResponse{Results: make([]dto.GeocodeResultResponse, 0, len(req.Addresses))}

	start, err := h.Resolver.Resolve(r.Context(), req.Addresses[0])
	if err != nil {
		res.Results = append(res.Results, dto.GeocodeResultResponse{
			Address: req.Addresses[0],
			Error:   "start address not found",
		})
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	zero := 0.0
	res.Results = append(res.Results, dto.GeocodeResultResponse{
		Address:                req.Addresses[0],
		Lat:                    &start.Coordinates.Lat,
		Lon:                    &start.Coordinates.Lon,
		DisplayName:            start.DisplayName,
		State:                  start.State,
		Country:                start.Country,
		DistanceFromStartMiles: &zero,
	})

	for _, addr := range req.Addresses[1:] {
		place, err := h.Resolver.ResolveWithinRadius(r.Context(), addr, start.Coordinates, radius)
		if err != nil {
			res.Results = append(res.Results, dto.GeocodeResultResponse{
				Address: addr,
				Error:   err.Error(),
			})
			continue
		}

		miles := domain.DistanceKm(start.Coordinates, place.Coordinates) / kmPerMile
		miles = math.Round(miles*10) / 10

		res.Results = append(res.Results, dto.GeocodeResultResponse{
			Address:                addr,
			Lat:                    &place.Coordinates.Lat,
			Lon:                    &place.Coordinates.Lon,
			DisplayName:            place.DisplayName,
			State:                  place.State,
			Country:                place.Country,
			DistanceFromStartMiles: &miles,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
