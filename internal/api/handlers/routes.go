package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"aid-delivery-router/internal/api/dto"
	"aid-delivery-router/internal/domain"
	"aid-delivery-router/internal/services"
)

const (
	defaultMaxStops = 4
	defaultMinStops = 3
)

// RouteHandler exposes the routing pipeline: resolve, cluster, sequence.
type RouteHandler struct {
	Pipeline *services.RoutingPipeline
}

// Plan runs the full routing pipeline for a recipient list.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRoutesRequest

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

	if len(req.Recipients) == 0 {
		writeError(w, r, http.StatusBadRequest, "recipients is required")
		return
	}

	maxStops := req.MaxStops
	if maxStops == 0 {
		maxStops = defaultMaxStops
	}
	minStops := req.MinStops
	if minStops == 0 {
		minStops = defaultMinStops
	}
	if minStops < 1 || maxStops < 1 || minStops > maxStops || maxStops > 25 {
		writeError(w, r, http.StatusBadRequest, "stop bounds must satisfy 1 <= min_stops <= max_stops <= 25")
		return
	}

	recipients := make([]*domain.Recipient, 0, len(req.Recipients))
	for _, p := range req.Recipients {
		rec := &domain.Recipient{
			RowNumber:     p.RowNumber,
			Name:          p.Name,
			Phone:         p.Phone,
			HouseholdSize: p.HouseholdSize,
			Items:         p.Items,
			Notes:         p.Notes,
			Address:       p.Address,
			Excluded:      p.Excluded,
		}
		// Pre-resolved coordinates are respected and not re-queried.
		if p.Lat != nil && p.Lon != nil {
			rec.SetCoordinates(*p.Lat, *p.Lon)
		}
		recipients = append(recipients, rec)
	}

	params := services.PipelineParams{
		MaxStops:           maxStops,
		MinStops:           minStops,
		UseExternalRouting: true,
		RadiusMiles:        req.RadiusMiles,
	}
	if req.UseExternalRouting != nil {
		params.UseExternalRouting = *req.UseExternalRouting
	}
	if req.Depot != nil {
		params.Depot = &domain.Depot{
			Coordinates: domain.Coordinates{Lat: req.Depot.Lat, Lon: req.Depot.Lon},
			Name:        req.Depot.Name,
		}
	}

	routes, err := h.Pipeline.PlanRoutes(r.Context(), recipients, params)
	if err != nil {
		log.Printf("plan routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanRoutesResponse{
		Routes: make([]dto.RouteResponse, 0, len(routes)),
		Failed: make([]dto.FailedRecipientResponse, 0),
	}

	for _, route := range routes {
		stops := make([]dto.RouteStopResponse, 0, len(route.Recipients))
		for _, rec := range route.Recipients {
			stops = append(stops, dto.RouteStopResponse{
				Sequence:      rec.RouteSequence,
				RowNumber:     rec.RowNumber,
				Name:          rec.Name,
				Phone:         rec.Phone,
				HouseholdSize: rec.HouseholdSize,
				Items:         rec.Items,
				Notes:         rec.Notes,
				Address:       rec.Address,
				Lat:           *rec.Latitude,
				Lon:           *rec.Longitude,
			})
		}

		geometry := make([][]float64, 0, len(route.Geometry))
		for _, c := range route.Geometry {
			geometry = append(geometry, c.CoordsToList())
		}

		res.Routes = append(res.Routes, dto.RouteResponse{
			RouteNumber:              route.RouteNumber,
			Stops:                    stops,
			TotalDistanceKm:          route.TotalDistanceKm,
			EstimatedDurationMinutes: route.EstimatedDurationMinutes,
			Geometry:                 geometry,
		})
	}

	for _, rec := range recipients {
		if rec.GeocodeError != "" {
			res.Failed = append(res.Failed, dto.FailedRecipientResponse{
				RowNumber: rec.RowNumber,
				Address:   rec.Address,
				Error:     rec.GeocodeError,
			})
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
