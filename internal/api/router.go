package api

import (
	"net/http"

	"aid-delivery-router/internal/api/handlers"
	"aid-delivery-router/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(pipeline *services.RoutingPipeline, resolver *services.AddressResolver) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Pipeline: pipeline}
	geocodeHandler := &handlers.GeocodeHandler{Resolver: resolver}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/plan", routeHandler.Plan)
	mux.HandleFunc("/geocode", geocodeHandler.Geocode)

	return requestIDMiddleware(loggingMiddleware(mux))
}
