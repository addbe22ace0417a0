package dto

type RecipientPayload struct {
	RowNumber     int      `json:"row_number"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	HouseholdSize string   `json:"household_size"`
	Items         string   `json:"items"`
	Notes         string   `json:"notes"`
	Address       string   `json:"address"`
	Lat           *float64 `json:"lat"`
	Lon           *float64 `json:"lon"`
	Excluded      bool     `json:"excluded"`
}

type DepotPayload struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

type PlanRoutesRequest struct {
	Recipients         []RecipientPayload `json:"recipients"`
	MaxStops           int                `json:"max_stops"`
	MinStops           int                `json:"min_stops"`
	Depot              *DepotPayload      `json:"depot"`
	UseExternalRouting *bool              `json:"use_external_routing"`
	RadiusMiles        float64            `json:"radius_miles"`
}

type RouteStopResponse struct {
	Sequence      int     `json:"sequence"`
	RowNumber     int     `json:"row_number"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	HouseholdSize string  `json:"household_size"`
	Items         string  `json:"items"`
	Notes         string  `json:"notes"`
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

type RouteResponse struct {
	RouteNumber              int                 `json:"route_number"`
	Stops                    []RouteStopResponse `json:"stops"`
	TotalDistanceKm          float64             `json:"total_distance_km"`
	EstimatedDurationMinutes float64             `json:"estimated_duration_minutes"`
	// Road polyline as [lon, lat] pairs; empty when sequenced locally.
	Geometry [][]float64 `json:"geometry"`
}

type FailedRecipientResponse struct {
	RowNumber int    `json:"row_number"`
	Address   string `json:"address"`
	Error     string `json:"error"`
}

type PlanRoutesResponse struct {
	Routes []RouteResponse           `json:"routes"`
	Failed []FailedRecipientResponse `json:"failed"`
}
