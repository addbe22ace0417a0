package dto

type GeocodeRequest struct {
	// Addresses to resolve; the first entry is the start point used for
	// radius filtering of the rest.
	Addresses   []string `json:"addresses"`
	RadiusMiles float64  `json:"radius_miles"`
}

type GeocodeResultResponse struct {
	Address                string   `json:"address"`
	Lat                    *float64 `json:"lat"`
	Lon                    *float64 `json:"lon"`
	DisplayName            string   `json:"display_name,omitempty"`
	State                  string   `json:"state,omitempty"`
	Country                string   `json:"country,omitempty"`
	DistanceFromStartMiles *float64 `json:"distance_from_start_miles,omitempty"`
	Error                  string   `json:"error,omitempty"`
}

type GeocodeResponse struct {
	Results []GeocodeResultResponse `json:"results"`
}
