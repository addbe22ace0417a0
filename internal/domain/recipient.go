package domain

// Represents a single delivery destination parsed from an uploaded list.
// Display fields (name, phone, household size, items, notes) are opaque to
// the routing core and flow through unmodified. The core only annotates
// coordinates, geocoding outcome, and route assignment.
//
// Invariant: Latitude and Longitude are either both set or both nil, and
// GeocodeError is non-empty exactly when a lookup was attempted and failed.
type Recipient struct {
	RowNumber     int
	Name          string
	Phone         string
	HouseholdSize string
	Items         string
	Notes         string

	Address      string
	Latitude     *float64
	Longitude    *float64
	GeocodeError string

	Excluded bool
	Flagged  bool

	// 1-based, zero until sequencing completes.
	RouteNumber   int
	RouteSequence int
}

// IsGeocoded reports whether the recipient has resolved coordinates.
func (r *Recipient) IsGeocoded() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Coords returns the resolved coordinates. Callers must check IsGeocoded
// first; an unresolved recipient yields the zero coordinate.
func (r *Recipient) Coords() Coordinates {
	if !r.IsGeocoded() {
		return Coordinates{}
	}
	return Coordinates{Lat: *r.Latitude, Lon: *r.Longitude}
}

// SetCoordinates records a successful resolution and clears any prior
// geocoding error.
func (r *Recipient) SetCoordinates(lat, lon float64) {
	r.Latitude = &lat
	r.Longitude = &lon
	r.GeocodeError = ""
}

// SetGeocodeFailure records a failed resolution and flags the recipient
// for review.
func (r *Recipient) SetGeocodeFailure(msg string) {
	r.Latitude = nil
	r.Longitude = nil
	r.GeocodeError = msg
	r.Flagged = true
}
