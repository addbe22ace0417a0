package domain

import "math"

// Earth radius used for great-circle distances, in kilometers.
const earthRadiusKm = 6371

// Immutable geographic coordinates in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// DistanceKm returns the great-circle distance between two points using
// the haversine formula.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Centroid returns the arithmetic mean coordinate of the given points.
// An empty input yields the zero coordinate.
func Centroid(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return Coordinates{}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}

	n := float64(len(points))
	return Coordinates{Lat: lat / n, Lon: lon / n}
}
