package domain

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 1}

	// One degree of longitude at the equator is 6371 * pi / 180 km.
	want := 6371 * math.Pi / 180
	got := DistanceKm(a, b)
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("DistanceKm = %f, want %f", got, want)
	}

	if d := DistanceKm(a, a); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceKmKnownCities(t *testing.T) {
	phoenix := Coordinates{Lat: 33.4484, Lon: -112.0740}
	tucson := Coordinates{Lat: 32.2226, Lon: -110.9747}

	// Great-circle distance Phoenix -> Tucson is roughly 173 km.
	got := DistanceKm(phoenix, tucson)
	if got < 170 || got > 176 {
		t.Fatalf("DistanceKm(phoenix, tucson) = %f, want ~173", got)
	}
}

func TestCentroid(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 2, Lon: 4},
		{Lat: 4, Lon: 2},
	}

	c := Centroid(points)
	if c.Lat != 2 || c.Lon != 2 {
		t.Fatalf("Centroid = %+v, want {2 2}", c)
	}

	if z := Centroid(nil); z != (Coordinates{}) {
		t.Fatalf("Centroid(nil) = %+v, want zero", z)
	}
}
