package domain

// Cluster is a geographically grouped set of geocoded, non-excluded
// recipients awaiting sequencing. Order within a cluster is not meaningful
// until the sequencer has run.
type Cluster []*Recipient

// Coords returns the member coordinates in cluster order.
func (c Cluster) Coords() []Coordinates {
	points := make([]Coordinates, 0, len(c))
	for _, r := range c {
		points = append(points, r.Coords())
	}
	return points
}

// Centroid returns the arithmetic mean coordinate of the cluster's members.
func (c Cluster) Centroid() Coordinates {
	return Centroid(c.Coords())
}

// Represents one planned delivery route: a sequenced cluster annotated with
// aggregate travel metrics. Recipients appear in visiting order, each
// carrying its 1-based RouteSequence. Geometry holds the road polyline
// supplied by the trip-optimization service and is empty when the route was
// sequenced by the local fallback.
type Route struct {
	RouteNumber              int
	Recipients               []*Recipient
	TotalDistanceKm          float64
	EstimatedDurationMinutes float64
	Geometry                 []Coordinates
}

// StopCount returns the number of stops on the route.
func (r *Route) StopCount() int { return len(r.Recipients) }
