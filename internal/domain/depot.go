package domain

// Depot is the fixed start and end point of every route, when configured.
// Absent a depot, routes start at their first stop's location.
type Depot struct {
	Coordinates Coordinates
	Name        string
}
