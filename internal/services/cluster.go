package services

import (
	"math"
	"math/rand"

	"aid-delivery-router/internal/domain"
)

// Partition geocoded, non-excluded recipients into delivery groups sized
// within [minStops, maxStops] wherever geometrically possible. Undersized
// outliers survive only when no legal merge exists; no recipient is ever
// dropped.

const (
	// Fixed seed so repeated runs on identical input partition identically.
	clusterSeed = 42

	maxKMeansIterations = 100
)

// ClusterRecipients groups recipients geographically. Recipients without
// coordinates or marked excluded are ignored.
func ClusterRecipients(recipients []*domain.Recipient, minStops, maxStops int) []domain.Cluster {
	if minStops < 1 {
		minStops = 1
	}

	geocoded := make(domain.Cluster, 0, len(recipients))
	for _, r := range recipients {
		if r.IsGeocoded() && !r.Excluded {
			geocoded = append(geocoded, r)
		}
	}

	if len(geocoded) == 0 {
		return nil
	}
	if len(geocoded) <= maxStops {
		return []domain.Cluster{geocoded}
	}

	targetSize := (minStops + maxStops) / 2
	if targetSize < 1 {
		targetSize = 1
	}

	k := len(geocoded) / targetSize
	if k < 1 {
		k = 1
	}
	if k > len(geocoded) {
		k = len(geocoded)
	}

	var clusters []domain.Cluster
	for _, group := range kmeansPartition(geocoded.Coords(), k) {
		if len(group) == 0 {
			continue
		}
		cluster := make(domain.Cluster, 0, len(group))
		for _, idx := range group {
			cluster = append(cluster, geocoded[idx])
		}
		clusters = append(clusters, cluster)
	}

	split := splitOversized(clusters, minStops, maxStops)
	return mergeUndersized(split, minStops, maxStops)
}

// kmeansPartition runs a deterministic Lloyd's-algorithm partition of the
// points into k groups, returning point indices per group. Groups may come
// back empty; callers drop them.
func kmeansPartition(points []domain.Coordinates, k int) [][]int {
	rng := rand.New(rand.NewSource(clusterSeed))

	// Seed centroids from k distinct points via a seeded permutation.
	perm := rng.Perm(len(points))
	centroids := make([]domain.Coordinates, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i]]
	}

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := math.MaxFloat64
			for j, c := range centroids {
				// Strict less-than keeps ties on the first centroid.
				if d := domain.DistanceKm(p, c); d < bestDist {
					best = j
					bestDist = d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		if !changed {
			break
		}

		// Relocate centroids to the mean of their members; a group that
		// lost all members keeps its previous centroid.
		sums := make([]domain.Coordinates, k)
		counts := make([]int, k)
		for i, p := range points {
			a := assign[i]
			sums[a].Lat += p.Lat
			sums[a].Lon += p.Lon
			counts[a]++
		}
		for j := range centroids {
			if counts[j] > 0 {
				centroids[j] = domain.Coordinates{
					Lat: sums[j].Lat / float64(counts[j]),
					Lon: sums[j].Lon / float64(counts[j]),
				}
			}
		}
	}

	groups := make([][]int, k)
	for i, a := range assign {
		groups[a] = append(groups[a], i)
	}
	return groups
}

// splitOversized chops any group larger than maxStops into legal chunks:
// a fitting remainder is emitted whole, a remainder of at most
// maxStops+minStops is halved as evenly as possible, anything larger
// sheds a maxStops-sized chunk and continues.
func splitOversized(clusters []domain.Cluster, minStops, maxStops int) []domain.Cluster {
	var out []domain.Cluster

	for _, cluster := range clusters {
		if len(cluster) <= maxStops {
			out = append(out, cluster)
			continue
		}

		remaining := cluster
		for len(remaining) > 0 {
			switch {
			case len(remaining) <= maxStops:
				out = append(out, remaining)
				remaining = nil
			case len(remaining) <= maxStops+minStops:
				half := len(remaining) / 2
				out = append(out, remaining[:half], remaining[half:])
				remaining = nil
			default:
				out = append(out, remaining[:maxStops])
				remaining = remaining[maxStops:]
			}
		}
	}

	return out
}

// mergeUndersized folds groups smaller than minStops into the result set:
// first into the nearest-centroid group with room, then pairwise with
// another small group when the combination lands within [minStops,
// maxStops]. A group with no legal merge stays as a standalone outlier
// route. Consumption is tracked in a bitset rather than by mutating the
// small-group list mid-iteration.
func mergeUndersized(clusters []domain.Cluster, minStops, maxStops int) []domain.Cluster {
	var result []domain.Cluster
	var small []domain.Cluster

	for _, c := range clusters {
		if len(c) >= minStops {
			result = append(result, c)
		} else if len(c) > 0 {
			small = append(small, c)
		}
	}

	consumed := make([]bool, len(small))

	for i, s := range small {
		if consumed[i] {
			continue
		}

		centroid := s.Centroid()

		bestIdx := -1
		bestDist := math.MaxFloat64
		for j, rc := range result {
			if len(rc)+len(s) > maxStops {
				continue
			}
			if d := domain.DistanceKm(centroid, rc.Centroid()); d < bestDist {
				bestIdx = j
				bestDist = d
			}
		}

		if bestIdx >= 0 {
			result[bestIdx] = append(result[bestIdx], s...)
			consumed[i] = true
			continue
		}

		paired := false
		for j, other := range small {
			if j == i || consumed[j] {
				continue
			}
			combined := len(s) + len(other)
			if combined >= minStops && combined <= maxStops {
				merged := make(domain.Cluster, 0, combined)
				merged = append(merged, s...)
				merged = append(merged, other...)
				result = append(result, merged)
				consumed[i] = true
				consumed[j] = true
				paired = true
				break
			}
		}

		if !paired {
			// Geographic outlier: keep it as its own route.
			result = append(result, s)
			consumed[i] = true
		}
	}

	out := result[:0]
	for _, c := range result {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
