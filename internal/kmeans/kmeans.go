package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Config parameterizes a clustering run
type Config struct {
	K             int     // number of clusters, must be positive
	MaxIterations int     // iteration cap, must be positive
	Tolerance     float64 // convergence threshold on max centroid shift
	Seed          int64   // RNG seed for reproducible runs
	Distance      DistanceFunc
}

// Result holds the outcome of a clustering run
type Result struct {
	Assignments []int       // cluster index per point, len == number of points
	Centroids   [][]float64 // K centroid vectors
	Inertia     float64     // final sum of squared distances to assigned centroids
	History     []float64   // inertia after each iteration, non-increasing
	Iterations  int         // iterations actually run
	Converged   bool        // true if centroids stabilized before the cap
}

// ErrEmptyDataset is returned when there are no points to cluster
var ErrEmptyDataset = errors.New("kmeans: empty dataset")

// Clusterer runs Lloyd's algorithm with k-means++ initialization
type Clusterer struct {
	cfg Config
}

// New creates a clusterer, applying defaults for zero-valued fields
func New(cfg Config) *Clusterer {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-4
	}
	if cfg.Distance == nil {
		cfg.Distance = Euclidean
	}
	return &Clusterer{cfg: cfg}
}

// Fit clusters the points. Every point ends up assigned to exactly one of
// K centroids. K must satisfy 0 < K <= len(points).
func (c *Clusterer) Fit(points [][]float64) (*Result, error) {
	n := len(points)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	k := c.cfg.K
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("kmeans: k=%d exceeds dataset size %d", k, n)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("kmeans: point %d has %d dimensions, want %d", i, len(p), dim)
		}
	}

	rng := rand.New(rand.NewSource(c.cfg.Seed))
	centroids := c.seedCentroids(points, k, rng)
	assignments := make([]int, n)

	res := &Result{}
	for iter := 0; iter < c.cfg.MaxIterations; iter++ {
		// Assignment step: each point to its nearest centroid.
		inertia := 0.0
		for i, p := range points {
			best, bestDist := 0, math.MaxFloat64
			for j, ctr := range centroids {
				if d := SquaredEuclidean(p, ctr); d < bestDist {
					best, bestDist = j, d
				}
			}
			assignments[i] = best
			inertia += bestDist
		}
		res.History = append(res.History, inertia)
		res.Iterations = iter + 1

		// Update step: recompute each centroid as the mean of its points.
		next := make([][]float64, k)
		counts := make([]int, k)
		for j := range next {
			next[j] = make([]float64, dim)
		}
		for i, p := range points {
			j := assignments[i]
			counts[j]++
			for d := range p {
				next[j][d] += p[d]
			}
		}
		for j := range next {
			if counts[j] == 0 {
				// Reseed an empty cluster from the point farthest from its
				// current centroid so K stays fixed.
				copy(next[j], points[farthestPoint(points, assignments, centroids)])
				continue
			}
			for d := range next[j] {
				next[j][d] /= float64(counts[j])
			}
		}

		shift := 0.0
		for j := range centroids {
			if s := c.cfg.Distance(centroids[j], next[j]); s > shift {
				shift = s
			}
		}
		centroids = next

		if shift < c.cfg.Tolerance {
			res.Converged = true
			break
		}
	}

	// Final assignment against the settled centroids.
	final := 0.0
	for i, p := range points {
		best, bestDist := 0, math.MaxFloat64
		for j, ctr := range centroids {
			if d := SquaredEuclidean(p, ctr); d < bestDist {
				best, bestDist = j, d
			}
		}
		assignments[i] = best
		final += bestDist
	}

	res.Assignments = assignments
	res.Centroids = centroids
	res.Inertia = final
	return res, nil
}

// seedCentroids picks initial centroids with k-means++: the first uniformly
// at random, each subsequent one weighted by squared distance to the
// nearest centroid chosen so far.
func (c *Clusterer) seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	dim := len(points[0])

	centroids := make([][]float64, 0, k)
	first := make([]float64, dim)
	copy(first, points[rng.Intn(n)])
	centroids = append(centroids, first)

	dists := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			min := math.MaxFloat64
			for _, ctr := range centroids {
				if d := SquaredEuclidean(p, ctr); d < min {
					min = d
				}
			}
			dists[i] = min
			total += min
		}

		var idx int
		if total == 0 {
			// All remaining mass sits on existing centroids (duplicate
			// points); fall back to uniform choice.
			idx = rng.Intn(n)
		} else {
			threshold := rng.Float64() * total
			cum := 0.0
			for i, d := range dists {
				cum += d
				if cum >= threshold {
					idx = i
					break
				}
			}
		}

		next := make([]float64, dim)
		copy(next, points[idx])
		centroids = append(centroids, next)
	}

	return centroids
}

// farthestPoint returns the index of the point with the greatest distance
// to its assigned centroid. Used to reseed empty clusters.
func farthestPoint(points [][]float64, assignments []int, centroids [][]float64) int {
	worst, worstDist := 0, -1.0
	for i, p := range points {
		if d := SquaredEuclidean(p, centroids[assignments[i]]); d > worstDist {
			worst, worstDist = i, d
		}
	}
	return worst
}
