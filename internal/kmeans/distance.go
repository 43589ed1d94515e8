package kmeans

import "gonum.org/v1/gonum/floats"

// DistanceFunc measures distance between two n-dimensional vectors
type DistanceFunc func(a, b []float64) float64

// Euclidean is the standard L2 distance
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean avoids the square root where only ordering matters
func SquaredEuclidean(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
