package kmeans

import (
	"math"
	"testing"
)

func testPoints() [][]float64 {
	// Two well-separated blobs around (0,0) and (10,10).
	return [][]float64{
		{0.1, 0.2}, {0.3, 0.1}, {-0.2, 0.0}, {0.0, -0.1},
		{10.1, 9.9}, {9.8, 10.2}, {10.0, 10.0}, {10.3, 9.7},
	}
}

func TestFit_EveryPointAssignedOnce(t *testing.T) {
	c := New(Config{K: 2, Seed: 42})
	res, err := c.Fit(testPoints())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(res.Assignments) != len(testPoints()) {
		t.Fatalf("expected %d assignments, got %d", len(testPoints()), len(res.Assignments))
	}
	for i, a := range res.Assignments {
		if a < 0 || a >= 2 {
			t.Errorf("point %d assigned to invalid cluster %d", i, a)
		}
	}
	if len(res.Centroids) != 2 {
		t.Errorf("expected 2 centroids, got %d", len(res.Centroids))
	}
}

func TestFit_InertiaNonIncreasing(t *testing.T) {
	c := New(Config{K: 3, Seed: 7})
	res, err := c.Fit(testPoints())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for i := 1; i < len(res.History); i++ {
		if res.History[i] > res.History[i-1]+1e-9 {
			t.Errorf("inertia increased at iteration %d: %f -> %f", i, res.History[i-1], res.History[i])
		}
	}
	if len(res.History) > 0 && res.Inertia > res.History[len(res.History)-1]+1e-9 {
		t.Errorf("final inertia %f exceeds last recorded %f", res.Inertia, res.History[len(res.History)-1])
	}
}

func TestFit_SingleClusterYieldsMean(t *testing.T) {
	points := testPoints()
	c := New(Config{K: 1, Seed: 1})
	res, err := c.Fit(points)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	mean := make([]float64, 2)
	for _, p := range points {
		mean[0] += p[0]
		mean[1] += p[1]
	}
	mean[0] /= float64(len(points))
	mean[1] /= float64(len(points))

	for d := 0; d < 2; d++ {
		if math.Abs(res.Centroids[0][d]-mean[d]) > 1e-9 {
			t.Errorf("dimension %d: centroid %f, dataset mean %f", d, res.Centroids[0][d], mean[d])
		}
	}
}

func TestFit_TerminatesWithinCap(t *testing.T) {
	maxIter := 5
	c := New(Config{K: 2, MaxIterations: maxIter, Seed: 3})
	res, err := c.Fit(testPoints())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Iterations > maxIter {
		t.Errorf("ran %d iterations, cap was %d", res.Iterations, maxIter)
	}
}

func TestFit_SeparatesDistinctBlobs(t *testing.T) {
	points := testPoints()
	c := New(Config{K: 2, Seed: 42})
	res, err := c.Fit(points)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// All points in the first blob must share a cluster, likewise the second,
	// and the two clusters must differ.
	first := res.Assignments[0]
	for i := 1; i < 4; i++ {
		if res.Assignments[i] != first {
			t.Errorf("blob A split: point %d in cluster %d, expected %d", i, res.Assignments[i], first)
		}
	}
	second := res.Assignments[4]
	for i := 5; i < 8; i++ {
		if res.Assignments[i] != second {
			t.Errorf("blob B split: point %d in cluster %d, expected %d", i, res.Assignments[i], second)
		}
	}
	if first == second {
		t.Error("both blobs landed in the same cluster")
	}
}

func TestFit_Reproducible(t *testing.T) {
	a, err := New(Config{K: 2, Seed: 99}).Fit(testPoints())
	if err != nil {
		t.Fatalf("first Fit failed: %v", err)
	}
	b, err := New(Config{K: 2, Seed: 99}).Fit(testPoints())
	if err != nil {
		t.Fatalf("second Fit failed: %v", err)
	}
	for i := range a.Assignments {
		if a.Assignments[i] != b.Assignments[i] {
			t.Fatalf("same seed produced different assignment for point %d", i)
		}
	}
}

func TestFit_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		k      int
	}{
		{"empty dataset", nil, 2},
		{"zero k", testPoints(), 0},
		{"negative k", testPoints(), -1},
		{"k exceeds points", testPoints(), 100},
		{"ragged dimensions", [][]float64{{1, 2}, {1}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(Config{K: tt.k}).Fit(tt.points); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFit_DuplicatePoints(t *testing.T) {
	// k-means++ must not loop forever when every point is identical.
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	res, err := New(Config{K: 2, Seed: 5}).Fit(points)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Inertia != 0 {
		t.Errorf("expected zero inertia for identical points, got %f", res.Inertia)
	}
}
