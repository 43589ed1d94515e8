package dataset

import "gonum.org/v1/gonum/stat"

// Scaler standardizes feature columns to zero mean and unit variance and
// can map scaled vectors back to original units for reporting.
type Scaler struct {
	means  []float64
	stddev []float64
}

// FitScaler computes per-column mean and standard deviation
func FitScaler(points [][]float64) *Scaler {
	if len(points) == 0 {
		return &Scaler{}
	}
	dim := len(points[0])
	s := &Scaler{
		means:  make([]float64, dim),
		stddev: make([]float64, dim),
	}

	col := make([]float64, len(points))
	for d := 0; d < dim; d++ {
		for i := range points {
			col[i] = points[i][d]
		}
		mean, sd := stat.MeanStdDev(col, nil)
		s.means[d] = mean
		s.stddev[d] = sd
	}
	return s
}

// Transform returns standardized copies of the points. Zero-variance
// columns pass through centered but unscaled.
func (s *Scaler) Transform(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		q := make([]float64, len(p))
		for d, v := range p {
			q[d] = v - s.means[d]
			if s.stddev[d] > 0 {
				q[d] /= s.stddev[d]
			}
		}
		out[i] = q
	}
	return out
}

// Inverse maps a scaled vector back to original units
func (s *Scaler) Inverse(p []float64) []float64 {
	out := make([]float64, len(p))
	for d, v := range p {
		if d < len(s.means) {
			if s.stddev[d] > 0 {
				v *= s.stddev[d]
			}
			v += s.means[d]
		}
		out[d] = v
	}
	return out
}
