// Package metrics computes the scalar KPIs of a filtered view. Every
// calculator is a pure function of its inputs with an explicit
// empty-input behavior — no calculator panics or divides by zero.
package metrics

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev returns the sample (N-1) standard deviation, or 0 when
// fewer than two points are given.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// PercentChange returns (x[i]-x[i-1])/x[i-1] for every element after the
// first. Series shorter than two points yield an empty result.
func PercentChange(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out = append(out, (xs[i]-xs[i-1])/xs[i-1])
	}
	return out
}
