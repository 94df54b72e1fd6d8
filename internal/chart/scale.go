package chart

import "math"

// MinMaxScale maps values onto [0, 1] over their observed range. A constant
// column maps to 0.5 everywhere, avoiding a division by zero. NaN entries
// are ignored for the range and stay NaN in the output.
func MinMaxScale(values []float64) []float64 {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case min == max:
			out[i] = 0.5
		default:
			out[i] = (v - min) / (max - min)
		}
	}
	return out
}
