package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// mean returns the arithmetic mean of the non-NaN values, and false when no
// usable values exist.
func mean(values []float64) (float64, bool) {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return 0, false
	}
	return stat.Mean(clean, nil), true
}

// median returns the midpoint median of the non-NaN values (average of the
// two middle values for even counts), and false when no usable values exist.
func median(values []float64) (float64, bool) {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return 0, false
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid], true
	}
	return (clean[mid-1] + clean[mid]) / 2, true
}

// dropNaN returns a copy of values with NaN entries removed.
func dropNaN(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}
