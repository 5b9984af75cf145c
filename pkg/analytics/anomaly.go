package analytics

import (
	"math"
	"slices"
)

// Anomaly is one z-score detection hit: the flagged value, its index in the
// input sequence, and its absolute z-score.
type Anomaly struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Z     float64 `json:"z"`
}

// DetectAnomaliesZScore flags every value whose absolute z-score meets the
// threshold, sorted descending by |z|. Mean and population standard
// deviation are accumulated explicitly here rather than shared with other
// routines, so this detector's numeric behavior is self-contained.
//
// Empty input yields nil. So does zero standard deviation: a constant series
// has no outliers, which is treated as degenerate input rather than an
// error.
func DetectAnomaliesZScore(values []float64, threshold float64) []Anomaly {
	if len(values) == 0 {
		return nil
	}

	mu := seriesMean(values)
	sigma := seriesStdDev(values, mu)
	if sigma == 0 {
		return nil
	}

	var hits []Anomaly
	for i, v := range values {
		z := math.Abs((v - mu) / sigma)
		if z >= threshold {
			hits = append(hits, Anomaly{Index: i, Value: v, Z: z})
		}
	}

	sorted := MergeSort(hits, func(a Anomaly) float64 { return a.Z })
	slices.Reverse(sorted)
	return sorted
}

func seriesMean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// seriesStdDev is the population standard deviation around mu.
func seriesStdDev(values []float64, mu float64) float64 {
	total := 0.0
	for _, v := range values {
		d := v - mu
		total += d * d
	}
	return math.Sqrt(total / float64(len(values)))
}
