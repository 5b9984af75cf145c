package analytics

import (
	"fmt"
	"math"
)

// SelectKth returns the element that would occupy position k (0-based) if
// values were sorted ascending, without fully sorting. It partitions around
// the middle element of the current range and descends into the side that
// contains k, so the average cost is O(n).
//
// The pivot choice is deterministic on purpose: repeated queries over the
// same snapshot always break ties the same way. The trade-off is a known
// O(n^2) worst case on adversarial (already sorted) input.
//
// values is reordered in place. Percentile, Median and DetectOutliersIQR
// work on private copies; call those when the caller's slice must survive.
func SelectKth(values []float64, k int) (float64, error) {
	if len(values) == 0 || k < 0 || k >= len(values) {
		return 0, fmt.Errorf("select kth: rank %d out of range for %d values: %w", k, len(values), ErrInvalidArgument)
	}

	left, right := 0, len(values)-1
	for left < right {
		pivot := partition(values, left, right, (left+right)/2)
		switch {
		case k == pivot:
			return values[k], nil
		case k < pivot:
			right = pivot - 1
		default:
			left = pivot + 1
		}
	}
	return values[k], nil
}

// partition reorders values[left..right] around the value at pivotIdx and
// returns the pivot's final position.
func partition(values []float64, left, right, pivotIdx int) int {
	pivotValue := values[pivotIdx]
	values[pivotIdx], values[right] = values[right], values[pivotIdx]

	store := left
	for i := left; i < right; i++ {
		if values[i] < pivotValue {
			values[store], values[i] = values[i], values[store]
			store++
		}
	}

	values[right], values[store] = values[store], values[right]
	return store
}

// Percentile returns the value at percentile p, with p in [0,100]. The rank
// is round((p/100)*(n-1)), so p=50 on an odd-length sequence is the exact
// middle element. An empty input yields 0 with no error; there is nothing to
// rank. The caller's slice is never mutated.
func Percentile(values []float64, p float64) (float64, error) {
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile: p=%v outside [0,100]: %w", p, ErrInvalidArgument)
	}
	if len(values) == 0 {
		return 0, nil
	}

	arr := append([]float64(nil), values...)
	k := int(math.Round(p / 100 * float64(len(arr)-1)))
	return SelectKth(arr, k)
}

// Median returns the middle order statistic for odd-length input, or the
// average of the two middle order statistics for even-length input. Each
// middle element is found by an independent selection pass. Empty input
// yields 0. The caller's slice is never mutated.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	arr := append([]float64(nil), values...)
	n := len(arr)
	if n%2 == 1 {
		return SelectKth(arr, n/2)
	}

	lower, err := SelectKth(append([]float64(nil), arr...), n/2-1)
	if err != nil {
		return 0, err
	}
	upper, err := SelectKth(arr, n/2)
	if err != nil {
		return 0, err
	}
	return (lower + upper) / 2, nil
}

// Outlier is one value flagged by DetectOutliersIQR, identified by its index
// in the input sequence.
type Outlier struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// DetectOutliersIQR flags every value outside [Q1-1.5*IQR, Q3+1.5*IQR],
// where Q1 and Q3 are the order statistics at ranks n/4 and 3n/4. Fewer than
// four values is degenerate input and yields nil, not an error. The caller's
// slice is never mutated.
func DetectOutliersIQR(values []float64) []Outlier {
	n := len(values)
	if n < 4 {
		return nil
	}

	q1, _ := SelectKth(append([]float64(nil), values...), n/4)
	q3, _ := SelectKth(append([]float64(nil), values...), 3*n/4)
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var outliers []Outlier
	for i, v := range values {
		if v < lower || v > upper {
			outliers = append(outliers, Outlier{Index: i, Value: v})
		}
	}
	return outliers
}
