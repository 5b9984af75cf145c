package analytics

import "cmp"

// MergeSort returns a new slice sorted ascending by the extracted key, using
// a top-down recursive merge sort. The sort is stable: the merge step takes
// the left element whenever its key is <= the right element's key, so items
// with equal keys keep their input order. The input slice is not modified.
//
// Recursion depth is log2(n), which is safe for any slice that fits in
// memory.
func MergeSort[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	if len(items) <= 1 {
		return append([]T(nil), items...)
	}

	mid := len(items) / 2
	left := MergeSort(items[:mid], key)
	right := MergeSort(items[mid:], key)
	return mergeRuns(left, right, key)
}

func mergeRuns[T any, K cmp.Ordered](left, right []T, key func(T) K) []T {
	merged := make([]T, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if key(left[i]) <= key(right[j]) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}

	merged = append(merged, left[i:]...)
	return append(merged, right[j:]...)
}

// FrequencyMap counts occurrences of each distinct item.
func FrequencyMap[T comparable](items []T) map[T]int {
	freq := make(map[T]int, len(items))
	for _, it := range items {
		freq[it]++
	}
	return freq
}
