package analytics

// Scored pairs a numeric score with an opaque payload for FindTopK.
type Scored[T any] struct {
	Value   float64
	Payload T
}

// FindTopK returns the k highest-scored items in descending score order.
// A min-heap bounded to k entries tracks the current winners; the heap
// minimum is replaced only when a strictly greater score arrives, so memory
// stays O(k) however long the input is. k <= 0 yields nil, and k >= len
// degrades to a full descending sort.
func FindTopK[T any](items []Scored[T], k int) []Scored[T] {
	if k <= 0 {
		return nil
	}
	if k >= len(items) {
		return MergeSort(items, func(s Scored[T]) float64 { return -s.Value })
	}

	var heap PriorityQueue[T]
	for _, it := range items {
		if heap.Len() < k {
			heap.Push(it.Value, it.Payload)
			continue
		}
		if min, _ := heap.Peek(); it.Value > min.Priority {
			heap.Pop()
			heap.Push(it.Value, it.Payload)
		}
	}

	// Drain ascending, fill back-to-front for descending order.
	out := make([]Scored[T], heap.Len())
	for i := len(out) - 1; i >= 0; i-- {
		e, _ := heap.Pop()
		out[i] = Scored[T]{Value: e.Priority, Payload: e.Item}
	}
	return out
}
