package analytics

import "fmt"

// SlidingWindow keeps a fixed-capacity window over a numeric stream and
// maintains the window sum incrementally, so Add and Average are O(1).
// Min and Max scan the live window on demand. Not safe for concurrent use.
type SlidingWindow struct {
	capacity int
	values   []float64
	sum      float64
}

// NewSlidingWindow builds a window holding at most capacity values.
func NewSlidingWindow(capacity int) (*SlidingWindow, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("sliding window: capacity %d must be positive: %w", capacity, ErrInvalidArgument)
	}
	return &SlidingWindow{capacity: capacity}, nil
}

// Add appends a value, evicts the oldest one once the window overflows, and
// returns the running average of what remains.
func (w *SlidingWindow) Add(value float64) float64 {
	w.values = append(w.values, value)
	w.sum += value

	if len(w.values) > w.capacity {
		w.sum -= w.values[0]
		w.values = w.values[1:]
	}
	return w.Average()
}

// Average returns the mean of the current window, or 0 when empty.
func (w *SlidingWindow) Average() float64 {
	if len(w.values) == 0 {
		return 0
	}
	return w.sum / float64(len(w.values))
}

// Min returns the smallest value in the current window, or 0 when empty.
func (w *SlidingWindow) Min() float64 {
	if len(w.values) == 0 {
		return 0
	}
	min := w.values[0]
	for _, v := range w.values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the current window, or 0 when empty.
func (w *SlidingWindow) Max() float64 {
	if len(w.values) == 0 {
		return 0
	}
	max := w.values[0]
	for _, v := range w.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Len reports how many values the window currently holds.
func (w *SlidingWindow) Len() int { return len(w.values) }
