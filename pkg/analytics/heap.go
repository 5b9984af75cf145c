package analytics

// Entry is one prioritized element held by a PriorityQueue.
type Entry[T any] struct {
	Priority float64
	Item     T
}

// PriorityQueue is an array-backed binary min-heap over (priority, item)
// pairs: the entry with the smallest priority is always at the root. The
// zero value is an empty queue ready for use. Not safe for concurrent use.
type PriorityQueue[T any] struct {
	entries []Entry[T]
}

// Push appends an entry and restores the heap property upward.
func (q *PriorityQueue[T]) Push(priority float64, item T) {
	q.entries = append(q.entries, Entry[T]{Priority: priority, Item: item})
	q.siftUp(len(q.entries) - 1)
}

// Pop removes and returns the minimum entry. The second return is false on
// an empty queue.
func (q *PriorityQueue[T]) Pop() (Entry[T], bool) {
	if len(q.entries) == 0 {
		var zero Entry[T]
		return zero, false
	}

	last := len(q.entries) - 1
	q.entries[0], q.entries[last] = q.entries[last], q.entries[0]
	min := q.entries[last]
	q.entries = q.entries[:last]

	if len(q.entries) > 0 {
		q.siftDown(0)
	}
	return min, true
}

// Peek returns the minimum entry without removing it.
func (q *PriorityQueue[T]) Peek() (Entry[T], bool) {
	if len(q.entries) == 0 {
		var zero Entry[T]
		return zero, false
	}
	return q.entries[0], true
}

// Len reports the number of queued entries.
func (q *PriorityQueue[T]) Len() int { return len(q.entries) }

func (q *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if q.entries[i].Priority >= q.entries[parent].Priority {
			return
		}
		q.entries[i], q.entries[parent] = q.entries[parent], q.entries[i]
		i = parent
	}
}

func (q *PriorityQueue[T]) siftDown(i int) {
	n := len(q.entries)
	for {
		smallest := i
		if l := 2*i + 1; l < n && q.entries[l].Priority < q.entries[smallest].Priority {
			smallest = l
		}
		if r := 2*i + 2; r < n && q.entries[r].Priority < q.entries[smallest].Priority {
			smallest = r
		}
		if smallest == i {
			return
		}
		q.entries[i], q.entries[smallest] = q.entries[smallest], q.entries[i]
		i = smallest
	}
}
