package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdering(t *testing.T) {
	var pq PriorityQueue[string]
	pq.Push(5, "e")
	pq.Push(1, "a")
	pq.Push(3, "c")
	pq.Push(2, "b")
	pq.Push(4, "d")

	require.Equal(t, 5, pq.Len())

	top, ok := pq.Peek()
	require.True(t, ok)
	assert.Equal(t, 1.0, top.Priority)
	assert.Equal(t, "a", top.Item)

	var items []string
	for {
		e, ok := pq.Pop()
		if !ok {
			break
		}
		items = append(items, e.Item)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}

func TestPriorityQueueEmpty(t *testing.T) {
	var pq PriorityQueue[int]

	_, ok := pq.Pop()
	assert.False(t, ok)
	_, ok = pq.Peek()
	assert.False(t, ok)
	assert.Zero(t, pq.Len())
}

func TestPriorityQueueHeapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var pq PriorityQueue[int]
	for i := 0; i < 500; i++ {
		pq.Push(float64(rng.Intn(100)), i)
	}

	prev := -1.0
	for {
		e, ok := pq.Pop()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, e.Priority, prev, "pops must be non-decreasing")
		prev = e.Priority
	}
}

func TestPriorityQueueInterleaved(t *testing.T) {
	var pq PriorityQueue[string]
	pq.Push(10, "late")
	pq.Push(1, "early")

	e, _ := pq.Pop()
	assert.Equal(t, "early", e.Item)

	pq.Push(5, "middle")
	e, _ = pq.Pop()
	assert.Equal(t, "middle", e.Item)
	e, _ = pq.Pop()
	assert.Equal(t, "late", e.Item)
}
