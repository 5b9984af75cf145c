package analytics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSortOrdersByKey(t *testing.T) {
	type trip struct {
		id       int
		duration float64
	}
	trips := []trip{
		{1, 300}, {2, 120}, {3, 900}, {4, 60}, {5, 450},
	}

	got := MergeSort(trips, func(tr trip) float64 { return tr.duration })

	require.Len(t, got, 5)
	assert.Equal(t, []trip{{4, 60}, {2, 120}, {1, 300}, {5, 450}, {3, 900}}, got)
	assert.Equal(t, trip{1, 300}, trips[0], "input slice is untouched")
}

func TestMergeSortStability(t *testing.T) {
	type record struct {
		key   int
		order int
	}
	var input []record
	for i := 0; i < 50; i++ {
		input = append(input, record{key: i % 5, order: i})
	}

	got := MergeSort(input, func(r record) int { return r.key })

	prevOrder := -1
	prevKey := -1
	for _, r := range got {
		if r.key == prevKey {
			assert.Greater(t, r.order, prevOrder, "equal keys keep input order")
		}
		prevKey, prevOrder = r.key, r.order
	}
}

func TestMergeSortAgainstStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		values := make([]float64, rng.Intn(300))
		for i := range values {
			values[i] = float64(rng.Intn(40))
		}

		got := MergeSort(values, func(v float64) float64 { return v })

		want := append([]float64(nil), values...)
		sort.Float64s(want)
		assert.Equal(t, want, got)
	}
}

func TestMergeSortSmallInputs(t *testing.T) {
	assert.Empty(t, MergeSort(nil, func(v int) int { return v }))
	assert.Equal(t, []int{7}, MergeSort([]int{7}, func(v int) int { return v }))
}

func TestMergeSortStringKeys(t *testing.T) {
	names := []string{"midtown", "astoria", "harlem", "bronx"}
	got := MergeSort(names, func(s string) string { return s })
	assert.Equal(t, []string{"astoria", "bronx", "harlem", "midtown"}, got)
}

func TestFrequencyMap(t *testing.T) {
	freq := FrequencyMap([]string{"a", "b", "a", "c", "a", "b"})
	assert.Equal(t, map[string]int{"a": 3, "b": 2, "c": 1}, freq)

	assert.Empty(t, FrequencyMap[int](nil))
}
