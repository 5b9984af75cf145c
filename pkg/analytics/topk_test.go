package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topKFixture() []Scored[string] {
	values := []float64{45, 23, 67, 12, 89, 34, 78, 56}
	items := make([]Scored[string], len(values))
	labels := []string{"L45", "L23", "L67", "L12", "L89", "L34", "L78", "L56"}
	for i, v := range values {
		items[i] = Scored[string]{Value: v, Payload: labels[i]}
	}
	return items
}

func TestFindTopK(t *testing.T) {
	got := FindTopK(topKFixture(), 3)
	require.Len(t, got, 3)

	assert.Equal(t, Scored[string]{Value: 89, Payload: "L89"}, got[0])
	assert.Equal(t, Scored[string]{Value: 78, Payload: "L78"}, got[1])
	assert.Equal(t, Scored[string]{Value: 67, Payload: "L67"}, got[2])
}

func TestFindTopKDegenerateK(t *testing.T) {
	assert.Nil(t, FindTopK(topKFixture(), 0))
	assert.Nil(t, FindTopK(topKFixture(), -2))
}

func TestFindTopKLargeK(t *testing.T) {
	got := FindTopK(topKFixture(), 100)
	require.Len(t, got, 8)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Value, got[i].Value, "descending order")
	}
	assert.Equal(t, 89.0, got[0].Value)
	assert.Equal(t, 12.0, got[len(got)-1].Value)
}

func TestFindTopKDuplicateScores(t *testing.T) {
	items := []Scored[string]{
		{Value: 10, Payload: "a"},
		{Value: 10, Payload: "b"},
		{Value: 20, Payload: "c"},
	}
	got := FindTopK(items, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].Value)
	assert.Equal(t, 10.0, got[1].Value)
}

func TestFindTopKEmptyInput(t *testing.T) {
	assert.Empty(t, FindTopK[string](nil, 5))
}
