package analytics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectKthMatchesSortedOrder(t *testing.T) {
	cases := map[string][]float64{
		"shuffled":   {7, 1, 9, 3, 5, 2, 8, 4, 6},
		"sorted":     {1, 2, 3, 4, 5, 6},
		"reversed":   {9, 8, 7, 6, 5, 4, 3, 2, 1},
		"duplicates": {5, 3, 5, 1, 3, 5, 2, 2},
		"single":     {42},
		"negatives":  {-4, 10, -7, 0, 3, -1},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			expected := append([]float64(nil), values...)
			sort.Float64s(expected)

			for k := range values {
				arr := append([]float64(nil), values...)
				got, err := SelectKth(arr, k)
				require.NoError(t, err)
				assert.Equal(t, expected[k], got, "rank %d", k)
			}
		})
	}
}

func TestSelectKthRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(rng.Intn(50)) // force duplicates
		}
		expected := append([]float64(nil), values...)
		sort.Float64s(expected)

		k := rng.Intn(n)
		got, err := SelectKth(append([]float64(nil), values...), k)
		require.NoError(t, err)
		assert.Equal(t, expected[k], got)
	}
}

func TestSelectKthInvalidArguments(t *testing.T) {
	_, err := SelectKth(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = SelectKth([]float64{1, 2, 3}, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = SelectKth([]float64{1, 2, 3}, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	p95, err := Percentile(values, 95)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p95, 90.0)
	assert.LessOrEqual(t, p95, 100.0)

	p0, err := Percentile(values, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p0)

	p100, err := Percentile(values, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p100)

	// Caller data must survive.
	scrambled := []float64{9, 1, 8, 2, 7}
	_, err = Percentile(scrambled, 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 1, 8, 2, 7}, scrambled)
}

func TestPercentileEdgeCases(t *testing.T) {
	_, err := Percentile([]float64{1}, -0.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Percentile([]float64{1}, 100.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	empty, err := Percentile(nil, 50)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestMedian(t *testing.T) {
	odd, err := Median([]float64{9, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, odd)

	even, err := Median([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.5, even)

	empty, err := Median(nil)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestDetectOutliersIQR(t *testing.T) {
	values := []float64{10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 100, 150}

	outliers := DetectOutliersIQR(values)
	require.Len(t, outliers, 2)
	assert.Equal(t, Outlier{Index: 10, Value: 100}, outliers[0])
	assert.Equal(t, Outlier{Index: 11, Value: 150}, outliers[1])
}

func TestDetectOutliersIQRDegenerate(t *testing.T) {
	assert.Nil(t, DetectOutliersIQR(nil))
	assert.Nil(t, DetectOutliersIQR([]float64{1, 2, 3}))
	assert.Nil(t, DetectOutliersIQR([]float64{5, 5, 5, 5, 5}))
}
