package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisjointSetUnionFind(t *testing.T) {
	ds := NewDisjointSet[int]()
	for _, x := range []int{1, 2, 3, 4} {
		ds.MakeSet(x)
	}

	ds.Union(1, 2)
	ds.Union(2, 3)

	assert.Equal(t, ds.Find(1), ds.Find(3))
	assert.NotEqual(t, ds.Find(4), ds.Find(1), "untouched element stays apart")
}

func TestDisjointSetMakeSetIdempotent(t *testing.T) {
	ds := NewDisjointSet[string]()
	ds.MakeSet("a")
	ds.MakeSet("b")
	ds.Union("a", "b")

	// Re-registering must not detach a from its set.
	ds.MakeSet("a")
	assert.True(t, ds.Connected("a", "b"))
	assert.Equal(t, 2, ds.Len())
}

func TestDisjointSetSelfUnion(t *testing.T) {
	ds := NewDisjointSet[int]()
	ds.Union(5, 5)
	assert.Equal(t, ds.Find(5), ds.Find(5))
	assert.Equal(t, 1, ds.Len())
}

func TestDisjointSetAutoRegistersOnFind(t *testing.T) {
	ds := NewDisjointSet[int]()
	root := ds.Find(9)
	assert.Equal(t, 9, root)
	assert.Equal(t, 1, ds.Len())
}

func TestDisjointSetPathCompression(t *testing.T) {
	ds := NewDisjointSet[int]()
	// Chain 0-1-2-...-63 via successive unions.
	for i := 0; i < 64; i++ {
		ds.MakeSet(i)
	}
	for i := 1; i < 64; i++ {
		ds.Union(i-1, i)
	}

	root := ds.Find(63)
	for i := 0; i < 64; i++ {
		require.Equal(t, root, ds.Find(i))
	}
}

func TestDisjointSetConnectedComponents(t *testing.T) {
	ds := NewDisjointSet[string]()
	pairs := [][2]string{{"jfk", "midtown"}, {"midtown", "harlem"}, {"soho", "tribeca"}}
	for _, p := range pairs {
		ds.Union(p[0], p[1])
	}

	assert.True(t, ds.Connected("jfk", "harlem"))
	assert.True(t, ds.Connected("soho", "tribeca"))
	assert.False(t, ds.Connected("jfk", "soho"))
}
