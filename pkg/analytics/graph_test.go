package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureGraph builds a small network with known shortest distances:
//
//	A --1--> B --2--> C
//	A --4--> C
//	C --1--> D
//	B --7--> D
func fixtureGraph() *Graph[string] {
	g := NewGraph[string]()
	g.AddEdge("A", "B", 1)
	g.AddEdge("B", "C", 2)
	g.AddEdge("A", "C", 4)
	g.AddEdge("C", "D", 1)
	g.AddEdge("B", "D", 7)
	return g
}

func TestDijkstra(t *testing.T) {
	dist := fixtureGraph().Dijkstra("A")

	require.Len(t, dist, 4)
	assert.Equal(t, 0.0, dist["A"])
	assert.Equal(t, 1.0, dist["B"])
	assert.Equal(t, 3.0, dist["C"], "A->B->C beats the direct A->C edge")
	assert.Equal(t, 4.0, dist["D"], "A->B->C->D beats A->B->D")

	// Distances never decrease along a shortest path.
	assert.LessOrEqual(t, dist["A"], dist["B"])
	assert.LessOrEqual(t, dist["B"], dist["C"])
	assert.LessOrEqual(t, dist["C"], dist["D"])
}

func TestDijkstraUnreachable(t *testing.T) {
	g := fixtureGraph()
	g.AddEdge("X", "Y", 5) // disconnected component

	dist := g.Dijkstra("A")
	assert.True(t, math.IsInf(dist["X"], 1))
	assert.True(t, math.IsInf(dist["Y"], 1))
}

func TestDijkstraFromSink(t *testing.T) {
	// D has no outgoing edges but was registered by AddEdge's target side.
	dist := fixtureGraph().Dijkstra("D")

	assert.Equal(t, 0.0, dist["D"])
	assert.True(t, math.IsInf(dist["A"], 1))
	assert.True(t, math.IsInf(dist["B"], 1))
	assert.True(t, math.IsInf(dist["C"], 1))
}

func TestDijkstraStaleQueueEntries(t *testing.T) {
	// Force a node to be queued twice: the long direct edge first, then an
	// improvement through an intermediate hop. The stale entry must be
	// skipped, not re-relaxed.
	g := NewGraph[int]()
	g.AddEdge(0, 2, 10)
	g.AddEdge(0, 1, 1)
	g.AddEdge(1, 2, 1)
	g.AddEdge(2, 3, 1)

	dist := g.Dijkstra(0)
	assert.Equal(t, 2.0, dist[2])
	assert.Equal(t, 3.0, dist[3])
}

func TestGraphNodesAndNeighbors(t *testing.T) {
	g := fixtureGraph()

	assert.Equal(t, 4, g.Order())
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, g.Nodes())
	assert.Len(t, g.Neighbors("A"), 2)
	assert.Empty(t, g.Neighbors("D"))
}
