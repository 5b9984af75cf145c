package analytics

import "math"

// Edge is one weighted outgoing arc in a Graph.
type Edge[N comparable] struct {
	To     N
	Weight float64
}

// Graph is a weighted directed adjacency-list graph over comparable node
// identifiers. Dijkstra requires non-negative edge weights; that is a
// documented precondition of AddEdge, not a runtime check, and negative
// weights silently produce wrong distances. Not safe for concurrent use
// once shared.
type Graph[N comparable] struct {
	adj map[N][]Edge[N]
}

// NewGraph returns an empty graph.
func NewGraph[N comparable]() *Graph[N] {
	return &Graph[N]{adj: make(map[N][]Edge[N])}
}

// AddEdge appends the directed edge u->v with the given non-negative weight.
// The target node is registered even when it has no outgoing edges, so sinks
// and isolated endpoints still appear in traversal results.
func (g *Graph[N]) AddEdge(u, v N, weight float64) {
	g.adj[u] = append(g.adj[u], Edge[N]{To: v, Weight: weight})
	if _, ok := g.adj[v]; !ok {
		g.adj[v] = nil
	}
}

// Neighbors returns u's outgoing edges.
func (g *Graph[N]) Neighbors(u N) []Edge[N] { return g.adj[u] }

// Nodes returns every registered node identifier, in no particular order.
func (g *Graph[N]) Nodes() []N {
	nodes := make([]N, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	return nodes
}

// Order reports the number of nodes.
func (g *Graph[N]) Order() int { return len(g.adj) }

// Dijkstra returns the shortest distance from source to every node in the
// graph. Unreachable nodes map to +Inf.
//
// The priority queue supports no decrease-key, so an improved distance is
// simply pushed again and superseded entries linger in the queue; a popped
// entry whose distance is worse than the recorded best is stale and skipped.
func (g *Graph[N]) Dijkstra(source N) map[N]float64 {
	dist := make(map[N]float64, len(g.adj))
	for node := range g.adj {
		dist[node] = math.Inf(1)
	}
	dist[source] = 0

	var pq PriorityQueue[N]
	pq.Push(0, source)

	for {
		entry, ok := pq.Pop()
		if !ok {
			break
		}
		d, u := entry.Priority, entry.Item
		if d > dist[u] {
			continue
		}
		for _, e := range g.adj[u] {
			if next := d + e.Weight; next < dist[e.To] {
				dist[e.To] = next
				pq.Push(next, e.To)
			}
		}
	}
	return dist
}
