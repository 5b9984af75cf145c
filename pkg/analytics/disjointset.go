package analytics

// DisjointSet tracks a partition of comparable elements into disjoint
// groups, with path compression on Find and union by rank on Union, giving
// near-constant amortized cost per operation. Not safe for concurrent use.
type DisjointSet[T comparable] struct {
	parent map[T]T
	rank   map[T]int
}

// NewDisjointSet returns an empty partition.
func NewDisjointSet[T comparable]() *DisjointSet[T] {
	return &DisjointSet[T]{
		parent: make(map[T]T),
		rank:   make(map[T]int),
	}
}

// MakeSet registers x as its own singleton set. Elements that are already
// tracked are left untouched.
func (d *DisjointSet[T]) MakeSet(x T) {
	if _, ok := d.parent[x]; ok {
		return
	}
	d.parent[x] = x
	d.rank[x] = 0
}

// Find returns the root of x's set, registering x as a singleton first if it
// was never seen. Every element on the walk is re-pointed directly at the
// root, so later finds along the same chain are O(1).
func (d *DisjointSet[T]) Find(x T) T {
	d.MakeSet(x)

	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}

	for x != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing x and y. The lower-rank root is attached
// under the higher-rank one; rank grows only when both roots had equal rank.
func (d *DisjointSet[T]) Union(x, y T) {
	rx, ry := d.Find(x), d.Find(y)
	if rx == ry {
		return
	}
	switch {
	case d.rank[rx] < d.rank[ry]:
		d.parent[rx] = ry
	case d.rank[rx] > d.rank[ry]:
		d.parent[ry] = rx
	default:
		d.parent[ry] = rx
		d.rank[rx]++
	}
}

// Connected reports whether x and y currently belong to the same set.
func (d *DisjointSet[T]) Connected(x, y T) bool {
	return d.Find(x) == d.Find(y)
}

// Len reports the number of tracked elements.
func (d *DisjointSet[T]) Len() int { return len(d.parent) }
