package analytics

import "cmp"

// SearchTree is an unbalanced binary search tree mapping orderable keys to
// opaque values. Duplicate keys are allowed; ties are routed into the right
// subtree, so the invariant is left < node <= right.
//
// There is no rebalancing: a degenerate insertion order (already sorted keys)
// produces a linked list and O(n) lookups. The trees built by the query layer
// are per-request and fed from arbitrary trip snapshots, where that case is
// rare enough not to pay for rotations.
//
// The zero value is an empty tree ready for use. Not safe for concurrent use.
type SearchTree[K cmp.Ordered, V any] struct {
	root *treeNode[K, V]
	size int
}

type treeNode[K cmp.Ordered, V any] struct {
	key   K
	value V
	left  *treeNode[K, V]
	right *treeNode[K, V]
}

// KV is one key/value pair reported by RangeQuery.
type KV[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// NewSearchTree returns an empty tree.
func NewSearchTree[K cmp.Ordered, V any]() *SearchTree[K, V] {
	return &SearchTree[K, V]{}
}

// Insert places a key/value pair by strict key comparison. Insertion is
// iterative, so adversarial key orders degrade to O(n) time but never to
// O(n) stack depth.
func (t *SearchTree[K, V]) Insert(key K, value V) {
	node := &treeNode[K, V]{key: key, value: value}
	t.size++

	if t.root == nil {
		t.root = node
		return
	}

	curr := t.root
	for {
		if key < curr.key {
			if curr.left == nil {
				curr.left = node
				return
			}
			curr = curr.left
		} else {
			if curr.right == nil {
				curr.right = node
				return
			}
			curr = curr.right
		}
	}
}

// Len reports the number of stored pairs.
func (t *SearchTree[K, V]) Len() int { return t.size }

// RangeQuery returns every pair with min <= key <= max, in ascending key
// order. A subtree is only descended when it can still contain keys in
// range: left only while node.key > min, right only while node.key < max.
// That pruning is what keeps the cost at O(log n + k) on reasonably shaped
// trees.
func (t *SearchTree[K, V]) RangeQuery(min, max K) []KV[K, V] {
	var out []KV[K, V]
	t.root.collectRange(min, max, &out)
	return out
}

func (n *treeNode[K, V]) collectRange(min, max K, out *[]KV[K, V]) {
	if n == nil {
		return
	}
	if n.key > min {
		n.left.collectRange(min, max, out)
	}
	if min <= n.key && n.key <= max {
		*out = append(*out, KV[K, V]{Key: n.key, Value: n.value})
	}
	if n.key < max {
		n.right.collectRange(min, max, out)
	}
}
