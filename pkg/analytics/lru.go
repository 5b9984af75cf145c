package analytics

import "fmt"

// lruNode is one entry in the cache's intrusive recency list.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// LRUCache is a capacity-bounded associative cache with O(1) amortized Get
// and Put. A map provides key lookup and a doubly linked list tracks
// recency; the least-recently-used entry is evicted once the capacity is
// exceeded. Not safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	capacity int
	entries  map[K]*lruNode[K, V]
	head     *lruNode[K, V] // most recently used
	tail     *lruNode[K, V] // least recently used
}

// NewLRUCache builds a cache holding at most capacity entries.
func NewLRUCache[K comparable, V any](capacity int) (*LRUCache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("lru cache: capacity %d must be positive: %w", capacity, ErrInvalidArgument)
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*lruNode[K, V], capacity+1),
	}, nil
}

// Get returns the cached value for key and promotes the entry to
// most-recently-used. A miss is reported through the second return.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(node)
	return node.value, true
}

// Put stores a value under key. An existing entry is updated in place and
// promoted; a new entry may push the least-recently-used one out.
func (c *LRUCache[K, V]) Put(key K, value V) {
	if node, ok := c.entries[key]; ok {
		node.value = value
		c.moveToFront(node)
		return
	}

	node := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = node
	c.pushFront(node)

	if len(c.entries) > c.capacity {
		evicted := c.tail
		c.unlink(evicted)
		delete(c.entries, evicted.key)
	}
}

// Contains reports whether key is cached, without promoting it.
func (c *LRUCache[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Len reports the number of cached entries.
func (c *LRUCache[K, V]) Len() int { return len(c.entries) }

func (c *LRUCache[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *LRUCache[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.prev, node.next = nil, nil
}

func (c *LRUCache[K, V]) moveToFront(node *lruNode[K, V]) {
	if c.head == node {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}
