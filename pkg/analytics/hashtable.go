package analytics

import (
	"fmt"
	"hash/maphash"
)

// HashFunc maps a key onto a bucket index in [0, buckets).
type HashFunc[K comparable] func(key K, buckets int) int

// HashString is the positional polynomial hash used for string keys:
// the sum of codepoint(i) * 31^i, reduced mod buckets. Every partial product
// is reduced as it accumulates, so intermediate values stay small.
func HashString(key string, buckets int) int {
	h := 0
	weight := 1
	for _, r := range key {
		h = (h + int(r)*weight) % buckets
		weight = weight * 31 % buckets
	}
	return h
}

// HashInt buckets an integer key by key mod buckets, normalized so negative
// keys land in [0, buckets) as well.
func HashInt(key int64, buckets int) int {
	h := int(key % int64(buckets))
	if h < 0 {
		h += buckets
	}
	return h
}

var tableSeed = maphash.MakeSeed()

// defaultHash is the fallback for key types with no dedicated hash: the
// runtime's collision-resistant hash over the key's value representation.
func defaultHash[K comparable](key K, buckets int) int {
	return int(maphash.Comparable(tableSeed, key) % uint64(buckets))
}

type htEntry[K comparable, V any] struct {
	key   K
	value V
}

// HashTable is a chained hash map with a fixed bucket count. There is no
// automatic resizing; LoadFactor exposes chain pressure for diagnostics and
// the caller sizes the table at construction. Key equality inside a bucket
// is value equality. Not safe for concurrent use.
type HashTable[K comparable, V any] struct {
	buckets [][]htEntry[K, V]
	hash    HashFunc[K]
	count   int
}

// NewHashTable builds a table with the given number of buckets. A nil hash
// selects the runtime fallback; string and integer keys normally pass
// HashString or HashInt so bucket placement is reproducible.
func NewHashTable[K comparable, V any](buckets int, hash HashFunc[K]) (*HashTable[K, V], error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("hash table: bucket count %d must be positive: %w", buckets, ErrInvalidArgument)
	}
	if hash == nil {
		hash = defaultHash[K]
	}
	return &HashTable[K, V]{
		buckets: make([][]htEntry[K, V], buckets),
		hash:    hash,
	}, nil
}

// Insert stores a key/value pair, overwriting in place when the key exists.
func (t *HashTable[K, V]) Insert(key K, value V) {
	idx := t.hash(key, len(t.buckets))
	bucket := t.buckets[idx]

	for i := range bucket {
		if bucket[i].key == key {
			bucket[i].value = value
			return
		}
	}

	t.buckets[idx] = append(bucket, htEntry[K, V]{key: key, value: value})
	t.count++
}

// Get returns the value stored under key, with a miss reported through the
// second return rather than an error.
func (t *HashTable[K, V]) Get(key K) (V, bool) {
	idx := t.hash(key, len(t.buckets))
	for _, e := range t.buckets[idx] {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Delete removes the entry for key and reports whether one was present.
func (t *HashTable[K, V]) Delete(key K) bool {
	idx := t.hash(key, len(t.buckets))
	bucket := t.buckets[idx]

	for i := range bucket {
		if bucket[i].key == key {
			t.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			t.count--
			return true
		}
	}
	return false
}

// Len reports the number of stored entries.
func (t *HashTable[K, V]) Len() int { return t.count }

// LoadFactor reports the average chain length, entries per bucket.
func (t *HashTable[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}
