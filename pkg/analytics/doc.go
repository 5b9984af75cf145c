// Package analytics implements the data structures and algorithms behind the
// MobilityDB query endpoints: order-statistics selection, a binary search
// tree for range queries, a sliding window for moving aggregates, a chained
// hash table, a binary-heap priority queue with a top-k selector, Rabin-Karp
// substring matching, a stable merge sort, z-score and IQR outlier detection,
// an LRU cache, a weighted-graph shortest-path engine, and a union-find
// structure.
//
// Every routine here is deliberately hand-rolled instead of delegating to the
// standard library's sort/hash facilities, so query results stay reproducible
// across releases and the cost model of each operation is explicit.
//
// Pure functions (SelectKth, MergeSort, Search, FindTopK, the detectors)
// operate on caller-owned inputs and are safe to call concurrently on
// independent data. Stateful containers (HashTable, LRUCache, Graph,
// DisjointSet, SearchTree, SlidingWindow, PriorityQueue) carry no internal
// locking; callers serialize access themselves.
package analytics
