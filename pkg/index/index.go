// Package index deduplicates vertex streams. A stream of polygons, each a
// sequence of vertex values, becomes a list of unique vertices plus, per
// polygon, indices into that list. The first occurrence of a vertex defines
// its index.
package index

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Indexer assigns indices to vertices. Index returns the index for v and
// whether v was not seen before, in which case the returned index is the
// next one in sequence and the caller must append v to the vertex list.
type Indexer[T any] interface {
	Index(v T) (int, bool)
}

// Compile-time interface checks.
var (
	_ Indexer[int] = (*HashIndexer[int, int])(nil)
	_ Indexer[int] = (*LRUIndexer[int, int])(nil)
)

// HashIndexer deduplicates every vertex of a stream. Vertices are equal when
// their keys are equal, so the key function defines the equivalence.
type HashIndexer[T any, K comparable] struct {
	key     func(T) K
	indices map[K]int
	next    int
}

// NewHashIndexer returns an indexer that compares vertices by key.
func NewHashIndexer[T any, K comparable](key func(T) K) *HashIndexer[T, K] {
	return &HashIndexer[T, K]{key: key, indices: make(map[K]int)}
}

// NewComparableIndexer returns an indexer for vertex types that are their own
// key.
func NewComparableIndexer[T comparable]() *HashIndexer[T, T] {
	return NewHashIndexer(func(v T) T { return v })
}

// Index implements Indexer.
func (x *HashIndexer[T, K]) Index(v T) (int, bool) {
	k := x.key(v)
	if i, ok := x.indices[k]; ok {
		return i, false
	}
	i := x.next
	x.next++
	x.indices[k] = i
	return i, true
}

// DefaultLRUCapacity is the recency window used when none is given.
const DefaultLRUCapacity = 64

// LRUIndexer deduplicates a vertex only against recently seen vertices. It
// bounds memory on long streams whose shared vertices are close together,
// such as strips and fans; a vertex seen again after eviction gets a new
// index.
type LRUIndexer[T any, K comparable] struct {
	key   func(T) K
	cache *lru.Cache[K, int]
	next  int
}

// NewLRUIndexer returns an indexer remembering the last capacity distinct
// vertices.
func NewLRUIndexer[T any, K comparable](capacity int, key func(T) K) (*LRUIndexer[T, K], error) {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	cache, err := lru.New[K, int](capacity)
	if err != nil {
		return nil, fmt.Errorf("index: lru cache: %w", err)
	}
	return &LRUIndexer[T, K]{key: key, cache: cache}, nil
}

// Index implements Indexer.
func (x *LRUIndexer[T, K]) Index(v T) (int, bool) {
	k := x.key(v)
	if i, ok := x.cache.Get(k); ok {
		return i, false
	}
	i := x.next
	x.next++
	x.cache.Add(k, i)
	return i, true
}

// IndexVertices runs every vertex of polygons through indexer. It returns the
// indices grouped by polygon (each group has the arity of its polygon) and
// the deduplicated vertices in first-seen order.
func IndexVertices[T any](polygons [][]T, indexer Indexer[T]) ([][]int, []T) {
	indices := make([][]int, 0, len(polygons))
	var vertices []T
	for _, polygon := range polygons {
		group := make([]int, 0, len(polygon))
		for _, v := range polygon {
			i, fresh := indexer.Index(v)
			if fresh {
				vertices = append(vertices, v)
			}
			group = append(group, i)
		}
		indices = append(indices, group)
	}
	return indices, vertices
}

// Flatten concatenates grouped indices into one index sequence.
func Flatten(groups [][]int) []int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	flat := make([]int, 0, n)
	for _, g := range groups {
		flat = append(flat, g...)
	}
	return flat
}
