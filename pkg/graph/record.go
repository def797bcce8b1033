package graph

import "github.com/chazu/meshgraph/pkg/graph/storage"

// Key types, re-exported so callers rarely need the storage package.
type (
	VertexKey = storage.VertexKey
	EdgeKey   = storage.EdgeKey
	FaceKey   = storage.FaceKey
)

// Vertex is a vertex record. Geometry is the caller's payload; connectivity
// is written only by the mutation API.
type Vertex[V any] struct {
	Geometry V

	edge EdgeKey // one outgoing half-edge, zero if none is remembered
}

// Edge returns the outgoing half-edge remembered for traversal, if any. A
// vertex may have several outgoing edges; only the most recently inserted
// one is remembered.
func (v Vertex[V]) Edge() (EdgeKey, bool) {
	return v.edge, !v.edge.IsZero()
}

// Edge is a directed half-edge record.
type Edge[E any] struct {
	Geometry E

	vertex   VertexKey // destination
	opposite EdgeKey
	next     EdgeKey
	face     FaceKey
}

// Vertex returns the destination vertex of the edge.
func (e Edge[E]) Vertex() VertexKey {
	return e.vertex
}

// Opposite returns the antiparallel edge if it exists.
func (e Edge[E]) Opposite() (EdgeKey, bool) {
	return e.opposite, !e.opposite.IsZero()
}

// Next returns the following edge around the bounded face, if any.
func (e Edge[E]) Next() (EdgeKey, bool) {
	return e.next, !e.next.IsZero()
}

// Face returns the face this edge bounds, if any.
func (e Edge[E]) Face() (FaceKey, bool) {
	return e.face, !e.face.IsZero()
}

// Face is a face record. The boundary is recovered by following Next from
// the stored edge until it recurs.
type Face[F any] struct {
	Geometry F

	edge EdgeKey
}

// Edge returns the boundary edge the face is anchored at.
func (f Face[F]) Edge() EdgeKey {
	return f.edge
}
