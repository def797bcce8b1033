package graph

import "github.com/chazu/meshgraph/pkg/graph/storage"

// Unbound marks an empty Core slot.
type Unbound struct{}

// Core is a raw aggregate of up to four storages: vertices, arcs
// (half-edges), edges (undirected composite edges) and faces. Each slot is
// either Unbound or a storage. Access to a slot's records type checks only
// when the slot holds something implementing storage.AsStorage, so the
// capability is resolved at compile time:
//
//	c := BindVertices(EmptyCore(), vertices)
//	c.Vertices().AsStorage().Len() // compiles
//	c.Faces().AsStorage()          // does not: the face slot is Unbound
//
// A Core performs no consistency checking. Only a *Mesh, built through the
// mutation API or validated by FromCore, is Consistent.
type Core[VS, AS, ES, FS any] struct {
	vertices VS
	arcs     AS
	edges    ES
	faces    FS
}

// OwnedCore is the core a Mesh decomposes into. The composite edge slot is
// not used by meshes and stays Unbound.
type OwnedCore[V, E, F any] = Core[
	*storage.Storage[VertexKey, Vertex[V]],
	*storage.Storage[EdgeKey, Edge[E]],
	Unbound,
	*storage.Storage[FaceKey, Face[F]],
]

// EphemeralCore is a read-only core borrowing a mesh's storage.
type EphemeralCore[V, E, F any] = Core[
	storage.Ephemeral[VertexKey, Vertex[V]],
	storage.Ephemeral[EdgeKey, Edge[E]],
	Unbound,
	storage.Ephemeral[FaceKey, Face[F]],
]

// EmptyCore returns a core with every slot unbound.
func EmptyCore() Core[Unbound, Unbound, Unbound, Unbound] {
	return Core[Unbound, Unbound, Unbound, Unbound]{}
}

// Vertices returns the vertex slot.
func (c Core[VS, AS, ES, FS]) Vertices() VS { return c.vertices }

// Arcs returns the half-edge slot.
func (c Core[VS, AS, ES, FS]) Arcs() AS { return c.arcs }

// Edges returns the composite edge slot.
func (c Core[VS, AS, ES, FS]) Edges() ES { return c.edges }

// Faces returns the face slot.
func (c Core[VS, AS, ES, FS]) Faces() FS { return c.faces }

// IntoStorage decomposes the core into its four slots.
func (c Core[VS, AS, ES, FS]) IntoStorage() (VS, AS, ES, FS) {
	return c.vertices, c.arcs, c.edges, c.faces
}

// BindVertices fills the unbound vertex slot of c.
func BindVertices[VS, AS, ES, FS any](c Core[Unbound, AS, ES, FS], vertices VS) Core[VS, AS, ES, FS] {
	return Core[VS, AS, ES, FS]{vertices: vertices, arcs: c.arcs, edges: c.edges, faces: c.faces}
}

// BindArcs fills the unbound half-edge slot of c.
func BindArcs[VS, AS, ES, FS any](c Core[VS, Unbound, ES, FS], arcs AS) Core[VS, AS, ES, FS] {
	return Core[VS, AS, ES, FS]{vertices: c.vertices, arcs: arcs, edges: c.edges, faces: c.faces}
}

// BindEdges fills the unbound composite edge slot of c.
func BindEdges[VS, AS, ES, FS any](c Core[VS, AS, Unbound, FS], edges ES) Core[VS, AS, ES, FS] {
	return Core[VS, AS, ES, FS]{vertices: c.vertices, arcs: c.arcs, edges: edges, faces: c.faces}
}

// BindFaces fills the unbound face slot of c.
func BindFaces[VS, AS, ES, FS any](c Core[VS, AS, ES, Unbound], faces FS) Core[VS, AS, ES, FS] {
	return Core[VS, AS, ES, FS]{vertices: c.vertices, arcs: c.arcs, edges: c.edges, faces: faces}
}

// Consistent is implemented only by containers whose storage is known to
// satisfy the mesh invariants. Views rely on it to skip defensive checks.
type Consistent interface {
	consistent()
}
