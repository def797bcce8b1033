package graph

import (
	"fmt"
	"iter"

	"github.com/chazu/meshgraph/pkg/graph/storage"
)

// Mesh is a polygonal mesh held as a half-edge graph. It owns vertex,
// half-edge and face storage and is the only way to mutate connectivity.
//
// V, E and F are the vertex, edge and face geometry. Their zero values are
// used wherever no geometry is given.
//
// A Mesh is not safe for concurrent use.
type Mesh[V, E, F any] struct {
	vertices *storage.Storage[VertexKey, Vertex[V]]
	edges    *storage.Storage[EdgeKey, Edge[E]]
	faces    *storage.Storage[FaceKey, Face[F]]

	// generation advances on every successful mutation. Views compare it
	// against the value captured at creation.
	generation uint64
}

var _ Consistent = (*Mesh[struct{}, struct{}, struct{}])(nil)

// New returns an empty mesh.
func New[V, E, F any]() *Mesh[V, E, F] {
	return &Mesh[V, E, F]{
		vertices: storage.NewGenerated[VertexKey, Vertex[V]](),
		edges:    storage.New[EdgeKey, Edge[E]](),
		faces:    storage.NewGenerated[FaceKey, Face[F]](),
	}
}

func (m *Mesh[V, E, F]) consistent() {}

// Clone returns a deep copy of m. Keys are preserved.
func (m *Mesh[V, E, F]) Clone() *Mesh[V, E, F] {
	return &Mesh[V, E, F]{
		vertices: m.vertices.Clone(),
		edges:    m.edges.Clone(),
		faces:    m.faces.Clone(),
	}
}

// Generation returns the mutation stamp of m.
func (m *Mesh[V, E, F]) Generation() uint64 {
	return m.generation
}

func (m *Mesh[V, E, F]) touch() {
	m.generation++
}

// VertexCount returns the number of vertices.
func (m *Mesh[V, E, F]) VertexCount() int { return m.vertices.Len() }

// EdgeCount returns the number of directed half-edges.
func (m *Mesh[V, E, F]) EdgeCount() int { return m.edges.Len() }

// FaceCount returns the number of faces.
func (m *Mesh[V, E, F]) FaceCount() int { return m.faces.Len() }

// Vertices yields every vertex key in unspecified order.
func (m *Mesh[V, E, F]) Vertices() iter.Seq[VertexKey] { return m.vertices.Keys() }

// Edges yields every half-edge key in unspecified order.
func (m *Mesh[V, E, F]) Edges() iter.Seq[EdgeKey] { return m.edges.Keys() }

// Faces yields every face key in unspecified order.
func (m *Mesh[V, E, F]) Faces() iter.Seq[FaceKey] { return m.faces.Keys() }

// Vertex returns a copy of the vertex record stored under key.
func (m *Mesh[V, E, F]) Vertex(key VertexKey) (Vertex[V], bool) {
	return m.vertices.Get(key)
}

// Edge returns a copy of the half-edge record stored under key.
func (m *Mesh[V, E, F]) Edge(key EdgeKey) (Edge[E], bool) {
	return m.edges.Get(key)
}

// ContainsEdge reports whether the directed edge a->b exists.
func (m *Mesh[V, E, F]) ContainsEdge(a, b VertexKey) bool {
	return m.edges.ContainsKey(NewEdgeKey(a, b))
}

// NewEdgeKey returns the key of the directed edge a->b.
func NewEdgeKey(a, b VertexKey) EdgeKey {
	return storage.NewEdgeKey(a, b)
}

// SetVertexGeometry replaces the geometry of a vertex.
func (m *Mesh[V, E, F]) SetVertexGeometry(key VertexKey, g V) error {
	v, ok := m.vertices.GetMut(key)
	if !ok {
		return fmt.Errorf("graph: set vertex geometry %v: %w", key, ErrVertexNotFound)
	}
	v.Geometry = g
	m.touch()
	return nil
}

// SetEdgeGeometry replaces the geometry of a half-edge.
func (m *Mesh[V, E, F]) SetEdgeGeometry(key EdgeKey, g E) error {
	e, ok := m.edges.GetMut(key)
	if !ok {
		return fmt.Errorf("graph: set edge geometry %v: %w", key, ErrEdgeNotFound)
	}
	e.Geometry = g
	m.touch()
	return nil
}

// InsertVertex adds an isolated vertex and returns its key.
func (m *Mesh[V, E, F]) InsertVertex(g V) VertexKey {
	key := m.vertices.InsertWithGenerator(Vertex[V]{Geometry: g})
	m.touch()
	return key
}

// InsertEdge adds the directed half-edge a->b. If b->a already exists the
// two are linked as opposites. The new edge becomes a's remembered outgoing
// edge, replacing any earlier one.
func (m *Mesh[V, E, F]) InsertEdge(a, b VertexKey, g E) (EdgeKey, error) {
	key := NewEdgeKey(a, b)
	if !m.vertices.ContainsKey(a) {
		return EdgeKey{}, fmt.Errorf("graph: insert edge %v: source %v: %w", key, a, ErrVertexNotFound)
	}
	if !m.vertices.ContainsKey(b) {
		return EdgeKey{}, fmt.Errorf("graph: insert edge %v: destination %v: %w", key, b, ErrVertexNotFound)
	}
	if a == b {
		return EdgeKey{}, fmt.Errorf("graph: insert edge %v: %w", key, ErrDegenerateEdge)
	}
	if m.edges.ContainsKey(key) {
		return EdgeKey{}, fmt.Errorf("graph: insert edge %v: %w", key, ErrEdgeExists)
	}

	edge := Edge[E]{Geometry: g, vertex: b}
	if opp, ok := m.edges.GetMut(key.Opposite()); ok {
		opp.opposite = key
		edge.opposite = key.Opposite()
	}
	m.edges.InsertWithKey(key, edge)

	src, _ := m.vertices.GetMut(a)
	src.edge = key
	m.touch()
	return key, nil
}

// RemoveEdge deletes a half-edge that does not bound a face. Its opposite,
// if any, is unlinked.
func (m *Mesh[V, E, F]) RemoveEdge(key EdgeKey) error {
	edge, ok := m.edges.Get(key)
	if !ok {
		return fmt.Errorf("graph: remove edge %v: %w", key, ErrEdgeNotFound)
	}
	if !edge.face.IsZero() {
		return fmt.Errorf("graph: remove edge %v: bounds %v: %w", key, edge.face, ErrEdgeBound)
	}
	m.unlinkEdge(key)
	m.edges.Remove(key)
	m.touch()
	return nil
}

// unlinkEdge clears every reference to key held by its opposite and its
// source vertex.
func (m *Mesh[V, E, F]) unlinkEdge(key EdgeKey) {
	if opp, ok := m.edges.GetMut(key.Opposite()); ok && opp.opposite == key {
		opp.opposite = EdgeKey{}
	}
	if src, ok := m.vertices.GetMut(key.A); ok && src.edge == key {
		src.edge = EdgeKey{}
	}
}

// InsertFace binds a closed cycle of existing, unbound half-edges to a new
// face. The destination of edges[i] must be the source of edges[i+1], and
// the last edge must return to the source of the first. The face is anchored
// at edges[0].
//
// Edges already bounding a face are rejected with ErrEdgeBound rather than
// rebound, so the boundary of another face is never disturbed.
func (m *Mesh[V, E, F]) InsertFace(edges []EdgeKey, g F) (FaceKey, error) {
	n := len(edges)
	if n < 3 {
		return 0, fmt.Errorf("graph: insert face: %d edges: %w", n, ErrFaceArity)
	}
	seen := make(map[EdgeKey]struct{}, n)
	for i, key := range edges {
		edge, ok := m.edges.Get(key)
		if !ok {
			return 0, fmt.Errorf("graph: insert face: edge %d %v: %w", i, key, ErrEdgeNotFound)
		}
		if _, dup := seen[key]; dup {
			return 0, fmt.Errorf("graph: insert face: edge %d %v repeats: %w", i, key, ErrOpenCycle)
		}
		seen[key] = struct{}{}
		if next := edges[(i+1)%n]; key.B != next.A {
			return 0, fmt.Errorf("graph: insert face: edge %d %v does not meet %v: %w", i, key, next, ErrOpenCycle)
		}
		if !edge.face.IsZero() {
			return 0, fmt.Errorf("graph: insert face: edge %d %v bounds %v: %w", i, key, edge.face, ErrEdgeBound)
		}
	}

	face := m.faces.InsertWithGenerator(Face[F]{Geometry: g, edge: edges[0]})
	for i, key := range edges {
		edge, _ := m.edges.GetMut(key)
		edge.next = edges[(i+1)%n]
		edge.face = face
	}
	m.touch()
	return face, nil
}

// RemoveFace deletes a face and every half-edge on its boundary. Opposite
// edges that survive are left unpaired. Vertices are kept even if no edge
// references them any more, so callers can reuse them.
func (m *Mesh[V, E, F]) RemoveFace(key FaceKey) error {
	if !m.faces.ContainsKey(key) {
		return fmt.Errorf("graph: remove face %v: %w", key, ErrFaceNotFound)
	}
	for _, e := range m.boundary(key) {
		m.unlinkEdge(e)
		m.edges.Remove(e)
	}
	m.faces.Remove(key)
	m.touch()
	return nil
}

// boundary returns the boundary edges of an existing face in cycle order,
// starting at its anchor. It panics if the cycle is broken.
func (m *Mesh[V, E, F]) boundary(key FaceKey) []EdgeKey {
	face, ok := m.faces.Get(key)
	if !ok {
		invariant("face %v missing", key)
	}
	var out []EdgeKey
	limit := m.edges.Len()
	e := face.edge
	for {
		edge, ok := m.edges.Get(e)
		if !ok {
			invariant("face %v: edge %v missing", key, e)
		}
		if edge.face != key {
			invariant("face %v: edge %v bounds %v", key, e, edge.face)
		}
		out = append(out, e)
		if len(out) > limit {
			invariant("face %v: boundary does not close", key)
		}
		e = edge.next
		if e == face.edge {
			return out
		}
	}
}

// Face returns a read view of the face stored under key.
func (m *Mesh[V, E, F]) Face(key FaceKey) (FaceView[V, E, F], bool) {
	if !m.faces.ContainsKey(key) {
		return FaceView[V, E, F]{}, false
	}
	return FaceView[V, E, F]{mesh: m, key: key, generation: m.generation}, true
}

// FaceMut returns a mutable view of the face stored under key.
func (m *Mesh[V, E, F]) FaceMut(key FaceKey) (FaceViewMut[V, E, F], bool) {
	view, ok := m.Face(key)
	if !ok {
		return FaceViewMut[V, E, F]{}, false
	}
	return FaceViewMut[V, E, F]{FaceView: view}, true
}

// IntoCore decomposes m into its storage. m must not be used afterwards.
func (m *Mesh[V, E, F]) IntoCore() OwnedCore[V, E, F] {
	c := BindFaces(BindArcs(BindVertices(EmptyCore(), m.vertices), m.edges), m.faces)
	m.touch()
	m.vertices, m.edges, m.faces = nil, nil, nil
	return c
}

// Borrow returns a read-only core sharing m's storage.
func (m *Mesh[V, E, F]) Borrow() EphemeralCore[V, E, F] {
	return BindFaces(
		BindArcs(
			BindVertices(EmptyCore(), storage.Borrow(m.vertices)),
			storage.Borrow(m.edges)),
		storage.Borrow(m.faces))
}

// FromCore assembles a mesh from raw storage. The storage is validated first;
// if any error-severity finding is reported the findings are returned joined
// and wrapped in ErrInconsistent.
func FromCore[V, E, F any](c OwnedCore[V, E, F]) (*Mesh[V, E, F], error) {
	vertices, edges, _, faces := c.IntoStorage()
	if vertices == nil || edges == nil || faces == nil {
		return nil, fmt.Errorf("graph: from core: nil storage: %w", ErrInconsistent)
	}
	if !vertices.CanGenerate() || !faces.CanGenerate() {
		return nil, fmt.Errorf("graph: from core: vertex and face storage must generate keys: %w", ErrInconsistent)
	}
	m := &Mesh[V, E, F]{vertices: vertices, edges: edges, faces: faces}
	if errs := Errors(Validate(m)); len(errs) > 0 {
		return nil, fmt.Errorf("graph: from core: %w: %w", ErrInconsistent, joinFindings(errs))
	}
	return m, nil
}
