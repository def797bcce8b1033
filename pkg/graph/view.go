package graph

import (
	"fmt"
	"iter"
)

// FaceView is a read handle on one face of a mesh. A view is only valid
// until the mesh is next mutated by anything other than the view itself;
// using a stale view panics.
type FaceView[V, E, F any] struct {
	mesh       *Mesh[V, E, F]
	key        FaceKey
	generation uint64
}

// EdgeView describes one half-edge as seen from a face boundary.
type EdgeView[E any] struct {
	Key      EdgeKey
	Geometry E
	Opposite EdgeKey // zero when the edge is unpaired
	Next     EdgeKey
	Face     FaceKey
}

// Source returns the vertex the edge leaves.
func (e EdgeView[E]) Source() VertexKey { return e.Key.A }

// Destination returns the vertex the edge points at.
func (e EdgeView[E]) Destination() VertexKey { return e.Key.B }

func (v FaceView[V, E, F]) check() {
	if v.mesh == nil {
		panic("graph: use of zero FaceView")
	}
	if v.mesh.generation != v.generation {
		panic(fmt.Sprintf("graph: face view %v used after mesh mutation", v.key))
	}
}

func (v FaceView[V, E, F]) record() Face[F] {
	v.check()
	face, ok := v.mesh.faces.Get(v.key)
	if !ok {
		invariant("face %v missing", v.key)
	}
	return face
}

// Key returns the key of the face.
func (v FaceView[V, E, F]) Key() FaceKey { return v.key }

// Geometry returns the face geometry.
func (v FaceView[V, E, F]) Geometry() F { return v.record().Geometry }

// Edges yields the boundary half-edges in cycle order starting at the
// face's anchor edge. Mutating the mesh from the loop body makes the view
// stale, and the next step of the walk panics.
func (v FaceView[V, E, F]) Edges() iter.Seq[EdgeView[E]] {
	return func(yield func(EdgeView[E]) bool) {
		face := v.record()
		e := face.edge
		for range v.mesh.edges.Len() {
			edge, ok := v.mesh.edges.Get(e)
			if !ok {
				invariant("face %v: edge %v missing", v.key, e)
			}
			if !yield(EdgeView[E]{
				Key:      e,
				Geometry: edge.Geometry,
				Opposite: edge.opposite,
				Next:     edge.next,
				Face:     edge.face,
			}) {
				return
			}
			v.check()
			e = edge.next
			if e == face.edge {
				return
			}
		}
		invariant("face %v: boundary does not close", v.key)
	}
}

// Vertices yields the vertices of the boundary: the destination of each
// boundary edge, in cycle order.
func (v FaceView[V, E, F]) Vertices() iter.Seq[VertexKey] {
	return func(yield func(VertexKey) bool) {
		for e := range v.Edges() {
			if !yield(e.Destination()) {
				return
			}
		}
	}
}

// EdgeKeys returns the boundary edge keys in cycle order.
func (v FaceView[V, E, F]) EdgeKeys() []EdgeKey {
	v.check()
	return v.mesh.boundary(v.key)
}

// Arity returns the number of boundary edges.
func (v FaceView[V, E, F]) Arity() int {
	return len(v.EdgeKeys())
}

// FaceViewMut is a mutable handle on one face. Mutations made through it
// keep it valid; any other mutation of the mesh invalidates it.
type FaceViewMut[V, E, F any] struct {
	FaceView[V, E, F]
}

func (v *FaceViewMut[V, E, F]) refresh() {
	v.generation = v.mesh.generation
}

// SetGeometry replaces the face geometry.
func (v *FaceViewMut[V, E, F]) SetGeometry(g F) {
	v.check()
	face, ok := v.mesh.faces.GetMut(v.key)
	if !ok {
		invariant("face %v missing", v.key)
	}
	face.Geometry = g
	v.mesh.touch()
	v.refresh()
}

// Remove deletes the face and its boundary edges. The view is unusable
// afterwards.
func (v *FaceViewMut[V, E, F]) Remove() error {
	v.check()
	return v.mesh.RemoveFace(v.key)
}

// Extrude replaces the face with a translated copy joined to the original
// boundary by quadrilateral side faces. f maps each boundary vertex to the
// geometry of its copy. The cap and the sides take the face's geometry.
// The key of the cap face is returned and the view is unusable afterwards.
//
// The original boundary vertices are reused: removing the face leaves them
// in place for the side faces to connect to.
func (v *FaceViewMut[V, E, F]) Extrude(f func(V) V) (FaceKey, error) {
	v.check()
	m := v.mesh
	geometry := v.Geometry()
	keys := v.EdgeKeys()
	n := len(keys)

	base := make([]VertexKey, n)
	for i, e := range keys {
		base[i] = e.A
	}
	if err := m.RemoveFace(v.key); err != nil {
		return 0, fmt.Errorf("graph: extrude %v: %w", v.key, err)
	}

	top := make([]VertexKey, n)
	for i, vk := range base {
		vertex, ok := m.vertices.Get(vk)
		if !ok {
			invariant("extrude: vertex %v missing", vk)
		}
		top[i] = m.InsertVertex(f(vertex.Geometry))
	}

	var zero E
	cycle := func(vs ...VertexKey) ([]EdgeKey, error) {
		out := make([]EdgeKey, len(vs))
		for i, a := range vs {
			b := vs[(i+1)%len(vs)]
			key := NewEdgeKey(a, b)
			if !m.edges.ContainsKey(key) {
				if _, err := m.InsertEdge(a, b, zero); err != nil {
					return nil, err
				}
			}
			out[i] = key
		}
		return out, nil
	}

	capEdges, err := cycle(top...)
	if err != nil {
		return 0, fmt.Errorf("graph: extrude %v: cap: %w", v.key, err)
	}
	capFace, err := m.InsertFace(capEdges, geometry)
	if err != nil {
		return 0, fmt.Errorf("graph: extrude %v: cap: %w", v.key, err)
	}
	for i := range n {
		j := (i + 1) % n
		sideEdges, err := cycle(base[i], base[j], top[j], top[i])
		if err != nil {
			return 0, fmt.Errorf("graph: extrude %v: side %d: %w", v.key, i, err)
		}
		if _, err := m.InsertFace(sideEdges, geometry); err != nil {
			return 0, fmt.Errorf("graph: extrude %v: side %d: %w", v.key, i, err)
		}
	}
	return capFace, nil
}
