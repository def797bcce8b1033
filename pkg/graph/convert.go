package graph

import (
	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph/storage"
)

// Convert returns a copy of m whose geometry has been converted element by
// element. Keys and connectivity are copied unchanged.
func Convert[V, E, F, V2, E2, F2 any](m *Mesh[V, E, F], c geometry.Conversion[V, E, F, V2, E2, F2]) *Mesh[V2, E2, F2] {
	return &Mesh[V2, E2, F2]{
		vertices: storage.MapValues(m.vertices, func(v Vertex[V]) Vertex[V2] {
			return Vertex[V2]{Geometry: c.Vertex(v.Geometry), edge: v.edge}
		}),
		edges: storage.MapValues(m.edges, func(e Edge[E]) Edge[E2] {
			return Edge[E2]{
				Geometry: c.Edge(e.Geometry),
				vertex:   e.vertex,
				opposite: e.opposite,
				next:     e.next,
				face:     e.face,
			}
		}),
		faces: storage.MapValues(m.faces, func(f Face[F]) Face[F2] {
			return Face[F2]{Geometry: c.Face(f.Geometry), edge: f.edge}
		}),
	}
}
