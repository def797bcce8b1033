package graph

import (
	"fmt"

	"github.com/chazu/meshgraph/pkg/index"
)

// FromTriangles builds a mesh from triangles given as vertex geometry. The
// indexer decides which geometries denote the same vertex. Each triangle
// contributes three directed edges with zero geometry and one face with
// zero geometry, so the result has three edges per triangle.
//
// Every polygon must have exactly three vertices; use index.TriangulateAll
// to fan triangulate larger polygons first.
func FromTriangles[V, E, F any](triangles [][]V, indexer index.Indexer[V]) (*Mesh[V, E, F], error) {
	for i, t := range triangles {
		if len(t) != 3 {
			return nil, fmt.Errorf("graph: from triangles: polygon %d has %d vertices: %w", i, len(t), ErrFaceArity)
		}
	}
	return FromPolygons[V, E, F](triangles, indexer)
}

// FromPolygons builds a mesh inserting each polygon as a single face. Every
// polygon needs at least three vertices.
func FromPolygons[V, E, F any](polygons [][]V, indexer index.Indexer[V]) (*Mesh[V, E, F], error) {
	groups, unique := index.IndexVertices(polygons, indexer)

	m := New[V, E, F]()
	keys := make([]VertexKey, len(unique))
	for i, g := range unique {
		keys[i] = m.InsertVertex(g)
	}

	var (
		edge E
		face F
	)
	for i, group := range groups {
		if len(group) < 3 {
			return nil, fmt.Errorf("graph: from polygons: polygon %d: %d vertices: %w", i, len(group), ErrFaceArity)
		}
		edges := make([]EdgeKey, len(group))
		for j := range group {
			a := keys[group[j]]
			b := keys[group[(j+1)%len(group)]]
			key, err := m.InsertEdge(a, b, edge)
			if err != nil {
				return nil, fmt.Errorf("graph: from polygons: polygon %d: %w", i, err)
			}
			edges[j] = key
		}
		if _, err := m.InsertFace(edges, face); err != nil {
			return nil, fmt.Errorf("graph: from polygons: polygon %d: %w", i, err)
		}
	}
	return m, nil
}
