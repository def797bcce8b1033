// Package buffer builds flat index and vertex arrays for rendering. A
// Conjoint buffer holds both arrays together; indices are consecutive
// k-tuples, one per polygon, referring into the vertex array.
package buffer

import (
	"fmt"
	"math"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/index"
	"github.com/chazu/meshgraph/pkg/kernel"
)

// Conjoint is an index buffer paired with the vertex buffer it indexes.
type Conjoint[V any] struct {
	indices  []uint32
	vertices []V
}

// New returns an empty buffer.
func New[V any]() *Conjoint[V] {
	return &Conjoint[V]{}
}

// FromPolygons deduplicates the vertices of polygons with indexer and
// returns the flattened buffer. Polygons are not triangulated; callers that
// need triangles run index.TriangulateAll first.
func FromPolygons[V any](polygons [][]V, indexer index.Indexer[V]) (*Conjoint[V], error) {
	groups, vertices := index.IndexVertices(polygons, indexer)
	if len(vertices) > math.MaxUint32 {
		return nil, fmt.Errorf("buffer: %d vertices overflow uint32 indices", len(vertices))
	}
	flat := index.Flatten(groups)
	indices := make([]uint32, len(flat))
	for i, x := range flat {
		indices[i] = uint32(x)
	}
	return &Conjoint[V]{indices: indices, vertices: vertices}, nil
}

// FromMesh exports the faces of m as fan-triangulated triangles over m's
// vertices. Vertices that no face references are omitted.
func FromMesh[V, E, F any](m *graph.Mesh[V, E, F]) (*Conjoint[V], error) {
	b := New[V]()
	slots := make(map[graph.VertexKey]uint32, m.VertexCount())
	slot := func(k graph.VertexKey) uint32 {
		if i, ok := slots[k]; ok {
			return i
		}
		v, ok := m.Vertex(k)
		if !ok {
			panic(fmt.Sprintf("buffer: face references missing vertex %v", k))
		}
		i := uint32(len(b.vertices))
		slots[k] = i
		b.vertices = append(b.vertices, v.Geometry)
		return i
	}
	for f := range m.Faces() {
		view, _ := m.Face(f)
		var ring []uint32
		for e := range view.Edges() {
			ring = append(ring, slot(e.Source()))
		}
		for _, tri := range index.Triangulate(ring) {
			b.indices = append(b.indices, tri...)
		}
	}
	if len(b.vertices) > math.MaxUint32 {
		return nil, fmt.Errorf("buffer: %d vertices overflow uint32 indices", len(b.vertices))
	}
	return b, nil
}

// Indices returns the index buffer. The slice is owned by the buffer.
func (c *Conjoint[V]) Indices() []uint32 { return c.indices }

// Vertices returns the vertex buffer. The slice is owned by the buffer.
func (c *Conjoint[V]) Vertices() []V { return c.vertices }

// Append moves the contents of other to the end of c, offsetting its
// indices past c's vertices. other is empty afterwards.
func (c *Conjoint[V]) Append(other *Conjoint[V]) {
	offset := uint32(len(c.vertices))
	c.vertices = append(c.vertices, other.vertices...)
	for _, i := range other.indices {
		c.indices = append(c.indices, i+offset)
	}
	other.indices, other.vertices = nil, nil
}

// KernelMesh converts a triangle buffer of positions into the flat float32
// layout used by renderers. Normals are per vertex, averaged over the
// triangles that share the vertex and weighted by their area.
func KernelMesh(c *Conjoint[geometry.Position], name string) (*kernel.Mesh, error) {
	if len(c.indices)%3 != 0 {
		return nil, fmt.Errorf("buffer: %d indices is not a triangle list", len(c.indices))
	}
	normals := make([]geometry.Position, len(c.vertices))
	for t := 0; t < len(c.indices); t += 3 {
		a := c.vertices[c.indices[t]]
		b := c.vertices[c.indices[t+1]]
		d := c.vertices[c.indices[t+2]]
		n := b.Sub(a.Vec).Cross(d.Sub(a.Vec))
		for _, i := range c.indices[t : t+3] {
			normals[i].Vec = normals[i].Add(n)
		}
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 3*len(c.vertices)),
		Normals:  make([]float32, 0, 3*len(c.vertices)),
		Indices:  append([]uint32(nil), c.indices...),
		Name:     name,
	}
	for i, v := range c.vertices {
		p := geometry.ToFloat32(v)
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
		n := normals[i]
		if n.Length() > 0 {
			n.Vec = n.Normalize()
		}
		f := geometry.ToFloat32(n)
		m.Normals = append(m.Normals, f[0], f[1], f[2])
	}
	return m, nil
}
