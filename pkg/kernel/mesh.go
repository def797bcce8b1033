package kernel

import "github.com/chazu/meshgraph/pkg/geometry"

// Mesh is a triangle mesh in the flat layout renderers consume.
// vertices has 3 floats per vertex (x,y,z), normals has 3 floats per vertex,
// indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns vertex i.
func (m *Mesh) Position(i uint32) geometry.Position {
	return geometry.FromFloat32(geometry.Float32(m.Vertices[3*i : 3*i+3]))
}

// Triangles returns every triangle as three positions in index order, the
// polygon stream mesh construction consumes.
func (m *Mesh) Triangles() [][]geometry.Position {
	out := make([][]geometry.Position, 0, m.TriangleCount())
	for t := 0; t+2 < len(m.Indices); t += 3 {
		out = append(out, []geometry.Position{
			m.Position(m.Indices[t]),
			m.Position(m.Indices[t+1]),
			m.Position(m.Indices[t+2]),
		})
	}
	return out
}
