package graph

import (
	"errors"
	"testing"

	"github.com/chazu/meshgraph/internal/shapes"
	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/index"
)

type positionMesh = Mesh[geometry.Position, geometry.Unit, geometry.Unit]

func positionIndexer() index.Indexer[geometry.Position] {
	return index.NewHashIndexer(geometry.Position.Key)
}

func TestFromTrianglesSphere(t *testing.T) {
	triangles := index.TriangulateAll(shapes.UVSphere(3, 2))
	m, err := FromTriangles[geometry.Position, geometry.Unit, geometry.Unit](triangles, positionIndexer())
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	if m.VertexCount() != 5 {
		t.Errorf("VertexCount() = %d, want 5", m.VertexCount())
	}
	if m.EdgeCount() != 18 {
		t.Errorf("EdgeCount() = %d, want 18", m.EdgeCount())
	}
	if m.FaceCount() != 6 {
		t.Errorf("FaceCount() = %d, want 6", m.FaceCount())
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestFromTrianglesCounts(t *testing.T) {
	tests := []struct {
		name                   string
		polygons               [][]geometry.Position
		vertices, edges, faces int
	}{
		{"cube", shapes.Cube(), 8, 36, 12},
		{"sphere 8x4", shapes.UVSphere(8, 4), 26, 144, 48},
		{"sphere 5x3", shapes.UVSphere(5, 3), 12, 60, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromTriangles[geometry.Position, geometry.Unit, geometry.Unit](
				index.TriangulateAll(tt.polygons), positionIndexer())
			if err != nil {
				t.Fatalf("FromTriangles: %v", err)
			}
			if got := (counts{m.VertexCount(), m.EdgeCount(), m.FaceCount()}); got != (counts{tt.vertices, tt.edges, tt.faces}) {
				t.Errorf("counts = %+v, want {%d %d %d}", got, tt.vertices, tt.edges, tt.faces)
			}
			assertClosed(t, m)
		})
	}
}

func TestFromPolygonsKeepsQuads(t *testing.T) {
	m, err := FromPolygons[geometry.Position, geometry.Unit, geometry.Unit](shapes.Cube(), positionIndexer())
	if err != nil {
		t.Fatalf("FromPolygons: %v", err)
	}
	if got := (counts{m.VertexCount(), m.EdgeCount(), m.FaceCount()}); got != (counts{8, 24, 6}) {
		t.Errorf("counts = %+v, want {8 24 6}", got)
	}
	for f := range m.Faces() {
		if view, _ := m.Face(f); view.Arity() != 4 {
			t.Errorf("face %v arity = %d, want 4", f, view.Arity())
		}
	}
	assertClosed(t, m)
}

func TestFromTrianglesRejectsNonTriangles(t *testing.T) {
	_, err := FromTriangles[geometry.Position, geometry.Unit, geometry.Unit](shapes.Cube(), positionIndexer())
	if !errors.Is(err, ErrFaceArity) {
		t.Errorf("FromTriangles(quads) error = %v, want %v", err, ErrFaceArity)
	}
}

func TestFromPolygonsErrors(t *testing.T) {
	a := geometry.NewPosition(0, 0, 0)
	b := geometry.NewPosition(1, 0, 0)
	c := geometry.NewPosition(0, 1, 0)

	tests := []struct {
		name     string
		polygons [][]geometry.Position
		want     error
	}{
		{"too few vertices", [][]geometry.Position{{a, b}}, ErrFaceArity},
		{"repeated vertex", [][]geometry.Position{{a, b, a}}, ErrDegenerateEdge},
		{"duplicate triangle", [][]geometry.Position{{a, b, c}, {a, b, c}}, ErrEdgeExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromPolygons[geometry.Position, geometry.Unit, geometry.Unit](tt.polygons, positionIndexer())
			if !errors.Is(err, tt.want) {
				t.Errorf("FromPolygons() error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("FromPolygons() returned a mesh with an error")
			}
		})
	}
}

func TestFromTrianglesLRUIndexer(t *testing.T) {
	// A window of one vertex cannot dedupe anything within a triangle
	// stream, so every corner becomes its own vertex.
	x, err := index.NewLRUIndexer(1, geometry.Position.Key)
	if err != nil {
		t.Fatal(err)
	}
	triangles := index.TriangulateAll(shapes.UVSphere(3, 2))
	m, err := FromTriangles[geometry.Position, geometry.Unit, geometry.Unit](triangles, x)
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	if m.VertexCount() != 18 {
		t.Errorf("VertexCount() = %d, want 18", m.VertexCount())
	}
	if m.EdgeCount() != 18 || m.FaceCount() != 6 {
		t.Errorf("edges, faces = %d, %d, want 18, 6", m.EdgeCount(), m.FaceCount())
	}
}

// assertClosed checks that m validates cleanly and that every half-edge is
// paired, as it must be for a closed surface.
func assertClosed(t *testing.T, m *positionMesh) {
	t.Helper()
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
	for k := range m.Edges() {
		if e, _ := m.Edge(k); e.opposite.IsZero() {
			t.Errorf("edge %v is unpaired", k)
		}
	}
}
