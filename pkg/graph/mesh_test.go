package graph

import (
	"errors"
	"testing"
)

// testMesh carries an int per vertex, an int per edge and a label per face.
type testMesh = Mesh[int, int, string]

// counts captures the element counts of a mesh.
type counts struct{ vertices, edges, faces int }

func countsOf(m *testMesh) counts {
	return counts{m.VertexCount(), m.EdgeCount(), m.FaceCount()}
}

// buildTriangle returns a mesh with one triangular face a->b->c.
func buildTriangle(t *testing.T) (*testMesh, [3]VertexKey, FaceKey) {
	t.Helper()
	m := New[int, int, string]()
	var vs [3]VertexKey
	for i := range vs {
		vs[i] = m.InsertVertex(i)
	}
	edges := make([]EdgeKey, 3)
	for i := range vs {
		e, err := m.InsertEdge(vs[i], vs[(i+1)%3], 0)
		if err != nil {
			t.Fatalf("InsertEdge: %v", err)
		}
		edges[i] = e
	}
	f, err := m.InsertFace(edges, "tri")
	if err != nil {
		t.Fatalf("InsertFace: %v", err)
	}
	return m, vs, f
}

// buildQuadPair returns two triangles sharing the edge b-d: a->b->d and
// b->c->d.
func buildQuadPair(t *testing.T) (*testMesh, [4]VertexKey, [2]FaceKey) {
	t.Helper()
	m := New[int, int, string]()
	var vs [4]VertexKey
	for i := range vs {
		vs[i] = m.InsertVertex(i)
	}
	var fs [2]FaceKey
	for i, tri := range [2][3]int{{0, 1, 3}, {1, 2, 3}} {
		edges := make([]EdgeKey, 3)
		for j := range tri {
			e, err := m.InsertEdge(vs[tri[j]], vs[tri[(j+1)%3]], 0)
			if err != nil {
				t.Fatalf("InsertEdge: %v", err)
			}
			edges[j] = e
		}
		f, err := m.InsertFace(edges, "")
		if err != nil {
			t.Fatalf("InsertFace: %v", err)
		}
		fs[i] = f
	}
	return m, vs, fs
}

func TestInsertVertex(t *testing.T) {
	m := New[int, int, string]()
	a := m.InsertVertex(7)
	b := m.InsertVertex(8)
	if a == b || a.IsZero() || b.IsZero() {
		t.Fatalf("InsertVertex keys = %v, %v", a, b)
	}
	v, ok := m.Vertex(a)
	if !ok || v.Geometry != 7 {
		t.Errorf("Vertex(%v) = %+v, %v", a, v, ok)
	}
	if _, ok := v.Edge(); ok {
		t.Error("new vertex has an outgoing edge")
	}
	if m.VertexCount() != 2 {
		t.Errorf("VertexCount() = %d, want 2", m.VertexCount())
	}
}

func TestInsertEdgeLinksOpposites(t *testing.T) {
	m := New[int, int, string]()
	a := m.InsertVertex(0)
	b := m.InsertVertex(1)

	ab, err := m.InsertEdge(a, b, 0)
	if err != nil {
		t.Fatalf("InsertEdge(a, b): %v", err)
	}
	if e, _ := m.Edge(ab); !e.opposite.IsZero() {
		t.Errorf("lone edge has opposite %v", e.opposite)
	}
	if e, _ := m.Edge(ab); e.Vertex() != b {
		t.Errorf("edge destination = %v, want %v", e.Vertex(), b)
	}

	ba, err := m.InsertEdge(b, a, 0)
	if err != nil {
		t.Fatalf("InsertEdge(b, a): %v", err)
	}
	eab, _ := m.Edge(ab)
	eba, _ := m.Edge(ba)
	if got, ok := eab.Opposite(); !ok || got != ba {
		t.Errorf("opposite of %v = %v, %v, want %v", ab, got, ok, ba)
	}
	if got, ok := eba.Opposite(); !ok || got != ab {
		t.Errorf("opposite of %v = %v, %v, want %v", ba, got, ok, ab)
	}
}

func TestInsertEdgeRemembersLatestOutgoing(t *testing.T) {
	m := New[int, int, string]()
	a := m.InsertVertex(0)
	b := m.InsertVertex(1)
	c := m.InsertVertex(2)

	if _, err := m.InsertEdge(a, b, 0); err != nil {
		t.Fatal(err)
	}
	ac, err := m.InsertEdge(a, c, 0)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := m.Vertex(a)
	if got, ok := v.Edge(); !ok || got != ac {
		t.Errorf("outgoing edge of a = %v, %v, want %v", got, ok, ac)
	}
	if v, _ := m.Vertex(b); !v.edge.IsZero() {
		t.Errorf("destination vertex got outgoing edge %v", v.edge)
	}
}

func TestInsertEdgeErrors(t *testing.T) {
	m := New[int, int, string]()
	a := m.InsertVertex(0)
	b := m.InsertVertex(1)
	if _, err := m.InsertEdge(a, b, 0); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		a, b VertexKey
		want error
	}{
		{"unknown source", 99, b, ErrVertexNotFound},
		{"unknown destination", a, 99, ErrVertexNotFound},
		{"degenerate", a, a, ErrDegenerateEdge},
		{"duplicate", a, b, ErrEdgeExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countsOf(m)
			gen := m.Generation()
			_, err := m.InsertEdge(tt.a, tt.b, 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("InsertEdge() error = %v, want %v", err, tt.want)
			}
			if after := countsOf(m); after != before {
				t.Errorf("counts changed from %+v to %+v", before, after)
			}
			if m.Generation() != gen {
				t.Error("failed insert advanced the generation")
			}
		})
	}
}

func TestInsertFaceClosesCycle(t *testing.T) {
	m, _, f := buildTriangle(t)

	face, ok := m.faces.Get(f)
	if !ok {
		t.Fatalf("face %v missing", f)
	}
	if face.Edge().IsZero() {
		t.Fatal("face has no anchor edge")
	}
	e := face.edge
	for i := 0; i < 3; i++ {
		edge, ok := m.Edge(e)
		if !ok {
			t.Fatalf("step %d: edge %v missing", i, e)
		}
		if got, _ := edge.Face(); got != f {
			t.Errorf("edge %v face = %v, want %v", e, got, f)
		}
		next, ok := edge.Next()
		if !ok {
			t.Fatalf("edge %v has no next", e)
		}
		if next.A != e.B {
			t.Errorf("next %v does not leave %v", next, e.B)
		}
		e = next
	}
	if e != face.edge {
		t.Errorf("walk of 3 steps ended at %v, want %v", e, face.edge)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestInsertFaceErrors(t *testing.T) {
	m := New[int, int, string]()
	var vs [4]VertexKey
	for i := range vs {
		vs[i] = m.InsertVertex(i)
	}
	edge := func(i, j int) EdgeKey {
		k, err := m.InsertEdge(vs[i], vs[j], 0)
		if err != nil {
			t.Fatalf("InsertEdge: %v", err)
		}
		return k
	}
	e01, e12, e20 := edge(0, 1), edge(1, 2), edge(2, 0)
	e23, e30 := edge(2, 3), edge(3, 0)
	if _, err := m.InsertFace([]EdgeKey{e01, e12, e20}, ""); err != nil {
		t.Fatalf("InsertFace: %v", err)
	}
	e02 := edge(0, 2)

	tests := []struct {
		name  string
		edges []EdgeKey
		want  error
	}{
		{"empty", nil, ErrFaceArity},
		{"two edges", []EdgeKey{e23, e30}, ErrFaceArity},
		{"unknown edge", []EdgeKey{e02, e23, NewEdgeKey(vs[3], vs[1])}, ErrEdgeNotFound},
		{"open cycle", []EdgeKey{e02, e30, e23}, ErrOpenCycle},
		{"repeated edge", []EdgeKey{e02, e23, e30, e02, e23, e30}, ErrOpenCycle},
		{"bound edge", []EdgeKey{e01, e12, e23, e30}, ErrEdgeBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countsOf(m)
			gen := m.Generation()
			_, err := m.InsertFace(tt.edges, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("InsertFace() error = %v, want %v", err, tt.want)
			}
			if after := countsOf(m); after != before {
				t.Errorf("counts changed from %+v to %+v", before, after)
			}
			if m.Generation() != gen {
				t.Error("failed insert advanced the generation")
			}
		})
	}

	// The rejected attempts must not have touched the free edges.
	for _, k := range []EdgeKey{e02, e23, e30} {
		if e, _ := m.Edge(k); !e.face.IsZero() || !e.next.IsZero() {
			t.Errorf("edge %v was bound by a failed insert: %+v", k, e)
		}
	}
	if _, err := m.InsertFace([]EdgeKey{e02, e23, e30}, ""); err != nil {
		t.Errorf("InsertFace on free cycle: %v", err)
	}
	if errs := Errors(Validate(m)); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestRemoveFace(t *testing.T) {
	m, vs, fs := buildQuadPair(t)
	before := countsOf(m)

	if err := m.RemoveFace(fs[0]); err != nil {
		t.Fatalf("RemoveFace: %v", err)
	}
	after := countsOf(m)
	want := counts{before.vertices, before.edges - 3, before.faces - 1}
	if after != want {
		t.Errorf("counts = %+v, want %+v", after, want)
	}

	// The shared edge d->b survives without its opposite b->d.
	db, ok := m.Edge(NewEdgeKey(vs[3], vs[1]))
	if !ok {
		t.Fatal("edge d->b was removed with the other face")
	}
	if _, ok := db.Opposite(); ok {
		t.Error("surviving edge still has an opposite")
	}
	// a lost its only outgoing edge; the vertex itself stays.
	a, ok := m.Vertex(vs[0])
	if !ok {
		t.Fatal("vertex a was removed")
	}
	if _, ok := a.Edge(); ok {
		t.Errorf("vertex a still remembers %v", a.edge)
	}
	if errs := Errors(Validate(m)); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
	if ws := Warnings(Validate(m)); len(ws) != 1 {
		t.Errorf("Warnings = %v, want one orphaned vertex", ws)
	}
}

func TestRemoveFaceUnknown(t *testing.T) {
	m, _, f := buildTriangle(t)
	before := countsOf(m)
	if err := m.RemoveFace(f + 1); !errors.Is(err, ErrFaceNotFound) {
		t.Errorf("RemoveFace() error = %v, want %v", err, ErrFaceNotFound)
	}
	if after := countsOf(m); after != before {
		t.Errorf("counts changed from %+v to %+v", before, after)
	}
}

func TestRemoveEdge(t *testing.T) {
	m, vs, _ := buildTriangle(t)
	if err := m.RemoveEdge(NewEdgeKey(vs[0], vs[1])); !errors.Is(err, ErrEdgeBound) {
		t.Errorf("RemoveEdge(bound) error = %v, want %v", err, ErrEdgeBound)
	}
	if err := m.RemoveEdge(NewEdgeKey(vs[1], vs[0])); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("RemoveEdge(unknown) error = %v, want %v", err, ErrEdgeNotFound)
	}

	ba, err := m.InsertEdge(vs[1], vs[0], 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveEdge(ba); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if m.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", m.EdgeCount())
	}
	if e, _ := m.Edge(NewEdgeKey(vs[0], vs[1])); !e.opposite.IsZero() {
		t.Errorf("opposite not cleared: %v", e.opposite)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m, vs, f := buildTriangle(t)
	c := m.Clone()

	if err := c.RemoveFace(f); err != nil {
		t.Fatal(err)
	}
	c.InsertVertex(42)
	if got := countsOf(m); got != (counts{3, 3, 1}) {
		t.Errorf("original counts = %+v after mutating clone", got)
	}
	if err := m.SetVertexGeometry(vs[0], 9); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Vertex(vs[0]); v.Geometry != 0 {
		t.Errorf("clone vertex geometry = %d, want 0", v.Geometry)
	}
}

func TestSetGeometry(t *testing.T) {
	m, vs, _ := buildTriangle(t)
	if err := m.SetVertexGeometry(99, 1); !errors.Is(err, ErrVertexNotFound) {
		t.Errorf("SetVertexGeometry(unknown) error = %v", err)
	}
	e := NewEdgeKey(vs[0], vs[1])
	if err := m.SetEdgeGeometry(e, 5); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Edge(e); got.Geometry != 5 {
		t.Errorf("edge geometry = %d, want 5", got.Geometry)
	}
	if err := m.SetEdgeGeometry(NewEdgeKey(vs[1], vs[0]), 5); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("SetEdgeGeometry(unknown) error = %v", err)
	}
}

func TestKeyIterators(t *testing.T) {
	m, _, _ := buildQuadPair(t)
	n := 0
	for range m.Vertices() {
		n++
	}
	if n != 4 {
		t.Errorf("Vertices() yielded %d keys, want 4", n)
	}
	n = 0
	for k := range m.Edges() {
		if !m.ContainsEdge(k.A, k.B) {
			t.Errorf("Edges() yielded unknown %v", k)
		}
		n++
	}
	if n != 6 {
		t.Errorf("Edges() yielded %d keys, want 6", n)
	}
	n = 0
	for range m.Faces() {
		n++
	}
	if n != 2 {
		t.Errorf("Faces() yielded %d keys, want 2", n)
	}
}
