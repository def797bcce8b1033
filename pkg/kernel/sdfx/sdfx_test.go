package sdfx

import (
	"math"
	"testing"
)

// testCells keeps marching cubes cheap in tests.
const testCells = 24

func TestNewWithCells(t *testing.T) {
	tests := []struct {
		name  string
		cells int
		want  int
	}{
		{"explicit", 10, 10},
		{"zero", 0, DefaultCells},
		{"negative", -3, DefaultCells},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewWithCells(tt.cells).Cells(); got != tt.want {
				t.Errorf("Cells() = %d, want %d", got, tt.want)
			}
		})
	}
	if New().Cells() != DefaultCells {
		t.Errorf("New().Cells() = %d, want %d", New().Cells(), DefaultCells)
	}
}

func TestBox(t *testing.T) {
	k := NewWithCells(testCells)
	mesh, err := k.ToMesh(k.Box(100, 50, 25))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
	if got := len(mesh.Triangles()); got != triCount {
		t.Errorf("Triangles() = %d, want %d", got, triCount)
	}
}

func TestCylinder(t *testing.T) {
	k := NewWithCells(testCells)
	mesh, err := k.ToMesh(k.Cylinder(50, 10, 32))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	t.Logf("cylinder triangle count: %d", mesh.TriangleCount())
}

func TestSphere(t *testing.T) {
	k := NewWithCells(testCells)
	s := k.Sphere(10)
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]+10) > 0.01 || math.Abs(max[i]-10) > 0.01 {
			t.Errorf("axis %d bounds = [%f, %f], want [-10, 10]", i, min[i], max[i])
		}
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// Every vertex lies close to the surface.
	for i := uint32(0); int(i) < mesh.VertexCount(); i++ {
		if r := mesh.Position(i).Length(); math.Abs(r-10) > 1 {
			t.Fatalf("vertex %d at radius %f, want ~10", i, r)
		}
	}
}

func TestDifference(t *testing.T) {
	k := NewWithCells(testCells)

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	diff := k.Difference(box, k.Cylinder(120, 20, 32))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := NewWithCells(testCells)
	u := k.Union(k.Box(50, 50, 50), k.Translate(k.Box(50, 50, 50), 30, 0, 0))
	min, max := u.BoundingBox()
	if math.Abs(min[0]+25) > 0.01 || math.Abs(max[0]-55) > 0.01 {
		t.Errorf("union X bounds = [%f, %f], want [-25, 55]", min[0], max[0])
	}
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	translated := k.Translate(k.Box(10, 10, 10), 100, 200, 300)

	min, max := translated.BoundingBox()

	// The box is centered at the origin before translation.
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	min, max := k.Box(100, 50, 25).BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	k := NewWithCells(testCells)
	inter := k.Intersection(k.Box(100, 100, 100), k.Translate(k.Box(100, 100, 100), 50, 0, 0))
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestRotate(t *testing.T) {
	k := New()

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	min, max := k.Rotate(k.Box(100, 10, 10), 0, 0, 90).BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}
