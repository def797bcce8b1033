package index

// Triangulate splits a convex polygon into a fan of triangles around its
// first vertex, preserving winding. Polygons with fewer than three vertices
// yield no triangles.
func Triangulate[T any](polygon []T) [][]T {
	if len(polygon) < 3 {
		return nil
	}
	triangles := make([][]T, 0, len(polygon)-2)
	for i := 1; i+1 < len(polygon); i++ {
		triangles = append(triangles, []T{polygon[0], polygon[i], polygon[i+1]})
	}
	return triangles
}

// TriangulateAll triangulates every polygon and concatenates the results.
func TriangulateAll[T any](polygons [][]T) [][]T {
	var triangles [][]T
	for _, p := range polygons {
		triangles = append(triangles, Triangulate(p)...)
	}
	return triangles
}
