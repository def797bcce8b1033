package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the mutation API. Use errors.Is to
// test for them.
var (
	// ErrVertexNotFound indicates a vertex key not present in the mesh.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrEdgeNotFound indicates an edge key not present in the mesh.
	ErrEdgeNotFound = errors.New("graph: edge not found")

	// ErrFaceNotFound indicates a face key not present in the mesh.
	ErrFaceNotFound = errors.New("graph: face not found")

	// ErrEdgeExists indicates an attempt to insert a directed edge twice.
	ErrEdgeExists = errors.New("graph: edge already exists")

	// ErrDegenerateEdge indicates an edge whose endpoints are the same vertex.
	ErrDegenerateEdge = errors.New("graph: degenerate edge")

	// ErrFaceArity indicates a face with fewer than three edges.
	ErrFaceArity = errors.New("graph: face requires at least 3 edges")

	// ErrOpenCycle indicates face edges that do not form a closed cycle.
	ErrOpenCycle = errors.New("graph: edges do not form a closed cycle")

	// ErrEdgeBound indicates an edge that already bounds a face.
	ErrEdgeBound = errors.New("graph: edge already bound to a face")

	// ErrInconsistent indicates storage that violates mesh invariants.
	ErrInconsistent = errors.New("graph: inconsistent storage")
)

// invariant panics with a message describing a broken internal invariant.
// It is reached only if storage was corrupted outside the mutation API.
func invariant(format string, args ...any) {
	panic(fmt.Sprintf("graph: invariant: "+format, args...))
}
