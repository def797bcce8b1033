package graph

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/meshgraph/pkg/geometry"
)

// ---------------------------------------------------------------------------
// Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// AreaEpsilon is the face area below which a face is reported as
// degenerate.
const AreaEpsilon = 1e-12

// ValidateGeometry runs the positional checks on a mesh whose vertices are
// positions. Connectivity is assumed to be valid; run Validate first.
func ValidateGeometry[E, F any](m *Mesh[geometry.Position, E, F]) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateFinitePositions(m)...)
	errs = append(errs, validateEdgeLengths(m)...)
	errs = append(errs, validateFaceAreas(m)...)
	errs = append(errs, validateDuplicateFaces(m)...)
	return errs
}

// validateFinitePositions checks that every coordinate is a finite number.
func validateFinitePositions[E, F any](m *Mesh[geometry.Position, E, F]) []ValidationError {
	var errs []ValidationError
	for key, v := range m.vertices.All() {
		p := v.Geometry
		for axis, c := range [3]float64{p.X, p.Y, p.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				errs = append(errs, ValidationError{
					Element:  key.String(),
					Message:  fmt.Sprintf("coordinate %c is %v, must be finite", "XYZ"[axis], c),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateEdgeLengths warns about edges whose endpoints coincide. Each
// opposite pair is reported once.
func validateEdgeLengths[E, F any](m *Mesh[geometry.Position, E, F]) []ValidationError {
	var errs []ValidationError
	for key := range m.edges.Keys() {
		if m.edges.ContainsKey(key.Opposite()) && key.A > key.B {
			continue
		}
		a, okA := m.vertices.Get(key.A)
		b, okB := m.vertices.Get(key.B)
		if !okA || !okB {
			continue
		}
		if a.Geometry.Sub(b.Geometry.Vec).Length() == 0 {
			errs = append(errs, ValidationError{
				Element:  key.String(),
				Message:  "edge has zero length",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// walkFace returns the boundary of a face, or nil if the boundary cannot
// be walked.
func walkFace[V, E, F any](m *Mesh[V, E, F], key FaceKey) []EdgeKey {
	face, ok := m.faces.Get(key)
	if !ok {
		return nil
	}
	var out []EdgeKey
	e := face.edge
	for range m.edges.Len() {
		edge, ok := m.edges.Get(e)
		if !ok || edge.face != key {
			return nil
		}
		out = append(out, e)
		if e = edge.next; e == face.edge {
			return out
		}
	}
	return nil
}

func faceCorners[E, F any](m *Mesh[geometry.Position, E, F], key FaceKey) []geometry.Position {
	var out []geometry.Position
	for _, e := range walkFace(m, key) {
		v, ok := m.vertices.Get(e.A)
		if !ok {
			return nil
		}
		out = append(out, v.Geometry)
	}
	return out
}

// FaceArea returns the area of a planar face using Newell's method. It
// returns 0 for unknown faces.
func FaceArea[E, F any](m *Mesh[geometry.Position, E, F], key FaceKey) float64 {
	corners := faceCorners(m, key)
	if len(corners) < 3 {
		return 0
	}
	var n geometry.Position
	for i, p := range corners {
		q := corners[(i+1)%len(corners)]
		n.Vec = n.Add(p.Cross(q.Vec))
	}
	return n.Length() / 2
}

// validateFaceAreas warns about faces with (near) zero area.
func validateFaceAreas[E, F any](m *Mesh[geometry.Position, E, F]) []ValidationError {
	var errs []ValidationError
	for key := range m.faces.Keys() {
		if area := FaceArea(m, key); area < AreaEpsilon {
			errs = append(errs, ValidationError{
				Element:  key.String(),
				Message:  fmt.Sprintf("face area %.3g is degenerate", area),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDuplicateFaces warns about faces spanning the same set of
// vertices, such as the two sides of a doubled polygon.
func validateDuplicateFaces[E, F any](m *Mesh[geometry.Position, E, F]) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]FaceKey)

	for _, key := range slices.Sorted(m.faces.Keys()) {
		boundary := walkFace(m, key)
		if boundary == nil {
			continue
		}
		var vs []VertexKey
		for _, e := range boundary {
			vs = append(vs, e.A)
		}
		slices.Sort(vs)
		id := fmt.Sprint(vs)
		if first, ok := seen[id]; ok {
			errs = append(errs, ValidationError{
				Element:  key.String(),
				Message:  fmt.Sprintf("face spans the same vertices as %v", first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[id] = key
	}
	return errs
}
