package graph

import (
	"errors"
	"fmt"
)

// ValidationSeverity indicates whether a validation finding breaks the mesh
// invariants or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant broken
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Element  string             // key of the offending element, empty if mesh-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Element, e.Message)
}

// Validate checks every connectivity invariant of m and returns the
// findings. An empty slice means the mesh is consistent. Validate never
// mutates m and does not panic on corrupt storage.
func Validate[V, E, F any](m *Mesh[V, E, F]) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateEdges(m)...)
	errs = append(errs, validateFaces(m)...)
	errs = append(errs, validateVertices(m)...)
	return errs
}

// Errors returns the error-severity findings.
func Errors(findings []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns the warning-severity findings.
func Warnings(findings []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

func joinFindings(findings []ValidationError) error {
	errs := make([]error, len(findings))
	for i, f := range findings {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func edgeError(key EdgeKey, format string, args ...any) ValidationError {
	return ValidationError{
		Element:  key.String(),
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

// validateEdges checks each half-edge against its key, its opposite and its
// successor.
func validateEdges[V, E, F any](m *Mesh[V, E, F]) []ValidationError {
	var errs []ValidationError

	for key, edge := range m.edges.All() {
		if key.A == key.B {
			errs = append(errs, edgeError(key, "edge is degenerate"))
		}
		for _, v := range []VertexKey{key.A, key.B} {
			if !m.vertices.ContainsKey(v) {
				errs = append(errs, edgeError(key, "endpoint %v does not exist", v))
			}
		}
		if edge.vertex != key.B {
			errs = append(errs, edgeError(key, "destination %v does not match key", edge.vertex))
		}

		// Opposite pairing must be symmetric and present whenever the
		// reverse edge exists.
		reverse, hasReverse := m.edges.Get(key.Opposite())
		switch {
		case edge.opposite.IsZero() && hasReverse:
			errs = append(errs, edgeError(key, "reverse edge exists but is not linked as opposite"))
		case !edge.opposite.IsZero() && edge.opposite != key.Opposite():
			errs = append(errs, edgeError(key, "opposite %v is not the reverse edge", edge.opposite))
		case !edge.opposite.IsZero() && !hasReverse:
			errs = append(errs, edgeError(key, "opposite %v does not exist", edge.opposite))
		case !edge.opposite.IsZero() && reverse.opposite != key:
			errs = append(errs, edgeError(key, "opposite %v does not link back", edge.opposite))
		}

		if edge.next.IsZero() != edge.face.IsZero() {
			errs = append(errs, edgeError(key, "next %v and face %v must be set together", edge.next, edge.face))
			continue
		}
		if edge.face.IsZero() {
			continue
		}
		if !m.faces.ContainsKey(edge.face) {
			errs = append(errs, edgeError(key, "face %v does not exist", edge.face))
		}
		next, ok := m.edges.Get(edge.next)
		switch {
		case !ok:
			errs = append(errs, edgeError(key, "next %v does not exist", edge.next))
		case edge.next.A != key.B:
			errs = append(errs, edgeError(key, "next %v does not leave destination %v", edge.next, key.B))
		case next.face != edge.face:
			errs = append(errs, edgeError(key, "next %v bounds %v, not %v", edge.next, next.face, edge.face))
		}
	}

	return errs
}

// validateFaces walks every face boundary and checks that it closes, has
// at least three edges and that every edge bounding a face lies on that
// face's boundary.
func validateFaces[V, E, F any](m *Mesh[V, E, F]) []ValidationError {
	var errs []ValidationError
	onBoundary := make(map[EdgeKey]bool, m.edges.Len())

	for key, face := range m.faces.All() {
		faceErr := func(format string, args ...any) {
			errs = append(errs, ValidationError{
				Element:  key.String(),
				Message:  fmt.Sprintf(format, args...),
				Severity: SeverityError,
			})
		}

		e := face.edge
		arity := 0
		closed := false
		for range m.edges.Len() {
			edge, ok := m.edges.Get(e)
			if !ok {
				faceErr("boundary edge %v does not exist", e)
				break
			}
			if edge.face != key {
				faceErr("boundary edge %v bounds %v", e, edge.face)
				break
			}
			onBoundary[e] = true
			arity++
			e = edge.next
			if e == face.edge {
				closed = true
				break
			}
		}
		if !closed {
			faceErr("boundary does not close")
			continue
		}
		if arity < 3 {
			faceErr("arity %d is less than 3", arity)
		}
	}

	for key, edge := range m.edges.All() {
		if !edge.face.IsZero() && m.faces.ContainsKey(edge.face) && !onBoundary[key] {
			errs = append(errs, edgeError(key, "bound to %v but not on its boundary", edge.face))
		}
	}

	return errs
}

// validateVertices checks remembered outgoing edges and reports vertices
// with no incident edge.
func validateVertices[V, E, F any](m *Mesh[V, E, F]) []ValidationError {
	var errs []ValidationError
	incident := make(map[VertexKey]bool, m.vertices.Len())
	for key := range m.edges.Keys() {
		incident[key.A] = true
		incident[key.B] = true
	}

	for key, vertex := range m.vertices.All() {
		if !vertex.edge.IsZero() {
			switch {
			case vertex.edge.A != key:
				errs = append(errs, ValidationError{
					Element:  key.String(),
					Message:  fmt.Sprintf("outgoing edge %v does not leave the vertex", vertex.edge),
					Severity: SeverityError,
				})
			case !m.edges.ContainsKey(vertex.edge):
				errs = append(errs, ValidationError{
					Element:  key.String(),
					Message:  fmt.Sprintf("outgoing edge %v does not exist", vertex.edge),
					Severity: SeverityError,
				})
			}
		}
		if !incident[key] {
			errs = append(errs, ValidationError{
				Element:  key.String(),
				Message:  "vertex has no incident edges",
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}
