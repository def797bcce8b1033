package storage

import "fmt"

// VertexKey identifies a vertex. Keys are generated starting at 1; the zero
// key never refers to a record and is used to mean "no vertex".
type VertexKey uint64

// FaceKey identifies a face. The zero key means "no face".
type FaceKey uint64

// EdgeKey identifies a directed half-edge by its ordered pair of endpoints.
// The edge keyed {A, B} runs from A to B. Deriving the key from the endpoints
// gives O(1) lookup of any directed edge without a separate index.
type EdgeKey struct {
	A VertexKey // source
	B VertexKey // destination
}

// NewEdgeKey returns the key of the directed edge from a to b.
func NewEdgeKey(a, b VertexKey) EdgeKey {
	return EdgeKey{A: a, B: b}
}

// IsZero reports whether k is the zero vertex key.
func (k VertexKey) IsZero() bool { return k == 0 }

func (k VertexKey) String() string { return fmt.Sprintf("v%d", uint64(k)) }

// IsZero reports whether k is the zero face key.
func (k FaceKey) IsZero() bool { return k == 0 }

func (k FaceKey) String() string { return fmt.Sprintf("f%d", uint64(k)) }

// IsZero reports whether k is the zero edge key.
func (k EdgeKey) IsZero() bool { return k.A.IsZero() && k.B.IsZero() }

// Opposite returns the key of the antiparallel edge.
func (k EdgeKey) Opposite() EdgeKey {
	return EdgeKey{A: k.B, B: k.A}
}

// Vertices returns the source and destination vertex keys.
func (k EdgeKey) Vertices() (VertexKey, VertexKey) {
	return k.A, k.B
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", k.A, k.B)
}

// OpaqueKey is the constraint satisfied by keys that storage can generate.
type OpaqueKey interface {
	~uint64
}
