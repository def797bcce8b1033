package geometry

// Conversion holds one conversion function per element kind. Converting a
// mesh applies Vertex, Edge and Face to every record's payload and copies
// connectivity unchanged.
type Conversion[V, E, F, V2, E2, F2 any] struct {
	Vertex func(V) V2
	Edge   func(E) E2
	Face   func(F) F2
}

// Inverse returns a conversion built from the inverse functions. The
// caller vouches that they are inverses.
func Inverse[V, E, F, V2, E2, F2 any](vertex func(V2) V, edge func(E2) E, face func(F2) F) Conversion[V2, E2, F2, V, E, F] {
	return Conversion[V2, E2, F2, V, E, F]{Vertex: vertex, Edge: edge, Face: face}
}

// Identity returns the function that returns its argument.
func Identity[T any]() func(T) T {
	return func(t T) T { return t }
}

// Zero returns a function that discards its argument and yields the zero
// value of U.
func Zero[T, U any]() func(T) U {
	return func(T) U {
		var u U
		return u
	}
}

// VertexOnly converts vertex payloads with f and leaves edge and face
// payloads untouched.
func VertexOnly[V, V2, E, F any](f func(V) V2) Conversion[V, E, F, V2, E, F] {
	return Conversion[V, E, F, V2, E, F]{
		Vertex: f,
		Edge:   Identity[E](),
		Face:   Identity[F](),
	}
}
