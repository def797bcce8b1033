package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/kernel"
	"github.com/chazu/meshgraph/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing mesh handles through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a position.
type sexpVec3 struct {
	pos geometry.Position
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.pos.X, v.pos.Y, v.pos.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpVertex wraps a vertex key returned by `vertex`.
type sexpVertex struct {
	key graph.VertexKey
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vertex %s)", v.key)
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpEdge wraps a half-edge key returned by `edge`.
type sexpEdge struct {
	key graph.EdgeKey
}

func (e *sexpEdge) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(edge %s)", e.key)
}
func (e *sexpEdge) Type() *zygo.RegisteredType { return nil }

// sexpFace wraps a face key.
type sexpFace struct {
	key graph.FaceKey
}

func (f *sexpFace) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(face %s)", f.key)
}
func (f *sexpFace) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid awaiting tessellation.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	lo, hi := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", lo, hi)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 accepts either a vec3 value or three numbers.
func toVec3(args []zygo.Sexp) (geometry.Position, error) {
	if len(args) == 1 {
		if v, ok := args[0].(*sexpVec3); ok {
			return v.pos, nil
		}
		return geometry.Position{}, fmt.Errorf("expected vec3, got %T (%s)", args[0], args[0].SexpString(nil))
	}
	if len(args) != 3 {
		return geometry.Position{}, fmt.Errorf("expected vec3 or 3 numbers, got %d arguments", len(args))
	}
	var xyz [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return geometry.Position{}, fmt.Errorf("%c: %w", "xyz"[i], err)
		}
		xyz[i] = f
	}
	return geometry.NewPosition(xyz[0], xyz[1], xyz[2]), nil
}

func toVertex(s zygo.Sexp) (graph.VertexKey, error) {
	if v, ok := s.(*sexpVertex); ok {
		return v.key, nil
	}
	return 0, fmt.Errorf("expected vertex, got %T (%s)", s, s.SexpString(nil))
}

func toEdge(s zygo.Sexp) (graph.EdgeKey, error) {
	if e, ok := s.(*sexpEdge); ok {
		return e.key, nil
	}
	return graph.EdgeKey{}, fmt.Errorf("expected edge, got %T (%s)", s, s.SexpString(nil))
}

func toFace(s zygo.Sexp) (graph.FaceKey, error) {
	if f, ok := s.(*sexpFace); ok {
		return f.key, nil
	}
	return 0, fmt.Errorf("expected face, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// spread lets a builtin take its elements either as arguments or as a
// single list.
func spread(args []zygo.Sexp) ([]zygo.Sexp, error) {
	if len(args) == 1 {
		switch args[0].(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			return sexpListToSlice(args[0])
		}
	}
	return args, nil
}

func count(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinFunc is the signature zygomys expects for Go builtins.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the mesh builtins into a zygomys environment.
// The builtins mutate m during evaluation. Solid builtins are only
// registered when k is non-nil.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens and kebab-case names are recognized.
func registerBuiltins(env *zygo.Zlisp, m *tessellate.Mesh, k kernel.Kernel, indexer IndexerFunc, log logrus.FieldLogger) {
	add := func(name string, f builtinFunc) {
		env.AddFunction(name, f)
	}

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	add("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		pos, err := toVec3(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{pos: pos}, nil
	})

	// -----------------------------------------------------------------------
	// (vertex x y z) or (vertex (vec3 x y z))
	// -----------------------------------------------------------------------
	add("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pos, err := toVec3(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		return &sexpVertex{key: m.InsertVertex(pos)}, nil
	})

	// -----------------------------------------------------------------------
	// (edge a b)
	// -----------------------------------------------------------------------
	add("edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("edge requires 2 vertices, got %d arguments", len(args))
		}
		a, err := toVertex(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: source: %w", err)
		}
		b, err := toVertex(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: destination: %w", err)
		}
		key, err := m.InsertEdge(a, b, geometry.Unit{})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: %w", err)
		}
		return &sexpEdge{key: key}, nil
	})

	// -----------------------------------------------------------------------
	// (face e1 e2 e3 ...) or (face (list e1 e2 e3 ...))
	// -----------------------------------------------------------------------
	add("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items, err := spread(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		edges := make([]graph.EdgeKey, len(items))
		for i, item := range items {
			if edges[i], err = toEdge(item); err != nil {
				return zygo.SexpNull, fmt.Errorf("face: edge %d: %w", i, err)
			}
		}
		key, err := m.InsertFace(edges, geometry.Unit{})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		return &sexpFace{key: key}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon v1 v2 v3 ...) inserts missing boundary edges, then the face.
	// (triangle a b c) is the three vertex case.
	// -----------------------------------------------------------------------
	polygon := func(builtin string, arity int) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			items, err := spread(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			if arity > 0 && len(items) != arity {
				return zygo.SexpNull, fmt.Errorf("%s requires %d vertices, got %d", builtin, arity, len(items))
			}
			vs := make([]graph.VertexKey, len(items))
			for i, item := range items {
				if vs[i], err = toVertex(item); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: vertex %d: %w", builtin, i, err)
				}
			}
			key, err := insertPolygon(m, vs)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &sexpFace{key: key}, nil
		}
	}
	add("polygon", polygon("polygon", 0))
	add("triangle", polygon("triangle", 3))

	// -----------------------------------------------------------------------
	// (remove-face f)
	// -----------------------------------------------------------------------
	add("remove_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove-face requires a face argument")
		}
		f, err := toFace(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-face: %w", err)
		}
		if err := m.RemoveFace(f); err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-face: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (extrude f :by (vec3 0 0 1))
	// -----------------------------------------------------------------------
	add("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("extrude requires a face argument")
		}
		f, err := toFace(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		by, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("extrude: missing :by offset")
		}
		offset, err := toVec3([]zygo.Sexp{by})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: by: %w", err)
		}
		view, ok := m.FaceMut(f)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("extrude: %v: %w", f, graph.ErrFaceNotFound)
		}
		capFace, err := view.Extrude(func(p geometry.Position) geometry.Position {
			return p.Translate(offset.X, offset.Y, offset.Z)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		return &sexpFace{key: capFace}, nil
	})

	// -----------------------------------------------------------------------
	// (vertex-count) (edge-count) (face-count)
	// -----------------------------------------------------------------------
	add("vertex_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return count(m.VertexCount()), nil
	})
	add("edge_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return count(m.EdgeCount()), nil
	})
	add("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return count(m.FaceCount()), nil
	})

	// -----------------------------------------------------------------------
	// (arity f)
	// -----------------------------------------------------------------------
	add("arity", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("arity requires a face argument")
		}
		f, err := toFace(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arity: %w", err)
		}
		view, ok := m.Face(f)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("arity: %v: %w", f, graph.ErrFaceNotFound)
		}
		return count(view.Arity()), nil
	})

	if k != nil {
		registerSolidBuiltins(add, m, k, indexer, log)
	}
}

// insertPolygon inserts the boundary edges of the polygon through vs that
// do not exist yet and binds them to a new face. The whole polygon is
// checked before anything is inserted, so a failure leaves m unchanged.
func insertPolygon(m *tessellate.Mesh, vs []graph.VertexKey) (graph.FaceKey, error) {
	n := len(vs)
	if n < 3 {
		return 0, fmt.Errorf("%d vertices: %w", n, graph.ErrFaceArity)
	}
	edges := make([]graph.EdgeKey, n)
	seen := make(map[graph.EdgeKey]struct{}, n)
	for i, a := range vs {
		b := vs[(i+1)%n]
		key := graph.NewEdgeKey(a, b)
		if _, ok := m.Vertex(a); !ok {
			return 0, fmt.Errorf("vertex %d %v: %w", i, a, graph.ErrVertexNotFound)
		}
		if a == b {
			return 0, fmt.Errorf("edge %d %v: %w", i, key, graph.ErrDegenerateEdge)
		}
		if _, dup := seen[key]; dup {
			return 0, fmt.Errorf("edge %d %v repeats: %w", i, key, graph.ErrOpenCycle)
		}
		seen[key] = struct{}{}
		if edge, ok := m.Edge(key); ok {
			if f, bound := edge.Face(); bound {
				return 0, fmt.Errorf("edge %d %v bounds %v: %w", i, key, f, graph.ErrEdgeBound)
			}
		}
		edges[i] = key
	}

	for _, key := range edges {
		if m.ContainsEdge(key.A, key.B) {
			continue
		}
		if _, err := m.InsertEdge(key.A, key.B, geometry.Unit{}); err != nil {
			panic(fmt.Sprintf("engine: invariant: polygon edge %v: %v", key, err))
		}
	}
	f, err := m.InsertFace(edges, geometry.Unit{})
	if err != nil {
		panic(fmt.Sprintf("engine: invariant: polygon face: %v", err))
	}
	return f, nil
}

// registerSolidBuiltins installs the kernel builtins: primitives,
// booleans, transforms and tessellation into the script mesh.
func registerSolidBuiltins(add func(string, builtinFunc), m *tessellate.Mesh, k kernel.Kernel, indexer IndexerFunc, log logrus.FieldLogger) {
	numbers := func(builtin string, args []zygo.Sexp, names ...string) ([]float64, error) {
		if len(args) != len(names) {
			return nil, fmt.Errorf("%s requires %d arguments, got %d", builtin, len(names), len(args))
		}
		out := make([]float64, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", builtin, names[i], err)
			}
			out[i] = f
		}
		return out, nil
	}

	// (box x y z)
	add("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("box", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: k.Box(n[0], n[1], n[2])}, nil
	})

	// (cylinder height radius)
	add("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("cylinder", args, "height", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: k.Cylinder(n[0], n[1], 32)}, nil
	})

	// (sphere radius)
	add("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("sphere", args, "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: k.Sphere(n[0])}, nil
	})

	// (union a b) (difference a b) (intersection a b)
	boolean := func(builtin string, op func(a, b kernel.Solid) kernel.Solid) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires 2 solids, got %d arguments", builtin, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &sexpSolid{solid: op(a, b)}, nil
		}
	}
	add("union", boolean("union", k.Union))
	add("difference", boolean("difference", k.Difference))
	add("intersection", boolean("intersection", k.Intersection))

	// (translate s (vec3 x y z)) (rotate s (vec3 x y z))
	transform := func(builtin string, op func(s kernel.Solid, x, y, z float64) kernel.Solid) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and an offset", builtin)
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			v, err := toVec3(args[1:])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &sexpSolid{solid: op(s, v.X, v.Y, v.Z)}, nil
		}
	}
	add("translate", transform("translate", k.Translate))
	add("rotate", transform("rotate", k.Rotate))

	// (tessellate s :name "part") returns the number of faces inserted.
	add("tessellate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("tessellate requires a solid argument")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		part := tessellate.Part{Solid: s}
		if v, ok := pa.kw["name"]; ok {
			if part.Name, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("tessellate: name: %w", err)
			}
		}
		opts := tessellate.Options{Logger: log}
		if indexer != nil {
			if opts.Indexer, err = indexer(); err != nil {
				return zygo.SexpNull, fmt.Errorf("tessellate: indexer: %w", err)
			}
		}
		report, err := tessellate.Into(m, k, []tessellate.Part{part}, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		return count(report.Faces), nil
	})
}
