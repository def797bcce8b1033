// Package tessellate turns kernel solids into half-edge meshes. Each solid
// is tessellated by the kernel into a triangle soup, whose vertices are
// merged by an indexer and whose triangles are inserted as faces.
//
// Marching cubes output is not always a clean manifold. Triangles that
// collapse after vertex merging, or that would repeat a directed edge
// already in the mesh, are skipped and counted in the Report.
package tessellate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/index"
	"github.com/chazu/meshgraph/pkg/kernel"
)

// Mesh is the mesh type produced by tessellation.
type Mesh = graph.Mesh[geometry.Position, geometry.Unit, geometry.Unit]

// NewMesh returns an empty Mesh.
func NewMesh() *Mesh {
	return graph.New[geometry.Position, geometry.Unit, geometry.Unit]()
}

// Part is a solid placed in the output mesh. Rotation (Euler degrees) is
// applied before Translation.
type Part struct {
	Name        string
	Solid       kernel.Solid
	Rotation    [3]float64
	Translation [3]float64
}

func (p Part) label(i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", i)
}

// place applies the part's transforms to its solid.
func (p Part) place(k kernel.Kernel) kernel.Solid {
	s := p.Solid
	if r := p.Rotation; r != [3]float64{} {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if t := p.Translation; t != [3]float64{} {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	return s
}

// Options configures tessellation.
type Options struct {
	// Indexer merges triangle corners into vertices. Nil merges bit-exact
	// equal positions.
	Indexer index.Indexer[geometry.Position]

	// Merger carries vertex merging across Into calls on the same mesh.
	// When set, Indexer is ignored.
	Merger *Merger

	// Logger receives a debug entry per skipped triangle and a summary.
	// Nil uses the logrus standard logger.
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Indexer == nil {
		o.Indexer = index.NewHashIndexer(geometry.Position.Key)
	}
	if o.Merger == nil {
		o.Merger = NewMerger(o.Indexer)
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Report summarizes a tessellation.
type Report struct {
	Triangles  int // triangles produced by the kernel
	Faces      int // triangles inserted as faces
	Degenerate int // skipped: two corners merged into one vertex
	Duplicate  int // skipped: a directed edge already existed
	Unpaired   int // half-edges without an opposite in the result
}

// Skipped returns the number of triangles not inserted.
func (r Report) Skipped() int {
	return r.Degenerate + r.Duplicate
}

// Solid tessellates a single solid.
func Solid(k kernel.Kernel, s kernel.Solid, opts Options) (*Mesh, Report, error) {
	return Tessellate(k, []Part{{Solid: s}}, opts)
}

// Tessellate tessellates every part into one new mesh. Parts share the
// indexer, so coincident vertices of touching parts are merged.
func Tessellate(k kernel.Kernel, parts []Part, opts Options) (*Mesh, Report, error) {
	m := NewMesh()
	report, err := Into(m, k, parts, opts)
	if err != nil {
		return nil, report, err
	}
	return m, report, nil
}

// Into tessellates every part into an existing mesh. Vertices already in m
// are merged with new ones only when opts.Merger inserted them in an
// earlier call. On error m keeps the faces inserted so far.
func Into(m *Mesh, k kernel.Kernel, parts []Part, opts Options) (Report, error) {
	opts = opts.withDefaults()
	b := &builder{mesh: m, opts: opts}

	for i, p := range parts {
		if p.Solid == nil {
			return b.report, fmt.Errorf("tessellate: part %s has no solid", p.label(i))
		}
		flat, err := k.ToMesh(p.place(k))
		if err != nil {
			return b.report, fmt.Errorf("tessellate: part %s: %w", p.label(i), err)
		}
		log := opts.Logger.WithField("part", p.label(i))
		for _, tri := range flat.Triangles() {
			if err := b.add(tri, log); err != nil {
				return b.report, fmt.Errorf("tessellate: part %s: %w", p.label(i), err)
			}
		}
	}

	for e := range m.Edges() {
		edge, _ := m.Edge(e)
		if _, ok := edge.Opposite(); !ok {
			b.report.Unpaired++
		}
	}

	opts.Logger.WithFields(logrus.Fields{
		"parts":      len(parts),
		"triangles":  b.report.Triangles,
		"faces":      b.report.Faces,
		"degenerate": b.report.Degenerate,
		"duplicate":  b.report.Duplicate,
		"unpaired":   b.report.Unpaired,
		"vertices":   m.VertexCount(),
	}).Debug("tessellated")
	return b.report, nil
}

// Merger maps triangle corners to mesh vertices. It pairs an indexer with
// the vertex inserted for each index, so one Merger passed to several Into
// calls on the same mesh merges coincident corners across calls.
type Merger struct {
	indexer index.Indexer[geometry.Position]
	keys    map[int]graph.VertexKey
}

// NewMerger returns a Merger deduplicating through indexer. Nil merges
// bit-exact equal positions.
func NewMerger(indexer index.Indexer[geometry.Position]) *Merger {
	if indexer == nil {
		indexer = index.NewHashIndexer(geometry.Position.Key)
	}
	return &Merger{indexer: indexer, keys: make(map[int]graph.VertexKey)}
}

// Vertex returns the vertex of m for p, inserting one when the indexer has
// not seen p. An index with no live vertex in m, because the indexer was
// also used elsewhere or the vertex was removed, gets a new vertex.
func (mg *Merger) Vertex(m *Mesh, p geometry.Position) graph.VertexKey {
	i, _ := mg.indexer.Index(p)
	if key, ok := mg.keys[i]; ok {
		if _, live := m.Vertex(key); live {
			return key
		}
	}
	key := m.InsertVertex(p)
	mg.keys[i] = key
	return key
}

// builder accumulates triangles into a mesh.
type builder struct {
	mesh   *Mesh
	opts   Options
	report Report
}

func (b *builder) vertex(p geometry.Position) graph.VertexKey {
	return b.opts.Merger.Vertex(b.mesh, p)
}

func (b *builder) add(tri []geometry.Position, log logrus.FieldLogger) error {
	b.report.Triangles++
	var vs [3]graph.VertexKey
	for i, p := range tri {
		vs[i] = b.vertex(p)
	}

	if vs[0] == vs[1] || vs[1] == vs[2] || vs[2] == vs[0] {
		b.report.Degenerate++
		log.WithField("triangle", b.report.Triangles-1).Debug("skipping degenerate triangle")
		return nil
	}
	for i := range vs {
		if b.mesh.ContainsEdge(vs[i], vs[(i+1)%3]) {
			b.report.Duplicate++
			log.WithFields(logrus.Fields{
				"triangle": b.report.Triangles - 1,
				"edge":     graph.NewEdgeKey(vs[i], vs[(i+1)%3]).String(),
			}).Debug("skipping triangle with existing edge")
			return nil
		}
	}

	var edges [3]graph.EdgeKey
	for i := range vs {
		e, err := b.mesh.InsertEdge(vs[i], vs[(i+1)%3], geometry.Unit{})
		if err != nil {
			return err
		}
		edges[i] = e
	}
	if _, err := b.mesh.InsertFace(edges[:], geometry.Unit{}); err != nil {
		return err
	}
	b.report.Faces++
	return nil
}
