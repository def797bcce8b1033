// Package geometry supplies the attribute payloads a mesh graph is generic
// over. A mesh is parameterized by one type per element kind (vertex, edge,
// face); the zero value of each type is its default, and a Conversion moves a
// whole mesh from one set of attribute types to another.
package geometry

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Unit is the empty attribute, used for element kinds that carry no data.
type Unit struct{}

// Position is a vertex attribute holding a point in 3D space.
type Position struct {
	v3.Vec
}

// NewPosition returns the position (x, y, z).
func NewPosition(x, y, z float64) Position {
	return Position{v3.Vec{X: x, Y: y, Z: z}}
}

// PositionKey is the equivalence key of a Position. Two positions with equal
// keys are the same vertex for indexing purposes.
type PositionKey [3]uint64

// Key returns the bit-exact equivalence key of p. Negative and positive zero
// compare equal; NaN components compare equal only to the identical bit
// pattern.
func (p Position) Key() PositionKey {
	return PositionKey{bits(p.X), bits(p.Y), bits(p.Z)}
}

// QuantizedKey returns a key that treats positions within the same grid
// cell of size quantum as equal. A non-positive quantum falls back to Key.
func (p Position) QuantizedKey(quantum float64) PositionKey {
	if quantum <= 0 {
		return p.Key()
	}
	q := func(f float64) uint64 {
		return bits(math.Round(f / quantum))
	}
	return PositionKey{q(p.X), q(p.Y), q(p.Z)}
}

func bits(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

// Translate returns p moved by (dx, dy, dz).
func (p Position) Translate(dx, dy, dz float64) Position {
	return Position{p.Add(v3.Vec{X: dx, Y: dy, Z: dz})}
}

// ToR3 converts p to a gonum vector.
func ToR3(p Position) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// FromR3 converts a gonum vector to a Position.
func FromR3(v r3.Vec) Position {
	return NewPosition(v.X, v.Y, v.Z)
}

// Float32 is a single precision point, the layout render buffers expect.
type Float32 [3]float32

// ToFloat32 narrows p to single precision.
func ToFloat32(p Position) Float32 {
	return Float32{float32(p.X), float32(p.Y), float32(p.Z)}
}

// FromFloat32 widens a single precision point.
func FromFloat32(f Float32) Position {
	return NewPosition(float64(f[0]), float64(f[1]), float64(f[2]))
}
