// Package shapes produces small polygon streams used to exercise mesh
// construction. Polygons are wound consistently so that adjacent polygons
// traverse their shared edge in opposite directions.
package shapes

import (
	"math"

	"github.com/chazu/meshgraph/pkg/geometry"
)

// UVSphere returns the polygons of a unit sphere with the given number of
// segments (around the polar axis) and rings (pole to pole). Polygons
// touching a pole are triangles; the rest are quads. Ring vertices are
// computed from wrapped indices so shared positions compare exactly equal.
func UVSphere(segments, rings int) [][]geometry.Position {
	if segments < 3 || rings < 2 {
		return nil
	}
	vertex := func(u, v int) geometry.Position {
		switch v {
		case 0:
			return geometry.NewPosition(0, 0, 1)
		case rings:
			return geometry.NewPosition(0, 0, -1)
		}
		theta := 2 * math.Pi * float64(u%segments) / float64(segments)
		phi := math.Pi * float64(v) / float64(rings)
		return geometry.NewPosition(
			math.Sin(phi)*math.Cos(theta),
			math.Sin(phi)*math.Sin(theta),
			math.Cos(phi),
		)
	}

	var polygons [][]geometry.Position
	for v := 0; v < rings; v++ {
		for u := 0; u < segments; u++ {
			switch v {
			case 0:
				polygons = append(polygons, []geometry.Position{
					vertex(u, 0), vertex(u, 1), vertex(u+1, 1),
				})
			case rings - 1:
				polygons = append(polygons, []geometry.Position{
					vertex(u, rings), vertex(u+1, v), vertex(u, v),
				})
			default:
				polygons = append(polygons, []geometry.Position{
					vertex(u, v), vertex(u, v+1), vertex(u+1, v+1), vertex(u+1, v),
				})
			}
		}
	}
	return polygons
}

// cubeQuads lists the corner indices of each cube face. Corner i has
// x, y, z set from bits 2, 1, 0 of i.
var cubeQuads = [6][4]int{
	{5, 7, 3, 1}, // front
	{6, 7, 5, 4}, // right
	{3, 7, 6, 2}, // top
	{0, 1, 3, 2}, // left
	{4, 5, 1, 0}, // bottom
	{0, 2, 6, 4}, // back
}

// Cube returns the six quads of a unit cube centered at the origin.
func Cube() [][]geometry.Position {
	corner := func(i int) geometry.Position {
		c := func(bit int) float64 {
			if i&bit != 0 {
				return 0.5
			}
			return -0.5
		}
		return geometry.NewPosition(c(0b100), c(0b010), c(0b001))
	}
	polygons := make([][]geometry.Position, 0, len(cubeQuads))
	for _, q := range cubeQuads {
		polygons = append(polygons, []geometry.Position{
			corner(q[0]), corner(q[1]), corner(q[2]), corner(q[3]),
		})
	}
	return polygons
}
