// Package geom holds the voxel-space coordinate type shared by the tip
// locator, the reconciler and the DVID client.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is an integer voxel coordinate. It is comparable and used as a map key.
type Point struct {
	X, Y, Z int
}

// Pt is shorthand for Point{X: x, Y: y, Z: z}.
func Pt(x, y, z int) Point {
	return Point{X: x, Y: y, Z: z}
}

// Round converts a floating point position to the nearest voxel.
func Round(x, y, z float64) Point {
	return Point{
		X: int(math.Round(x)),
		Y: int(math.Round(y)),
		Z: int(math.Round(z)),
	}
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y, Z: p.Z + d.Z}
}

// String formats p as "(x, y, z)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Array returns p as [x, y, z].
func (p Point) Array() [3]int {
	return [3]int{p.X, p.Y, p.Z}
}

// MarshalJSON encodes p the way DVID does: [x, y, z].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Array())
}

// UnmarshalJSON decodes a three element integer array. A fractional
// coordinate is an error.
func (p *Point) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(v) != 3 {
		return fmt.Errorf("point: expected 3 coordinates, got %d", len(v))
	}
	for i, c := range v {
		if c != math.Trunc(c) {
			return fmt.Errorf("point: coordinate %d is not an integer: %v", i, c)
		}
	}
	*p = Point{X: int(v[0]), Y: int(v[1]), Z: int(v[2])}
	return nil
}

// unitOffsets is the fixed neighbour search order: +x, -x, +y, -y, +z, -z.
var unitOffsets = [6]Point{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Neighbors returns the six axis-aligned unit neighbours of p in search order.
func (p Point) Neighbors() [6]Point {
	var out [6]Point
	for i, d := range unitOffsets {
		out[i] = p.Add(d)
	}
	return out
}
