// Package terrain provides height-field storage and height/normal queries.
package terrain

import (
	"github.com/Faultbox/panzer3d/pkg/math"
)

// Sample is one grid node: its world position and unit surface normal.
type Sample struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Query answers terrain height and normal questions at world positions.
type Query interface {
	// HeightAt returns the terrain height under the (X, Z) of position.
	HeightAt(position math.Vec3) (float32, error)
	// NormalAt returns the unit surface normal under the (X, Z) of position.
	NormalAt(position math.Vec3) (math.Vec3, error)
}

// Bounds holds the XZ extent of a height field.
type Bounds struct {
	Min math.Vec2
	Max math.Vec2
}

// Contains reports whether p lies inside the bounds, edges included.
func (b Bounds) Contains(p math.Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
