// Package orientation aligns terrain-following actors to the ground.
package orientation

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// ErrDegenerateBasis is returned when the heading is parallel to the
// terrain normal and no forward direction can be derived.
var ErrDegenerateBasis = fmt.Errorf("%w: heading parallel to terrain normal", math.ErrPrecondition)

// DefaultVerticalOffset lifts actors slightly above the surface.
const DefaultVerticalOffset = 0.1

// Basis is an orthonormal frame. Up is always the terrain normal.
type Basis struct {
	Forward math.Vec3
	Right   math.Vec3
	Up      math.Vec3
}

// Placement is an actor's world position and orientation for one step.
type Placement struct {
	Basis
	Position math.Vec3
}

// World returns the model matrix. Model space is +X left, +Y up, +Z forward.
func (p Placement) World() math.Mat4 {
	return math.FromBasis(p.Right.Negate(), p.Up, p.Forward, p.Position)
}

// Aligner computes per-step placements on a terrain.
type Aligner struct {
	// HeadingAxis is rotated about +Y by the actor's yaw; forward is
	// HeadingAxis x normal. With +X, yaw 0 faces +Z.
	HeadingAxis math.Vec3
	// VerticalOffset is added to the terrain height at the new position.
	VerticalOffset float32
}

// NewAligner returns an aligner using +X as heading axis.
func NewAligner(verticalOffset float32) *Aligner {
	return &Aligner{
		HeadingAxis:    math.UnitX,
		VerticalOffset: verticalOffset,
	}
}

// Align orients an actor at position to the terrain and moves it
// speed*dt along its new forward direction. The returned position has Y
// snapped to the terrain height plus VerticalOffset.
func (a *Aligner) Align(q terrain.Query, position math.Vec3, yaw, speed, dt float32) (Placement, error) {
	basis, err := a.Orient(q, position, yaw)
	if err != nil {
		return Placement{}, err
	}

	next := position.Add(basis.Forward.Scale(speed * dt))
	height, err := q.HeightAt(next)
	if err != nil {
		return Placement{}, errors.Wrap(err, "terrain height at new position")
	}
	next.Y = height + a.VerticalOffset

	return Placement{Basis: basis, Position: next}, nil
}

// Orient returns the terrain-aligned basis at position for the given yaw.
func (a *Aligner) Orient(q terrain.Query, position math.Vec3, yaw float32) (Basis, error) {
	normal, err := q.NormalAt(position)
	if err != nil {
		return Basis{}, errors.Wrap(err, "terrain normal")
	}
	up, err := normal.NormalizeStrict()
	if err != nil {
		return Basis{}, errors.Wrap(err, "terrain normal")
	}

	heading := math.RotateY(yaw).TransformDirection(a.HeadingAxis)

	forward, err := heading.Cross(up).NormalizeStrict()
	if err != nil {
		return Basis{}, errors.Wrapf(ErrDegenerateBasis, "yaw %.3f", yaw)
	}
	right, err := forward.Cross(up).NormalizeStrict()
	if err != nil {
		return Basis{}, errors.Wrapf(ErrDegenerateBasis, "yaw %.3f", yaw)
	}

	return Basis{Forward: forward, Right: right, Up: up}, nil
}
