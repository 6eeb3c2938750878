// Package entity implements simulation actors.
package entity

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/Faultbox/panzer3d/internal/engine/orientation"
	"github.com/Faultbox/panzer3d/internal/engine/picking"
	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// Command is the desired control input for one tick, computed upstream.
// All axes are in [-1, 1].
type Command struct {
	Turn       float32 // positive turns left (yaw increases)
	Throttle   float32 // positive drives forward
	TurretTurn float32 // positive rotates the turret left
	CannonTilt float32 // positive increases pitch, lowering the muzzle
}

// Clamped returns the command with every axis limited to [-1, 1].
func (c Command) Clamped() Command {
	return Command{
		Turn:       clampf(c.Turn, -1, 1),
		Throttle:   clampf(c.Throttle, -1, 1),
		TurretTurn: clampf(c.TurretTurn, -1, 1),
		CannonTilt: clampf(c.CannonTilt, -1, 1),
	}
}

// Limits holds the tank handling parameters.
type Limits struct {
	MoveSpeed  float32 // world units per second at full throttle
	TurnRate   float32 // radians per second at full turn
	TurretRate float32 // radians per second
	CannonRate float32 // radians per second
	TurretMin  float32
	TurretMax  float32
	CannonMin  float32
	CannonMax  float32
}

// Rig describes how the tank model is assembled for rendering.
type Rig struct {
	Scale        float32
	TurretOffset math.Vec3 // turret pivot in model space
	CannonOffset math.Vec3 // cannon pivot in turret space
}

// Tank is a terrain-following tank. It holds semantic state only;
// rendering reads it through Snapshot.
type Tank struct {
	ID          uuid.UUID
	MeshID      string
	Position    math.Vec3
	Yaw         float32
	Speed       float32
	TurretYaw   float32
	CannonPitch float32

	// Placement is the result of the last successful step.
	Placement orientation.Placement
}

// NewTank creates a tank standing upright at position.
func NewTank(meshID string, position math.Vec3, yaw float32) *Tank {
	rot := math.RotateY(yaw)
	return &Tank{
		ID:       uuid.New(),
		MeshID:   meshID,
		Position: position,
		Yaw:      yaw,
		Placement: orientation.Placement{
			Basis: orientation.Basis{
				Forward: rot.TransformDirection(math.UnitZ),
				Right:   rot.TransformDirection(math.UnitX.Negate()),
				Up:      math.UnitY,
			},
			Position: position,
		},
	}
}

// Steer applies a command to heading, speed, turret and cannon.
func (t *Tank) Steer(cmd Command, limits Limits, dt float32) {
	cmd = cmd.Clamped()
	t.Yaw = wrapAngle(t.Yaw + cmd.Turn*limits.TurnRate*dt)
	t.Speed = cmd.Throttle * limits.MoveSpeed
	t.TurretYaw = clampf(t.TurretYaw+cmd.TurretTurn*limits.TurretRate*dt, limits.TurretMin, limits.TurretMax)
	t.CannonPitch = clampf(t.CannonPitch+cmd.CannonTilt*limits.CannonRate*dt, limits.CannonMin, limits.CannonMax)
}

// Advance aligns the tank to the terrain and moves it by Speed*dt.
// On error the tank is left unchanged.
func (t *Tank) Advance(a *orientation.Aligner, q terrain.Query, dt float32) error {
	p, err := a.Align(q, t.Position, t.Yaw, t.Speed, dt)
	if err != nil {
		return err
	}
	t.Placement = p
	t.Position = p.Position
	return nil
}

// Update steers and advances the tank as one step. On error the tank
// keeps its previous state, including heading and turret.
func (t *Tank) Update(cmd Command, limits Limits, a *orientation.Aligner, q terrain.Query, dt float32) error {
	next := *t
	next.Steer(cmd, limits, dt)
	if err := next.Advance(a, q, dt); err != nil {
		return err
	}
	*t = next
	return nil
}

// Snapshot is the per-tick data handed to the renderer.
type Snapshot struct {
	ID     uuid.UUID
	MeshID string
	World  math.Mat4 // model to world, scale included
	Turret math.Mat4 // turret bone, relative to the hull
	Cannon math.Mat4 // cannon bone, relative to the turret
}

// Snapshot returns the render transforms for the current state.
func (t *Tank) Snapshot(rig Rig) Snapshot {
	scale := rig.Scale
	if scale == 0 {
		scale = 1
	}
	turret := math.QuatFromAxisAngle(math.UnitY, t.TurretYaw).ToMat4()

	return Snapshot{
		ID:     t.ID,
		MeshID: t.MeshID,
		World:  t.Placement.World().Mul(math.Scale(scale, scale, scale)),
		Turret: math.TranslateVec3(rig.TurretOffset).Mul(turret),
		Cannon: math.TranslateVec3(rig.CannonOffset).Mul(math.RotateX(t.CannonPitch)),
	}
}

// Muzzle returns the ray along the cannon barrel in world space.
// The barrel points along the cannon bone's +Z axis.
func (s Snapshot) Muzzle() (picking.Ray, error) {
	m := s.World.Mul(s.Turret).Mul(s.Cannon)
	return picking.NewRay(m.Translation(), m.TransformDirection(math.UnitZ))
}

// wrapAngle keeps an angle in (-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a <= -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
