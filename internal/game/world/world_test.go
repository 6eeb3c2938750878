package world

import (
	stdmath "math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/internal/game/entity"
	"github.com/Faultbox/panzer3d/pkg/math"
)

func testOptions() Options {
	return Options{
		Limits: entity.Limits{
			MoveSpeed:  5,
			TurnRate:   stdmath.Pi / 2,
			TurretRate: 2.4,
			CannonRate: 2.4,
			TurretMin:  -1.5,
			TurretMax:  1.5,
			CannonMin:  -1,
			CannonMax:  -0.3,
		},
		Rig:            entity.Rig{Scale: 1},
		VerticalOffset: 0.1,
		HullExtents:    math.Vec3{X: 1, Y: 1, Z: 1},
		Workers:        2,
	}
}

func newFlatWorld(t *testing.T) *World {
	t.Helper()
	hf, err := terrain.NewFlat(41, 41, 1, math.Vec2{X: -20, Y: -20}, 10)
	require.NoError(t, err)
	return New(hf, testOptions())
}

func TestSpawnSnapsToTerrain(t *testing.T) {
	w := newFlatWorld(t)

	tank, err := w.Spawn("tank", 3, -4, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.1, tank.Position.Y, 1e-5)

	got, ok := w.Tank(tank.ID)
	assert.True(t, ok)
	assert.Same(t, tank, got)
	assert.Len(t, w.Tanks(), 1)
}

func TestSpawnOutOfBounds(t *testing.T) {
	w := newFlatWorld(t)
	_, err := w.Spawn("tank", 100, 0, 0)
	assert.ErrorIs(t, err, terrain.ErrOutOfBounds)
	assert.Empty(t, w.Tanks())
}

func TestSetCommandUnknown(t *testing.T) {
	w := newFlatWorld(t)
	err := w.SetCommand(uuid.New(), entity.Command{Throttle: 1})
	assert.ErrorIs(t, err, ErrUnknownTank)
}

func TestStepMovesTanks(t *testing.T) {
	w := newFlatWorld(t)

	var tanks []*entity.Tank
	for i := range 5 {
		tank, err := w.Spawn("tank", float32(i*2-4), 0, 0)
		require.NoError(t, err)
		tanks = append(tanks, tank)
	}
	// Half throttle for the first tank, the rest stand still
	require.NoError(t, w.SetCommand(tanks[0].ID, entity.Command{Throttle: 0.5}))

	for range 10 {
		require.NoError(t, w.Step(0.1))
	}
	assert.Equal(t, uint64(10), w.Tick())

	assert.InDelta(t, 2.5, tanks[0].Position.Z, 1e-4)
	assert.InDelta(t, 10.1, tanks[0].Position.Y, 1e-5)
	for _, tank := range tanks[1:] {
		assert.InDelta(t, 0, tank.Position.Z, 1e-6)
	}
}

func TestStepFailureIsolated(t *testing.T) {
	w := newFlatWorld(t)

	edge, err := w.Spawn("tank", 0, 19, 0)
	require.NoError(t, err)
	mover, err := w.Spawn("tank", 5, 0, 0)
	require.NoError(t, err)

	require.NoError(t, w.SetCommand(edge.ID, entity.Command{Throttle: 1}))
	require.NoError(t, w.SetCommand(mover.ID, entity.Command{Throttle: 1}))

	before := edge.Position
	err = w.Step(1)
	assert.ErrorIs(t, err, terrain.ErrOutOfBounds)

	assert.Equal(t, before, edge.Position)
	assert.InDelta(t, 5, mover.Position.Z, 1e-4)
	assert.Equal(t, uint64(1), w.Tick())
}

func TestTurningTankCircles(t *testing.T) {
	w := newFlatWorld(t)
	tank, err := w.Spawn("tank", 0, 0, 0)
	require.NoError(t, err)

	// Full turn at full speed: 4 seconds at pi/2 rad/s
	require.NoError(t, w.SetCommand(tank.ID, entity.Command{Turn: 1, Throttle: 1}))
	for range 400 {
		require.NoError(t, w.Step(0.01))
	}

	// Back near the start after one lap
	assert.InDelta(t, 0, tank.Position.X, 0.1)
	assert.InDelta(t, 0, tank.Position.Z, 0.1)
}

func TestSnapshots(t *testing.T) {
	w := newFlatWorld(t)
	a, err := w.Spawn("alpha", 0, 0, 0)
	require.NoError(t, err)
	b, err := w.Spawn("bravo", 2, 2, 1)
	require.NoError(t, err)

	snaps := w.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, a.ID, snaps[0].ID)
	assert.Equal(t, "bravo", snaps[1].MeshID)

	yaw, _, _ := math.ExtractEulerAngles(snaps[1].World)
	assert.InDelta(t, b.Yaw, yaw, 1e-5)
	assert.Equal(t, b.Position, snaps[1].World.Translation())
}

func TestAimHitsTank(t *testing.T) {
	w := newFlatWorld(t)
	shooter, err := w.Spawn("tank", 0, 0, 0)
	require.NoError(t, err)
	target, err := w.Spawn("tank", 0, 10, 0)
	require.NoError(t, err)
	// Off to the side
	_, err = w.Spawn("tank", 5, 5, 0)
	require.NoError(t, err)

	hit, ok, err := w.Aim(shooter.ID, 50)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, target.ID, hit.Target)
	assert.InDelta(t, 9, hit.Distance, 1e-4)
	assert.InDelta(t, 9, hit.Point.Z, 1e-4)

	// Out of range
	_, ok, err = w.Aim(shooter.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAimHitsTerrain(t *testing.T) {
	w := newFlatWorld(t)
	shooter, err := w.Spawn("tank", 0, 0, 0)
	require.NoError(t, err)
	_, err = w.Spawn("tank", 0, 10, 0)
	require.NoError(t, err)

	// Lowered barrel hits the ground before the other tank
	shooter.CannonPitch = 0.3
	hit, ok, err := w.Aim(shooter.ID, 50)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uuid.Nil, hit.Target)
	assert.InDelta(t, 0.1/stdmath.Sin(0.3), hit.Distance, 1e-3)
	assert.InDelta(t, 10, hit.Point.Y, 1e-3)
}

func TestAimAboveTerrain(t *testing.T) {
	w := newFlatWorld(t)
	shooter, err := w.Spawn("tank", 0, 0, 0)
	require.NoError(t, err)

	// Raised barrel never comes back down to the field
	shooter.CannonPitch = -0.5
	_, ok, err := w.Aim(shooter.ID, 1000)
	require.NoError(t, err)
	assert.False(t, ok)

	// Shallow descent reaches the ground past the range
	shooter.CannonPitch = 0.01
	_, ok, err = w.Aim(shooter.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	hit, ok, err := w.Aim(shooter.ID, 30)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.1/stdmath.Sin(0.01), hit.Distance, 1e-2)
}

func TestAimUnknownTank(t *testing.T) {
	w := newFlatWorld(t)
	_, _, err := w.Aim(uuid.New(), 10)
	assert.ErrorIs(t, err, ErrUnknownTank)
}
