package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/math"
)

func TestNewRayNormalizes(t *testing.T) {
	r, err := NewRay(math.Vec3{}, math.Vec3{X: 3, Z: 4})
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Direction.Length(), 1e-6)
	assert.True(t, r.At(5).ApproxEqual(math.Vec3{X: 3, Z: 4}, 1e-5))

	_, err = NewRay(math.Vec3{}, math.Vec3{})
	assert.ErrorIs(t, err, math.ErrZeroVector)
}

func TestIntersectPlaneY(t *testing.T) {
	r, err := NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1, Y: -1})
	require.NoError(t, err)

	d, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	p := r.At(d)
	assert.InDelta(t, 10, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, 0, p.Z, 1e-6)

	// Plane behind the ray
	_, ok = r.IntersectPlaneY(20)
	assert.False(t, ok)

	flat := Ray{Direction: math.UnitX}
	_, ok = flat.IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	assert.Equal(t, math.Vec3{X: -1, Y: -1, Z: -1}, box.Min)

	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		want   float32
		hit    bool
	}{
		{"hit from front", math.Vec3{Z: -5}, math.UnitZ, 4, true},
		{"inside returns exit", math.Vec3{}, math.UnitX, 1, true},
		{"pointing away", math.Vec3{Z: -5}, math.UnitZ.Negate(), 0, false},
		{"parallel outside", math.Vec3{Y: 3, Z: -5}, math.UnitZ, 0, false},
		{"miss diagonal", math.Vec3{X: -5, Z: -5}, math.Vec3{X: -1, Z: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRay(tt.origin, tt.dir)
			require.NoError(t, err)
			got, hit := r.IntersectAABB(box)
			assert.Equal(t, tt.hit, hit)
			assert.InDelta(t, tt.want, got, 1e-5)
		})
	}
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(math.Vec3{X: 5, Y: 1}, math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, math.Vec3{X: 4, Y: -1, Z: -3}, box.Min)
	assert.Equal(t, math.Vec3{X: 6, Y: 3, Z: 3}, box.Max)
	assert.True(t, box.Contains(math.Vec3{X: 6, Y: 0, Z: 0}))
	assert.False(t, box.Contains(math.Vec3{X: 6.1}))
}

func TestRaycastTerrain(t *testing.T) {
	hf, err := terrain.NewFlat(21, 21, 1, math.Vec2{X: -10, Y: -10}, 2)
	require.NoError(t, err)

	// 45 degrees down from 3 units above the ground
	r, err := NewRay(math.Vec3{Y: 5}, math.Vec3{Z: 1, Y: -1})
	require.NoError(t, err)

	d, hit, err := RaycastTerrain(hf, r, 20, 0.5)
	require.NoError(t, err)
	require.True(t, hit)
	p := r.At(d)
	assert.InDelta(t, 2, p.Y, 1e-3)
	assert.InDelta(t, 3, p.Z, 1e-3)
}

func TestRaycastTerrainMiss(t *testing.T) {
	hf, err := terrain.NewFlat(21, 21, 1, math.Vec2{X: -10, Y: -10}, 0)
	require.NoError(t, err)

	// Level shot leaves the field
	r, err := NewRay(math.Vec3{Y: 1}, math.UnitX)
	require.NoError(t, err)
	_, hit, err := RaycastTerrain(hf, r, 100, 0.5)
	require.NoError(t, err)
	assert.False(t, hit)

	// Range too short
	r, err = NewRay(math.Vec3{Y: 1}, math.Vec3{X: 1, Y: -0.1})
	require.NoError(t, err)
	_, hit, err = RaycastTerrain(hf, r, 5, 0.5)
	require.NoError(t, err)
	assert.False(t, hit)

	// Starting underground
	r, err = NewRay(math.Vec3{Y: -1}, math.UnitX)
	require.NoError(t, err)
	d, hit, err := RaycastTerrain(hf, r, 5, 0.5)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Zero(t, d)

	_, _, err = RaycastTerrain(hf, r, 5, 0)
	assert.ErrorIs(t, err, math.ErrPrecondition)
}

func TestRaycastTerrainFrom(t *testing.T) {
	hf, err := terrain.NewFlat(21, 21, 1, math.Vec2{X: -10, Y: -10}, 2)
	require.NoError(t, err)
	r, err := NewRay(math.Vec3{Y: 5}, math.Vec3{Z: 1, Y: -1})
	require.NoError(t, err)

	want, hit, err := RaycastTerrain(hf, r, 20, 0.5)
	require.NoError(t, err)
	require.True(t, hit)

	// Starting partway agrees with the full march
	d, hit, err := RaycastTerrainFrom(hf, r, 2.1, 20, 0.5)
	require.NoError(t, err)
	require.True(t, hit)
	assert.InDelta(t, want, d, 1e-3)

	// Starting below the surface reports the start distance
	d, hit, err = RaycastTerrainFrom(hf, r, 5, 20, 0.5)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, float32(5), d)

	// Start past the range
	_, hit, err = RaycastTerrainFrom(hf, r, 21, 20, 0.5)
	require.NoError(t, err)
	assert.False(t, hit)
}
