package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec2Add(t *testing.T) {
	assert.Equal(t, Vec2{4, 6}, Vec2{1, 2}.Add(Vec2{3, 4}))
}

func TestVec2Length(t *testing.T) {
	assert.Equal(t, float32(5), Vec2{3, 4}.Length())
}

func TestVec2GroundPlane(t *testing.T) {
	p := Vec2{X: 7, Y: -2}
	assert.Equal(t, Vec3{7, 3, -2}, p.AtHeight(3))
	assert.Equal(t, p, p.AtHeight(3).XZ())
	assert.Equal(t, float32(5), Vec2{1, 1}.Distance(Vec2{4, 5}))
	assert.Equal(t, Vec2{2, 6}, Vec2{2, 4}.Sub(Vec2{1, 1}).Scale(2))
}

func TestVec3Cross(t *testing.T) {
	assert.Equal(t, UnitZ, UnitX.Cross(UnitY))
	// Anticommutative
	assert.Equal(t, UnitZ.Negate(), UnitY.Cross(UnitX))
}

func TestVec3NormalizeStrict(t *testing.T) {
	n, err := Vec3{0, 10, 0}.NormalizeStrict()
	require.NoError(t, err)
	assert.Equal(t, UnitY, n)

	n, err = Vec3{3, 0, 4}.NormalizeStrict()
	require.NoError(t, err)
	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.True(t, n.ApproxEqual(Vec3{0.6, 0, 0.8}, 1e-6), "got %v", n)

	_, err = Vec3{1e-9, 0, 0}.NormalizeStrict()
	assert.ErrorIs(t, err, ErrZeroVector)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = Vec3{}.NormalizeStrict()
	assert.ErrorIs(t, err, ErrZeroVector)
}
