// Package picking provides ray casting against terrain and bounding boxes.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// bisectSteps refines a terrain crossing found by marching.
const bisectSteps = 16

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewRay creates a ray, normalizing direction.
func NewRay(origin, direction math.Vec3) (Ray, error) {
	dir, err := direction.NormalizeStrict()
	if err != nil {
		return Ray{}, errors.Wrap(err, "ray direction")
	}
	return Ray{Origin: origin, Direction: dir}, nil
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY returns the distance along the ray to the horizontal
// plane at planeY. ok is false when the ray runs parallel to the plane or
// the plane lies behind the origin.
func (r Ray) IntersectPlaneY(planeY float32) (t float32, ok bool) {
	if math32.Abs(r.Direction.Y) < math.Epsilon {
		return 0, false
	}

	t = (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := components(r.Origin)
	dir := components(r.Direction)
	lo, hi := components(box.Min), components(box.Max)

	for axis := range 3 {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// BoxAround returns the box centered on center with the given half extents.
func BoxAround(center, halfExtents math.Vec3) AABB {
	return NewAABB(center.Sub(halfExtents), center.Add(halfExtents))
}

// Contains reports whether p lies inside the box, faces included.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// RaycastTerrain marches the ray over q in increments of step up to
// maxDist and returns the distance where it first reaches the surface.
// Leaving the terrain counts as a miss.
func RaycastTerrain(q terrain.Query, r Ray, maxDist, step float32) (float32, bool, error) {
	return RaycastTerrainFrom(q, r, 0, maxDist, step)
}

// RaycastTerrainFrom is RaycastTerrain with the march starting at distance
// from instead of the ray origin. The caller guarantees the ray is above the
// surface before from.
func RaycastTerrainFrom(q terrain.Query, r Ray, from, maxDist, step float32) (float32, bool, error) {
	if !(step > 0) {
		return 0, false, errors.Wrapf(math.ErrPrecondition, "raycast step %v", step)
	}

	below := func(t float32) (bool, error) {
		p := r.At(t)
		h, err := q.HeightAt(p)
		if err != nil {
			return false, err
		}
		return p.Y <= h, nil
	}

	prev := from
	for t := from; t <= maxDist; t += step {
		hit, err := below(t)
		if errors.Is(err, terrain.ErrOutOfBounds) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		if !hit {
			prev = t
			continue
		}
		if t == from {
			return t, true, nil
		}

		// Crossing lies in (prev, t]
		lo, hi := prev, t
		for range bisectSteps {
			mid := (lo + hi) / 2
			under, err := below(mid)
			if err != nil {
				return 0, false, err
			}
			if under {
				hi = mid
			} else {
				lo = mid
			}
		}
		return hi, true, nil
	}
	return 0, false, nil
}

func components(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
