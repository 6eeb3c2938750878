package math

import "github.com/chewxy/math32"

// YawPitchRoll returns RotateY(yaw) * RotateX(pitch) * RotateZ(roll).
// Roll is applied first, yaw last.
func YawPitchRoll(yaw, pitch, roll float32) Mat4 {
	return RotateY(yaw).Mul(RotateX(pitch)).Mul(RotateZ(roll))
}

// ExtractEulerAngles recovers the angles of a YawPitchRoll rotation.
//
// Only the upper 3x3 block is read. The result is exact for pitch strictly
// inside (-pi/2, pi/2); at gimbal lock yaw and roll are not separable and
// the returned pair is arbitrary.
func ExtractEulerAngles(m Mat4) (yaw, pitch, roll float32) {
	yaw = math32.Atan2(m.At(0, 2), m.At(2, 2))
	pitch = math32.Asin(clamp(-m.At(1, 2), -1, 1))
	roll = math32.Atan2(m.At(1, 0), m.At(1, 1))
	return yaw, pitch, roll
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
