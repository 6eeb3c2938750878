package logger

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/panzer3d/pkg/math"
)

// Vec3 logs a vector as an object with x, y and z keys.
func Vec3(key string, v math.Vec3) zap.Field {
	return zap.Object(key, zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddFloat32("x", v.X)
		enc.AddFloat32("y", v.Y)
		enc.AddFloat32("z", v.Z)
		return nil
	}))
}

// Degrees logs an angle given in radians as degrees.
func Degrees(key string, rad float32) zap.Field {
	return zap.Float32(key, rad*180/math32.Pi)
}
