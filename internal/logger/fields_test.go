package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/panzer3d/pkg/math"
)

func TestDomainFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	defer func() { Log = prev }()

	Named("world").Info("tank spawned",
		Vec3("position", math.Vec3{X: 1, Y: 2.5, Z: -3}),
		Degrees("yaw", 0.5*3.14159265))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "world" {
		t.Errorf("expected logger name world, got %q", e.LoggerName)
	}

	ctx := e.ContextMap()
	pos, ok := ctx["position"].(map[string]interface{})
	if !ok {
		t.Fatalf("position should encode as an object, got %T", ctx["position"])
	}
	if pos["x"] != float32(1) || pos["y"] != float32(2.5) || pos["z"] != float32(-3) {
		t.Errorf("unexpected position %v", pos)
	}

	yaw, ok := ctx["yaw"].(float32)
	if !ok || yaw < 89.99 || yaw > 90.01 {
		t.Errorf("expected yaw 90 degrees, got %v", ctx["yaw"])
	}
}
