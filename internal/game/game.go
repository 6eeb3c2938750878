// Package game runs the headless tank simulation loop.
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/panzer3d/internal/config"
	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/internal/game/entity"
	"github.com/Faultbox/panzer3d/internal/game/world"
	"github.com/Faultbox/panzer3d/internal/logger"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// sweepPeriod is how many seconds the turret and cannon sweep one way.
const sweepPeriod = 2

// Game is the simulation instance.
type Game struct {
	config *config.Config
	world  *world.World
	log    *zap.Logger
	failed int
}

// Options converts the tank and simulation sections of cfg to world options.
func Options(cfg *config.Config) world.Options {
	t := cfg.Tank
	return world.Options{
		Limits: entity.Limits{
			MoveSpeed:  t.MoveSpeed,
			TurnRate:   t.TurnRate,
			TurretRate: t.TurretRate,
			CannonRate: t.CannonRate,
			TurretMin:  t.TurretMin,
			TurretMax:  t.TurretMax,
			CannonMin:  t.CannonMin,
			CannonMax:  t.CannonMax,
		},
		Rig: entity.Rig{
			Scale:        t.Scale,
			TurretOffset: vec3(t.TurretOffset),
			CannonOffset: vec3(t.CannonOffset),
		},
		VerticalOffset: t.VerticalOffset,
		HullExtents:    vec3(t.HullExtents),
		Workers:        cfg.Simulation.Workers,
	}
}

// New loads the terrain and spawns the configured tanks.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing simulation",
		zap.String("terrain", cfg.Terrain.Path),
		zap.Int("tanks", cfg.Simulation.Tanks),
		zap.Int("ticks", cfg.Simulation.Ticks),
	)

	field, err := terrain.Load(terrain.LoadOptions{
		Path:        cfg.Terrain.Path,
		CellSize:    cfg.Terrain.CellSize,
		HeightScale: cfg.Terrain.HeightScale,
		FlatHeight:  cfg.Terrain.FlatHeight,
		Columns:     cfg.Terrain.Columns,
		Rows:        cfg.Terrain.Rows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load terrain: %w", err)
	}

	lo, hi := field.HeightRange()
	b := field.Bounds()
	log.Info("terrain loaded",
		zap.Int("columns", field.Columns()),
		zap.Int("rows", field.Rows()),
		zap.Float32("min_height", lo),
		zap.Float32("max_height", hi),
		zap.Float32("min_x", b.Min.X),
		zap.Float32("max_x", b.Max.X),
	)

	g := &Game{
		config: cfg,
		world:  world.New(field, Options(cfg)),
		log:    log,
	}

	// Tanks line up along X through the middle of the field.
	n := cfg.Simulation.Tanks
	midZ := (b.Min.Y + b.Max.Y) / 2
	for i := range n {
		x := b.Min.X + (b.Max.X-b.Min.X)*float32(i+1)/float32(n+1)
		if _, err := g.world.Spawn(cfg.Tank.Mesh, x, midZ, 0); err != nil {
			return nil, fmt.Errorf("failed to spawn tank %d: %w", i, err)
		}
	}

	log.Info("simulation initialized successfully")
	return g, nil
}

// World returns the simulated world.
func (g *Game) World() *world.World {
	return g.world
}

// Failures returns how many ticks had at least one failed tank update.
func (g *Game) Failures() int {
	return g.failed
}

// Run simulates the configured number of ticks or until ctx is done.
// A failed tank update is logged and the tank holds still for that tick.
// The final tank report is logged either way; a stopped run returns
// ctx.Err().
func (g *Game) Run(ctx context.Context) error {
	dt := g.config.TickSeconds()
	g.log.Info("starting simulation loop", zap.Float32("dt", dt))

	var err error
	for range g.config.Simulation.Ticks {
		if err = ctx.Err(); err != nil {
			break
		}

		if tickErr := g.update(dt); tickErr != nil {
			g.failed++
			g.log.Debug("tick had failures", zap.Error(tickErr))
		}
	}

	g.report()
	return err
}

// Close releases simulation resources.
func (g *Game) Close() {
	g.log.Info("closing simulation", zap.Uint64("ticks", g.world.Tick()))
}

// update assigns scripted commands and steps the world.
func (g *Game) update(dt float32) error {
	elapsed := float32(g.world.Tick()) * dt
	for i, t := range g.world.Tanks() {
		if err := g.world.SetCommand(t.ID, script(i, elapsed)); err != nil {
			return err
		}
	}
	return g.world.Step(dt)
}

// script drives tank i in a wide circle, alternating direction per tank,
// while its turret and cannon sweep back and forth.
func script(i int, elapsed float32) entity.Command {
	turn := float32(0.25)
	if i%2 == 1 {
		turn = -turn
	}
	sweep := float32(1)
	if int(elapsed/sweepPeriod)%2 == 1 {
		sweep = -1
	}
	return entity.Command{
		Turn:       turn,
		Throttle:   1,
		TurretTurn: sweep,
		CannonTilt: -sweep,
	}
}

// report logs the final pose and line of fire of every tank.
func (g *Game) report() {
	for _, s := range g.world.Snapshots() {
		yaw, pitch, roll := math.ExtractEulerAngles(s.World)
		fields := []zap.Field{
			zap.Stringer("id", s.ID),
			logger.Vec3("position", s.World.Translation()),
			logger.Degrees("yaw", yaw),
			logger.Degrees("pitch", pitch),
			logger.Degrees("roll", roll),
		}

		hit, ok, err := g.world.Aim(s.ID, g.config.Tank.AimRange)
		switch {
		case err != nil:
			fields = append(fields, zap.NamedError("aim", err))
		case ok && hit.Target != uuid.Nil:
			fields = append(fields, zap.Stringer("aim_target", hit.Target), zap.Float32("aim_distance", hit.Distance))
		case ok:
			fields = append(fields, zap.String("aim_target", "terrain"), zap.Float32("aim_distance", hit.Distance))
		}
		g.log.Info("tank", fields...)
	}
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
