// Package world owns the terrain and the tanks driving on it.
package world

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/panzer3d/internal/engine/orientation"
	"github.com/Faultbox/panzer3d/internal/engine/picking"
	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/internal/game/entity"
	"github.com/Faultbox/panzer3d/internal/logger"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// ErrUnknownTank is returned for commands addressed to a missing tank.
var ErrUnknownTank = errors.New("unknown tank")

// Options configures a World.
type Options struct {
	Limits         entity.Limits
	Rig            entity.Rig
	VerticalOffset float32
	// HullExtents are the half sizes of the box other tanks' fire can hit.
	HullExtents math.Vec3
	// Workers bounds the tanks updated in parallel. Zero or less means
	// one goroutine per tank.
	Workers int
}

// World runs the simulation. The terrain is read-only once the world
// exists; Step updates tanks in parallel, each goroutine touching only
// its own tank. World methods must be called from one goroutine.
type World struct {
	field   *terrain.HeightField
	aligner *orientation.Aligner
	opts    Options
	log     *zap.Logger

	tanks    []*entity.Tank
	byID     map[uuid.UUID]*entity.Tank
	commands map[uuid.UUID]entity.Command
	tick     uint64
}

// New creates a world on the given terrain.
func New(field *terrain.HeightField, opts Options) *World {
	return &World{
		field:    field,
		aligner:  orientation.NewAligner(opts.VerticalOffset),
		opts:     opts,
		log:      logger.Named("world"),
		byID:     make(map[uuid.UUID]*entity.Tank),
		commands: make(map[uuid.UUID]entity.Command),
	}
}

// Terrain returns the world's height field.
func (w *World) Terrain() *terrain.HeightField {
	return w.field
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Tanks returns the tanks in spawn order.
func (w *World) Tanks() []*entity.Tank {
	out := make([]*entity.Tank, len(w.tanks))
	copy(out, w.tanks)
	return out
}

// Tank looks up a tank by id.
func (w *World) Tank(id uuid.UUID) (*entity.Tank, bool) {
	t, ok := w.byID[id]
	return t, ok
}

// Spawn places a new tank at (x, z) facing yaw, aligned to the terrain.
func (w *World) Spawn(meshID string, x, z, yaw float32) (*entity.Tank, error) {
	t := entity.NewTank(meshID, math.Vec2{X: x, Y: z}.AtHeight(0), yaw)
	if err := t.Advance(w.aligner, w.field, 0); err != nil {
		return nil, errors.Wrapf(err, "spawn at (%.2f, %.2f)", x, z)
	}

	w.tanks = append(w.tanks, t)
	w.byID[t.ID] = t

	w.log.Info("tank spawned",
		zap.Stringer("id", t.ID),
		zap.String("mesh", meshID),
		logger.Vec3("position", t.Position),
		logger.Degrees("yaw", yaw))
	return t, nil
}

// SetCommand sets the command a tank follows from the next step on.
func (w *World) SetCommand(id uuid.UUID, cmd entity.Command) error {
	if _, ok := w.byID[id]; !ok {
		return errors.Wrapf(ErrUnknownTank, "%s", id)
	}
	w.commands[id] = cmd.Clamped()
	return nil
}

// Step advances every tank by dt seconds. A tank whose update fails
// keeps its previous state; the other tanks still move. The first
// failure is returned once all tanks are done.
func (w *World) Step(dt float32) error {
	var g errgroup.Group
	if w.opts.Workers > 0 {
		g.SetLimit(w.opts.Workers)
	}

	var mu sync.Mutex
	failed := 0

	for _, t := range w.tanks {
		cmd := w.commands[t.ID]
		g.Go(func() error {
			if err := t.Update(cmd, w.opts.Limits, w.aligner, w.field, dt); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				w.log.Warn("tank update failed",
					zap.Stringer("id", t.ID),
					zap.Uint64("tick", w.tick),
					zap.Error(err))
				return errors.Wrapf(err, "tank %s", t.ID)
			}
			return nil
		})
	}

	err := g.Wait()
	w.tick++

	w.log.Debug("tick",
		zap.Uint64("tick", w.tick),
		zap.Int("tanks", len(w.tanks)),
		zap.Int("failed", failed))
	return err
}

// Snapshots returns the render data for every tank in spawn order.
func (w *World) Snapshots() []entity.Snapshot {
	out := make([]entity.Snapshot, len(w.tanks))
	for i, t := range w.tanks {
		out[i] = t.Snapshot(w.opts.Rig)
	}
	return out
}

// aimStep is the marching step used for line-of-fire terrain tests.
const aimStep = 0.25

// Hit describes where a tank's line of fire ends.
type Hit struct {
	Point    math.Vec3
	Distance float32
	Target   uuid.UUID // uuid.Nil when the terrain is hit
}

// Aim casts the cannon ray of tank id up to maxRange and returns the
// first tank hull or terrain point it reaches. ok is false when the
// ray hits nothing in range.
func (w *World) Aim(id uuid.UUID, maxRange float32) (hit Hit, ok bool, err error) {
	shooter, found := w.byID[id]
	if !found {
		return Hit{}, false, errors.Wrapf(ErrUnknownTank, "%s", id)
	}

	ray, err := shooter.Snapshot(w.opts.Rig).Muzzle()
	if err != nil {
		return Hit{}, false, errors.Wrapf(err, "muzzle of %s", id)
	}

	hit, ok, err = w.aimTerrain(ray, maxRange)
	if err != nil {
		return Hit{}, false, errors.Wrapf(err, "line of fire of %s", id)
	}

	for _, t := range w.tanks {
		if t == shooter {
			continue
		}
		box := picking.BoxAround(t.Position, w.opts.HullExtents)
		td, boxHit := ray.IntersectAABB(box)
		if !boxHit || td > maxRange || (ok && td >= hit.Distance) {
			continue
		}
		hit = Hit{Point: ray.At(td), Distance: td, Target: t.ID}
		ok = true
	}
	return hit, ok, nil
}

// aimTerrain marches the line of fire over the terrain. A muzzle above the
// highest node cannot touch the surface before the ray descends to that
// height, so the march starts there or is skipped entirely.
func (w *World) aimTerrain(ray picking.Ray, maxRange float32) (Hit, bool, error) {
	var from float32
	if _, peak := w.field.HeightRange(); ray.Origin.Y > peak {
		t, down := ray.IntersectPlaneY(peak)
		if !down || t > maxRange {
			return Hit{}, false, nil
		}
		from = t
	}

	d, ok, err := picking.RaycastTerrainFrom(w.field, ray, from, maxRange, aimStep)
	if err != nil || !ok {
		return Hit{}, false, err
	}
	return Hit{Point: ray.At(d), Distance: d}, true, nil
}
