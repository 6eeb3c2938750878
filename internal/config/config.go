// Package config handles simulation configuration loading and management.
package config

import (
	"fmt"
	gomath "math"
)

// Config holds all simulation settings.
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Tank       TankConfig       `yaml:"tank"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TerrainConfig holds height field settings.
type TerrainConfig struct {
	Path        string  `yaml:"path"`         // .hfd file or heightmap image; empty generates flat terrain
	CellSize    float32 `yaml:"cell_size"`    // World units between grid nodes
	HeightScale float32 `yaml:"height_scale"` // World units per luminance step (images only)
	FlatHeight  float32 `yaml:"flat_height"`
	Columns     int     `yaml:"columns"`
	Rows        int     `yaml:"rows"`
}

// TankConfig holds tank handling and model rig settings.
type TankConfig struct {
	Mesh           string     `yaml:"mesh"`
	MoveSpeed      float32    `yaml:"move_speed"`  // units per second
	TurnRate       float32    `yaml:"turn_rate"`   // radians per second
	TurretRate     float32    `yaml:"turret_rate"` // radians per second
	CannonRate     float32    `yaml:"cannon_rate"` // radians per second
	TurretMin      float32    `yaml:"turret_min"`
	TurretMax      float32    `yaml:"turret_max"`
	CannonMin      float32    `yaml:"cannon_min"`
	CannonMax      float32    `yaml:"cannon_max"`
	VerticalOffset float32    `yaml:"vertical_offset"`
	Scale          float32    `yaml:"scale"`
	TurretOffset   [3]float32 `yaml:"turret_offset,flow"`
	CannonOffset   [3]float32 `yaml:"cannon_offset,flow"`
	HullExtents    [3]float32 `yaml:"hull_extents,flow"` // half sizes in world units
	AimRange       float32    `yaml:"aim_range"`
}

// SimulationConfig holds tick loop settings.
type SimulationConfig struct {
	TickRate int `yaml:"tick_rate"` // ticks per second
	Ticks    int `yaml:"ticks"`     // ticks to run
	Workers  int `yaml:"workers"`   // parallel tank updates
	Tanks    int `yaml:"tanks"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			CellSize:    1,
			HeightScale: 0.03,
			Columns:     128,
			Rows:        128,
		},
		Tank: TankConfig{
			Mesh:           "tank",
			MoveSpeed:      5,
			TurnRate:       gomath.Pi / 2,
			TurretRate:     2.4,
			CannonRate:     2.4,
			TurretMin:      -1.5,
			TurretMax:      1.5,
			CannonMin:      -1,
			CannonMax:      -0.3,
			VerticalOffset: 0.1,
			Scale:          0.01,
			TurretOffset:   [3]float32{0, 450, -80},
			CannonOffset:   [3]float32{0, 200, 140},
			HullExtents:    [3]float32{1.6, 1.2, 2.4},
			AimRange:       100,
		},
		Simulation: SimulationConfig{
			TickRate: 60,
			Ticks:    600,
			Workers:  4,
			Tanks:    2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values the simulation cannot run with.
func (c *Config) Validate() error {
	if !(c.Terrain.CellSize > 0) {
		return fmt.Errorf("terrain.cell_size must be positive, got %v", c.Terrain.CellSize)
	}
	if c.Terrain.Path == "" && (c.Terrain.Columns < 2 || c.Terrain.Rows < 2) {
		return fmt.Errorf("terrain grid must be at least 2x2, got %dx%d", c.Terrain.Columns, c.Terrain.Rows)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Simulation.Tanks < 0 {
		return fmt.Errorf("simulation.tanks must not be negative, got %d", c.Simulation.Tanks)
	}
	if c.Tank.TurretMin > c.Tank.TurretMax {
		return fmt.Errorf("tank.turret_min %v exceeds turret_max %v", c.Tank.TurretMin, c.Tank.TurretMax)
	}
	if c.Tank.CannonMin > c.Tank.CannonMax {
		return fmt.Errorf("tank.cannon_min %v exceeds cannon_max %v", c.Tank.CannonMin, c.Tank.CannonMax)
	}
	for i, e := range c.Tank.HullExtents {
		if e < 0 {
			return fmt.Errorf("tank.hull_extents[%d] must not be negative, got %v", i, e)
		}
	}
	if c.Tank.AimRange < 0 {
		return fmt.Errorf("tank.aim_range must not be negative, got %v", c.Tank.AimRange)
	}
	return nil
}

// TickSeconds returns the duration of one tick in seconds.
func (c *Config) TickSeconds() float32 {
	return 1 / float32(c.Simulation.TickRate)
}
