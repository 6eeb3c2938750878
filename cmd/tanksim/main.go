// Package main is the entry point for the headless tank simulation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/panzer3d/internal/config"
	"github.com/Faultbox/panzer3d/internal/game"
	"github.com/Faultbox/panzer3d/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote config: %s\n", path)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Panzer3D Simulation ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create and run simulation
	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = g.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("simulation interrupted",
			zap.Uint64("ticks", g.World().Tick()),
			zap.Int("failed_ticks", g.Failures()))
	case err != nil:
		logger.Error("simulation stopped", zap.Error(err))
	default:
		logger.Info("simulation finished",
			zap.Uint64("ticks", g.World().Tick()),
			zap.Int("failed_ticks", g.Failures()))
	}
}
