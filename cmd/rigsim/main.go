// Package main is the entry point for the headless rig simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pose/internal/config"
	"github.com/Faultbox/midgard-pose/internal/logger"
	"github.com/Faultbox/midgard-pose/internal/posescript"
	"github.com/Faultbox/midgard-pose/internal/sim"
)

var (
	flagScript    = flag.String("script", "", "Pose script to run before the loop starts")
	flagDuration  = flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	flagFrameRate = flag.Int("fps", 60, "Frames per second fed to the rig")
	flagWatch     = flag.Bool("watch", false, "Reload the skeleton file when it changes")
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

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Pose Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := sim.New(sim.Config{
		Rig:          cfg.Rig(),
		SkeletonPath: cfg.Skeleton.Path,
		Watch:        cfg.Skeleton.Watch || *flagWatch,
		FrameRate:    *flagFrameRate,
	}, logger.Named("sim"))
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *flagScript != "" {
		runner := posescript.New(s.Controller(), logger.Named("script"))
		if err := runner.RunFile(ctx, *flagScript); err != nil {
			logger.Error("script failed", zap.Error(err))
			os.Exit(1)
		}
	}

	if *flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flagDuration)
		defer cancel()
	}

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("simulation stopped",
		zap.Duration("wall", time.Since(start)),
		zap.Float64("simulated", s.Controller().Clock().Elapsed()),
		zap.Uint64("frames", s.Frames()),
	)
}
