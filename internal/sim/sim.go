// Package sim runs a rig in real time and keeps it in step with its
// skeleton file.
package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pose/internal/rig"
	"github.com/Faultbox/midgard-pose/internal/skeleton"
)

// Config holds session settings.
type Config struct {
	Rig rig.Config
	// SkeletonPath is the definition file; empty selects the humanoid.
	SkeletonPath string
	// Watch reloads the skeleton whenever its file changes.
	Watch bool
	// FrameRate is how often wall-clock time is fed to the rig.
	FrameRate int
}

// Sim owns a controller and the loop that advances it.
type Sim struct {
	cfg     Config
	log     *zap.Logger
	ctrl    *rig.Controller
	watcher *skeleton.Watcher
	frames  uint64
}

// New loads the skeleton and builds the rig.
func New(cfg Config, log *zap.Logger) (*Sim, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 60
	}

	log.Info("initializing simulation",
		zap.String("skeleton", skeletonName(cfg.SkeletonPath)),
		zap.Int("step_rate", cfg.Rig.StepRate),
		zap.Int("frame_rate", cfg.FrameRate),
	)

	s := &Sim{cfg: cfg, log: log}

	ctrl, err := s.build()
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl

	if cfg.Watch && cfg.SkeletonPath != "" {
		s.watcher, err = skeleton.WatchFile(cfg.SkeletonPath)
		if err != nil {
			s.ctrl.Close()
			return nil, fmt.Errorf("failed to watch skeleton: %w", err)
		}
	}

	return s, nil
}

func (s *Sim) build() (*rig.Controller, error) {
	skel, err := skeleton.Load(s.cfg.SkeletonPath)
	if err != nil {
		return nil, err
	}
	ctrl, err := rig.New(skel, s.cfg.Rig, s.log.Named("rig"))
	if err != nil {
		return nil, fmt.Errorf("failed to build rig: %w", err)
	}
	return ctrl, nil
}

// Controller returns the current rig. Reload replaces it.
func (s *Sim) Controller() *rig.Controller { return s.ctrl }

// Frames returns how many frames Run has processed.
func (s *Sim) Frames() uint64 { return s.frames }

// Reload rebuilds the rig from the skeleton file and carries the current
// pose over by bone name. On error the old rig stays in place.
func (s *Sim) Reload() error {
	snap := s.ctrl.Snapshot()

	ctrl, err := s.build()
	if err != nil {
		s.log.Warn("skeleton reload failed, keeping current rig", zap.Error(err))
		return err
	}

	s.ctrl.Close()
	s.ctrl = ctrl
	s.ctrl.Restore(snap)
	s.log.Info("skeleton reloaded", zap.Int("bones", len(ctrl.Bones())))
	return nil
}

// Run feeds wall-clock deltas to the rig until ctx is done.
func (s *Sim) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FrameRate))
	defer ticker.Stop()

	var events <-chan string
	var errs <-chan error
	if s.watcher != nil {
		events = s.watcher.Events
		errs = s.watcher.Errors
	}

	lastTime := time.Now()
	frameCount := 0
	statsTimer := lastTime

	s.log.Info("starting simulation loop")

	for {
		select {
		case <-ctx.Done():
			return nil

		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.log.Debug("skeleton changed", zap.String("path", path))
			_ = s.Reload()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			s.update(dt)

			frameCount++
			if now.Sub(statsTimer) >= time.Second {
				s.log.Debug("frame stats",
					zap.Int("fps", frameCount),
					zap.Uint64("steps", s.ctrl.Clock().Steps()),
					zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				)
				frameCount = 0
				statsTimer = now
			}
		}
	}
}

// update advances the rig by one frame.
func (s *Sim) update(dt float64) int {
	s.frames++
	return s.ctrl.Tick(dt)
}

// Close stops watching and drops the rig.
func (s *Sim) Close() {
	s.log.Info("closing simulation")

	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.ctrl != nil {
		s.ctrl.Close()
	}
}

func skeletonName(path string) string {
	if path == "" {
		return skeleton.HumanoidName
	}
	return path
}
