// Package config handles rig configuration loading and management.
package config

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-pose/internal/rig"
)

// Config holds all simulator settings.
type Config struct {
	Physics  PhysicsConfig  `yaml:"physics"`
	Pinpoint PinpointConfig `yaml:"pinpoint"`
	Skeleton SkeletonConfig `yaml:"skeleton"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PhysicsConfig holds stepping and body material settings.
type PhysicsConfig struct {
	StepRate        int        `yaml:"step_rate"`
	DebugStepRate   int        `yaml:"debug_step_rate"` // Used with --debug
	MaxStepsPerTick int        `yaml:"max_steps_per_tick"`
	Iterations      int        `yaml:"iterations"`
	Density         float64    `yaml:"density"` // kg/m³
	Gravity         [3]float64 `yaml:"gravity"`
	LinearDamping   float64    `yaml:"linear_damping"`
	AngularDamping  float64    `yaml:"angular_damping"`
	Friction        float64    `yaml:"friction"`
	Restitution     float64    `yaml:"restitution"`
	JointERP        float64    `yaml:"joint_erp"`
	Floor           bool       `yaml:"floor"`
	FloorSize       float64    `yaml:"floor_size"`   // m
	FloorHeight     float64    `yaml:"floor_height"` // m
}

// PinpointConfig holds the soft constraint parameters for pins and drags.
type PinpointConfig struct {
	CFM float64 `yaml:"cfm"`
	ERP float64 `yaml:"erp"`
}

// SkeletonConfig selects the skeleton definition.
type SkeletonConfig struct {
	Path  string `yaml:"path"` // Empty means the built-in humanoid
	Watch bool   `yaml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Physics: PhysicsConfig{
			StepRate:        2000,
			DebugStepRate:   100,
			MaxStepsPerTick: 100,
			Iterations:      30,
			Density:         1900,
			LinearDamping:   1,
			AngularDamping:  1,
			Friction:        1,
			Restitution:     0,
			JointERP:        0.2,
			Floor:           true,
			FloorSize:       4,
			FloorHeight:     100,
		},
		Pinpoint: PinpointConfig{
			CFM: 0.5,
			ERP: 0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Rig converts the physics and pinpoint sections into controller settings.
func (c *Config) Rig() rig.Config {
	stepRate := c.Physics.StepRate
	if c.Logging.Level == "debug" && c.Physics.DebugStepRate > 0 {
		stepRate = c.Physics.DebugStepRate
	}
	return rig.Config{
		StepRate:        stepRate,
		MaxStepsPerTick: c.Physics.MaxStepsPerTick,
		Iterations:      c.Physics.Iterations,
		Density:         c.Physics.Density,
		Gravity:         mgl64.Vec3(c.Physics.Gravity),
		LinearDamping:   c.Physics.LinearDamping,
		AngularDamping:  c.Physics.AngularDamping,
		Friction:        c.Physics.Friction,
		Restitution:     c.Physics.Restitution,
		JointERP:        c.Physics.JointERP,
		Floor:           c.Physics.Floor,
		FloorSize:       c.Physics.FloorSize,
		FloorHeight:     c.Physics.FloorHeight,
		Pinpoint: rig.PinpointParams{
			CFM: c.Pinpoint.CFM,
			ERP: c.Pinpoint.ERP,
		},
	}
}
