package rig

import "github.com/go-gl/mathgl/mgl64"

// Config controls how a skeleton is turned into a simulated rig.
type Config struct {
	// StepRate is the number of fixed physics steps per simulated second.
	StepRate int
	// MaxStepsPerTick bounds the catch-up work done by one Tick.
	MaxStepsPerTick int
	// Iterations is the number of solver passes per step.
	Iterations int

	// Density converts bone volume (m³) to mass (kg).
	Density float64
	Gravity mgl64.Vec3

	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64

	// JointERP is the positional error fraction joints correct per step.
	JointERP float64

	// Floor adds a static solid box under the rest pose.
	Floor       bool
	FloorSize   float64
	FloorHeight float64

	Pinpoint PinpointParams
}

// PinpointParams tune the soft point constraint used for pins and drags.
type PinpointParams struct {
	CFM float64
	ERP float64
}

// DefaultConfig returns the settings of the interactive editor: a stiff,
// heavily damped, gravity-free rig stepped at 2 kHz.
func DefaultConfig() Config {
	return Config{
		StepRate:        2000,
		MaxStepsPerTick: 100,
		Iterations:      30,
		Density:         1900,
		Gravity:         mgl64.Vec3{},
		LinearDamping:   1,
		AngularDamping:  1,
		Friction:        1,
		Restitution:     0,
		JointERP:        0.2,
		Floor:           true,
		FloorSize:       4,
		FloorHeight:     100,
		Pinpoint: PinpointParams{
			CFM: 0.5,
			ERP: 0.1,
		},
	}
}
