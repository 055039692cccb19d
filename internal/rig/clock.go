package rig

import "math"

// Clock turns variable frame deltas into fixed simulation steps.
type Clock struct {
	StepRate        int
	MaxStepsPerTick int

	// PreStep and PostStep run around every fixed step when set.
	PreStep  func()
	PostStep func()

	elapsed float64
	done    uint64
}

// NewClock creates a clock running stepRate steps per simulated second.
func NewClock(stepRate, maxStepsPerTick int) *Clock {
	if stepRate <= 0 {
		stepRate = 1
	}
	if maxStepsPerTick <= 0 {
		maxStepsPerTick = 1
	}
	return &Clock{StepRate: stepRate, MaxStepsPerTick: maxStepsPerTick}
}

// FixedDelta returns the duration of one step in seconds.
func (c *Clock) FixedDelta() float64 {
	return 1 / float64(c.StepRate)
}

// Elapsed returns the accumulated simulation time.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Steps returns the number of steps counted so far, including skipped ones.
func (c *Clock) Steps() uint64 { return c.done }

// Advance adds dt to the elapsed time and calls step once per fixed step
// now due. A backlog larger than MaxStepsPerTick is dropped, keeping only
// the most recent steps. It returns the number of steps run.
func (c *Clock) Advance(dt float64, step func(dt float64)) int {
	if dt > 0 {
		c.elapsed += dt
	}
	target := uint64(math.Floor(c.elapsed*float64(c.StepRate) + 1e-9))
	if c.done+uint64(c.MaxStepsPerTick) < target {
		c.done = target - uint64(c.MaxStepsPerTick)
	}

	fixed := c.FixedDelta()
	n := 0
	for ; c.done < target; c.done++ {
		if c.PreStep != nil {
			c.PreStep()
		}
		step(fixed)
		if c.PostStep != nil {
			c.PostStep()
		}
		n++
	}
	return n
}
