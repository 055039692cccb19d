package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockFixedSteps(t *testing.T) {
	c := NewClock(100, 10)
	var deltas []float64
	step := func(dt float64) { deltas = append(deltas, dt) }

	assert.Equal(t, 5, c.Advance(0.05, step))
	assert.Equal(t, 0, c.Advance(0.004, step))
	assert.Equal(t, 1, c.Advance(0.006, step))
	assert.Equal(t, 0, c.Advance(0, step))
	assert.Equal(t, 0, c.Advance(-1, step))

	assert.Len(t, deltas, 6)
	for _, dt := range deltas {
		assert.Equal(t, 0.01, dt)
	}
	assert.EqualValues(t, 6, c.Steps())
	assert.InDelta(t, 0.06, c.Elapsed(), 1e-12)
}

func TestClockSkipsBacklog(t *testing.T) {
	c := NewClock(2000, 100)
	n := 0
	step := func(float64) { n++ }

	assert.Equal(t, 100, c.Advance(30, step))
	assert.Equal(t, 100, n)
	assert.EqualValues(t, 60000, c.Steps())

	assert.Equal(t, 2, c.Advance(0.001, step))
}

func TestClockHooks(t *testing.T) {
	c := NewClock(10, 5)
	var order []string
	c.PreStep = func() { order = append(order, "pre") }
	c.PostStep = func() { order = append(order, "post") }

	c.Advance(0.2, func(float64) { order = append(order, "step") })
	assert.Equal(t, []string{"pre", "step", "post", "pre", "step", "post"}, order)
}
