// Package physics is a small 3-D rigid-body engine: oriented boxes,
// impulse-based joints with limits and soft point constraints, box contacts
// with friction, and ray queries.
//
// A Space is not safe for concurrent use.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Defaults used by NewSpace.
const (
	DefaultIterations    = 10
	DefaultCollisionSlop = 0.001
)

// CollisionFilterFunc decides whether two bodies may generate contacts.
type CollisionFilterFunc func(a, b *Body) bool

// Space is a simulation world.
type Space struct {
	// Iterations is the number of solver passes per step.
	Iterations int

	gravity mgl64.Vec3

	// SleepTimeThreshold is how long a body must be idle before it sleeps.
	SleepTimeThreshold float64
	// IdleSpeedThreshold is the speed under which a body counts as idle.
	IdleSpeedThreshold float64

	collisionSlop float64
	collisionBias float64

	stamp  uint
	currDt float64
	nextID int
	filter CollisionFilterFunc
	locked bool

	bodies      []*Body
	constraints []*Constraint
	arbiters    []*Arbiter
}

// NewSpace creates an empty space with zero gravity.
func NewSpace() *Space {
	return &Space{
		Iterations:         DefaultIterations,
		SleepTimeThreshold: math.Inf(1),
		IdleSpeedThreshold: 0.01,
		collisionSlop:      DefaultCollisionSlop,
		collisionBias:      math.Pow(0.9, 60),
	}
}

// Gravity returns the gravity vector.
func (space *Space) Gravity() mgl64.Vec3 { return space.gravity }

// SetGravity sets the gravity vector and wakes every body.
func (space *Space) SetGravity(g mgl64.Vec3) {
	space.gravity = g
	for _, b := range space.bodies {
		b.Activate()
	}
}

// CollisionSlop returns the penetration allowed before contacts push apart.
func (space *Space) CollisionSlop() float64 { return space.collisionSlop }

// SetCollisionSlop sets the allowed penetration depth.
func (space *Space) SetCollisionSlop(slop float64) { space.collisionSlop = math.Max(slop, 0) }

// SetCollisionBias sets the fraction of overlap left after one second.
func (space *Space) SetCollisionBias(bias float64) { space.collisionBias = bias }

// SetCollisionFilter installs a pair filter called after the bounding
// box test. A nil filter lets every pair collide.
func (space *Space) SetCollisionFilter(f CollisionFilterFunc) { space.filter = f }

// Bodies returns the bodies in insertion order.
func (space *Space) Bodies() []*Body { return space.bodies }

// Constraints returns the constraints in insertion order.
func (space *Space) Constraints() []*Constraint { return space.constraints }

// Arbiters returns the contact sets found by the last step.
func (space *Space) Arbiters() []*Arbiter { return space.arbiters }

// Stamp returns the number of steps taken.
func (space *Space) Stamp() uint { return space.stamp }

// ContainsBody reports whether body was added to this space.
func (space *Space) ContainsBody(body *Body) bool { return body.space == space }

// ContainsConstraint reports whether c was added to this space.
func (space *Space) ContainsConstraint(c *Constraint) bool { return c.space == space }

// AddBody adds a body and assigns its id.
func (space *Space) AddBody(body *Body) *Body {
	if body.space == space {
		return body
	}
	space.assertUnlocked()
	body.id = space.nextID
	space.nextID++
	body.space = space
	body.updateWorldInertia()
	space.bodies = append(space.bodies, body)
	return body
}

// RemoveBody removes a body along with every constraint attached to it.
func (space *Space) RemoveBody(body *Body) {
	if body.space != space {
		return
	}
	space.assertUnlocked()
	for len(body.constraints) > 0 {
		space.RemoveConstraint(body.constraints[0])
	}
	for i, b := range space.bodies {
		if b == body {
			space.bodies = append(space.bodies[:i], space.bodies[i+1:]...)
			break
		}
	}
	body.space = nil
}

// AddConstraint adds a constraint. Both bodies must already be in the space.
func (space *Space) AddConstraint(c *Constraint) *Constraint {
	if c.space == space {
		return c
	}
	space.assertUnlocked()
	if c.a.space != space || c.b.space != space {
		panic("physics: constraint bodies must be added to the space first")
	}
	c.ActivateBodies()
	c.space = space
	c.a.constraints = append(c.a.constraints, c)
	c.b.constraints = append(c.b.constraints, c)
	space.constraints = append(space.constraints, c)
	return c
}

// RemoveConstraint removes a constraint from the space.
func (space *Space) RemoveConstraint(c *Constraint) {
	if c.space != space {
		return
	}
	space.assertUnlocked()
	c.ActivateBodies()
	c.a.removeConstraint(c)
	c.b.removeConstraint(c)
	for i, other := range space.constraints {
		if other == c {
			space.constraints = append(space.constraints[:i], space.constraints[i+1:]...)
			break
		}
	}
	c.space = nil
}

func (space *Space) assertUnlocked() {
	if space.locked {
		panic("physics: space modified during a step")
	}
}

// Step advances the simulation by dt seconds.
func (space *Space) Step(dt float64) {
	if dt == 0 {
		return
	}

	space.stamp++

	prevDt := space.currDt
	space.currDt = dt

	space.locked = true
	defer func() { space.locked = false }()

	space.wakeConstrained()
	space.collide()

	// Prestep the arbiters and constraints.
	slop := space.collisionSlop
	biasCoef := 1 - math.Pow(space.collisionBias, dt)
	for _, arb := range space.arbiters {
		arb.PreStep(dt, slop, biasCoef)
	}
	for _, c := range space.constraints {
		if c.asleep() {
			continue
		}
		c.Class.PreStep(dt)
	}

	// Integrate velocities.
	for _, body := range space.bodies {
		body.updateVelocity(space.gravity, dt)
	}

	// Apply cached impulses.
	var dtCoef float64
	if prevDt != 0 {
		dtCoef = dt / prevDt
	}
	for _, c := range space.constraints {
		if c.asleep() {
			continue
		}
		c.Class.ApplyCachedImpulse(dtCoef)
	}

	// Run the impulse solver.
	for i := 0; i < space.Iterations; i++ {
		for _, arb := range space.arbiters {
			arb.ApplyImpulse()
		}
		for _, c := range space.constraints {
			if c.asleep() {
				continue
			}
			c.Class.ApplyImpulse(dt)
		}
	}

	for _, body := range space.bodies {
		body.updatePosition(dt)
	}

	space.updateSleeping(dt)
}

// wakeConstrained propagates wakefulness across constraints so that a
// sleeping body never holds an awake one.
func (space *Space) wakeConstrained() {
	for _, c := range space.constraints {
		a, b := c.a, c.b
		if a.sleeping && b.typ == BodyDynamic && !b.sleeping && b.invMass > 0 {
			a.Activate()
		}
		if b.sleeping && a.typ == BodyDynamic && !a.sleeping && a.invMass > 0 {
			b.Activate()
		}
	}
}

func (space *Space) updateSleeping(dt float64) {
	if math.IsInf(space.SleepTimeThreshold, 1) {
		return
	}
	threshold := space.IdleSpeedThreshold * space.IdleSpeedThreshold
	for _, body := range space.bodies {
		if body.typ != BodyDynamic || body.sleeping {
			continue
		}
		if !body.sleepingAllowed || body.v.LenSqr() > threshold || body.w.LenSqr() > threshold {
			body.idleTime = 0
			continue
		}
		body.idleTime += dt
		if body.idleTime > space.SleepTimeThreshold {
			body.sleeping = true
			body.v, body.w = mgl64.Vec3{}, mgl64.Vec3{}
		}
	}
}

// QueryRejectConstraints reports whether a joint between a and b disables
// their collisions.
func QueryRejectConstraints(a, b *Body) bool {
	for _, c := range a.constraints {
		if !c.collideBodies && ((c.a == a && c.b == b) || (c.b == a && c.a == b)) {
			return true
		}
	}
	return false
}

// collide runs the broad and narrow phase and rebuilds the arbiter list.
func (space *Space) collide() {
	space.arbiters = space.arbiters[:0]
	n := len(space.bodies)
	boxes := make([]AABB, n)
	for i, body := range space.bodies {
		boxes[i] = body.AABB()
	}
	for i := 0; i < n; i++ {
		a := space.bodies[i]
		if a.shape == nil {
			continue
		}
		for j := i + 1; j < n; j++ {
			b := space.bodies[j]
			if b.shape == nil || (!a.movable() && !b.movable()) {
				continue
			}
			if !boxes[i].Intersects(boxes[j]) {
				continue
			}
			if space.filter != nil && !space.filter(a, b) {
				continue
			}
			if QueryRejectConstraints(a, b) {
				continue
			}
			normal, points, ok := collideBoxes(a, b)
			if !ok {
				continue
			}
			if a.sleeping {
				a.Activate()
			}
			if b.sleeping {
				b.Activate()
			}
			space.arbiters = append(space.arbiters, newArbiter(a, b, normal, points))
		}
	}
}
