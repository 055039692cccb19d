package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// DefaultErrorReduction is the fraction of positional error a joint
// corrects per step.
const DefaultErrorReduction = 0.2

// Constrainer is implemented by every joint type.
type Constrainer interface {
	PreStep(dt float64)
	ApplyCachedImpulse(dtCoef float64)
	ApplyImpulse(dt float64)
	GetImpulse() float64
}

// Constraint holds the state shared by all joints between two bodies.
type Constraint struct {
	Class Constrainer
	space *Space

	a, b *Body

	maxForce float64
	erp, cfm float64

	collideBodies bool

	UserData interface{}
}

// NewConstraint wraps a joint implementation. Both bodies must be non-nil.
func NewConstraint(class Constrainer, a, b *Body) *Constraint {
	return &Constraint{
		Class:         class,
		a:             a,
		b:             b,
		maxForce:      math.Inf(1),
		erp:           DefaultErrorReduction,
		collideBodies: true,
	}
}

// BodyA returns the first body.
func (c *Constraint) BodyA() *Body { return c.a }

// BodyB returns the second body.
func (c *Constraint) BodyB() *Body { return c.b }

// Space returns the space the constraint was added to, or nil.
func (c *Constraint) Space() *Space { return c.space }

// ActivateBodies wakes both bodies.
func (c *Constraint) ActivateBodies() {
	c.a.Activate()
	c.b.Activate()
}

// MaxForce returns the largest force the constraint may apply.
func (c *Constraint) MaxForce() float64 { return c.maxForce }

// SetMaxForce limits the force the constraint may apply.
func (c *Constraint) SetMaxForce(max float64) {
	c.ActivateBodies()
	c.maxForce = math.Max(max, 0)
}

// ErrorReduction returns the fraction of positional error corrected per step.
func (c *Constraint) ErrorReduction() float64 { return c.erp }

// SetErrorReduction sets the fraction of positional error corrected per step.
func (c *Constraint) SetErrorReduction(erp float64) {
	c.ActivateBodies()
	c.erp = pmath.Clamp(erp, 0, 1)
}

// Softness returns the constraint force mixing term.
func (c *Constraint) Softness() float64 { return c.cfm }

// SetSoftness sets the constraint force mixing term. Zero is a hard
// constraint; larger values let the joint stretch like a damped spring.
func (c *Constraint) SetSoftness(cfm float64) {
	c.ActivateBodies()
	c.cfm = math.Max(cfm, 0)
}

// CollideBodies reports whether the two bodies may still collide.
func (c *Constraint) CollideBodies() bool { return c.collideBodies }

// SetCollideBodies enables or disables collisions between the two bodies.
func (c *Constraint) SetCollideBodies(collide bool) {
	c.ActivateBodies()
	c.collideBodies = collide
}

func (c *Constraint) asleep() bool {
	return !c.a.movable() && !c.b.movable()
}

// Frame is a joint frame expressed in a body's local space.
type Frame struct {
	Origin mgl64.Vec3
	Basis  mgl64.Quat
}

// IdentityFrame returns a frame at origin with the body's own axes.
func IdentityFrame(origin mgl64.Vec3) Frame {
	return Frame{Origin: origin, Basis: mgl64.QuatIdent()}
}

// world returns the frame's orientation in world space for body b.
func (f Frame) world(b *Body) mgl64.Quat {
	return b.q.Mul(f.Basis).Normalize()
}

// k_tensor for a point-to-point constraint in 3D.
func kTensor(a, b *Body, r1, r2 mgl64.Vec3) mgl64.Mat3 {
	k := pmath.Diag(a.linearResponse().Add(b.linearResponse()))
	s1 := pmath.Skew(r1)
	s2 := pmath.Skew(r2)
	k = k.Sub(s1.Mul3(a.effectiveInvInertia()).Mul3(s1))
	k = k.Sub(s2.Mul3(b.effectiveInvInertia()).Mul3(s2))
	return k
}

func relativeVelocity(a, b *Body, r1, r2 mgl64.Vec3) mgl64.Vec3 {
	v1 := a.v.Add(a.w.Cross(r1))
	v2 := b.v.Add(b.w.Cross(r2))
	return v2.Sub(v1)
}

func applyImpulses(a, b *Body, r1, r2, j mgl64.Vec3) {
	a.applyImpulse(j.Mul(-1), r1)
	b.applyImpulse(j, r2)
}

func applyAngularImpulses(a, b *Body, t mgl64.Vec3) {
	a.applyAngularImpulse(t.Mul(-1))
	b.applyAngularImpulse(t)
}

func clampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.Len(); l > max {
		return v.Mul(max / l)
	}
	return v
}

// limitState is the side of a limit range the position is on.
type limitState int

const (
	limitFree limitState = iota
	limitLower
	limitUpper
	limitLocked
)

// lockedRange is the width under which a limit range counts as a lock.
const lockedRange = 1e-9

// angularRow solves one rotational degree of freedom. The row measures
// (ωb - ωa)·axis.
type angularRow struct {
	axis    mgl64.Vec3
	effMass float64
	bias    float64
	jAcc    float64
	lo, hi  float64
	state   limitState
}

func (r *angularRow) setAxis(a, b *Body, axis mgl64.Vec3) {
	r.axis = axis
	k := axis.Dot(a.angularResponse(axis)) + axis.Dot(b.angularResponse(axis))
	if k > 1e-12 {
		r.effMass = 1 / k
	} else {
		r.effMass = 0
	}
}

// prepareLock drives the position toward target with no impulse bounds.
func (r *angularRow) prepareLock(pos, target, erp, dt float64) {
	r.state = limitLocked
	r.bias = erp * (target - pos) / dt
	r.lo, r.hi = math.Inf(-1), math.Inf(1)
}

// prepareLimit keeps the position inside [low, high].
func (r *angularRow) prepareLimit(pos, low, high, erp, dt float64) {
	state := limitFree
	switch {
	case high-low < lockedRange:
		state = limitLocked
	case pos <= low:
		state = limitLower
	case pos >= high:
		state = limitUpper
	}
	if state != r.state {
		r.jAcc = 0
	}
	r.state = state

	switch state {
	case limitFree:
		r.bias = 0
	case limitLocked:
		r.bias = erp * (low - pos) / dt
		r.lo, r.hi = math.Inf(-1), math.Inf(1)
	case limitLower:
		r.bias = erp * (low - pos) / dt
		r.lo, r.hi = 0, math.Inf(1)
	case limitUpper:
		r.bias = erp * (high - pos) / dt
		r.lo, r.hi = math.Inf(-1), 0
	}
}

func (r *angularRow) applyCached(a, b *Body, dtCoef float64) {
	if r.state == limitFree {
		return
	}
	r.jAcc *= dtCoef
	applyAngularImpulses(a, b, r.axis.Mul(r.jAcc))
}

func (r *angularRow) apply(a, b *Body, maxImpulse float64) {
	if r.state == limitFree || r.effMass == 0 {
		return
	}
	wr := b.w.Sub(a.w).Dot(r.axis)
	j := (r.bias - wr) * r.effMass
	jOld := r.jAcc
	r.jAcc = pmath.Clamp(jOld+j, math.Max(r.lo, -maxImpulse), math.Min(r.hi, maxImpulse))
	applyAngularImpulses(a, b, r.axis.Mul(r.jAcc-jOld))
}

// pointLock keeps two body-local anchor points together.
type pointLock struct {
	r1, r2 mgl64.Vec3
	k      mgl64.Mat3
	bias   mgl64.Vec3
	jAcc   mgl64.Vec3
	gamma  float64
}

func (l *pointLock) prepare(a, b *Body, anchorA, anchorB mgl64.Vec3, erp, dt float64) {
	l.prepareSoft(a, b, anchorA, anchorB, erp, 0, dt)
}

func (l *pointLock) prepareSoft(a, b *Body, anchorA, anchorB mgl64.Vec3, erp, cfm, dt float64) {
	l.r1 = a.q.Rotate(anchorA)
	l.r2 = b.q.Rotate(anchorB)

	k := kTensor(a, b, l.r1, l.r2)
	if cfm > 0 {
		k = k.Add(mgl64.Ident3().Mul(cfm))
	}
	l.k = pmath.SafeInverse3(k)
	l.gamma = cfm

	delta := b.p.Add(l.r2).Sub(a.p.Add(l.r1))
	l.bias = delta.Mul(-erp / dt)
}

func (l *pointLock) applyCached(a, b *Body, dtCoef float64) {
	l.jAcc = l.jAcc.Mul(dtCoef)
	applyImpulses(a, b, l.r1, l.r2, l.jAcc)
}

func (l *pointLock) apply(a, b *Body, maxImpulse float64) {
	vr := relativeVelocity(a, b, l.r1, l.r2)

	j := l.k.Mul3x1(l.bias.Sub(vr).Sub(l.jAcc.Mul(l.gamma)))
	jOld := l.jAcc
	l.jAcc = clampLength(l.jAcc.Add(j), maxImpulse)
	j = l.jAcc.Sub(jOld)

	applyImpulses(a, b, l.r1, l.r2, j)
}
