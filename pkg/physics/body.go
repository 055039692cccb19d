package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// BodyType controls how the solver treats a body.
type BodyType int

const (
	// BodyDynamic bodies are moved by forces, impulses and constraints.
	BodyDynamic BodyType = iota
	// BodyKinematic bodies are moved only by the user and are never pushed.
	BodyKinematic
	// BodyStatic bodies never move.
	BodyStatic
)

// MaxAngularStep caps the rotation a body may integrate in one step.
const MaxAngularStep = math.Pi / 4

// Body is a rigid body with an optional box shape.
type Body struct {
	id  int
	typ BodyType

	shape *Box

	mass, invMass   float64
	inertia         mgl64.Vec3 // principal moments in the body frame
	invInertia      mgl64.Vec3
	invInertiaWorld mgl64.Mat3

	p mgl64.Vec3
	q mgl64.Quat
	v mgl64.Vec3
	w mgl64.Vec3

	linearFactor  mgl64.Vec3
	angularFactor mgl64.Vec3

	linearDamping, angularDamping float64
	friction, restitution         float64

	UserData interface{}

	space       *Space
	constraints []*Constraint

	sleepingAllowed bool
	sleeping        bool
	idleTime        float64
}

func (b *Body) String() string {
	return fmt.Sprint("Body ", b.id)
}

// NewBody creates a dynamic body. The inertia is derived from the shape.
func NewBody(mass float64, shape *Box) *Body {
	body := &Body{
		typ:             BodyDynamic,
		shape:           shape,
		q:               mgl64.QuatIdent(),
		linearFactor:    mgl64.Vec3{1, 1, 1},
		angularFactor:   mgl64.Vec3{1, 1, 1},
		friction:        0.5,
		sleepingAllowed: true,
	}
	body.SetMass(mass)
	return body
}

// NewKinematicBody creates a body that is positioned by the user only.
func NewKinematicBody(shape *Box) *Body {
	body := NewBody(0, shape)
	body.typ = BodyKinematic
	return body
}

// NewStaticBody creates a body that never moves.
func NewStaticBody(shape *Box) *Body {
	body := NewBody(0, shape)
	body.typ = BodyStatic
	return body
}

// ID returns the identifier assigned when the body was added to a space.
func (b *Body) ID() int { return b.id }

// Type returns the body type.
func (b *Body) Type() BodyType { return b.typ }

// Shape returns the collision shape, which may be nil.
func (b *Body) Shape() *Box { return b.shape }

// Mass returns the current mass. Zero means immovable.
func (b *Body) Mass() float64 { return b.mass }

// SetMass changes the mass and recomputes the inertia. A mass of zero
// makes a dynamic body immovable until a positive mass is restored.
func (b *Body) SetMass(mass float64) {
	b.Activate()
	if mass <= 0 || b.typ != BodyDynamic {
		b.mass, b.invMass = math.Max(mass, 0), 0
		b.inertia, b.invInertia = mgl64.Vec3{}, mgl64.Vec3{}
		b.v, b.w = mgl64.Vec3{}, mgl64.Vec3{}
		b.updateWorldInertia()
		return
	}
	b.mass = mass
	b.invMass = 1 / mass
	if b.shape != nil {
		b.inertia = b.shape.Inertia(mass)
	} else {
		b.inertia = mgl64.Vec3{mass, mass, mass}
	}
	for i := 0; i < 3; i++ {
		if b.inertia[i] > 0 {
			b.invInertia[i] = 1 / b.inertia[i]
		} else {
			b.invInertia[i] = 0
		}
	}
	b.updateWorldInertia()
}

// Inertia returns the principal moments of inertia in the body frame.
func (b *Body) Inertia() mgl64.Vec3 { return b.inertia }

// Position returns the centre of mass in world space.
func (b *Body) Position() mgl64.Vec3 { return b.p }

// Rotation returns the orientation.
func (b *Body) Rotation() mgl64.Quat { return b.q }

// Transform returns the body-to-world transform.
func (b *Body) Transform() mgl64.Mat4 {
	return pmath.Transform(pmath.QuatMat3(b.q), b.p)
}

// SetTransform teleports the body. Velocities are kept.
func (b *Body) SetTransform(m mgl64.Mat4) {
	b.p, b.q = pmath.Decompose(m)
	b.updateWorldInertia()
	b.Activate()
}

// SetPosition moves the body without changing its orientation.
func (b *Body) SetPosition(p mgl64.Vec3) {
	b.p = p
	b.Activate()
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() mgl64.Vec3 { return b.v }

// SetVelocity sets the linear velocity.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.Activate()
	b.v = v
}

// AngularVelocity returns the angular velocity in world space.
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.w }

// SetAngularVelocity sets the angular velocity in world space.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	b.Activate()
	b.w = w
}

// LinearFactor returns the per-axis linear mobility.
func (b *Body) LinearFactor() mgl64.Vec3 { return b.linearFactor }

// SetLinearFactor scales the linear response to impulses per world axis.
// A zero component locks translation along that axis.
func (b *Body) SetLinearFactor(f mgl64.Vec3) {
	b.Activate()
	b.linearFactor = f
	b.v = pmath.MulComponents(b.v, f)
}

// AngularFactor returns the per-axis angular mobility.
func (b *Body) AngularFactor() mgl64.Vec3 { return b.angularFactor }

// SetAngularFactor scales the angular response to impulses per world axis.
func (b *Body) SetAngularFactor(f mgl64.Vec3) {
	b.Activate()
	b.angularFactor = f
	b.w = pmath.MulComponents(b.w, f)
}

// SetDamping sets the fraction of linear and angular velocity removed per
// second. Both values are clamped to [0, 1].
func (b *Body) SetDamping(linear, angular float64) {
	b.linearDamping = pmath.Clamp(linear, 0, 1)
	b.angularDamping = pmath.Clamp(angular, 0, 1)
}

// Damping returns the linear and angular damping.
func (b *Body) Damping() (float64, float64) { return b.linearDamping, b.angularDamping }

// Friction returns the friction coefficient.
func (b *Body) Friction() float64 { return b.friction }

// SetFriction sets the friction coefficient.
func (b *Body) SetFriction(f float64) { b.friction = f }

// Restitution returns the restitution coefficient.
func (b *Body) Restitution() float64 { return b.restitution }

// SetRestitution sets the restitution coefficient.
func (b *Body) SetRestitution(e float64) { b.restitution = e }

// SetSleepingAllowed enables or disables deactivation of an idle body.
func (b *Body) SetSleepingAllowed(allowed bool) {
	b.sleepingAllowed = allowed
	if !allowed {
		b.Activate()
	}
}

// IsSleeping reports whether the body is deactivated.
func (b *Body) IsSleeping() bool { return b.sleeping }

// Activate wakes the body and resets its idle timer.
func (b *Body) Activate() {
	b.sleeping = false
	b.idleTime = 0
}

// Constraints returns the constraints attached to the body.
func (b *Body) Constraints() []*Constraint { return b.constraints }

// LocalToWorld converts a point from body space to world space.
func (b *Body) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return b.p.Add(b.q.Rotate(p))
}

// WorldToLocal converts a point from world space to body space.
func (b *Body) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.q.Conjugate().Rotate(p.Sub(b.p))
}

// VelocityAtWorldPoint returns the velocity of the body at a world point.
func (b *Body) VelocityAtWorldPoint(p mgl64.Vec3) mgl64.Vec3 {
	return b.v.Add(b.w.Cross(p.Sub(b.p)))
}

// ApplyImpulseAtWorldPoint applies an impulse j at the world point p.
func (b *Body) ApplyImpulseAtWorldPoint(j, p mgl64.Vec3) {
	b.Activate()
	b.applyImpulse(j, p.Sub(b.p))
}

// movable reports whether the solver may change the body's velocity.
func (b *Body) movable() bool {
	return b.typ == BodyDynamic && b.invMass > 0 && !b.sleeping
}

func (b *Body) updateWorldInertia() {
	r := pmath.QuatMat3(b.q)
	b.invInertiaWorld = r.Mul3(pmath.Diag(b.invInertia)).Mul3(r.Transpose())
}

// linearResponse is the velocity change per unit impulse along each axis.
func (b *Body) linearResponse() mgl64.Vec3 {
	if !b.movable() {
		return mgl64.Vec3{}
	}
	return b.linearFactor.Mul(b.invMass)
}

// angularResponse is the angular velocity change caused by angular impulse t.
func (b *Body) angularResponse(t mgl64.Vec3) mgl64.Vec3 {
	if !b.movable() {
		return mgl64.Vec3{}
	}
	return pmath.MulComponents(b.angularFactor, b.invInertiaWorld.Mul3x1(t))
}

// effectiveInvInertia is the world inverse inertia including the angular factor.
func (b *Body) effectiveInvInertia() mgl64.Mat3 {
	if !b.movable() {
		return mgl64.Mat3{}
	}
	return pmath.Diag(b.angularFactor).Mul3(b.invInertiaWorld)
}

func (b *Body) applyImpulse(j, r mgl64.Vec3) {
	if !b.movable() {
		return
	}
	b.v = b.v.Add(pmath.MulComponents(b.linearResponse(), j))
	b.w = b.w.Add(b.angularResponse(r.Cross(j)))
}

func (b *Body) applyAngularImpulse(t mgl64.Vec3) {
	if !b.movable() {
		return
	}
	b.w = b.w.Add(b.angularResponse(t))
}

func (b *Body) updateVelocity(gravity mgl64.Vec3, dt float64) {
	if !b.movable() {
		return
	}
	b.v = b.v.Add(pmath.MulComponents(gravity, b.linearFactor).Mul(dt))
	b.v = b.v.Mul(math.Pow(1-b.linearDamping, dt))
	b.w = b.w.Mul(math.Pow(1-b.angularDamping, dt))
}

func (b *Body) updatePosition(dt float64) {
	if b.typ == BodyStatic || b.sleeping {
		return
	}
	if b.typ == BodyDynamic && b.invMass == 0 {
		return
	}
	b.p = b.p.Add(b.v.Mul(dt))
	b.q = pmath.IntegrateQuat(b.q, b.w, dt, MaxAngularStep)
	b.updateWorldInertia()
}

func (b *Body) removeConstraint(c *Constraint) {
	for i, other := range b.constraints {
		if other == c {
			b.constraints = append(b.constraints[:i], b.constraints[i+1:]...)
			return
		}
	}
}
