package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// Contact is one point of a collision manifold.
type Contact struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3 // from body A to body B
	Depth  float64

	r1, r2 mgl64.Vec3
	t1, t2 mgl64.Vec3

	nMass, t1Mass, t2Mass float64
	bias, bounce          float64

	jnAcc, jt1Acc, jt2Acc float64
}

// Arbiter holds the contacts between two bodies for the current step.
type Arbiter struct {
	a, b *Body

	friction, restitution float64

	contacts []Contact
}

// Bodies returns the two colliding bodies.
func (arb *Arbiter) Bodies() (*Body, *Body) { return arb.a, arb.b }

// Contacts returns the contact points.
func (arb *Arbiter) Contacts() []Contact { return arb.contacts }

// TotalImpulse returns the sum of normal impulses applied this step.
func (arb *Arbiter) TotalImpulse() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, con := range arb.contacts {
		sum = sum.Add(con.Normal.Mul(con.jnAcc))
	}
	return sum
}

func newArbiter(a, b *Body, normal mgl64.Vec3, points []contactPoint) *Arbiter {
	arb := &Arbiter{
		a:           a,
		b:           b,
		friction:    math.Sqrt(a.friction * b.friction),
		restitution: a.restitution * b.restitution,
		contacts:    make([]Contact, len(points)),
	}
	for i, pt := range points {
		arb.contacts[i] = Contact{Point: pt.p, Normal: normal, Depth: pt.depth}
	}
	return arb
}

func kScalar(a, b *Body, r1, r2, n mgl64.Vec3) float64 {
	rn1 := r1.Cross(n)
	rn2 := r2.Cross(n)
	k := n.Dot(pmath.MulComponents(a.linearResponse().Add(b.linearResponse()), n))
	k += rn1.Dot(a.angularResponse(rn1))
	k += rn2.Dot(b.angularResponse(rn2))
	return k
}

func invOrZero(k float64) float64 {
	if k > 1e-12 {
		return 1 / k
	}
	return 0
}

// PreStep computes the effective masses and bias velocities.
func (arb *Arbiter) PreStep(dt, slop, bias float64) {
	a, b := arb.a, arb.b
	for i := range arb.contacts {
		con := &arb.contacts[i]

		con.r1 = con.Point.Sub(a.p)
		con.r2 = con.Point.Sub(b.p)
		con.t1, con.t2 = pmath.PlaneSpace(con.Normal)

		con.nMass = invOrZero(kScalar(a, b, con.r1, con.r2, con.Normal))
		con.t1Mass = invOrZero(kScalar(a, b, con.r1, con.r2, con.t1))
		con.t2Mass = invOrZero(kScalar(a, b, con.r1, con.r2, con.t2))

		con.bias = bias * math.Max(0, con.Depth-slop) / dt
		con.jnAcc, con.jt1Acc, con.jt2Acc = 0, 0, 0

		vn := relativeVelocity(a, b, con.r1, con.r2).Dot(con.Normal)
		con.bounce = -vn * arb.restitution
	}
}

// ApplyImpulse runs one solver iteration over every contact.
func (arb *Arbiter) ApplyImpulse() {
	a, b := arb.a, arb.b
	for i := range arb.contacts {
		con := &arb.contacts[i]

		vr := relativeVelocity(a, b, con.r1, con.r2)
		vn := vr.Dot(con.Normal)
		target := math.Max(con.bias, con.bounce)
		jn := (target - vn) * con.nMass
		jnOld := con.jnAcc
		con.jnAcc = math.Max(jnOld+jn, 0)
		applyImpulses(a, b, con.r1, con.r2, con.Normal.Mul(con.jnAcc-jnOld))

		jtMax := arb.friction * con.jnAcc
		vr = relativeVelocity(a, b, con.r1, con.r2)
		jt1 := -vr.Dot(con.t1) * con.t1Mass
		jt1Old := con.jt1Acc
		con.jt1Acc = pmath.Clamp(jt1Old+jt1, -jtMax, jtMax)
		jt2 := -vr.Dot(con.t2) * con.t2Mass
		jt2Old := con.jt2Acc
		con.jt2Acc = pmath.Clamp(jt2Old+jt2, -jtMax, jtMax)
		friction := con.t1.Mul(con.jt1Acc - jt1Old).Add(con.t2.Mul(con.jt2Acc - jt2Old))
		applyImpulses(a, b, con.r1, con.r2, friction)
	}
}
