package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

const testDt = 1.0 / 120

// jointPair returns a static unit box at the origin and a dynamic unit box
// stacked on top of it.
func jointPair() (*Space, *Body, *Body) {
	space := NewSpace()
	space.Iterations = 20
	a := space.AddBody(NewStaticBody(NewBox(mgl64.Vec3{1, 1, 1})))
	b := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	b.SetPosition(mgl64.Vec3{0, 0, 1})
	return space, a, b
}

func stepN(space *Space, n int) {
	for i := 0; i < n; i++ {
		space.Step(testDt)
	}
}

func TestPointJointPullsTowardAnchor(t *testing.T) {
	space := NewSpace()
	space.SetCollisionFilter(func(a, b *Body) bool { return false })
	anchor := space.AddBody(NewKinematicBody(NewBox(mgl64.Vec3{})))
	anchor.SetPosition(mgl64.Vec3{2, 0, 0})
	body := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{0.2, 0.2, 0.2})))
	body.SetDamping(1, 1)

	joint := NewPointJoint(anchor, body, mgl64.Vec3{}, mgl64.Vec3{})
	joint.SetSoftness(0.5)
	joint.SetErrorReduction(0.1)
	space.AddConstraint(joint.Constraint)

	start := joint.Error()
	stepN(space, 200)

	if got := joint.Error(); got > start/2 {
		t.Errorf("Error() = %v after 200 steps, want < %v", got, start/2)
	}
	if body.Position()[0] <= 0 {
		t.Errorf("body did not move toward the anchor: %v", body.Position())
	}
}

func TestHingeAngleSign(t *testing.T) {
	_, a, b := jointPair()
	hinge := NewHingeJoint(a, b, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, -0.5}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})

	// A right-handed rotation of B about +X reads as a negative angle.
	b.SetTransform(mgl64.Translate3D(0, 0, 1).Mul4(mgl64.HomogRotate3DX(0.3)))
	if got := hinge.Angle(); !near(got, -0.3, 1e-9) {
		t.Errorf("Angle() = %v, want -0.3", got)
	}
}

func TestHingeLimitStopsRotation(t *testing.T) {
	space, a, b := jointPair()
	hinge := NewHingeJoint(a, b, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, -0.5}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})
	hinge.SetCollideBodies(false)
	hinge.SetLimit(-0.1, 0.1)
	space.AddConstraint(hinge.Constraint)

	b.SetAngularVelocity(mgl64.Vec3{-1, 0, 0})
	stepN(space, 120)

	if got := hinge.Angle(); got > 0.12 {
		t.Errorf("Angle() = %v, want <= 0.1", got)
	}
	// The axis stays aligned and the pivot stays shared.
	axisB := b.Rotation().Rotate(mgl64.Vec3{1, 0, 0})
	if !vecNear(axisB, mgl64.Vec3{1, 0, 0}, 1e-2) {
		t.Errorf("hinge axis drifted to %v", axisB)
	}
	pivot := b.LocalToWorld(mgl64.Vec3{0, 0, -0.5})
	if !vecNear(pivot, mgl64.Vec3{0, 0, 0.5}, 1e-2) {
		t.Errorf("pivot drifted to %v", pivot)
	}
}

func TestHingeLockedLimitHoldsAngle(t *testing.T) {
	space, a, b := jointPair()
	hinge := NewHingeJoint(a, b, mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, -0.5}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0})
	hinge.SetCollideBodies(false)
	hinge.SetLimit(0, 0)
	space.AddConstraint(hinge.Constraint)

	b.SetAngularVelocity(mgl64.Vec3{0, 2, 0})
	stepN(space, 120)

	if got := hinge.Angle(); !near(got, 0, 0.02) {
		t.Errorf("Angle() = %v, want 0", got)
	}
}

func TestGenericJointAnglesMatchEuler(t *testing.T) {
	_, a, b := jointPair()
	joint := NewGenericJoint(a, b, IdentityFrame(mgl64.Vec3{0, 0, 0.5}), IdentityFrame(mgl64.Vec3{0, 0, -0.5}))

	want := mgl64.Vec3{0.3, -0.5, 0.9}
	b.SetTransform(pmath.Transform(pmath.RotationXYZ(want), mgl64.Vec3{0, 0, 1}))
	if got := joint.Angles(); !vecNear(got, want, 1e-9) {
		t.Errorf("Angles() = %v, want %v", got, want)
	}
}

func TestGenericJointLimits(t *testing.T) {
	for axis := 0; axis < 3; axis++ {
		space, a, b := jointPair()
		joint := NewGenericJoint(a, b, IdentityFrame(mgl64.Vec3{0, 0, 0.5}), IdentityFrame(mgl64.Vec3{0, 0, -0.5}))
		joint.SetCollideBodies(false)
		joint.SetAngularLimits(mgl64.Vec3{-0.2, -0.2, -0.2}, mgl64.Vec3{0.2, 0.2, 0.2})
		space.AddConstraint(joint.Constraint)

		var w mgl64.Vec3
		w[axis] = -1
		b.SetAngularVelocity(w)
		stepN(space, 120)

		got := joint.Angles()
		for i := 0; i < 3; i++ {
			if math.Abs(got[i]) > 0.23 {
				t.Errorf("axis %d: Angles() = %v, want every component within ±0.2", axis, got)
				break
			}
		}
	}
}

func TestFixedJointHoldsPose(t *testing.T) {
	space, a, b := jointPair()
	joint := NewFixedJoint(a, b, IdentityFrame(mgl64.Vec3{0, 0, 0.5}), IdentityFrame(mgl64.Vec3{0, 0, -0.5}))
	joint.SetCollideBodies(false)
	space.AddConstraint(joint.Constraint)

	b.SetAngularVelocity(mgl64.Vec3{1, 2, -1})
	b.SetVelocity(mgl64.Vec3{0.5, 0, 0})
	stepN(space, 240)

	if !vecNear(b.Position(), mgl64.Vec3{0, 0, 1}, 0.02) {
		t.Errorf("Position() = %v, want (0, 0, 1)", b.Position())
	}
	if angle := pmath.RotationVector(b.Rotation()).Len(); angle > 0.02 {
		t.Errorf("rotation error = %v rad, want ~0", angle)
	}
}

func TestRemoveBodyRemovesConstraints(t *testing.T) {
	space, a, b := jointPair()
	joint := NewPointJoint(a, b, mgl64.Vec3{}, mgl64.Vec3{})
	space.AddConstraint(joint.Constraint)

	space.RemoveBody(b)

	if len(space.Constraints()) != 0 {
		t.Errorf("len(Constraints()) = %d, want 0", len(space.Constraints()))
	}
	if len(a.Constraints()) != 0 {
		t.Errorf("body A still lists %d constraints", len(a.Constraints()))
	}
	if space.ContainsBody(b) {
		t.Error("space still contains the removed body")
	}
}
