package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// GenericJoint is a ball joint with independent angular limits on the
// three Euler axes of frame B relative to frame A. Translation is locked.
//
// Angles follow pmath.EulerXYZ: the relative rotation is
// Rz(-z)·Ry(-y)·Rx(-x). The y angle must stay clear of ±π/2, where x and
// z become indistinguishable.
type GenericJoint struct {
	*Constraint
	FrameA, FrameB Frame

	low, high mgl64.Vec3

	point  pointLock
	rows   [3]angularRow
	angles mgl64.Vec3
}

// minGimbalCos keeps the dual axes finite near the singular pose.
const minGimbalCos = 1e-4

// NewGenericJoint creates a joint between two frames. All rotations start
// free.
func NewGenericJoint(a, b *Body, frameA, frameB Frame) *GenericJoint {
	inf := math.Inf(1)
	joint := &GenericJoint{
		FrameA: frameA,
		FrameB: frameB,
		low:    mgl64.Vec3{-inf, -inf, -inf},
		high:   mgl64.Vec3{inf, inf, inf},
	}
	joint.Constraint = NewConstraint(joint, a, b)
	return joint
}

// SetAngularLimits sets the per-axis range. A component with
// low == high locks that axis.
func (joint *GenericJoint) SetAngularLimits(low, high mgl64.Vec3) {
	joint.ActivateBodies()
	joint.low, joint.high = low, high
}

// AngularLimits returns the per-axis range.
func (joint *GenericJoint) AngularLimits() (mgl64.Vec3, mgl64.Vec3) {
	return joint.low, joint.high
}

// Angles returns the current Euler angles of frame B relative to frame A.
func (joint *GenericJoint) Angles() mgl64.Vec3 {
	fa := pmath.QuatMat3(joint.FrameA.world(joint.a))
	fb := pmath.QuatMat3(joint.FrameB.world(joint.b))
	return pmath.EulerXYZ(fa.Transpose().Mul3(fb))
}

func (joint *GenericJoint) PreStep(dt float64) {
	a, b := joint.a, joint.b
	joint.point.prepare(a, b, joint.FrameA.Origin, joint.FrameB.Origin, joint.erp, dt)

	fa := pmath.QuatMat3(joint.FrameA.world(a))
	fb := pmath.QuatMat3(joint.FrameB.world(b))
	joint.angles = pmath.EulerXYZ(fa.Transpose().Mul3(fb))

	// Rates of the Euler angles are projections of the relative angular
	// velocity onto the dual basis of (e0, n, e2).
	e0 := fb.Col(0)
	e2 := fa.Col(2)
	n := e2.Cross(e0)
	if n.Len() < 1e-12 {
		n = fa.Col(1)
	}
	n = n.Normalize()
	cy := math.Cos(joint.angles[1])
	if math.Abs(cy) < minGimbalCos {
		cy = math.Copysign(minGimbalCos, cy)
	}
	duals := [3]mgl64.Vec3{
		n.Cross(e2).Mul(1 / cy),
		n,
		e0.Cross(n).Mul(1 / cy),
	}
	for i := range joint.rows {
		joint.rows[i].setAxis(a, b, duals[i].Mul(-1))
		joint.rows[i].prepareLimit(joint.angles[i], joint.low[i], joint.high[i], joint.erp, dt)
	}
}

func (joint *GenericJoint) ApplyCachedImpulse(dtCoef float64) {
	joint.point.applyCached(joint.a, joint.b, dtCoef)
	for i := range joint.rows {
		joint.rows[i].applyCached(joint.a, joint.b, dtCoef)
	}
}

func (joint *GenericJoint) ApplyImpulse(dt float64) {
	maxImpulse := joint.maxForce * dt
	joint.point.apply(joint.a, joint.b, maxImpulse)
	for i := range joint.rows {
		joint.rows[i].apply(joint.a, joint.b, maxImpulse)
	}
}

func (joint *GenericJoint) GetImpulse() float64 {
	return mgl64.Vec3{joint.rows[0].jAcc, joint.rows[1].jAcc, joint.rows[2].jAcc}.Len()
}
