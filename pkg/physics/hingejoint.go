package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// HingeJoint allows rotation about a single axis through a shared pivot.
// The axis is the Z axis of each joint frame.
type HingeJoint struct {
	*Constraint
	FrameA, FrameB Frame

	low, high float64

	point pointLock
	swing [2]angularRow
	limit angularRow
	angle float64
}

// HingeBasis returns a frame basis whose Z axis is the given local axis.
func HingeBasis(axis mgl64.Vec3) mgl64.Quat {
	axis = axis.Normalize()
	p, q := pmath.PlaneSpace(axis)
	return pmath.QuatOf3(mgl64.Mat3FromCols(p, q, axis))
}

// NewHingeJoint creates a hinge with pivots and axes in each body's local
// space. Limits start free.
func NewHingeJoint(a, b *Body, pivotA, pivotB, axisA, axisB mgl64.Vec3) *HingeJoint {
	return NewHingeJointFrames(a, b,
		Frame{Origin: pivotA, Basis: HingeBasis(axisA)},
		Frame{Origin: pivotB, Basis: HingeBasis(axisB)},
	)
}

// NewHingeJointFrames creates a hinge from explicit joint frames.
func NewHingeJointFrames(a, b *Body, frameA, frameB Frame) *HingeJoint {
	joint := &HingeJoint{
		FrameA: frameA,
		FrameB: frameB,
		low:    math.Inf(-1),
		high:   math.Inf(1),
	}
	joint.Constraint = NewConstraint(joint, a, b)
	return joint
}

// SetLimit restricts the hinge angle to [low, high] radians. low == high
// locks the hinge.
func (joint *HingeJoint) SetLimit(low, high float64) {
	joint.ActivateBodies()
	joint.low, joint.high = low, high
}

// Limit returns the current angle range.
func (joint *HingeJoint) Limit() (float64, float64) {
	return joint.low, joint.high
}

// Angle returns the rotation of frame B relative to frame A about the
// hinge axis, in the same sign convention as the limits.
func (joint *HingeJoint) Angle() float64 {
	fa := pmath.QuatMat3(joint.FrameA.world(joint.a))
	fb := pmath.QuatMat3(joint.FrameB.world(joint.b))
	swing := fb.Col(1)
	return math.Atan2(swing.Dot(fa.Col(0)), swing.Dot(fa.Col(1)))
}

func (joint *HingeJoint) PreStep(dt float64) {
	a, b := joint.a, joint.b
	joint.point.prepare(a, b, joint.FrameA.Origin, joint.FrameB.Origin, joint.erp, dt)

	fa := pmath.QuatMat3(joint.FrameA.world(a))
	fb := pmath.QuatMat3(joint.FrameB.world(b))
	axisA, axisB := fa.Col(2), fb.Col(2)
	misalign := axisA.Cross(axisB)
	for i, p := range [2]mgl64.Vec3{fa.Col(0), fa.Col(1)} {
		joint.swing[i].setAxis(a, b, p)
		joint.swing[i].prepareLock(misalign.Dot(p), 0, joint.erp, dt)
	}

	// The reported angle runs opposite to the right-handed rotation of B
	// about the axis, so the limit row measures along the negated axis.
	joint.angle = joint.Angle()
	joint.limit.setAxis(a, b, axisA.Mul(-1))
	joint.limit.prepareLimit(joint.angle, joint.low, joint.high, joint.erp, dt)
}

func (joint *HingeJoint) ApplyCachedImpulse(dtCoef float64) {
	joint.point.applyCached(joint.a, joint.b, dtCoef)
	for i := range joint.swing {
		joint.swing[i].applyCached(joint.a, joint.b, dtCoef)
	}
	joint.limit.applyCached(joint.a, joint.b, dtCoef)
}

func (joint *HingeJoint) ApplyImpulse(dt float64) {
	maxImpulse := joint.maxForce * dt
	joint.point.apply(joint.a, joint.b, maxImpulse)
	for i := range joint.swing {
		joint.swing[i].apply(joint.a, joint.b, maxImpulse)
	}
	joint.limit.apply(joint.a, joint.b, maxImpulse)
}

func (joint *HingeJoint) GetImpulse() float64 {
	return math.Abs(joint.limit.jAcc)
}
