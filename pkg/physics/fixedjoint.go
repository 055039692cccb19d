package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// FixedJoint welds two bodies together at their joint frames.
type FixedJoint struct {
	*Constraint
	FrameA, FrameB Frame

	point pointLock
	rows  [3]angularRow
}

// NewFixedJoint creates a weld between two frames.
func NewFixedJoint(a, b *Body, frameA, frameB Frame) *FixedJoint {
	joint := &FixedJoint{FrameA: frameA, FrameB: frameB}
	joint.Constraint = NewConstraint(joint, a, b)
	return joint
}

func (joint *FixedJoint) PreStep(dt float64) {
	a, b := joint.a, joint.b
	joint.point.prepare(a, b, joint.FrameA.Origin, joint.FrameB.Origin, joint.erp, dt)

	qa := joint.FrameA.world(a)
	qb := joint.FrameB.world(b)
	rel := pmath.RotationVector(qa.Conjugate().Mul(qb))
	err := qa.Rotate(rel)

	fa := pmath.QuatMat3(qa)
	for i := range joint.rows {
		axis := fa.Col(i)
		joint.rows[i].setAxis(a, b, axis)
		joint.rows[i].prepareLock(err.Dot(axis), 0, joint.erp, dt)
	}
}

func (joint *FixedJoint) ApplyCachedImpulse(dtCoef float64) {
	joint.point.applyCached(joint.a, joint.b, dtCoef)
	for i := range joint.rows {
		joint.rows[i].applyCached(joint.a, joint.b, dtCoef)
	}
}

func (joint *FixedJoint) ApplyImpulse(dt float64) {
	maxImpulse := joint.maxForce * dt
	joint.point.apply(joint.a, joint.b, maxImpulse)
	for i := range joint.rows {
		joint.rows[i].apply(joint.a, joint.b, maxImpulse)
	}
}

func (joint *FixedJoint) GetImpulse() float64 {
	return mgl64.Vec3{joint.rows[0].jAcc, joint.rows[1].jAcc, joint.rows[2].jAcc}.Len()
}
