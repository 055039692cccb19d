package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PointJoint pins a point of body B to a point of body A. With a non-zero
// softness it behaves like a stiff damped spring.
type PointJoint struct {
	*Constraint
	AnchorA, AnchorB mgl64.Vec3

	lock pointLock
}

// NewPointJoint joins the local anchor points of a and b.
func NewPointJoint(a, b *Body, anchorA, anchorB mgl64.Vec3) *PointJoint {
	joint := &PointJoint{
		AnchorA: anchorA,
		AnchorB: anchorB,
	}
	joint.Constraint = NewConstraint(joint, a, b)
	return joint
}

// SetAnchorA moves the anchor on body A.
func (joint *PointJoint) SetAnchorA(anchor mgl64.Vec3) {
	joint.ActivateBodies()
	joint.AnchorA = anchor
}

// SetAnchorB moves the anchor on body B.
func (joint *PointJoint) SetAnchorB(anchor mgl64.Vec3) {
	joint.ActivateBodies()
	joint.AnchorB = anchor
}

// Error returns the world distance between the two anchors.
func (joint *PointJoint) Error() float64 {
	return joint.b.LocalToWorld(joint.AnchorB).Sub(joint.a.LocalToWorld(joint.AnchorA)).Len()
}

func (joint *PointJoint) PreStep(dt float64) {
	joint.lock.prepareSoft(joint.a, joint.b, joint.AnchorA, joint.AnchorB, joint.erp, joint.cfm, dt)
}

func (joint *PointJoint) ApplyCachedImpulse(dtCoef float64) {
	joint.lock.applyCached(joint.a, joint.b, dtCoef)
}

func (joint *PointJoint) ApplyImpulse(dt float64) {
	joint.lock.apply(joint.a, joint.b, joint.maxForce*dt)
}

func (joint *PointJoint) GetImpulse() float64 {
	return joint.lock.jAcc.Len()
}
