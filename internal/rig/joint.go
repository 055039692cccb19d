package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
	"github.com/Faultbox/midgard-pose/pkg/physics"
)

// Joint connects a bone to its parent. It is one of *FixedJoint,
// *HingeJoint or *GenericJoint.
type Joint interface {
	Kind() JointKind
	Constraint() *physics.Constraint

	// Angles reports the logical angles of the child relative to the
	// parent. Axes without freedom are unset.
	Angles() Angles

	// UpdateLimits rewrites the engine limits in place: blocked axes are
	// frozen at their current angle, the others get the nominal range.
	UpdateLimits(blocked [3]bool)

	joint()
}

// FixedJoint welds a bone to its parent.
type FixedJoint struct {
	c *physics.FixedJoint
}

func (j *FixedJoint) Kind() JointKind                 { return JointFixed }
func (j *FixedJoint) Constraint() *physics.Constraint { return j.c.Constraint }
func (j *FixedJoint) Angles() Angles                  { return Angles{} }
func (j *FixedJoint) UpdateLimits([3]bool)            {}
func (j *FixedJoint) joint()                          {}

// HingeJoint rotates about one local axis.
type HingeJoint struct {
	Axis      pmath.Axis
	Low, High float64

	c *physics.HingeJoint
}

func (j *HingeJoint) Kind() JointKind                 { return JointHingeX + JointKind(j.Axis) }
func (j *HingeJoint) Constraint() *physics.Constraint { return j.c.Constraint }
func (j *HingeJoint) joint()                          {}

// Angle returns the current hinge angle.
func (j *HingeJoint) Angle() float64 {
	return j.c.Angle()
}

func (j *HingeJoint) Angles() Angles {
	var a Angles
	a[j.Axis] = Rad(j.c.Angle())
	return a
}

func (j *HingeJoint) UpdateLimits(blocked [3]bool) {
	if blocked[j.Axis] {
		angle := j.c.Angle()
		j.c.SetLimit(angle, angle)
		return
	}
	j.c.SetLimit(j.Low, j.High)
}

// GenericJoint rotates about all three axes. Low and High are the bone's
// logical limits; the engine sees them through Fix.
type GenericJoint struct {
	Fix       GimbalFix
	Low, High mgl64.Vec3

	c *physics.GenericJoint
}

func (j *GenericJoint) Kind() JointKind                 { return JointGeneric }
func (j *GenericJoint) Constraint() *physics.Constraint { return j.c.Constraint }
func (j *GenericJoint) joint()                          {}

func (j *GenericJoint) Angles() Angles {
	return AnglesOf(j.Fix.ReverseAngles(j.c.Angles()))
}

// EngineLimits returns the limits currently given to the engine.
func (j *GenericJoint) EngineLimits() (mgl64.Vec3, mgl64.Vec3) {
	return j.c.AngularLimits()
}

func (j *GenericJoint) UpdateLimits(blocked [3]bool) {
	low, high := j.Fix.ForwardLimits(j.Low, j.High)
	frozen := j.Fix.ForwardAxes(blocked)
	current := j.c.Angles()
	for i := range frozen {
		if frozen[i] {
			low[i], high[i] = current[i], current[i]
		}
	}
	j.c.SetAngularLimits(low, high)
}

// newJoint builds the engine joint between parent and child bodies. The
// pivots are in each body's local space; both bodies must be in their rest
// orientation.
func newJoint(kind JointKind, parent, child *physics.Body, parentPivot, childPivot, low, high mgl64.Vec3) (Joint, error) {
	switch kind {
	case JointFixed:
		return &FixedJoint{
			c: physics.NewFixedJoint(parent, child, physics.IdentityFrame(parentPivot), physics.IdentityFrame(childPivot)),
		}, nil
	case JointGeneric:
		fix, err := GimbalFixFor(low, high)
		if err != nil {
			return nil, err
		}
		basis := fix.Frame()
		j := &GenericJoint{
			Fix:  fix,
			Low:  low,
			High: high,
			c: physics.NewGenericJoint(parent, child,
				physics.Frame{Origin: parentPivot, Basis: basis},
				physics.Frame{Origin: childPivot, Basis: basis}),
		}
		j.c.SetAngularLimits(fix.ForwardLimits(low, high))
		return j, nil
	}

	axis, _ := kind.HingeAxis()
	j := &HingeJoint{
		Axis: axis,
		Low:  low[axis],
		High: high[axis],
		c:    physics.NewHingeJoint(parent, child, parentPivot, childPivot, axis.Unit(), axis.Unit()),
	}
	j.c.SetLimit(j.Low, j.High)
	return j, nil
}
