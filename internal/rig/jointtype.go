package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// JointKind is the joint chosen for a bone from its limits.
type JointKind int

const (
	JointFixed JointKind = iota
	JointHingeX
	JointHingeY
	JointHingeZ
	JointGeneric
)

func (k JointKind) String() string {
	switch k {
	case JointFixed:
		return "fixed"
	case JointHingeX:
		return "hinge-x"
	case JointHingeY:
		return "hinge-y"
	case JointHingeZ:
		return "hinge-z"
	}
	return "generic"
}

// HingeAxis returns the rotation axis of a hinge kind.
func (k JointKind) HingeAxis() (pmath.Axis, bool) {
	switch k {
	case JointHingeX:
		return pmath.AxisX, true
	case JointHingeY:
		return pmath.AxisY, true
	case JointHingeZ:
		return pmath.AxisZ, true
	}
	return 0, false
}

// ClassifyJoint picks the joint kind for a limit range: fixed when every
// limit is zero, a hinge when exactly one axis has a non-zero limit, and a
// generic joint otherwise. An axis counts as free when either of its limits
// is non-zero.
func ClassifyJoint(low, high mgl64.Vec3) JointKind {
	free := [3]bool{}
	n := 0
	for i := 0; i < 3; i++ {
		free[i] = low[i] != 0 || high[i] != 0
		if free[i] {
			n++
		}
	}
	switch {
	case n == 0:
		return JointFixed
	case n > 1:
		return JointGeneric
	case free[0]:
		return JointHingeX
	case free[1]:
		return JointHingeY
	}
	return JointHingeZ
}
