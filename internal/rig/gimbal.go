package rig

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// ErrGimbalCeiling is returned when a three-axis joint allows so much
// swing on every axis that no decomposition order keeps it clear of
// gimbal lock.
var ErrGimbalCeiling = errors.New("rig: joint limits exceed the gimbal-safe range")

// GimbalCeiling is the largest allowed value of the smallest axis range of
// a three-axis joint.
var GimbalCeiling = mgl64.DegToRad(80)

// GimbalFix selects which physical axis of a three-axis joint plays the
// middle (Y) role of the angle decomposition. The middle axis must be the
// one with the smallest range.
type GimbalFix int

const (
	GimbalNone GimbalFix = iota
	GimbalSwapXY
	GimbalSwapZY
)

func (f GimbalFix) String() string {
	switch f {
	case GimbalSwapXY:
		return "swap-xy"
	case GimbalSwapZY:
		return "swap-zy"
	}
	return "none"
}

// GimbalFixFor picks the fix for a limit range. It fails with
// ErrGimbalCeiling when even the narrowest axis exceeds GimbalCeiling.
func GimbalFixFor(low, high mgl64.Vec3) (GimbalFix, error) {
	ranges := pmath.AbsMax(low, high)
	minRange := pmath.MinComponent(ranges)
	if minRange > GimbalCeiling {
		return GimbalNone, fmt.Errorf("%w: narrowest axis allows %.1f°", ErrGimbalCeiling, mgl64.RadToDeg(minRange))
	}
	switch minRange {
	case ranges[0]:
		return GimbalSwapXY, nil
	case ranges[2]:
		return GimbalSwapZY, nil
	}
	return GimbalNone, nil
}

// other returns the axis swapped with Y, if any.
func (f GimbalFix) other() (int, bool) {
	switch f {
	case GimbalSwapXY:
		return 0, true
	case GimbalSwapZY:
		return 2, true
	}
	return 0, false
}

// Frame returns the rotation applied to both joint frames. It maps the
// logical axis with the smallest range onto the physical Y axis.
func (f GimbalFix) Frame() mgl64.Quat {
	switch f {
	case GimbalSwapXY:
		return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	case GimbalSwapZY:
		return mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	}
	return mgl64.QuatIdent()
}

// Order returns the composition order whose matrix matches what the
// remapped physical joint produces.
func (f GimbalFix) Order() pmath.Order {
	switch f {
	case GimbalSwapXY:
		return pmath.OrderZXY
	case GimbalSwapZY:
		return pmath.OrderYZX
	}
	return pmath.OrderZYX
}

// ForwardLimits converts logical limits to the physical joint's limits:
// the swapped axis and Y trade places, then the new Y range is reflected.
func (f GimbalFix) ForwardLimits(low, high mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	i, ok := f.other()
	if !ok {
		return low, high
	}
	low[i], low[1] = low[1], low[i]
	high[i], high[1] = high[1], high[i]
	low[1], high[1] = -high[1], -low[1]
	return low, high
}

// ReverseLimits undoes ForwardLimits.
func (f GimbalFix) ReverseLimits(low, high mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	i, ok := f.other()
	if !ok {
		return low, high
	}
	low[1], high[1] = -high[1], -low[1]
	low[i], low[1] = low[1], low[i]
	high[i], high[1] = high[1], high[i]
	return low, high
}

// ForwardAngles converts logical angles to the physical joint's angles.
func (f GimbalFix) ForwardAngles(a mgl64.Vec3) mgl64.Vec3 {
	i, ok := f.other()
	if !ok {
		return a
	}
	a[i], a[1] = a[1], a[i]
	a[1] = -a[1]
	return a
}

// ReverseAngles converts the physical joint's angles to logical angles.
func (f GimbalFix) ReverseAngles(a mgl64.Vec3) mgl64.Vec3 {
	i, ok := f.other()
	if !ok {
		return a
	}
	a[1] = -a[1]
	a[i], a[1] = a[1], a[i]
	return a
}

// ForwardAxes maps per-axis logical flags onto physical axes.
func (f GimbalFix) ForwardAxes(flags [3]bool) [3]bool {
	if i, ok := f.other(); ok {
		flags[i], flags[1] = flags[1], flags[i]
	}
	return flags
}
