package rig

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Angle is a rotation about one axis in radians. Set is false for an axis
// that has no rotational freedom.
type Angle struct {
	Rad float64
	Set bool
}

// Rad returns a defined angle.
func Rad(v float64) Angle {
	return Angle{Rad: v, Set: true}
}

// Deg returns a defined angle given in degrees.
func Deg(v float64) Angle {
	return Rad(mgl64.DegToRad(v))
}

// Unset is the angle of an axis without freedom.
var Unset = Angle{}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return mgl64.RadToDeg(a.Rad)
}

// Angles holds X, Y and Z joint angles.
type Angles [3]Angle

// AnglesOf returns fully defined angles.
func AnglesOf(v mgl64.Vec3) Angles {
	return Angles{Rad(v[0]), Rad(v[1]), Rad(v[2])}
}

// Vec3 returns the angles as a vector, with unset axes as zero.
func (a Angles) Vec3() mgl64.Vec3 {
	var v mgl64.Vec3
	for i, c := range a {
		if c.Set {
			v[i] = c.Rad
		}
	}
	return v
}

// Scale multiplies every defined component by the matching factor.
func (a Angles) Scale(f mgl64.Vec3) Angles {
	for i := range a {
		if a[i].Set {
			a[i].Rad *= f[i]
		}
	}
	return a
}

// AnySet reports whether at least one axis is defined.
func (a Angles) AnySet() bool {
	return a[0].Set || a[1].Set || a[2].Set
}

func (a Angles) String() string {
	parts := make([]string, 3)
	for i, c := range a {
		if c.Set {
			parts[i] = fmt.Sprintf("%.2f°", c.Degrees())
		} else {
			parts[i] = "-"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
