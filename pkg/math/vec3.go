// Package math provides float64 helpers for rigid transforms and Euler
// angles on top of mgl64.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Unit returns the unit vector along the axis.
func (a Axis) Unit() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a] = 1
	return v
}

// MulComponents returns the component-wise product of a and b.
func MulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// AbsMax returns max(|a|, |b|) per component.
func AbsMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(math.Abs(a[0]), math.Abs(b[0])),
		math.Max(math.Abs(a[1]), math.Abs(b[1])),
		math.Max(math.Abs(a[2]), math.Abs(b[2])),
	}
}

// MinComponent returns the smallest component of v.
func MinComponent(v mgl64.Vec3) float64 {
	return math.Min(v[0], math.Min(v[1], v[2]))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampVec3 clamps every component of v into [lo, hi].
func ClampVec3(v, lo, hi mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		Clamp(v[0], lo[0], hi[0]),
		Clamp(v[1], lo[1], hi[1]),
		Clamp(v[2], lo[2], hi[2]),
	}
}

// OrderedBounds swaps components so that lo <= hi on every axis.
func OrderedBounds(lo, hi mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return lo, hi
}

// MirrorVector returns the reflection vector for a mirror plane with
// normal dir: every component is 1 except the one along dir, which is -1.
func MirrorVector(dir mgl64.Vec3) mgl64.Vec3 {
	minus := mgl64.Vec3{-1, -1, -1}
	return dir.Cross(dir.Cross(minus)).Sub(dir)
}

// PlaneSpace returns two unit vectors orthogonal to n and to each other,
// forming a right-handed basis (p, q, n).
func PlaneSpace(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if math.Abs(n[2]) > math.Sqrt2/2 {
		a := n[1]*n[1] + n[2]*n[2]
		k := 1 / math.Sqrt(a)
		p := mgl64.Vec3{0, -n[2] * k, n[1] * k}
		return p, n.Cross(p)
	}
	a := n[0]*n[0] + n[1]*n[1]
	k := 1 / math.Sqrt(a)
	p := mgl64.Vec3{-n[1] * k, n[0] * k, 0}
	return p, n.Cross(p)
}
