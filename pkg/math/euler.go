package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Order selects the composition order used to turn three Euler angles into
// a rotation. The angle values always keep their X, Y, Z meaning.
type Order int

const (
	// OrderZYX composes Rz·Ry·Rx.
	OrderZYX Order = iota
	// OrderZXY composes Rz·Rx·Ry.
	OrderZXY
	// OrderYZX composes Ry·Rz·Rx.
	OrderYZX
)

// EulerXYZ returns the angles (x, y, z) such that
// m = Rz(-z)·Ry(-y)·Rx(-x). This is the convention in which joint motors
// and limits report their positions. Near y = ±π/2 the x and z angles are
// coupled; the whole twist is reported on x and z is 0.
func EulerXYZ(m mgl64.Mat3) mgl64.Vec3 {
	s := m.At(2, 0)
	switch {
	case s >= 1:
		return mgl64.Vec3{math.Atan2(m.At(0, 1), m.At(1, 1)), math.Pi / 2, 0}
	case s <= -1:
		return mgl64.Vec3{-math.Atan2(m.At(0, 1), m.At(1, 1)), -math.Pi / 2, 0}
	}
	return mgl64.Vec3{
		math.Atan2(-m.At(2, 1), m.At(2, 2)),
		math.Asin(s),
		math.Atan2(-m.At(1, 0), m.At(0, 0)),
	}
}

// RotationXYZ is the inverse of EulerXYZ.
func RotationXYZ(angles mgl64.Vec3) mgl64.Mat3 {
	return Compose(angles, OrderZYX).Mat3()
}

// Compose builds the homogeneous rotation for angles in the given order.
// Each axis rotates by the negated angle, matching EulerXYZ.
func Compose(angles mgl64.Vec3, order Order) mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(-angles[0])
	ry := mgl64.HomogRotate3DY(-angles[1])
	rz := mgl64.HomogRotate3DZ(-angles[2])
	switch order {
	case OrderZXY:
		return rz.Mul4(rx).Mul4(ry)
	case OrderYZX:
		return ry.Mul4(rz).Mul4(rx)
	}
	return rz.Mul4(ry).Mul4(rx)
}

// NormalizeAngle wraps a to (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < -math.Pi {
		return a + 2*math.Pi
	}
	if a > math.Pi {
		return a - 2*math.Pi
	}
	return a
}
