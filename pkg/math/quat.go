package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuatOf returns the normalized orientation of the rotation block of m.
func QuatOf(m mgl64.Mat4) mgl64.Quat {
	return mgl64.Mat4ToQuat(m).Normalize()
}

// QuatOf3 returns the normalized orientation of a 3x3 rotation.
func QuatOf3(m mgl64.Mat3) mgl64.Quat {
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// QuatMat3 returns q as a 3x3 rotation matrix.
func QuatMat3(q mgl64.Quat) mgl64.Mat3 {
	return q.Mat4().Mat3()
}

// IntegrateQuat advances q by the angular velocity w over dt. The rotation
// per step is capped at maxAngle radians.
func IntegrateQuat(q mgl64.Quat, w mgl64.Vec3, dt, maxAngle float64) mgl64.Quat {
	speed := w.Len()
	if speed == 0 {
		return q
	}
	angle := speed * dt
	if angle > maxAngle {
		angle = maxAngle
	}
	dq := mgl64.QuatRotate(angle, w.Mul(1/speed))
	return dq.Mul(q).Normalize()
}

// RotationVector returns the axis-angle vector (axis * angle) of q along
// the shortest arc.
func RotationVector(q mgl64.Quat) mgl64.Vec3 {
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < 1e-12 {
		return q.V.Mul(2)
	}
	angle := 2 * math.Atan2(s, q.W)
	return q.V.Mul(angle / s)
}
