package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Translate returns a translation matrix for v.
func Translate(v mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(v[0], v[1], v[2])
}

// Transform builds a rigid transform from a rotation and a translation.
func Transform(rot mgl64.Mat3, pos mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Mat4{
		rot[0], rot[1], rot[2], 0,
		rot[3], rot[4], rot[5], 0,
		rot[6], rot[7], rot[8], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

// Rotation3 returns the 3x3 rotation block of a 4x4 transform.
func Rotation3(m mgl64.Mat4) mgl64.Mat3 {
	return m.Mat3()
}

// RotationOf returns m with its translation removed and its rotation
// re-orthonormalized.
func RotationOf(m mgl64.Mat4) mgl64.Mat4 {
	return QuatOf(m).Mat4()
}

// TranslationOf returns the translation column of m.
func TranslationOf(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// Decompose splits a rigid transform into translation and orientation.
func Decompose(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat) {
	return TranslationOf(m), QuatOf(m)
}

// TransformPoint applies m to the point p.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Skew returns the cross product matrix of v, so that Skew(v)*u == v×u.
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v[2], -v[1],
		-v[2], 0, v[0],
		v[1], -v[0], 0,
	}
}

// Diag returns a diagonal matrix.
func Diag(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		v[0], 0, 0,
		0, v[1], 0,
		0, 0, v[2],
	}
}

// SafeInverse3 inverts m, falling back to the zero matrix when m is
// singular.
func SafeInverse3(m mgl64.Mat3) mgl64.Mat3 {
	if math.Abs(m.Det()) < 1e-12 {
		return mgl64.Mat3{}
	}
	return m.Inv()
}

// ApproxEqualMat4 reports whether every element of a and b differs by at most eps.
func ApproxEqualMat4(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
