package math

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestEulerXYZRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		want := mgl64.Vec3{
			(rng.Float64()*2 - 1) * math.Pi * 0.99,
			(rng.Float64()*2 - 1) * math.Pi / 2 * 0.99,
			(rng.Float64()*2 - 1) * math.Pi * 0.99,
		}
		got := EulerXYZ(RotationXYZ(want))
		if !vecNear(got, want, 1e-9) {
			t.Fatalf("EulerXYZ(RotationXYZ(%v)) = %v", want, got)
		}
	}
}

func TestEulerXYZSingleAxis(t *testing.T) {
	tests := []struct {
		name string
		m    mgl64.Mat3
		want mgl64.Vec3
	}{
		{"x", mgl64.Rotate3DX(-0.5), mgl64.Vec3{0.5, 0, 0}},
		{"y", mgl64.Rotate3DY(-0.5), mgl64.Vec3{0, 0.5, 0}},
		{"z", mgl64.Rotate3DZ(-0.5), mgl64.Vec3{0, 0, 0.5}},
		{"identity", mgl64.Ident3(), mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EulerXYZ(tt.m)
			if !vecNear(got, tt.want, 1e-12) {
				t.Errorf("EulerXYZ() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEulerXYZDegenerate(t *testing.T) {
	m := RotationXYZ(mgl64.Vec3{0.3, math.Pi / 2, 0})
	got := EulerXYZ(m)
	if math.Abs(got[1]-math.Pi/2) > 1e-6 {
		t.Errorf("y = %v, want π/2", got[1])
	}
	// x and z collapse into x, so the rotation must still round-trip.
	back := RotationXYZ(got)
	for i := range m {
		if math.Abs(m[i]-back[i]) > 1e-6 {
			t.Fatalf("RotationXYZ(EulerXYZ(m)) = %v, want %v", back, m)
		}
	}
}

func TestComposeOrders(t *testing.T) {
	angles := mgl64.Vec3{0.2, -0.4, 0.7}
	rx := mgl64.HomogRotate3DX(-angles[0])
	ry := mgl64.HomogRotate3DY(-angles[1])
	rz := mgl64.HomogRotate3DZ(-angles[2])

	tests := []struct {
		order Order
		want  mgl64.Mat4
	}{
		{OrderZYX, rz.Mul4(ry).Mul4(rx)},
		{OrderZXY, rz.Mul4(rx).Mul4(ry)},
		{OrderYZX, ry.Mul4(rz).Mul4(rx)},
	}
	for _, tt := range tests {
		got := Compose(angles, tt.order)
		if !ApproxEqualMat4(got, tt.want, 1e-12) {
			t.Errorf("Compose(order %d) = %v, want %v", tt.order, got, tt.want)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
