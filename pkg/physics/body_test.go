package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps) && near(a[2], b[2], eps)
}

func TestBoxInertia(t *testing.T) {
	box := NewBox(mgl64.Vec3{1, 2, 3})
	got := box.Inertia(12)
	want := mgl64.Vec3{4 + 9, 1 + 9, 1 + 4}
	if !vecNear(got, want, 1e-12) {
		t.Errorf("Inertia() = %v, want %v", got, want)
	}
	if v := box.Volume(); v != 6 {
		t.Errorf("Volume() = %v, want 6", v)
	}
}

func TestSetMassZeroMakesBodyImmovable(t *testing.T) {
	body := NewBody(2, NewBox(mgl64.Vec3{1, 1, 1}))
	body.SetVelocity(mgl64.Vec3{1, 0, 0})
	body.SetMass(0)

	if body.Mass() != 0 {
		t.Errorf("Mass() = %v, want 0", body.Mass())
	}
	if body.Velocity() != (mgl64.Vec3{}) {
		t.Errorf("Velocity() = %v, want zero", body.Velocity())
	}
	body.ApplyImpulseAtWorldPoint(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 1, 0})
	if body.Velocity() != (mgl64.Vec3{}) || body.AngularVelocity() != (mgl64.Vec3{}) {
		t.Error("impulse moved a zero-mass body")
	}

	body.SetMass(3)
	if body.Mass() != 3 || body.Inertia() == (mgl64.Vec3{}) {
		t.Errorf("SetMass(3) gave mass %v inertia %v", body.Mass(), body.Inertia())
	}
}

func TestLinearFactorLocksAxis(t *testing.T) {
	body := NewBody(1, NewBox(mgl64.Vec3{1, 1, 1}))
	body.SetLinearFactor(mgl64.Vec3{1, 0, 1})
	body.ApplyImpulseAtWorldPoint(mgl64.Vec3{1, 1, 1}, body.Position())
	if got := body.Velocity(); !vecNear(got, mgl64.Vec3{1, 0, 1}, 1e-12) {
		t.Errorf("Velocity() = %v, want (1, 0, 1)", got)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	body := NewBody(1, NewBox(mgl64.Vec3{1, 1, 1}))
	m := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DY(0.7))
	body.SetTransform(m)

	got := body.Transform()
	for i := range m {
		if !near(got[i], m[i], 1e-12) {
			t.Fatalf("Transform() = %v, want %v", got, m)
		}
	}
	p := mgl64.Vec3{0.5, -0.25, 1}
	if back := body.WorldToLocal(body.LocalToWorld(p)); !vecNear(back, p, 1e-12) {
		t.Errorf("WorldToLocal(LocalToWorld(p)) = %v, want %v", back, p)
	}
}

func TestRotatedAABB(t *testing.T) {
	body := NewBody(1, NewBox(mgl64.Vec3{2, 2, 2}))
	body.SetTransform(mgl64.HomogRotate3DZ(math.Pi / 4))
	bb := body.AABB()
	want := math.Sqrt2
	if !near(bb.Max[0], want, 1e-9) || !near(bb.Max[1], want, 1e-9) || !near(bb.Max[2], 1, 1e-9) {
		t.Errorf("AABB().Max = %v, want (%v, %v, 1)", bb.Max, want, want)
	}
}

func TestDampingRemovesVelocity(t *testing.T) {
	space := NewSpace()
	body := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	body.SetDamping(1, 1)
	body.SetVelocity(mgl64.Vec3{5, 0, 0})
	body.SetAngularVelocity(mgl64.Vec3{0, 5, 0})

	space.Step(1.0 / 60)

	if body.Velocity() != (mgl64.Vec3{}) || body.AngularVelocity() != (mgl64.Vec3{}) {
		t.Errorf("velocities = %v %v, want zero", body.Velocity(), body.AngularVelocity())
	}
	if body.Position() != (mgl64.Vec3{}) {
		t.Errorf("Position() = %v, want origin", body.Position())
	}
}
