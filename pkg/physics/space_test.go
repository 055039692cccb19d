package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func floorAndBox() (*Space, *Body, *Body) {
	space := NewSpace()
	space.Iterations = 20
	space.SetGravity(mgl64.Vec3{0, 0, -10})
	floor := space.AddBody(NewStaticBody(NewBox(mgl64.Vec3{10, 10, 1})))
	floor.SetPosition(mgl64.Vec3{0, 0, -0.5})
	box := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	box.SetPosition(mgl64.Vec3{0, 0, 1.5})
	return space, floor, box
}

func TestBoxRestsOnFloor(t *testing.T) {
	space, _, box := floorAndBox()
	for i := 0; i < 180; i++ {
		space.Step(1.0 / 60)
	}

	if z := box.Position()[2]; math.Abs(z-0.5) > 0.05 {
		t.Errorf("box z = %v, want ~0.5", z)
	}
	if v := box.Velocity().Len(); v > 0.1 {
		t.Errorf("box speed = %v, want ~0", v)
	}
	if len(space.Arbiters()) != 1 {
		t.Errorf("len(Arbiters()) = %d, want 1", len(space.Arbiters()))
	}
}

func TestCollisionFilterRejectsPair(t *testing.T) {
	space, _, box := floorAndBox()
	space.SetCollisionFilter(func(a, b *Body) bool { return false })
	for i := 0; i < 120; i++ {
		space.Step(1.0 / 60)
	}
	if z := box.Position()[2]; z > 0 {
		t.Errorf("box z = %v, want it to fall through the floor", z)
	}
}

func TestCollideBodiesDisabledByJoint(t *testing.T) {
	space := NewSpace()
	a := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	b := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	b.SetPosition(mgl64.Vec3{0.5, 0, 0})

	joint := NewPointJoint(a, b, mgl64.Vec3{}, mgl64.Vec3{-0.5, 0, 0})
	joint.SetCollideBodies(false)
	space.AddConstraint(joint.Constraint)

	if !QueryRejectConstraints(a, b) || !QueryRejectConstraints(b, a) {
		t.Error("QueryRejectConstraints() = false, want true")
	}
	space.Step(1.0 / 60)
	if len(space.Arbiters()) != 0 {
		t.Errorf("len(Arbiters()) = %d, want 0", len(space.Arbiters()))
	}
}

func TestCollideBoxesNormal(t *testing.T) {
	a := NewBody(1, NewBox(mgl64.Vec3{1, 1, 1}))
	b := NewBody(1, NewBox(mgl64.Vec3{1, 1, 1}))
	b.SetPosition(mgl64.Vec3{0.9, 0.1, 0})

	normal, points, ok := collideBoxes(a, b)
	if !ok {
		t.Fatal("collideBoxes() reported no overlap")
	}
	if !vecNear(normal, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("normal = %v, want +X", normal)
	}
	if len(points) == 0 {
		t.Fatal("no contact points")
	}
	for _, p := range points {
		if !near(p.depth, 0.1, 1e-9) {
			t.Errorf("depth = %v, want 0.1", p.depth)
		}
	}

	b.SetPosition(mgl64.Vec3{1.1, 0, 0})
	if _, _, ok := collideBoxes(a, b); ok {
		t.Error("collideBoxes() found overlap between separated boxes")
	}
}

func TestSleepingBodies(t *testing.T) {
	space := NewSpace()
	space.SleepTimeThreshold = 0.5
	idle := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	awake := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	awake.SetPosition(mgl64.Vec3{5, 0, 0})
	awake.SetSleepingAllowed(false)

	for i := 0; i < 60; i++ {
		space.Step(1.0 / 60)
	}

	if !idle.IsSleeping() {
		t.Error("idle body is awake, want asleep")
	}
	if awake.IsSleeping() {
		t.Error("body with sleeping disabled fell asleep")
	}

	idle.SetVelocity(mgl64.Vec3{1, 0, 0})
	if idle.IsSleeping() {
		t.Error("SetVelocity() did not wake the body")
	}
}

func TestRayQueryFirst(t *testing.T) {
	space := NewSpace()
	first := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	first.SetPosition(mgl64.Vec3{3, 0, 0})
	far := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{1, 1, 1})))
	far.SetPosition(mgl64.Vec3{6, 0, 0})

	hit, ok := space.RayQueryFirst(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, nil)
	if !ok {
		t.Fatal("RayQueryFirst() missed")
	}
	if hit.Body != first {
		t.Errorf("hit body %v, want %v", hit.Body, first)
	}
	if !vecNear(hit.Point, mgl64.Vec3{2.5, 0, 0}, 1e-9) {
		t.Errorf("Point = %v, want (2.5, 0, 0)", hit.Point)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("Normal = %v, want (-1, 0, 0)", hit.Normal)
	}
	if !near(hit.Fraction, 0.25, 1e-9) {
		t.Errorf("Fraction = %v, want 0.25", hit.Fraction)
	}

	hit, ok = space.RayQueryFirst(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, func(b *Body) bool { return b != first })
	if !ok || hit.Body != far {
		t.Errorf("filtered query hit %v, want %v", hit.Body, far)
	}

	if _, ok := space.RayQueryFirst(mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}, nil); ok {
		t.Error("RayQueryFirst() hit beyond the segment end")
	}
}

func TestRayQueryRotatedBox(t *testing.T) {
	space := NewSpace()
	body := space.AddBody(NewBody(1, NewBox(mgl64.Vec3{2, 2, 2})))
	body.SetTransform(mgl64.Translate3D(0, 0, 5).Mul4(mgl64.HomogRotate3DZ(math.Pi / 4)))

	hit, ok := space.RayQueryFirst(mgl64.Vec3{0, -5, 5}, mgl64.Vec3{0, 5, 5}, nil)
	if !ok {
		t.Fatal("RayQueryFirst() missed")
	}
	if !near(hit.Point[1], -math.Sqrt2, 1e-9) {
		t.Errorf("Point = %v, want y = -√2", hit.Point)
	}
	if hit.Normal.Dot(mgl64.Vec3{0, -1, 0}) <= 0 {
		t.Errorf("Normal = %v does not face the ray", hit.Normal)
	}
}

func TestRayIntersectAABBFromInside(t *testing.T) {
	r := Ray{Origin: mgl64.Vec3{}, Direction: mgl64.Vec3{1, 0, 0}}
	tHit, axis, ok := r.IntersectAABB(AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}})
	if !ok || tHit != 1 || axis != 0 {
		t.Errorf("IntersectAABB() = %v, %v, %v, want 1, 0, true", tHit, axis, ok)
	}
}
