package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMirrorVector(t *testing.T) {
	tests := []struct {
		dir  mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 1, 1}},
		{mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, -1, 1}},
		{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 1, -1}},
	}
	for _, tt := range tests {
		if got := MirrorVector(tt.dir); got != tt.want {
			t.Errorf("MirrorVector(%v) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func TestOrderedBounds(t *testing.T) {
	lo, hi := OrderedBounds(mgl64.Vec3{1, -2, 3}, mgl64.Vec3{-1, 2, 3})
	if lo != (mgl64.Vec3{-1, -2, 3}) || hi != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("OrderedBounds() = %v, %v", lo, hi)
	}
}

func TestAbsMaxAndMin(t *testing.T) {
	got := AbsMax(mgl64.Vec3{-3, 1, 0}, mgl64.Vec3{2, -4, 0.5})
	want := mgl64.Vec3{3, 4, 0.5}
	if got != want {
		t.Errorf("AbsMax() = %v, want %v", got, want)
	}
	if m := MinComponent(got); m != 0.5 {
		t.Errorf("MinComponent() = %v, want 0.5", m)
	}
}

func TestPlaneSpace(t *testing.T) {
	for _, n := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, mgl64.Vec3{1, 2, 3}.Normalize()} {
		p, q := PlaneSpace(n)
		if math.Abs(p.Dot(n)) > 1e-12 || math.Abs(q.Dot(n)) > 1e-12 || math.Abs(p.Dot(q)) > 1e-12 {
			t.Errorf("PlaneSpace(%v) not orthogonal: %v %v", n, p, q)
		}
		if !vecNear(p.Cross(q), n, 1e-12) {
			t.Errorf("PlaneSpace(%v) not right-handed: %v × %v = %v", n, p, q, p.Cross(q))
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5, 0, 1) = %v, want 0", got)
	}
	got := ClampVec3(mgl64.Vec3{2, -2, 0.5}, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})
	if got != (mgl64.Vec3{1, -1, 0.5}) {
		t.Errorf("ClampVec3() = %v", got)
	}
}
