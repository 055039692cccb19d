package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an oriented box collision shape centred on its body.
type Box struct {
	Half mgl64.Vec3
}

// NewBox returns a box with the given full extents.
func NewBox(size mgl64.Vec3) *Box {
	return &Box{Half: size.Mul(0.5)}
}

// Size returns the full extents of the box.
func (box *Box) Size() mgl64.Vec3 {
	return box.Half.Mul(2)
}

// Inertia returns the principal moments of a solid box of the given mass.
func (box *Box) Inertia(mass float64) mgl64.Vec3 {
	s := box.Size()
	x2, y2, z2 := s[0]*s[0], s[1]*s[1], s[2]*s[2]
	return mgl64.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(mass / 12)
}

// Volume returns the volume of the box.
func (box *Box) Volume() float64 {
	s := box.Size()
	return s[0] * s[1] * s[2]
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Intersects reports whether two boxes overlap.
func (bb AABB) Intersects(other AABB) bool {
	return bb.Min[0] <= other.Max[0] && other.Min[0] <= bb.Max[0] &&
		bb.Min[1] <= other.Max[1] && other.Min[1] <= bb.Max[1] &&
		bb.Min[2] <= other.Max[2] && other.Min[2] <= bb.Max[2]
}

// Contains reports whether p lies inside the box.
func (bb AABB) Contains(p mgl64.Vec3) bool {
	return p[0] >= bb.Min[0] && p[0] <= bb.Max[0] &&
		p[1] >= bb.Min[1] && p[1] <= bb.Max[1] &&
		p[2] >= bb.Min[2] && p[2] <= bb.Max[2]
}

// boxAABB returns the world bounds of a box placed at p with orientation q.
func boxAABB(half mgl64.Vec3, p mgl64.Vec3, q mgl64.Quat) AABB {
	r := q.Mat4().Mat3()
	var ext mgl64.Vec3
	for i := 0; i < 3; i++ {
		ext[i] = math.Abs(r.At(i, 0))*half[0] + math.Abs(r.At(i, 1))*half[1] + math.Abs(r.At(i, 2))*half[2]
	}
	return AABB{Min: p.Sub(ext), Max: p.Add(ext)}
}

// AABB returns the world bounds of the body's shape. A body without a
// shape has a degenerate box at its position.
func (b *Body) AABB() AABB {
	if b.shape == nil {
		return AABB{Min: b.p, Max: b.p}
	}
	return boxAABB(b.shape.Half, b.p, b.q)
}

// axes returns the world directions of the body's local axes.
func (b *Body) axes() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		b.q.Rotate(mgl64.Vec3{1, 0, 0}),
		b.q.Rotate(mgl64.Vec3{0, 1, 0}),
		b.q.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// vertices returns the eight world-space corners of the body's box.
func (b *Body) vertices() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	h := b.shape.Half
	for i := 0; i < 8; i++ {
		local := mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = b.LocalToWorld(local)
	}
	return out
}

// containsPoint reports whether a world point lies inside the body's box.
func (b *Body) containsPoint(p mgl64.Vec3, tolerance float64) bool {
	l := b.WorldToLocal(p)
	h := b.shape.Half
	return math.Abs(l[0]) <= h[0]+tolerance &&
		math.Abs(l[1]) <= h[1]+tolerance &&
		math.Abs(l[2]) <= h[2]+tolerance
}
