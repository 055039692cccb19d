package physics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// maxContacts caps the number of points kept for one box pair.
const maxContacts = 8

// contactPoint is a raw narrow-phase result.
type contactPoint struct {
	p     mgl64.Vec3
	depth float64
}

// projectBox returns the half-length of a box's projection onto axis.
func projectBox(half mgl64.Vec3, axes [3]mgl64.Vec3, axis mgl64.Vec3) float64 {
	return half[0]*math.Abs(axes[0].Dot(axis)) +
		half[1]*math.Abs(axes[1].Dot(axis)) +
		half[2]*math.Abs(axes[2].Dot(axis))
}

// support returns the vertex of the body's box furthest along dir.
func support(b *Body, axes [3]mgl64.Vec3, dir mgl64.Vec3) mgl64.Vec3 {
	p := b.p
	for i := 0; i < 3; i++ {
		s := b.shape.Half[i]
		if axes[i].Dot(dir) < 0 {
			s = -s
		}
		p = p.Add(axes[i].Mul(s))
	}
	return p
}

// collideBoxes runs a separating axis test between the boxes of a and b.
// The returned normal points from a to b.
func collideBoxes(a, b *Body) (mgl64.Vec3, []contactPoint, bool) {
	axA, axB := a.axes(), b.axes()
	d := b.p.Sub(a.p)

	best := math.Inf(1)
	var normal mgl64.Vec3
	test := func(axis mgl64.Vec3, edge bool) bool {
		l := axis.Len()
		if l < 1e-9 {
			return true
		}
		axis = axis.Mul(1 / l)
		dist := d.Dot(axis)
		overlap := projectBox(a.shape.Half, axA, axis) + projectBox(b.shape.Half, axB, axis) - math.Abs(dist)
		if overlap < 0 {
			return false
		}
		// Prefer face axes when an edge axis is only marginally better.
		if edge && overlap > best*0.95 {
			return true
		}
		if overlap < best {
			best = overlap
			normal = axis
			if dist < 0 {
				normal = axis.Mul(-1)
			}
		}
		return true
	}
	for i := 0; i < 3; i++ {
		if !test(axA[i], false) || !test(axB[i], false) {
			return mgl64.Vec3{}, nil, false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !test(axA[i].Cross(axB[j]), true) {
				return mgl64.Vec3{}, nil, false
			}
		}
	}

	faceA := a.p.Dot(normal) + projectBox(a.shape.Half, axA, normal)
	faceB := b.p.Dot(normal) - projectBox(b.shape.Half, axB, normal)

	var points []contactPoint
	for _, v := range b.vertices() {
		if a.containsPoint(v, 1e-9) {
			if depth := faceA - v.Dot(normal); depth > 0 {
				points = append(points, contactPoint{p: v, depth: depth})
			}
		}
	}
	for _, v := range a.vertices() {
		if b.containsPoint(v, 1e-9) {
			if depth := v.Dot(normal) - faceB; depth > 0 {
				points = append(points, contactPoint{p: v, depth: depth})
			}
		}
	}
	if len(points) == 0 {
		sa := support(a, axA, normal)
		sb := support(b, axB, normal.Mul(-1))
		points = append(points, contactPoint{p: sa.Add(sb).Mul(0.5), depth: best})
	}
	if len(points) > maxContacts {
		sort.Slice(points, func(i, j int) bool { return points[i].depth > points[j].depth })
		points = points[:maxContacts]
	}
	return normal, points, true
}
