package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line with an origin and a direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB tests the ray against an axis-aligned box with the slab
// method. It returns the distance parameter, the axis of the face that was
// hit and whether the ray hit at all. If the ray starts inside the box, the
// exit distance is returned.
func (r Ray) IntersectAABB(box AABB) (float64, int, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	minAxis, maxAxis := 0, 0

	for i := 0; i < 3; i++ {
		if r.Direction[i] != 0 {
			t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
			t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin, minAxis = t1, i
			}
			if t2 < tmax {
				tmax, maxAxis = t2, i
			}
		} else if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
			return 0, 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	if tmin < 0 {
		return tmax, maxAxis, true
	}
	return tmin, minAxis, true
}

// RayHit describes the closest body hit by a ray query.
type RayHit struct {
	Body     *Body
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64 // position along the segment, 0 at start and 1 at end
}

// RayQueryFirst casts the segment from start to end and returns the
// closest body whose box it crosses. Bodies for which filter returns false
// are skipped; a nil filter accepts every body.
func (space *Space) RayQueryFirst(start, end mgl64.Vec3, filter func(*Body) bool) (RayHit, bool) {
	var best RayHit
	found := false
	dir := end.Sub(start)

	for _, body := range space.bodies {
		if body.shape == nil || (filter != nil && !filter(body)) {
			continue
		}
		// Cast in the body's frame so the box is axis-aligned.
		inv := body.q.Conjugate()
		local := Ray{Origin: inv.Rotate(start.Sub(body.p)), Direction: inv.Rotate(dir)}
		box := AABB{Min: body.shape.Half.Mul(-1), Max: body.shape.Half}
		t, axis, ok := local.IntersectAABB(box)
		if !ok || t > 1 || (found && t >= best.Fraction) {
			continue
		}
		var n mgl64.Vec3
		n[axis] = 1
		if local.At(t)[axis] < 0 {
			n[axis] = -1
		}
		best = RayHit{
			Body:     body,
			Point:    start.Add(dir.Mul(t)),
			Normal:   body.q.Rotate(n),
			Fraction: t,
		}
		found = true
	}
	return best, found
}
