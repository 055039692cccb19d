package rig

import "github.com/go-gl/mathgl/mgl64"

// pickDistance is the length of a picking ray in metres.
const pickDistance = 1000

// Hit is a bone struck by a ray.
type Hit struct {
	Bone   *Bone
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// BoneFromRay casts a ray from start along dir and returns the first bone
// it strikes. A ray whose first hit is the floor or an anchor finds
// nothing.
func (c *Controller) BoneFromRay(start, dir mgl64.Vec3) (Hit, bool) {
	hit, ok := c.space.RayQueryFirst(start, start.Add(dir.Mul(pickDistance)), nil)
	if !ok {
		return Hit{}, false
	}
	tag, ok := TagOf(hit.Body)
	if !ok || tag.Kind != BodyBone {
		return Hit{}, false
	}
	b := c.Bone(tag.Bone)
	if b == nil {
		return Hit{}, false
	}
	return Hit{Bone: b, Point: hit.Point, Normal: hit.Normal}, true
}
