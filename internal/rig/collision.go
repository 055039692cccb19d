package rig

import (
	"github.com/Faultbox/midgard-pose/internal/skeleton"
	"github.com/Faultbox/midgard-pose/pkg/physics"
)

// BodyKind tells what a physics body stands for.
type BodyKind int

const (
	BodyBone BodyKind = iota
	// BodySolid collides with everything.
	BodySolid
	// BodyNonSolid never collides.
	BodyNonSolid
)

// BodyTag is stored in physics.Body.UserData. Bone is the bone id for
// BodyBone tags.
type BodyTag struct {
	Kind BodyKind
	Bone int
}

func boneTag(id int) BodyTag { return BodyTag{Kind: BodyBone, Bone: id} }

// TagOf returns the tag of a body created by the rig.
func TagOf(b *physics.Body) (BodyTag, bool) {
	tag, ok := b.UserData.(BodyTag)
	return tag, ok
}

// CollisionPolicy decides which body pairs may touch.
type CollisionPolicy struct {
	Skeleton *skeleton.Skeleton
}

// ShouldCollide implements physics.CollisionFilterFunc. Untagged bodies
// and non-solid markers never collide, solid markers always do, and a
// bone never touches its direct parent or child.
func (p CollisionPolicy) ShouldCollide(a, b *physics.Body) bool {
	ta, ok := TagOf(a)
	if !ok {
		return false
	}
	tb, ok := TagOf(b)
	if !ok {
		return false
	}
	if ta.Kind == BodySolid || tb.Kind == BodySolid {
		return true
	}
	if ta.Kind == BodyNonSolid || tb.Kind == BodyNonSolid {
		return false
	}
	ba, bb := p.Skeleton.Bone(ta.Bone), p.Skeleton.Bone(tb.Bone)
	if ba == nil || bb == nil {
		return false
	}
	return !p.Skeleton.IsParentOf(ba, bb) && !p.Skeleton.IsParentOf(bb, ba)
}
