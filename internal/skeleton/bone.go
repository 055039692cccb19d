// Package skeleton describes the static shape of a rig: a tree of box
// bones with joint limits, loaded from YAML or built from the humanoid
// preset.
package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// Side tells which half of a mirrored rig a bone belongs to.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "center"
}

// Prefix returns the name prefix used for bones on this side.
func (s Side) Prefix() string {
	switch s {
	case Left:
		return "Left "
	case Right:
		return "Right "
	}
	return ""
}

// Bone is one rigid segment of a skeleton. Bones never change after the
// skeleton is built.
type Bone struct {
	ID       int
	Name     string // includes the side prefix
	BaseName string
	Side     Side
	Parent   int // -1 for the root
	Children []int
	Depth    int

	// Offset places the head relative to the parent's head, in units of the
	// parent's size.
	Offset mgl64.Vec3
	// Tail points from the head to the box centre, in units of half the size.
	Tail mgl64.Vec3
	// Size is the full box extent in metres.
	Size mgl64.Vec3

	// Limits are in radians, low <= high on every axis.
	LowLimit  mgl64.Vec3
	HighLimit mgl64.Vec3

	// Direction is the bone's logical facing, used by editors.
	Direction mgl64.Vec3

	// Pinned bones are always immovable in the simulation.
	Pinned bool
}

// IsRoot reports whether the bone has no parent.
func (b *Bone) IsRoot() bool {
	return b.Parent < 0
}

// Middle returns the offset from the head to the box centre.
func (b *Bone) Middle() mgl64.Vec3 {
	return pmath.MulComponents(b.Tail, b.Size).Mul(0.5)
}

// MiddleTranslation returns the head-to-centre transform.
func (b *Bone) MiddleTranslation() mgl64.Mat4 {
	return pmath.Translate(b.Middle())
}

// Skeleton is an ordered bone tree. Parents always precede their children.
type Skeleton struct {
	Name  string
	bones []*Bone
	index map[string]int
}

// Bones returns every bone, parents first.
func (s *Skeleton) Bones() []*Bone { return s.bones }

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.bones) }

// Bone returns the bone with the given id, or nil.
func (s *Skeleton) Bone(id int) *Bone {
	if id < 0 || id >= len(s.bones) {
		return nil
	}
	return s.bones[id]
}

// Root returns the root bone.
func (s *Skeleton) Root() *Bone {
	if len(s.bones) == 0 {
		return nil
	}
	return s.bones[0]
}

// Find looks a bone up by its full name.
func (s *Skeleton) Find(name string) (*Bone, bool) {
	id, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.bones[id], true
}

// Parent returns the parent of b, or nil for the root.
func (s *Skeleton) Parent(b *Bone) *Bone {
	return s.Bone(b.Parent)
}

// IsParentOf reports whether a is the direct parent of b.
func (s *Skeleton) IsParentOf(a, b *Bone) bool {
	return b.Parent == a.ID
}

// Mirror returns the bone with the same base name on the opposite side.
func (s *Skeleton) Mirror(b *Bone) (*Bone, bool) {
	if b.Side == Center {
		return nil, false
	}
	for _, other := range s.bones {
		if other.BaseName == b.BaseName && other.Side != b.Side && other.Side != Center {
			return other, true
		}
	}
	return nil, false
}

// Descendants calls fn for every bone below b, depth first.
func (s *Skeleton) Descendants(b *Bone, fn func(*Bone)) {
	for _, id := range b.Children {
		child := s.bones[id]
		fn(child)
		s.Descendants(child, fn)
	}
}
