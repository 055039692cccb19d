package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// Vec is a three-component value in a definition file.
type Vec [3]float64

// Vec3 converts v to a vector.
func (v Vec) Vec3() mgl64.Vec3 { return mgl64.Vec3(v) }

// IsZero reports whether every component is zero.
func (v Vec) IsZero() bool { return v == Vec{} }

// Definition is the on-disk description of a skeleton. Sizes are in
// centimetres and limits in degrees.
type Definition struct {
	Name  string    `yaml:"name"`
	Bones []BoneDef `yaml:"bones"`
}

// BoneDef describes one bone. A bone with a mirror direction starts a
// left-side branch; a mirrored right-side copy of the whole branch is
// generated under the same parent.
type BoneDef struct {
	Name      string `yaml:"name"`
	Parent    string `yaml:"parent,omitempty"`
	Offset    Vec    `yaml:"offset,flow"`
	Tail      Vec    `yaml:"tail,flow"`
	Size      Vec    `yaml:"size,flow"`
	Low       Vec    `yaml:"low,flow"`
	High      Vec    `yaml:"high,flow"`
	Direction Vec    `yaml:"direction,flow"`
	Mirror    Vec    `yaml:"mirror,flow,omitempty"`
	Pinned    bool   `yaml:"pinned,omitempty"`
}

const cmToMeters = 0.01

func radians(v Vec) mgl64.Vec3 {
	return mgl64.Vec3{mgl64.DegToRad(v[0]), mgl64.DegToRad(v[1]), mgl64.DegToRad(v[2])}
}

// Build validates the definition and produces the skeleton.
func Build(def Definition) (*Skeleton, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	s := &Skeleton{Name: def.Name, index: make(map[string]int, len(def.Bones)*2)}
	byName := make(map[string]*Bone, len(def.Bones))

	type branch struct {
		bone *Bone
		dir  mgl64.Vec3
	}
	var branches []branch

	for _, d := range def.Bones {
		b := &Bone{
			BaseName:  d.Name,
			Parent:    -1,
			Offset:    d.Offset.Vec3(),
			Tail:      d.Tail.Vec3(),
			Size:      d.Size.Vec3().Mul(cmToMeters),
			LowLimit:  radians(d.Low),
			HighLimit: radians(d.High),
			Direction: d.Direction.Vec3(),
			Pinned:    d.Pinned,
		}
		if parent, ok := byName[d.Parent]; ok {
			b.Parent = parent.ID
			if parent.Side == Left {
				b.Side = Left
			}
		}
		if !d.Mirror.IsZero() {
			b.Side = Left
			branches = append(branches, branch{bone: b, dir: d.Mirror.Vec3()})
		}
		s.add(b)
		byName[d.Name] = b
	}

	for _, br := range branches {
		s.mirrorBranch(br.bone, br.bone.Parent, br.dir)
	}
	return s, nil
}

func (s *Skeleton) add(b *Bone) {
	b.ID = len(s.bones)
	b.Name = b.Side.Prefix() + b.BaseName
	if parent := s.Bone(b.Parent); parent != nil {
		parent.Children = append(parent.Children, b.ID)
		b.Depth = parent.Depth + 1
	}
	s.bones = append(s.bones, b)
	s.index[b.Name] = b.ID
}

// mirrorBranch appends a right-side copy of the branch rooted at left.
// Offsets, tails and directions are reflected; limits are reflected with
// the opposite sign so that mirrored joints bend the same way.
func (s *Skeleton) mirrorBranch(left *Bone, parent int, dir mgl64.Vec3) {
	m := pmath.MirrorVector(dir)
	neg := m.Mul(-1)
	low, high := pmath.OrderedBounds(
		pmath.MulComponents(left.LowLimit, neg),
		pmath.MulComponents(left.HighLimit, neg),
	)
	right := &Bone{
		BaseName:  left.BaseName,
		Side:      Right,
		Parent:    parent,
		Offset:    pmath.MulComponents(left.Offset, m),
		Tail:      pmath.MulComponents(left.Tail, m),
		Size:      left.Size,
		LowLimit:  low,
		HighLimit: high,
		Direction: pmath.MulComponents(left.Direction, m),
		Pinned:    left.Pinned,
	}
	s.add(right)

	children := append([]int(nil), left.Children...)
	for _, id := range children {
		s.mirrorBranch(s.bones[id], right.ID, dir)
	}
}
