package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// updateWorldTransforms derives every World from the root position and
// the local rotations.
func (c *Controller) updateWorldTransforms() {
	for _, b := range c.bones {
		parent := c.Parent(b)
		if parent == nil {
			b.World = pmath.Translate(c.position).Mul4(b.Rotation)
			continue
		}
		offset := pmath.MulComponents(b.Offset, parent.Size)
		b.World = parent.World.Mul4(pmath.Translate(offset)).Mul4(b.Rotation)
	}
}

// syncBodiesFromBones teleports every body to its bone.
func (c *Controller) syncBodiesFromBones() {
	c.updateWorldTransforms()
	for _, b := range c.bones {
		b.body.SetTransform(b.Center())
	}
}

// syncBonesFromBodies reads the simulated transforms back into the bones.
func (c *Controller) syncBonesFromBodies() {
	for _, b := range c.bones {
		b.World = b.body.Transform().Mul4(pmath.Translate(b.Middle().Mul(-1)))
	}
	c.updateRotationsFromWorld()
}

// updateRotationsFromWorld re-derives the local rotations, root first.
func (c *Controller) updateRotationsFromWorld() {
	worldRot := make([]mgl64.Mat4, len(c.bones))
	for _, b := range c.bones {
		pos, q := pmath.Decompose(b.World)
		worldRot[b.ID] = q.Mat4()
		if b.IsRoot() {
			c.position = pos
			b.Rotation = worldRot[b.ID]
			continue
		}
		b.Rotation = worldRot[b.Parent].Transpose().Mul4(worldRot[b.ID])
	}
}
