package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-pose/internal/skeleton"
	pmath "github.com/Faultbox/midgard-pose/pkg/math"
)

// GetAngles returns the joint angles of b. Axes without freedom are unset;
// the root reports the angles of its orientation.
func (c *Controller) GetAngles(b *Bone) Angles {
	if b.joint == nil {
		return AnglesOf(pmath.EulerXYZ(pmath.Rotation3(b.Rotation)))
	}
	return b.joint.Angles()
}

// SetAngles poses b directly, bypassing the simulation for this frame.
// Angles are clamped to the bone's limits. An unset component contributes
// no rotation on its axis; a blocked axis keeps its current value.
func (c *Controller) SetAngles(b *Bone, desired Angles) {
	current := c.GetAngles(b)
	free := b.blocking.Rotation()

	var target mgl64.Vec3
	for i := range target {
		switch {
		case !free[i] && current[i].Set:
			target[i] = current[i].Rad
		case desired[i].Set:
			target[i] = desired[i].Rad
		}
	}
	target = pmath.ClampVec3(target, b.LowLimit, b.HighLimit)

	saved := b.blocking
	c.applyRotationBlocking(b, [3]bool{})

	order := pmath.OrderZYX
	if g, ok := b.joint.(*GenericJoint); ok {
		order = g.Fix.Order()
	}
	b.Rotation = pmath.Compose(target, order)
	c.syncBodiesFromBones()

	c.applyRotationBlocking(b, saved.rotationBlocked())
}

// SetBoneBlocking changes the axis freedom of b. A fully blocked bone
// becomes immovable; frozen rotation axes hold their current angle.
func (c *Controller) SetBoneBlocking(b *Bone, blocking Blocking) {
	b.blocking = blocking
	if blocking.IsFullyBlocked() {
		b.body.SetMass(0)
	} else {
		b.body.SetMass(b.Mass)
	}
	b.body.SetLinearFactor(factor(blocking.Position()))
	c.applyRotationBlocking(b, blocking.rotationBlocked())
}

// BoneBlocking returns the axis freedom of b; a nil bone is free.
func (c *Controller) BoneBlocking(b *Bone) Blocking {
	if b == nil {
		return AllFree()
	}
	return b.blocking
}

// applyRotationBlocking freezes rotation axes: through the angular mask
// for the root, through the joint limits for every other bone.
func (c *Controller) applyRotationBlocking(b *Bone, blocked [3]bool) {
	if b.joint == nil {
		b.body.SetAngularFactor(factor([3]bool{!blocked[0], !blocked[1], !blocked[2]}))
		return
	}
	b.joint.UpdateLimits(blocked)
}

// refreezeAll re-applies every bone's blocking after a pose change.
func (c *Controller) refreezeAll() {
	for _, b := range c.bones {
		c.SetBoneBlocking(b, b.blocking)
	}
}

// BlockAllExceptBranch blocks parent and everything below it, except the
// branch rooted at exception.
func (c *Controller) BlockAllExceptBranch(parent, exception *Bone) {
	if parent == nil {
		return
	}
	c.SetBoneBlocking(parent, AllBlocked())
	for _, id := range parent.Children {
		child := c.bones[id]
		if child == exception {
			continue
		}
		c.BlockAllExceptBranch(child, nil)
	}
}

// UnblockAll frees every axis of every bone.
func (c *Controller) UnblockAll() {
	for _, b := range c.bones {
		c.SetBoneBlocking(b, AllFree())
	}
}

// Pose is the kinematic state of a rig: the root position and each bone's
// local rotation, by bone name.
type Pose struct {
	Position  mgl64.Vec3
	Rotations map[string]mgl64.Quat
}

// Pose captures the current pose.
func (c *Controller) Pose() Pose {
	p := Pose{Position: c.position, Rotations: make(map[string]mgl64.Quat, len(c.bones))}
	for _, b := range c.bones {
		p.Rotations[b.Name] = pmath.QuatOf(b.Rotation)
	}
	return p
}

// ApplyPose writes rotations directly, ignoring limits and blocking, then
// refreezes blocked axes at their new angles. Bones missing from p keep
// their rotation.
func (c *Controller) ApplyPose(p Pose) {
	c.position = p.Position
	for _, b := range c.bones {
		q, ok := p.Rotations[b.Name]
		if !ok {
			continue
		}
		if q.Len() == 0 {
			q = mgl64.QuatIdent()
		}
		b.Rotation = q.Normalize().Mat4()
	}
	c.syncBodiesFromBones()
	c.refreezeAll()
}

// Reset returns the rig to its rest pose at the origin.
func (c *Controller) Reset() {
	c.position = mgl64.Vec3{}
	for _, b := range c.bones {
		b.Rotation = mgl64.Ident4()
	}
	c.syncBodiesFromBones()
	c.refreezeAll()
}

var (
	centerMirror = mgl64.Vec3{-1, 1, 1}
	sideMirror   = mgl64.Vec3{-1, 1, -1}
)

// MirrorPose reflects the pose across the sagittal plane: centre bones
// flip their X angle and left/right pairs exchange angles.
func (c *Controller) MirrorPose() {
	for _, b := range c.bones {
		switch b.Side {
		case skeleton.Center:
			c.SetAngles(b, c.GetAngles(b).Scale(centerMirror))
		default:
			other, ok := c.skel.Mirror(b.Bone)
			if !ok || b.ID > other.ID {
				continue
			}
			ob := c.bones[other.ID]
			angles, otherAngles := c.GetAngles(b), c.GetAngles(ob)
			c.SetAngles(b, otherAngles.Scale(sideMirror))
			c.SetAngles(ob, angles.Scale(sideMirror))
		}
	}
}

// Drag pulls local (in b's body space) toward world. Call it every tick
// to move the target.
func (c *Controller) Drag(b *Bone, local, world mgl64.Vec3) {
	c.drag.Attach(b.body, local, world)
}

// ReleaseDrag drops the drag tether.
func (c *Controller) ReleaseDrag() {
	c.drag.Detach()
}

// Dragging reports whether the drag tether is active.
func (c *Controller) Dragging() bool { return c.drag.IsActive() }

// DragPinpoint returns the drag tether.
func (c *Controller) DragPinpoint() *Pinpoint { return c.drag }

// ConstrainBonePosition pins the point of b currently at world to world.
func (c *Controller) ConstrainBonePosition(b *Bone, world mgl64.Vec3) {
	local := pmath.TransformPoint(b.Center().Inv(), world)
	c.constrain(b, local, world)
}

func (c *Controller) constrain(b *Bone, local, world mgl64.Vec3) {
	if b.pin == nil {
		b.pin = NewPinpoint(c.space, c.cfg.Pinpoint)
	}
	b.pin.Attach(b.body, local, world)
}

// RemoveBonePositionConstraint releases the pin of b, if any.
func (c *Controller) RemoveBonePositionConstraint(b *Bone) {
	if b.pin != nil {
		b.pin.Detach()
	}
}

// IsBonePositionConstrained reports whether b is pinned to a world point.
func (c *Controller) IsBonePositionConstrained(b *Bone) bool {
	return b.pin != nil && b.pin.IsActive()
}

// BonePinpoint returns the position constraint of b, or nil if it was
// never used.
func (c *Controller) BonePinpoint(b *Bone) *Pinpoint { return b.pin }
