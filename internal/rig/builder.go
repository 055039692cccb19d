package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	pmath "github.com/Faultbox/midgard-pose/pkg/math"
	"github.com/Faultbox/midgard-pose/pkg/physics"
)

func (c *Controller) build() error {
	space := c.space
	space.Iterations = c.cfg.Iterations
	space.SetGravity(c.cfg.Gravity)
	space.SetCollisionFilter(c.policy.ShouldCollide)

	c.bones = make([]*Bone, 0, c.skel.Len())
	for _, sb := range c.skel.Bones() {
		c.bones = append(c.bones, &Bone{
			Bone:     sb,
			Rotation: mgl64.Ident4(),
			blocking: AllFree(),
		})
	}
	c.updateWorldTransforms()
	c.floorZ = c.restFloorZ()
	c.calculateJointLocations()

	for _, b := range c.bones {
		c.addBody(b)
	}
	for _, b := range c.bones[1:] {
		if err := c.addJoint(b); err != nil {
			return fmt.Errorf("bone %q: %w", b.Name, err)
		}
	}
	if c.cfg.Floor {
		c.addFloor()
	}
	return nil
}

// restFloorZ returns the lowest point of the rest pose, never above zero.
func (c *Controller) restFloorZ() float64 {
	z := 0.0
	for _, b := range c.bones {
		z = math.Min(z, pmath.TranslationOf(b.Center())[2]-b.Size[2]*0.5)
	}
	return z
}

// calculateJointLocations places each joint at the child's head, expressed
// relative to both box centres. Bones are unrotated at rest, so world
// offsets are body-local offsets.
func (c *Controller) calculateJointLocations() {
	for _, child := range c.bones[1:] {
		parent := c.Parent(child)
		head := pmath.TranslationOf(child.World)
		child.jointLocal = head.Sub(pmath.TranslationOf(child.Center()))
		child.parentJointLocal = head.Sub(pmath.TranslationOf(parent.Center()))
	}
}

func (c *Controller) addBody(b *Bone) {
	b.Mass = c.cfg.Density * b.Size[0] * b.Size[1] * b.Size[2]
	if b.Pinned {
		b.Mass = 0
	}
	body := physics.NewBody(b.Mass, physics.NewBox(b.Size))
	body.SetTransform(b.Center())
	body.SetDamping(c.cfg.LinearDamping, c.cfg.AngularDamping)
	body.SetFriction(c.cfg.Friction)
	body.SetRestitution(c.cfg.Restitution)
	body.SetSleepingAllowed(false)
	body.UserData = boneTag(b.ID)
	b.body = c.space.AddBody(body)
}

func (c *Controller) addJoint(child *Bone) error {
	parent := c.Parent(child)
	kind := ClassifyJoint(child.LowLimit, child.HighLimit)
	joint, err := newJoint(kind, parent.body, child.body, child.parentJointLocal, child.jointLocal, child.LowLimit, child.HighLimit)
	if err != nil {
		return err
	}
	con := joint.Constraint()
	con.SetErrorReduction(c.cfg.JointERP)
	con.SetCollideBodies(false)
	con.UserData = child.ID
	c.space.AddConstraint(con)
	child.joint = joint

	fields := []zap.Field{zap.String("bone", child.Name), zap.Stringer("joint", kind)}
	if g, ok := joint.(*GenericJoint); ok {
		fields = append(fields, zap.Stringer("gimbalFix", g.Fix))
	}
	c.log.Debug("joint created", fields...)
	return nil
}

func (c *Controller) addFloor() {
	size := mgl64.Vec3{c.cfg.FloorSize, c.cfg.FloorSize, c.cfg.FloorHeight}
	floor := physics.NewStaticBody(physics.NewBox(size))
	floor.SetPosition(mgl64.Vec3{0, 0, -c.cfg.FloorHeight*0.5 + c.floorZ})
	floor.SetFriction(c.cfg.Friction)
	floor.SetRestitution(c.cfg.Restitution)
	floor.UserData = BodyTag{Kind: BodySolid}
	c.floor = c.space.AddBody(floor)
}
