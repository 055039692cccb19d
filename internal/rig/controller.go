// Package rig simulates a skeleton as jointed rigid bodies and exposes the
// posing operations of the editor: reading and writing joint angles,
// freezing axes, and pulling bones toward world points.
//
// A Controller is not safe for concurrent use. Hosts that do work on other
// goroutines must hand them a Snapshot instead of the controller.
package rig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pose/internal/skeleton"
	"github.com/Faultbox/midgard-pose/pkg/physics"
)

// ErrUnknownBone is returned when a bone name does not resolve.
var ErrUnknownBone = errors.New("rig: unknown bone")

// Bone is the simulated state of one skeleton bone.
type Bone struct {
	*skeleton.Bone

	// Rotation is the orientation relative to the parent (or the world for
	// the root).
	Rotation mgl64.Mat4
	// World places the bone's head in world space.
	World mgl64.Mat4
	// Mass is the nominal mass restored when the bone is not fully blocked.
	Mass float64

	body     *physics.Body
	joint    Joint
	blocking Blocking
	pin      *Pinpoint

	jointLocal       mgl64.Vec3
	parentJointLocal mgl64.Vec3
}

// Body returns the physics body.
func (b *Bone) Body() *physics.Body { return b.body }

// Joint returns the joint to the parent, or nil for the root.
func (b *Bone) Joint() Joint { return b.joint }

// Blocking returns the current axis freedom.
func (b *Bone) Blocking() Blocking { return b.blocking }

// Center returns the world transform of the box centre.
func (b *Bone) Center() mgl64.Mat4 {
	return b.World.Mul4(b.MiddleTranslation())
}

// JointPoints returns the joint location in the bone's and the parent's
// body space.
func (b *Bone) JointPoints() (local, parent mgl64.Vec3) {
	return b.jointLocal, b.parentJointLocal
}

// Controller owns the physics space of one rig.
type Controller struct {
	cfg Config
	log *zap.Logger

	skel   *skeleton.Skeleton
	bones  []*Bone
	space  *physics.Space
	clock  *Clock
	policy CollisionPolicy

	floor    *physics.Body
	floorZ   float64
	position mgl64.Vec3

	drag *Pinpoint
}

// New builds a rig in its rest pose. It fails with ErrGimbalCeiling when a
// three-axis joint cannot be made gimbal safe.
func New(skel *skeleton.Skeleton, cfg Config, log *zap.Logger) (*Controller, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		cfg:    cfg,
		log:    log,
		skel:   skel,
		space:  physics.NewSpace(),
		clock:  NewClock(cfg.StepRate, cfg.MaxStepsPerTick),
		policy: CollisionPolicy{Skeleton: skel},
	}
	if err := c.build(); err != nil {
		log.Error("rig construction failed", zap.String("skeleton", skel.Name), zap.Error(err))
		return nil, err
	}
	c.drag = NewPinpoint(c.space, cfg.Pinpoint)

	log.Debug("rig built",
		zap.String("skeleton", skel.Name),
		zap.Int("bones", len(c.bones)),
		zap.Int("constraints", len(c.space.Constraints())),
		zap.Float64("floorZ", c.floorZ))
	return c, nil
}

// Config returns the settings the rig was built with.
func (c *Controller) Config() Config { return c.cfg }

// Skeleton returns the bone definitions.
func (c *Controller) Skeleton() *skeleton.Skeleton { return c.skel }

// Space returns the physics space. Callers must not mutate it.
func (c *Controller) Space() *physics.Space { return c.space }

// Clock returns the fixed-step clock.
func (c *Controller) Clock() *Clock { return c.clock }

// Bones returns every bone, parents first.
func (c *Controller) Bones() []*Bone { return c.bones }

// Bone returns the bone with the given id, or nil.
func (c *Controller) Bone(id int) *Bone {
	if id < 0 || id >= len(c.bones) {
		return nil
	}
	return c.bones[id]
}

// Root returns the root bone.
func (c *Controller) Root() *Bone { return c.bones[0] }

// Parent returns the parent of b, or nil for the root.
func (c *Controller) Parent(b *Bone) *Bone { return c.Bone(b.Parent) }

// BoneByName looks a bone up by its full name.
func (c *Controller) BoneByName(name string) (*Bone, error) {
	sb, ok := c.skel.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBone, name)
	}
	return c.bones[sb.ID], nil
}

// Position returns the root head position.
func (c *Controller) Position() mgl64.Vec3 { return c.position }

// FloorZ returns the height of the floor's top face.
func (c *Controller) FloorZ() float64 { return c.floorZ }

// Floor returns the floor body, or nil when the rig has none.
func (c *Controller) Floor() *physics.Body { return c.floor }

// Tick advances the simulation by dt seconds of wall time and re-derives
// the bone transforms. It returns the number of fixed steps run.
func (c *Controller) Tick(dt float64) int {
	n := c.clock.Advance(dt, c.space.Step)
	if n > 0 {
		c.syncBonesFromBodies()
	}
	return n
}

// Close drops every body and constraint.
func (c *Controller) Close() {
	c.drag.Close()
	for _, b := range c.bones {
		if b.pin != nil {
			b.pin.Close()
		}
	}
	for _, body := range append([]*physics.Body(nil), c.space.Bodies()...) {
		c.space.RemoveBody(body)
	}
}
