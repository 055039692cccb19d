package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-pose/pkg/physics"
)

// Pinpoint is a soft tether pulling a local point of a target body toward
// a world point. The world end is a kinematic anchor body created on first
// use and kept for later attachments.
type Pinpoint struct {
	space  *physics.Space
	params PinpointParams

	anchor *physics.Body
	joint  *physics.PointJoint
	target *physics.Body

	local, world mgl64.Vec3
}

// NewPinpoint creates an inactive pinpoint.
func NewPinpoint(space *physics.Space, params PinpointParams) *Pinpoint {
	return &Pinpoint{space: space, params: params}
}

// IsActive reports whether the tether exists.
func (p *Pinpoint) IsActive() bool { return p.joint != nil }

// Target returns the pulled body, or nil.
func (p *Pinpoint) Target() *physics.Body { return p.target }

// LocalPoint returns the pulled point in the target's local space.
func (p *Pinpoint) LocalPoint() mgl64.Vec3 { return p.local }

// WorldPoint returns the destination.
func (p *Pinpoint) WorldPoint() mgl64.Vec3 { return p.world }

// Anchor returns the anchor body, or nil before the first attachment.
func (p *Pinpoint) Anchor() *physics.Body { return p.anchor }

// Attach pulls local (in target space) toward world. Calling it again with
// the same target only moves the points. A nil target detaches.
func (p *Pinpoint) Attach(target *physics.Body, local, world mgl64.Vec3) {
	if target == nil {
		p.Detach()
		return
	}
	if p.joint == nil || p.target != target {
		p.Rebuild(target)
	}

	p.local, p.world = local, world
	p.joint.SetAnchorB(local)
	p.anchor.SetPosition(world)
}

// Detach removes the tether. The anchor stays in the space, idle.
func (p *Pinpoint) Detach() {
	if p.joint != nil {
		p.space.RemoveConstraint(p.joint.Constraint)
		p.joint = nil
	}
	p.target = nil
	p.local, p.world = mgl64.Vec3{}, mgl64.Vec3{}
}

// Rebuild replaces the tether with a new one on target.
func (p *Pinpoint) Rebuild(target *physics.Body) {
	if p.joint != nil {
		p.space.RemoveConstraint(p.joint.Constraint)
	}
	if p.anchor == nil {
		p.anchor = physics.NewKinematicBody(physics.NewBox(mgl64.Vec3{}))
		p.anchor.UserData = BodyTag{Kind: BodyNonSolid}
		p.space.AddBody(p.anchor)
	}
	p.target = target
	p.joint = physics.NewPointJoint(p.anchor, target, mgl64.Vec3{}, p.local)
	p.joint.SetSoftness(p.params.CFM)
	p.joint.SetErrorReduction(p.params.ERP)
	p.joint.SetCollideBodies(false)
	p.space.AddConstraint(p.joint.Constraint)
}

// Close removes the tether and the anchor from the space.
func (p *Pinpoint) Close() {
	p.Detach()
	if p.anchor != nil {
		p.space.RemoveBody(p.anchor)
		p.anchor = nil
	}
}
