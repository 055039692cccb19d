package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BoneState is the saved state of one bone.
type BoneState struct {
	Name string `yaml:"name"`
	// Rotation is the local rotation as w, x, y, z.
	Rotation    [4]float64 `yaml:"rotation,flow"`
	Blocking    Blocking   `yaml:"blocking"`
	Constrained bool       `yaml:"constrained,omitempty"`
	LocalPoint  [3]float64 `yaml:"local_point,flow,omitempty"`
	WorldPoint  [3]float64 `yaml:"world_point,flow,omitempty"`
}

// UnmarshalYAML treats missing blocking flags as free.
func (s *BoneState) UnmarshalYAML(value *yaml.Node) error {
	type plain BoneState
	st := plain{Blocking: AllFree()}
	if err := value.Decode(&st); err != nil {
		return err
	}
	*s = BoneState(st)
	return nil
}

// Snapshot is a serializable copy of the editable rig state.
type Snapshot struct {
	Skeleton string      `yaml:"skeleton"`
	Position [3]float64  `yaml:"position,flow"`
	Bones    []BoneState `yaml:"bones"`
}

// Snapshot captures pose, blocking and position constraints.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Skeleton: c.skel.Name,
		Position: [3]float64(c.position),
		Bones:    make([]BoneState, 0, len(c.bones)),
	}
	pose := c.Pose()
	for _, b := range c.bones {
		q := pose.Rotations[b.Name]
		st := BoneState{
			Name:     b.Name,
			Rotation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			Blocking: b.blocking,
		}
		if c.IsBonePositionConstrained(b) {
			st.Constrained = true
			st.LocalPoint = [3]float64(b.pin.LocalPoint())
			st.WorldPoint = [3]float64(b.pin.WorldPoint())
		}
		s.Bones = append(s.Bones, st)
	}
	return s
}

// Restore applies a snapshot by bone name. Saved bones the rig does not
// have are ignored; rig bones the snapshot lacks keep their rotation and
// are reset to free and unconstrained.
func (c *Controller) Restore(s Snapshot) {
	states := make(map[string]BoneState, len(s.Bones))
	pose := Pose{Position: mgl64.Vec3(s.Position), Rotations: make(map[string]mgl64.Quat, len(s.Bones))}
	for _, st := range s.Bones {
		if _, err := c.BoneByName(st.Name); err != nil {
			c.log.Debug("snapshot bone ignored", zap.String("bone", st.Name))
			continue
		}
		states[st.Name] = st
		r := st.Rotation
		pose.Rotations[st.Name] = mgl64.Quat{W: r[0], V: mgl64.Vec3{r[1], r[2], r[3]}}
	}
	c.ApplyPose(pose)

	for _, b := range c.bones {
		st, ok := states[b.Name]
		if !ok {
			st = BoneState{Blocking: AllFree()}
		}
		c.SetBoneBlocking(b, st.Blocking)
		if st.Constrained {
			c.constrain(b, mgl64.Vec3(st.LocalPoint), mgl64.Vec3(st.WorldPoint))
		} else {
			c.RemoveBonePositionConstraint(b)
		}
	}
}

// Marshal encodes the snapshot as YAML.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes a YAML snapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return s, nil
}
