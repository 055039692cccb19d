package rig

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Blocking holds the per-axis freedom of a bone. A true flag means the
// axis is free; the zero value blocks everything.
type Blocking struct {
	PosX bool `yaml:"pos_x"`
	PosY bool `yaml:"pos_y"`
	PosZ bool `yaml:"pos_z"`
	RotX bool `yaml:"rot_x"`
	RotY bool `yaml:"rot_y"`
	RotZ bool `yaml:"rot_z"`
}

// AllFree returns a state with every axis free.
func AllFree() Blocking {
	return Blocking{true, true, true, true, true, true}
}

// UnmarshalYAML leaves flags absent from the document free.
func (b *Blocking) UnmarshalYAML(value *yaml.Node) error {
	type plain Blocking
	p := plain(AllFree())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*b = Blocking(p)
	return nil
}

// AllBlocked returns a state with every axis frozen.
func AllBlocked() Blocking {
	return Blocking{}
}

// IsFullyBlocked reports whether every axis is frozen.
func (b Blocking) IsFullyBlocked() bool {
	return b == Blocking{}
}

// Position returns the per-axis linear freedom.
func (b Blocking) Position() [3]bool {
	return [3]bool{b.PosX, b.PosY, b.PosZ}
}

// Rotation returns the per-axis rotational freedom.
func (b Blocking) Rotation() [3]bool {
	return [3]bool{b.RotX, b.RotY, b.RotZ}
}

// rotationBlocked returns the frozen rotation axes.
func (b Blocking) rotationBlocked() [3]bool {
	return [3]bool{!b.RotX, !b.RotY, !b.RotZ}
}

func factor(free [3]bool) mgl64.Vec3 {
	var f mgl64.Vec3
	for i, ok := range free {
		if ok {
			f[i] = 1
		}
	}
	return f
}

var blockingNames = [6]string{"px", "py", "pz", "rx", "ry", "rz"}

func (b *Blocking) flags() [6]*bool {
	return [6]*bool{&b.PosX, &b.PosY, &b.PosZ, &b.RotX, &b.RotY, &b.RotZ}
}

// String lists the blocked axes, e.g. "px,rz", or "free".
func (b Blocking) String() string {
	var blocked []string
	for i, f := range b.flags() {
		if !*f {
			blocked = append(blocked, blockingNames[i])
		}
	}
	switch len(blocked) {
	case 0:
		return "free"
	case 6:
		return "all"
	}
	return strings.Join(blocked, ",")
}

// ParseBlocking reads the blocked axes in the form produced by String.
// "pos" and "rot" block all three axes of their kind.
func ParseBlocking(s string) (Blocking, error) {
	b := AllFree()
	flags := b.flags()
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ',' || r == ' ' }) {
		switch tok {
		case "free":
		case "all":
			b = AllBlocked()
		case "pos":
			b.PosX, b.PosY, b.PosZ = false, false, false
		case "rot":
			b.RotX, b.RotY, b.RotZ = false, false, false
		default:
			found := false
			for i, name := range blockingNames {
				if tok == name {
					*flags[i] = false
					found = true
				}
			}
			if !found {
				return Blocking{}, fmt.Errorf("unknown blocking axis %q", tok)
			}
		}
	}
	return b, nil
}
