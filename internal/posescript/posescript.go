// Package posescript drives a rig from tengo scripts.
//
// Scripts see a single immutable map named rig:
//
//	rig.bones()                      names of every bone, root first
//	rig.angles(bone)                 [x, y, z] in degrees, undefined for locked axes
//	rig.set_angles(bone, x, y, z)    degrees; undefined means no rotation on that axis
//	rig.blocking(bone)               blocking flags as text ("free", "all", "px,rz")
//	rig.block(bone, flags)           blocks the listed axes, see rig.ParseBlocking
//	rig.unblock(bone)                frees every axis
//	rig.position(bone)               world centre of the bone body
//	rig.pin(bone, x, y, z)           holds the bone centre at a world point
//	rig.unpin(bone)
//	rig.drag(bone, x, y, z)          pulls the bone centre toward a world point
//	rig.release()                    ends the drag
//	rig.pick(sx, sy, sz, dx, dy, dz) bone hit by a ray, or undefined
//	rig.tick(seconds)                advances the simulation, returns steps run
//	rig.mirror()                     mirrors the pose left to right
//	rig.reset()                      returns to the rest pose
//	rig.log(values...)               writes an info line
package posescript

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pose/internal/rig"
)

// Runner executes scripts against one controller.
type Runner struct {
	rig *rig.Controller
	log *zap.Logger

	// MaxAllocs bounds the objects a script may allocate; 0 means no limit.
	MaxAllocs int64
}

// New creates a runner for c.
func New(c *rig.Controller, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{rig: c, log: log}
}

// Run compiles and runs src. The script is aborted when ctx is done.
func (r *Runner) Run(ctx context.Context, src []byte) error {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if r.MaxAllocs > 0 {
		script.SetMaxAllocs(r.MaxAllocs)
	}
	if err := script.Add("rig", r.module()); err != nil {
		return fmt.Errorf("binding rig: %w", err)
	}

	if _, err := script.RunContext(ctx); err != nil {
		return fmt.Errorf("pose script: %w", err)
	}
	return nil
}

// RunFile reads and runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r.log.Debug("running script", zap.String("path", path))
	return r.Run(ctx, src)
}

func (r *Runner) module() *tengo.ImmutableMap {
	fns := map[string]tengo.CallableFunc{
		"bones":      r.bones,
		"angles":     r.angles,
		"set_angles": r.setAngles,
		"blocking":   r.blocking,
		"block":      r.block,
		"unblock":    r.unblock,
		"position":   r.position,
		"pin":        r.pin,
		"unpin":      r.unpin,
		"drag":       r.drag,
		"release":    r.release,
		"pick":       r.pick,
		"tick":       r.tick,
		"mirror":     r.mirror,
		"reset":      r.reset,
		"log":        r.logLine,
	}

	m := make(map[string]tengo.Object, len(fns))
	for name, fn := range fns {
		m[name] = &tengo.UserFunction{Name: name, Value: fn}
	}
	return &tengo.ImmutableMap{Value: m}
}

func (r *Runner) bones(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 0 {
		return nil, tengo.ErrWrongNumArguments
	}
	names := make([]tengo.Object, 0, len(r.rig.Bones()))
	for _, b := range r.rig.Bones() {
		names = append(names, &tengo.String{Value: b.Name})
	}
	return &tengo.Array{Value: names}, nil
}

func (r *Runner) angles(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}

	out := make([]tengo.Object, 3)
	for i, a := range r.rig.GetAngles(b) {
		if a.Set {
			out[i] = &tengo.Float{Value: a.Degrees()}
		} else {
			out[i] = tengo.UndefinedValue
		}
	}
	return &tengo.Array{Value: out}, nil
}

func (r *Runner) setAngles(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 4 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}

	var desired rig.Angles
	for i, arg := range args[1:] {
		if _, undefined := arg.(*tengo.Undefined); undefined {
			continue
		}
		v, ok := tengo.ToFloat64(arg)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "xyz"[i : i+1], Expected: "float", Found: arg.TypeName()}
		}
		desired[i] = rig.Deg(v)
	}
	r.rig.SetAngles(b, desired)
	return tengo.UndefinedValue, nil
}

func (r *Runner) blocking(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	return &tengo.String{Value: r.rig.BoneBlocking(b).String()}, nil
}

func (r *Runner) block(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	flags, ok := tengo.ToString(args[1])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "flags", Expected: "string", Found: args[1].TypeName()}
	}
	blocking, err := rig.ParseBlocking(flags)
	if err != nil {
		return nil, err
	}
	r.rig.SetBoneBlocking(b, blocking)
	return tengo.UndefinedValue, nil
}

func (r *Runner) unblock(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	r.rig.SetBoneBlocking(b, rig.AllFree())
	return tengo.UndefinedValue, nil
}

func (r *Runner) position(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	return vecObject(b.Body().Position()), nil
}

func (r *Runner) pin(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 4 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	world, err := vecArg(args[1:4])
	if err != nil {
		return nil, err
	}
	r.rig.ConstrainBonePosition(b, world)
	return tengo.UndefinedValue, nil
}

func (r *Runner) unpin(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	r.rig.RemoveBonePositionConstraint(b)
	return tengo.UndefinedValue, nil
}

func (r *Runner) drag(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 4 {
		return nil, tengo.ErrWrongNumArguments
	}
	b, err := r.boneArg(args[0])
	if err != nil {
		return nil, err
	}
	world, err := vecArg(args[1:4])
	if err != nil {
		return nil, err
	}
	r.rig.Drag(b, mgl64.Vec3{}, world)
	return tengo.UndefinedValue, nil
}

func (r *Runner) release(args ...tengo.Object) (tengo.Object, error) {
	r.rig.ReleaseDrag()
	return tengo.UndefinedValue, nil
}

func (r *Runner) pick(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 6 {
		return nil, tengo.ErrWrongNumArguments
	}
	start, err := vecArg(args[0:3])
	if err != nil {
		return nil, err
	}
	dir, err := vecArg(args[3:6])
	if err != nil {
		return nil, err
	}
	hit, ok := r.rig.BoneFromRay(start, dir)
	if !ok {
		return tengo.UndefinedValue, nil
	}
	return &tengo.String{Value: hit.Bone.Name}, nil
}

func (r *Runner) tick(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	seconds, ok := tengo.ToFloat64(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "seconds", Expected: "float", Found: args[0].TypeName()}
	}

	// Feed the clock one fixed step at a time so long ticks are not
	// dropped by its catch-up bound.
	dt := r.rig.Clock().FixedDelta()
	steps := 0
	for seconds > dt/2 {
		steps += r.rig.Tick(dt)
		seconds -= dt
	}
	return &tengo.Int{Value: int64(steps)}, nil
}

func (r *Runner) mirror(args ...tengo.Object) (tengo.Object, error) {
	r.rig.MirrorPose()
	return tengo.UndefinedValue, nil
}

func (r *Runner) reset(args ...tengo.Object) (tengo.Object, error) {
	r.rig.Reset()
	return tengo.UndefinedValue, nil
}

func (r *Runner) logLine(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		s, _ := tengo.ToString(arg)
		parts[i] = s
	}
	r.log.Info(strings.Join(parts, " "))
	return tengo.UndefinedValue, nil
}

func (r *Runner) boneArg(arg tengo.Object) (*rig.Bone, error) {
	name, ok := tengo.ToString(arg)
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "bone", Expected: "string", Found: arg.TypeName()}
	}
	return r.rig.BoneByName(name)
}

func vecArg(args []tengo.Object) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	for i, arg := range args {
		f, ok := tengo.ToFloat64(arg)
		if !ok {
			return v, tengo.ErrInvalidArgumentType{Name: "xyz"[i : i+1], Expected: "float", Found: arg.TypeName()}
		}
		v[i] = f
	}
	return v, nil
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v[0]},
		&tengo.Float{Value: v[1]},
		&tengo.Float{Value: v[2]},
	}}
}
