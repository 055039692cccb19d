package posescript

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-pose/internal/rig"
	"github.com/Faultbox/midgard-pose/internal/skeleton"
)

func newRunner(t *testing.T) (*Runner, *rig.Controller, *observer.ObservedLogs) {
	t.Helper()
	cfg := rig.DefaultConfig()
	cfg.Floor = false
	c, err := rig.New(skeleton.Humanoid(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	core, logs := observer.New(zapcore.InfoLevel)
	return New(c, zap.New(core)), c, logs
}

func run(t *testing.T, r *Runner, src string) {
	t.Helper()
	require.NoError(t, r.Run(context.Background(), []byte(src)))
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestBones(t *testing.T) {
	r, c, logs := newRunner(t)

	run(t, r, `
names := rig.bones()
rig.log(len(names), names[0])
`)
	assert.Equal(t, []string{fmt.Sprintf("%d Pelvis", len(c.Bones()))}, messages(logs))
}

func TestSetAndReadAngles(t *testing.T) {
	r, c, logs := newRunner(t)

	run(t, r, `
rig.set_angles("Neck", undefined, 20, undefined)
a := rig.angles("Neck")
rig.log(a[0] == undefined, a[2] == undefined)
`)

	neck, err := c.BoneByName("Neck")
	require.NoError(t, err)
	assert.InDelta(t, 20, c.GetAngles(neck)[1].Degrees(), 1e-6)
	assert.Equal(t, []string{"true true"}, messages(logs))
}

func TestSetAnglesClamps(t *testing.T) {
	r, c, _ := newRunner(t)

	run(t, r, `rig.set_angles("Neck", 0, 90, 0)`)

	neck, err := c.BoneByName("Neck")
	require.NoError(t, err)
	assert.InDelta(t, 35, c.GetAngles(neck)[1].Degrees(), 1e-6)
}

func TestBlocking(t *testing.T) {
	r, c, logs := newRunner(t)

	run(t, r, `
rig.block("Head", "rx, rz")
rig.log(rig.blocking("Head"))
rig.unblock("Neck")
`)

	head, err := c.BoneByName("Head")
	require.NoError(t, err)
	b := c.BoneBlocking(head)
	assert.False(t, b.RotX)
	assert.True(t, b.RotY)
	assert.False(t, b.RotZ)
	assert.Equal(t, []string{b.String()}, messages(logs))
}

func TestTick(t *testing.T) {
	r, c, logs := newRunner(t)

	run(t, r, `rig.log(rig.tick(0.01))`)

	assert.Equal(t, uint64(20), c.Clock().Steps())
	assert.Equal(t, []string{"20"}, messages(logs))
}

func TestPinAndDrag(t *testing.T) {
	r, c, _ := newRunner(t)

	run(t, r, `
p := rig.position("Head")
rig.pin("Head", p[0], p[1], p[2])
h := rig.position("Left Hand")
rig.drag("Left Hand", h[0], h[1] + 0.05, h[2])
`)

	head, err := c.BoneByName("Head")
	require.NoError(t, err)
	assert.True(t, c.IsBonePositionConstrained(head))
	assert.True(t, c.Dragging())

	run(t, r, `
rig.unpin("Head")
rig.release()
`)
	assert.False(t, c.IsBonePositionConstrained(head))
	assert.False(t, c.Dragging())
}

func TestPick(t *testing.T) {
	r, c, logs := newRunner(t)

	head, err := c.BoneByName("Head")
	require.NoError(t, err)
	p := head.Body().Position()

	run(t, r, fmt.Sprintf(`
rig.log(rig.pick(%f, %f, %f, 0, 0, -1))
rig.log(rig.pick(%f, %f, %f, 0, 0, 1) == undefined)
`, p[0], p[1], p[2]+1, p[0], p[1], p[2]+1))

	assert.Equal(t, []string{"Head", "true"}, messages(logs))
}

func TestResetAndMirror(t *testing.T) {
	r, c, _ := newRunner(t)

	run(t, r, `
rig.set_angles("Left Upper Leg", 20, 30, 10)
rig.mirror()
`)
	right, err := c.BoneByName("Right Upper Leg")
	require.NoError(t, err)
	assert.True(t, c.GetAngles(right).AnySet())
	assert.Greater(t, c.GetAngles(right).Vec3().Len(), mgl64.DegToRad(10))

	run(t, r, `rig.reset()`)
	assert.InDelta(t, 0, c.GetAngles(right).Vec3().Len(), 1e-6)
}

func TestStdlibImports(t *testing.T) {
	r, _, logs := newRunner(t)

	run(t, r, `
text := import("text")
rig.log(text.to_upper("neck"))
`)
	assert.Equal(t, []string{"NECK"}, messages(logs))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "unknown bone", src: `rig.angles("Tail")`, want: "unknown bone"},
		{name: "bad flags", src: `rig.block("Head", "sideways")`, want: "sideways"},
		{name: "wrong arity", src: `rig.set_angles("Head", 1)`, want: "wrong number of arguments"},
		{name: "bad angle", src: `rig.set_angles("Head", "a", 0, 0)`, want: "expected float"},
		{name: "syntax error", src: `rig.angles(`, want: "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newRunner(t)
			err := r.Run(context.Background(), []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunHonoursContext(t *testing.T) {
	r, _, _ := newRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, []byte(`for {}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
