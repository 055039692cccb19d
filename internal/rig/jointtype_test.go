package rig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyJoint(t *testing.T) {
	tests := []struct {
		low, high mgl64.Vec3
		want      JointKind
	}{
		{mgl64.Vec3{}, mgl64.Vec3{}, JointFixed},
		{deg(-90, 0, 0), deg(90, 0, 0), JointHingeX},
		{deg(0, -165, 0), deg(0, 0, 0), JointHingeY},
		{deg(0, 0, 0), deg(0, 0, 165), JointHingeZ},
		{deg(-10, -70, 0), deg(10, 5, 0), JointGeneric},
		{deg(-25, -70, -5), deg(25, 45, 5), JointGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			for i := 0; i < 3; i++ {
				assert.Equal(t, tt.want, ClassifyJoint(tt.low, tt.high))
			}
		})
	}
}

func TestHingeAxis(t *testing.T) {
	axis, ok := JointHingeZ.HingeAxis()
	require.True(t, ok)
	assert.Equal(t, "Z", axis.String())

	_, ok = JointGeneric.HingeAxis()
	assert.False(t, ok)
}

func TestBlockingFlags(t *testing.T) {
	assert.True(t, AllBlocked().IsFullyBlocked())
	assert.False(t, AllFree().IsFullyBlocked())

	b := AllBlocked()
	b.RotZ = true
	assert.False(t, b.IsFullyBlocked())
	assert.Equal(t, [3]bool{true, true, false}, b.rotationBlocked())
}

func TestParseBlocking(t *testing.T) {
	tests := []struct {
		in   string
		want Blocking
	}{
		{"", AllFree()},
		{"free", AllFree()},
		{"all", AllBlocked()},
		{"px, rz", Blocking{PosY: true, PosZ: true, RotX: true, RotY: true}},
		{"rot", Blocking{PosX: true, PosY: true, PosZ: true}},
		{"POS,ry", Blocking{RotX: true, RotZ: true}},
	}
	for _, tt := range tests {
		got, err := ParseBlocking(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)

		again, err := ParseBlocking(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	_, err := ParseBlocking("px,wz")
	assert.Error(t, err)
}

func TestAngles(t *testing.T) {
	a := Angles{Deg(10), Unset, Deg(-30)}
	assert.True(t, a.AnySet())
	assert.False(t, Angles{}.AnySet())
	assert.Equal(t, "(10.00°, -, -30.00°)", a.String())

	m := a.Scale(mgl64.Vec3{-1, -1, -1})
	assert.InDelta(t, -10, m[0].Degrees(), 1e-12)
	assert.False(t, m[1].Set)
	assert.Equal(t, mgl64.Vec3{m[0].Rad, 0, m[2].Rad}, m.Vec3())
}
