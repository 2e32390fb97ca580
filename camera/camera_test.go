package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestOriginProjectsToCenter(t *testing.T) {
	o := NewOrbit(1)
	ndc := project(o.ViewProjection(), mgl32.Vec3{0, 0, 0})

	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestVulkanClipFlipsY(t *testing.T) {
	o := NewOrbit(1)
	o.Pitch = 0

	above := project(o.ViewProjection(), mgl32.Vec3{0, 0.5, 0})
	assert.Less(t, above.Y(), float32(0))
}

func TestDepthRange(t *testing.T) {
	o := NewOrbit(1)
	o.Pitch = 0
	o.Yaw = 0
	o.Distance = 10

	near := project(o.ViewProjection(), mgl32.Vec3{0, 0, 10 - nearPlane})
	far := project(o.ViewProjection(), mgl32.Vec3{0, 0, 10 - farPlane})
	assert.InDelta(t, 0, near.Z(), 1e-3)
	assert.InDelta(t, 1, far.Z(), 1e-3)
}

func TestUpdateClampsPitchAndDistance(t *testing.T) {
	o := NewOrbit(1)

	o.Update(Input{DragY: 100000, Wheel: -100}, 0)
	require.InDelta(t, maxPitch, o.Pitch, 1e-6)
	require.Equal(t, float32(maxDistance), o.Distance)

	o.Update(Input{DragY: -100000, Wheel: 100}, 0)
	require.InDelta(t, -maxPitch, o.Pitch, 1e-6)
	require.Equal(t, float32(minDistance), o.Distance)
}

func TestUpdateKeysScaleWithFrameTime(t *testing.T) {
	o := NewOrbit(1)
	start := o.Yaw

	o.Update(Input{Right: true}, 0.5)
	require.InDelta(t, start+keyAngularSpeed*0.5, o.Yaw, 1e-6)

	o.Update(Input{Right: true, Left: true}, 0.5)
	require.InDelta(t, start+keyAngularSpeed*0.5, o.Yaw, 1e-6)
}

func TestEyeKeepsDistance(t *testing.T) {
	o := NewOrbit(16.0 / 9.0)
	o.Yaw = 1.2
	o.Pitch = -0.7

	require.InDelta(t, o.Distance, o.Eye().Len(), 1e-5)
	require.InDelta(t, math.Sin(-0.7)*float64(o.Distance), o.Eye().Y(), 1e-5)
}
