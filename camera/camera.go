// Package camera implements the orbit camera the tutorial looks at the teapot through.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fieldOfView = 45.0
	nearPlane   = 0.1
	farPlane    = 100.0

	dragSensitivity = 0.005
	keyAngularSpeed = 1.5
	zoomStep        = 0.9

	minDistance = 1.5
	maxDistance = 20.0
	maxPitch    = 89.0 * math.Pi / 180.0
)

// VulkanClip maps OpenGL clip space onto Vulkan's: y points down and depth runs 0 to 1.
var VulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Input is what the camera consumes from one frame of window events.
type Input struct {
	DragX, DragY float32
	Wheel        float32

	Left, Right, Up, Down bool
}

// Orbit circles the origin at Distance, looking at it.
type Orbit struct {
	Yaw      float32
	Pitch    float32
	Distance float32
	Aspect   float32
}

func NewOrbit(aspect float32) *Orbit {
	return &Orbit{
		Yaw:      0,
		Pitch:    0.35,
		Distance: 4,
		Aspect:   aspect,
	}
}

// Update applies one frame of input. dt is the frame time in seconds.
func (o *Orbit) Update(in Input, dt float32) {
	o.Yaw -= in.DragX * dragSensitivity
	o.Pitch += in.DragY * dragSensitivity

	step := keyAngularSpeed * dt
	if in.Left {
		o.Yaw -= step
	}
	if in.Right {
		o.Yaw += step
	}
	if in.Up {
		o.Pitch += step
	}
	if in.Down {
		o.Pitch -= step
	}

	if in.Wheel != 0 {
		o.Distance *= float32(math.Pow(zoomStep, float64(in.Wheel)))
	}

	o.Pitch = mgl32.Clamp(o.Pitch, -maxPitch, maxPitch)
	o.Distance = mgl32.Clamp(o.Distance, minDistance, maxDistance)
	o.Yaw = float32(math.Mod(float64(o.Yaw), 2*math.Pi))
}

func (o *Orbit) Eye() mgl32.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(o.Yaw))
	sinPitch, cosPitch := math.Sincos(float64(o.Pitch))

	return mgl32.Vec3{
		float32(cosPitch * sinYaw),
		float32(sinPitch),
		float32(cosPitch * cosYaw),
	}.Mul(o.Distance)
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Eye(), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fieldOfView), o.Aspect, nearPlane, farPlane)
}

// ViewProjection is the full world to Vulkan clip space transformation.
func (o *Orbit) ViewProjection() mgl32.Mat4 {
	return VulkanClip.Mul4(o.Projection()).Mul4(o.View())
}
