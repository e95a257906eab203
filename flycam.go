package ombra

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCamera drives a camera node from keyboard and mouse state: WASD to
// move in the view plane, space and left control for up and down, Tab to
// toggle mouse capture for looking around.
type FlyingCamera struct {
	window *Window

	Speed       float32
	Sensitivity float32

	// Yaw and Pitch are in degrees; pitch is clamped short of the poles.
	Yaw   float32
	Pitch float32

	position mgl32.Vec3
	captured bool
	tabHeld  bool
	lastX    float64
	lastY    float64
}

func NewFlyingCamera(window *Window, position mgl32.Vec3) *FlyingCamera {
	x, y := window.window.GetCursorPos()
	return &FlyingCamera{
		window:      window,
		Speed:       5,
		Sensitivity: 0.1,
		position:    position,
		lastX:       x,
		lastY:       y,
	}
}

func (c *FlyingCamera) pressed(key glfw.Key) bool {
	return c.window.window.GetKey(key) == glfw.Press
}

// Update advances the camera from the current input state and writes the
// resulting isometry into the node carrying the camera.
func (c *FlyingCamera) Update(dt float32, node *Node) {
	if c.pressed(glfw.KeyTab) {
		if !c.tabHeld {
			c.captured = !c.captured
			mode := glfw.CursorNormal
			if c.captured {
				mode = glfw.CursorDisabled
			}
			c.window.window.SetInputMode(glfw.CursorMode, mode)
		}
		c.tabHeld = true
	} else {
		c.tabHeld = false
	}

	x, y := c.window.window.GetCursorPos()
	dx := x - c.lastX
	dy := y - c.lastY
	c.lastX, c.lastY = x, y

	if c.captured {
		c.Yaw -= float32(dx) * c.Sensitivity
		c.Pitch -= float32(dy) * c.Sensitivity
		if c.Pitch > 89 {
			c.Pitch = 89
		}
		if c.Pitch < -89 {
			c.Pitch = -89
		}
	}

	orientation := mgl32.QuatRotate(mgl32.DegToRad(c.Yaw), mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(c.Pitch), mgl32.Vec3{1, 0, 0}))

	var lateral mgl32.Vec3
	if c.pressed(glfw.KeyW) {
		lateral[2] -= 1
	}
	if c.pressed(glfw.KeyS) {
		lateral[2] += 1
	}
	if c.pressed(glfw.KeyA) {
		lateral[0] -= 1
	}
	if c.pressed(glfw.KeyD) {
		lateral[0] += 1
	}

	var vertical float32
	if c.pressed(glfw.KeySpace) {
		vertical += 1
	}
	if c.pressed(glfw.KeyLeftControl) {
		vertical -= 1
	}

	if lateral.Len() > 0 {
		c.position = c.position.Add(orientation.Rotate(lateral.Normalize()).Mul(c.Speed * dt))
	}
	c.position[1] += vertical * c.Speed * dt

	trs := NewTrs()
	trs.Translate(c.position.X(), c.position.Y(), c.position.Z())
	trs.Rotate(orientation)
	node.Trs = trs
}
