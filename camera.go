package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is only a projection matrix. Position and orientation come from
// whichever node places the camera in the scene at draw time.
type Camera struct {
	Proj mgl32.Mat4
}

// OrthographicCamera builds a centered orthographic projection covering
// width x height world units.
func OrthographicCamera(width, height float32) Camera {
	return Camera{
		Proj: mgl32.Ortho(-width/2, width/2, -height/2, height/2, 0.125, 100),
	}
}

// PerspectiveCamera builds a perspective projection for the given aspect
// ratio with a quarter-pi vertical field of view.
func PerspectiveCamera(aspect float32) Camera {
	return Camera{
		Proj: mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.125, 100),
	}
}

// Bind uploads view and projection for this camera placed at the given node.
func (c *Camera) Bind(backend Backend, program *ShaderProgram, node *Node) {
	if program.Loc.View >= 0 {
		backend.UniformMat4(program.Loc.View, node.Trs.View())
	}
	if program.Loc.Proj >= 0 {
		backend.UniformMat4(program.Loc.Proj, c.Proj)
	}
}
