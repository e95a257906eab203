package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight shines along the forward axis of the node that carries
// it; only its color lives here.
type DirectionalLight struct {
	Color [3]float32
}

func NewDirectionalLight() DirectionalLight {
	return DirectionalLight{Color: [3]float32{1, 1, 1}}
}

func DirectionalLightColor(r, g, b float32) DirectionalLight {
	return DirectionalLight{Color: [3]float32{r, g, b}}
}

// Bind uploads the light color and the direction derived from the carrying
// node's transform.
func (l *DirectionalLight) Bind(backend Backend, program *ShaderProgram, node *Node) {
	if program.Loc.LightColor >= 0 {
		backend.Uniform3f(program.Loc.LightColor, mgl32.Vec3(l.Color))
	}
	if program.Loc.LightDirection >= 0 {
		backend.Uniform3f(program.Loc.LightDirection, node.Trs.Forward())
	}
}

// PointLight radiates from the position of the node that carries it.
type PointLight struct {
	Color [3]float32
}

func NewPointLight() PointLight {
	return PointLight{Color: [3]float32{1, 1, 1}}
}
