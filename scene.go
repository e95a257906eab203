package ombra

import (
	"github.com/google/uuid"
)

// Scene is the arena owning everything a frame can draw. Handles issued by
// its packs stay valid until the scene itself is dropped. The asset layer
// populates a scene up front; during collection and passes it is read-only.
type Scene struct {
	// Id tags log lines and diagnostics when several scenes are loaded.
	Id string

	Colors     map[Color]Texture
	Textures   *Pack[Texture]
	Shaders    *Pack[ShaderProgram]
	Materials  *Pack[Material]
	Primitives *Pack[Primitive]
	Meshes     *Pack[Mesh]
	Nodes      *Pack[Node]

	DirectionalLights *Pack[DirectionalLight]
	PointLights       *Pack[PointLight]
	Cameras           *Pack[Camera]
}

func NewScene() *Scene {
	return &Scene{
		Id:                uuid.NewString(),
		Colors:            make(map[Color]Texture),
		Textures:          NewPack[Texture](),
		Shaders:           NewPack[ShaderProgram](),
		Materials:         NewPack[Material](),
		Primitives:        NewPack[Primitive](),
		Meshes:            NewPack[Mesh](),
		Nodes:             NewPack[Node](),
		DirectionalLights: NewPack[DirectionalLight](),
		PointLights:       NewPack[PointLight](),
		Cameras:           NewPack[Camera](),
	}
}

// EnsureColorTexture lazily creates the 1x1 texture a flat-colored material
// resolves to. Call it while building the scene for every flat color used.
func (s *Scene) EnsureColorTexture(backend Backend, color Color) {
	if _, ok := s.Colors[color]; !ok {
		s.Colors[color] = PixelTexture(backend, color)
	}
}
