package ombra

// Material pairs a shader program with an albedo source: either a texture or
// a flat color resolved through the scene's color table. Exactly one of the
// two is active; a valid texture handle wins.
type Material struct {
	Shader  Handle[ShaderProgram]
	Color   Color
	Texture Handle[Texture]
	Normals Handle[Texture]

	Metallic  float32
	Roughness float32
}

func NewMaterial(shader Handle[ShaderProgram]) Material {
	return Material{
		Shader:    shader,
		Color:     White(),
		Texture:   NoneHandle[Texture](),
		Normals:   NoneHandle[Texture](),
		Metallic:  1,
		Roughness: 1,
	}
}

// MaterialBuilder assembles a Material for scene setup code.
type MaterialBuilder struct {
	material Material
}

func BuildMaterial(shader Handle[ShaderProgram]) *MaterialBuilder {
	return &MaterialBuilder{material: NewMaterial(shader)}
}

func (b *MaterialBuilder) Color(color Color) *MaterialBuilder {
	b.material.Color = color
	return b
}

func (b *MaterialBuilder) Texture(texture Handle[Texture]) *MaterialBuilder {
	b.material.Texture = texture
	return b
}

func (b *MaterialBuilder) Normals(normals Handle[Texture]) *MaterialBuilder {
	b.material.Normals = normals
	return b
}

func (b *MaterialBuilder) Metallic(metallic float32) *MaterialBuilder {
	b.material.Metallic = metallic
	return b
}

func (b *MaterialBuilder) Roughness(roughness float32) *MaterialBuilder {
	b.material.Roughness = roughness
	return b
}

func (b *MaterialBuilder) Build() Material {
	return b.material
}

// Bind resolves the albedo source and binds it on texture unit 0, plus the
// normal map on unit 2 when present. Missing color table entries are a scene
// construction bug and panic.
func (m *Material) Bind(backend Backend, program *ShaderProgram, textures *Pack[Texture], colors map[Color]Texture) {
	if tex := textures.Get(m.Texture); tex != nil {
		backend.BindTexture(0, tex.Handle)
	} else {
		colorTex, ok := colors[m.Color]
		if !ok {
			panic("material color has no texture in the scene color table")
		}
		backend.BindTexture(0, colorTex.Handle)
	}
	if program.Loc.TexSampler >= 0 {
		backend.Uniform1i(program.Loc.TexSampler, 0)
	}

	if normals := textures.Get(m.Normals); normals != nil {
		backend.BindTexture(2, normals.Handle)
		if program.Loc.NormalSampler >= 0 {
			backend.Uniform1i(program.Loc.NormalSampler, 2)
		}
	}
}
