package ombra

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLBackend implements Backend on an OpenGL 4.1 core context. The context
// must be current on the calling thread before NewGLBackend and stay there;
// GL is not multithread-friendly.
type GLBackend struct{}

func NewGLBackend() (*GLBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	return &GLBackend{}, nil
}

func (b *GLBackend) BindFramebuffer(handle uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
}

func (b *GLBackend) Viewport(width, height uint32) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *GLBackend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *GLBackend) SetRasterState(state RasterState) {
	if state.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	if state.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	if state.Cull == CullBack {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	if state.Scissor {
		gl.Enable(gl.SCISSOR_TEST)
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}
}

func (b *GLBackend) UseProgram(handle uint32) {
	gl.UseProgram(handle)
}

func (b *GLBackend) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (b *GLBackend) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (b *GLBackend) Uniform2f(loc int32, x, y float32) {
	gl.Uniform2f(loc, x, y)
}

func (b *GLBackend) Uniform3f(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v.X(), v.Y(), v.Z())
}

func (b *GLBackend) UniformMat3(loc int32, transpose bool, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, transpose, &m[0])
}

func (b *GLBackend) UniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (b *GLBackend) UniformMat4Slice(loc int32, ms []mgl32.Mat4) {
	if len(ms) == 0 {
		return
	}
	gl.UniformMatrix4fv(loc, int32(len(ms)), false, &ms[0][0])
}

func (b *GLBackend) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *GLBackend) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.ActiveTexture(gl.TEXTURE0)
}

func glIndexType(t IndexType) uint32 {
	switch t {
	case IndexU8:
		return gl.UNSIGNED_BYTE
	case IndexU16:
		return gl.UNSIGNED_SHORT
	default:
		return gl.UNSIGNED_INT
	}
}

func (b *GLBackend) DrawTriangles(indexCount int32, indexType IndexType) {
	gl.DrawElements(gl.TRIANGLES, indexCount, glIndexType(indexType), gl.PtrOffset(0))
}

func (b *GLBackend) DrawTriangleArrays(vertexCount int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, vertexCount)
}

func (b *GLBackend) DrawTrianglesInstanced(indexCount int32, indexType IndexType, instanceCount int32) {
	gl.DrawElementsInstanced(gl.TRIANGLES, indexCount, glIndexType(indexType), gl.PtrOffset(0), instanceCount)
}

func (b *GLBackend) DrawTriangleArraysInstanced(vertexCount int32, instanceCount int32) {
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, vertexCount, instanceCount)
}

// CreatePrimitive uploads interleaved vertex data plus an optional index
// list into a fresh vertex array object.
func (b *GLBackend) CreatePrimitive(vertices []Vertex, indices []byte, indexType IndexType) uint32 {
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(Vertex{})), gl.Ptr(vertices), gl.STATIC_DRAW)

	if len(indices) > 0 {
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	}

	stride := int32(unsafe.Sizeof(Vertex{}))

	// Position
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Color
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	// Texture coordinates
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
	// Normal
	gl.VertexAttribPointer(3, 3, gl.FLOAT, true, stride, gl.PtrOffset(8*4))
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	return vao
}

func (b *GLBackend) CreateColorTexture(width, height uint32, rgba []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	var pixels unsafe.Pointer
	if len(rgba) > 0 {
		pixels = gl.Ptr(rgba)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pixels)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	return tex
}

func (b *GLBackend) CreateDepthTexture(width, height uint32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	return tex
}

func (b *GLBackend) CreateFramebuffer(colorTex, depthTex uint32) uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)

	if colorTex != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, colorTex, 0)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}
	if depthTex != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depthTex, 0)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		panic(fmt.Sprintf("framebuffer incomplete: status 0x%x", status))
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb
}

// CompileProgram compiles and links a GLSL vertex/fragment pair and resolves
// the engine's uniform table. This is the shader compilation collaborator
// used by the demos; the draw pipeline itself only consumes the resulting
// ShaderProgram record.
func (b *GLBackend) CompileProgram(vertSrc, fragSrc string) (ShaderProgram, error) {
	vert, err := compileShader(gl.VERTEX_SHADER, vertSrc)
	if err != nil {
		return ShaderProgram{}, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(gl.FRAGMENT_SHADER, fragSrc)
	if err != nil {
		return ShaderProgram{}, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		defer gl.DeleteProgram(program)
		return ShaderProgram{}, fmt.Errorf("link program: %s", programInfoLog(program))
	}

	loc := UniformTable{
		Model:          uniformLocation(program, "model"),
		Models:         uniformLocation(program, "models"),
		ModelIntr:      uniformLocation(program, "model_intr"),
		View:           uniformLocation(program, "view"),
		Proj:           uniformLocation(program, "proj"),
		NodeId:         uniformLocation(program, "node_id"),
		InstanceCount:  uniformLocation(program, "instance_count"),
		Time:           uniformLocation(program, "time"),
		Extent:         uniformLocation(program, "extent"),
		LightSpace:     uniformLocation(program, "light_space"),
		LightColor:     uniformLocation(program, "directional_light.color"),
		LightDirection: uniformLocation(program, "directional_light.direction"),
		TexSampler:     uniformLocation(program, "tex_sampler"),
		NormalSampler:  uniformLocation(program, "normal_sampler"),
		ShadowSampler:  uniformLocation(program, "shadow_sampler"),
	}

	return NewShaderProgram(program, loc), nil
}

func compileShader(shaderType uint32, src string) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		defer gl.DeleteShader(shader)

		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength)+1)
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))

		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(infoLog, "\x00"))
	}

	return shader, nil
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	infoLog := strings.Repeat("\x00", int(logLength)+1)
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
