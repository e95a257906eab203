package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// IndexType is the element type of a primitive's index list.
type IndexType int

const (
	IndexU8 IndexType = iota
	IndexU16
	IndexU32
)

// Size returns the size in bytes of one index element.
func (t IndexType) Size() int {
	switch t {
	case IndexU8:
		return 1
	case IndexU16:
		return 2
	default:
		return 4
	}
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
)

// RasterState is the fixed-function state a pass configures before issuing
// draws.
type RasterState struct {
	Blend     bool
	DepthTest bool
	Cull      CullMode
	Scissor   bool
}

// Backend is the seam between the draw pipeline and the graphics API. The
// production implementation talks to OpenGL; tests substitute a recorder.
// All calls are synchronous and must happen on the thread owning the
// graphics context.
type Backend interface {
	// Pass state
	BindFramebuffer(handle uint32)
	Viewport(width, height uint32)
	Clear(r, g, b, a float32)
	SetRasterState(state RasterState)
	UseProgram(handle uint32)

	// Uniform uploads. Locations come from a ShaderProgram's UniformTable.
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, v mgl32.Vec3)
	UniformMat3(loc int32, transpose bool, m mgl32.Mat3)
	UniformMat4(loc int32, m mgl32.Mat4)
	UniformMat4Slice(loc int32, ms []mgl32.Mat4)

	// Geometry and textures
	BindVertexArray(vao uint32)
	BindTexture(unit uint32, tex uint32)

	// Draw submission
	DrawTriangles(indexCount int32, indexType IndexType)
	DrawTriangleArrays(vertexCount int32)
	DrawTrianglesInstanced(indexCount int32, indexType IndexType, instanceCount int32)
	DrawTriangleArraysInstanced(vertexCount int32, instanceCount int32)

	// Resource creation
	CreatePrimitive(vertices []Vertex, indices []byte, indexType IndexType) uint32
	CreateColorTexture(width, height uint32, rgba []byte) uint32
	CreateDepthTexture(width, height uint32) uint32
	CreateFramebuffer(colorTex, depthTex uint32) uint32
}
