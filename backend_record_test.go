package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// recordDraw is one draw call captured by the recording backend.
type recordDraw struct {
	kind          string // "indexed", "arrays", "indexedInstanced", "arraysInstanced"
	count         int32
	instanceCount int32
}

type recordMat4Slice struct {
	loc int32
	ms  []mgl32.Mat4
}

type recordUniform1i struct {
	loc int32
	v   int32
}

// recordBackend captures every call the draw pipeline makes so tests can
// assert batching, ordering and clearing without a GPU.
type recordBackend struct {
	nextResource uint32

	framebufferBinds []uint32
	viewports        []Extent2D
	clears           int
	rasterStates     []RasterState
	programBinds     []uint32
	vaoBinds         []uint32
	textureBinds     [][2]uint32

	uniform1i  []recordUniform1i
	uniform1f  map[int32][]float32
	uniform2f  map[int32][][2]float32
	uniform3f  map[int32][]mgl32.Vec3
	mat3s      map[int32][]mgl32.Mat3
	mat4s      map[int32][]mgl32.Mat4
	mat4Slices []recordMat4Slice

	draws []recordDraw
}

func newRecordBackend() *recordBackend {
	return &recordBackend{
		nextResource: 1,
		uniform1f:    make(map[int32][]float32),
		uniform2f:    make(map[int32][][2]float32),
		uniform3f:    make(map[int32][]mgl32.Vec3),
		mat3s:        make(map[int32][]mgl32.Mat3),
		mat4s:        make(map[int32][]mgl32.Mat4),
	}
}

func (b *recordBackend) BindFramebuffer(handle uint32) {
	b.framebufferBinds = append(b.framebufferBinds, handle)
}

func (b *recordBackend) Viewport(width, height uint32) {
	b.viewports = append(b.viewports, NewExtent2D(width, height))
}

func (b *recordBackend) Clear(r, g, bl, a float32) {
	b.clears++
}

func (b *recordBackend) SetRasterState(state RasterState) {
	b.rasterStates = append(b.rasterStates, state)
}

func (b *recordBackend) UseProgram(handle uint32) {
	b.programBinds = append(b.programBinds, handle)
}

func (b *recordBackend) Uniform1i(loc int32, v int32) {
	b.uniform1i = append(b.uniform1i, recordUniform1i{loc: loc, v: v})
}

func (b *recordBackend) Uniform1f(loc int32, v float32) {
	b.uniform1f[loc] = append(b.uniform1f[loc], v)
}

func (b *recordBackend) Uniform2f(loc int32, x, y float32) {
	b.uniform2f[loc] = append(b.uniform2f[loc], [2]float32{x, y})
}

func (b *recordBackend) Uniform3f(loc int32, v mgl32.Vec3) {
	b.uniform3f[loc] = append(b.uniform3f[loc], v)
}

func (b *recordBackend) UniformMat3(loc int32, transpose bool, m mgl32.Mat3) {
	b.mat3s[loc] = append(b.mat3s[loc], m)
}

func (b *recordBackend) UniformMat4(loc int32, m mgl32.Mat4) {
	b.mat4s[loc] = append(b.mat4s[loc], m)
}

func (b *recordBackend) UniformMat4Slice(loc int32, ms []mgl32.Mat4) {
	copied := make([]mgl32.Mat4, len(ms))
	copy(copied, ms)
	b.mat4Slices = append(b.mat4Slices, recordMat4Slice{loc: loc, ms: copied})
}

func (b *recordBackend) BindVertexArray(vao uint32) {
	b.vaoBinds = append(b.vaoBinds, vao)
}

func (b *recordBackend) BindTexture(unit uint32, tex uint32) {
	b.textureBinds = append(b.textureBinds, [2]uint32{unit, tex})
}

func (b *recordBackend) DrawTriangles(indexCount int32, indexType IndexType) {
	b.draws = append(b.draws, recordDraw{kind: "indexed", count: indexCount})
}

func (b *recordBackend) DrawTriangleArrays(vertexCount int32) {
	b.draws = append(b.draws, recordDraw{kind: "arrays", count: vertexCount})
}

func (b *recordBackend) DrawTrianglesInstanced(indexCount int32, indexType IndexType, instanceCount int32) {
	b.draws = append(b.draws, recordDraw{kind: "indexedInstanced", count: indexCount, instanceCount: instanceCount})
}

func (b *recordBackend) DrawTriangleArraysInstanced(vertexCount int32, instanceCount int32) {
	b.draws = append(b.draws, recordDraw{kind: "arraysInstanced", count: vertexCount, instanceCount: instanceCount})
}

func (b *recordBackend) newResource() uint32 {
	id := b.nextResource
	b.nextResource++
	return id
}

func (b *recordBackend) CreatePrimitive(vertices []Vertex, indices []byte, indexType IndexType) uint32 {
	return b.newResource()
}

func (b *recordBackend) CreateColorTexture(width, height uint32, rgba []byte) uint32 {
	return b.newResource()
}

func (b *recordBackend) CreateDepthTexture(width, height uint32) uint32 {
	return b.newResource()
}

func (b *recordBackend) CreateFramebuffer(colorTex, depthTex uint32) uint32 {
	return b.newResource()
}

func (b *recordBackend) drawCount() int {
	return len(b.draws)
}

// reset drops the captured calls but keeps the resource counter so handles
// created before the reset stay unique.
func (b *recordBackend) reset() {
	next := b.nextResource
	*b = *newRecordBackend()
	b.nextResource = next
}
