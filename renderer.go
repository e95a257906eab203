package ombra

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// maxInstanceBatch is the hardware limit on instances per instanced draw;
// larger instance sets are split into batches of this size.
const maxInstanceBatch = 128

// shadowWorldUnitsPerTexel ties the shadow frustum size to the shadow
// buffer's virtual extent: the orthographic camera covers virtualExtent
// divided by this constant, in world units.
const shadowWorldUnitsPerTexel = 64

// Renderer executes rendering passes over a collected DrawManifest. Each
// render method consumes and clears the manifest it is given, so callers
// must re-collect before every pass.
type Renderer struct {
	backend Backend
	log     Logger

	// Delta time bound as the time uniform for shaders that animate.
	delta float32

	depthProgram ShaderProgram
	readColor    ShaderProgram
	readDepth    ShaderProgram

	// Screen camera and unit quad for presenting offscreen textures.
	screenCamera Camera
	screenNode   Node
	quad         Primitive
	quadNode     Node

	// Shadow state carried from the shadow pass into the geometry pass.
	lightSpace mgl32.Mat4
	shadowMap  uint32
}

// RendererOption configures optional renderer state.
type RendererOption func(*Renderer)

func WithLogger(log Logger) RendererOption {
	return func(r *Renderer) {
		r.log = log
	}
}

// WithBlitPrograms installs the programs used to present offscreen color and
// depth textures to a target.
func WithBlitPrograms(readColor, readDepth ShaderProgram) RendererOption {
	return func(r *Renderer) {
		r.readColor = readColor
		r.readDepth = readDepth
	}
}

// NewRenderer builds a renderer around a backend and the depth-only program
// used by the shadow pass. Programs come from the shader compilation layer.
func NewRenderer(backend Backend, depthProgram ShaderProgram, opts ...RendererOption) *Renderer {
	screenNode := NewNode()
	screenNode.Trs.Translate(0, 0, 1)

	r := &Renderer{
		backend:      backend,
		log:          NewNopLogger(),
		depthProgram: depthProgram,
		readColor:    ShaderProgram{Loc: NewUniformTable()},
		readDepth:    ShaderProgram{Loc: NewUniformTable()},
		screenCamera: OrthographicCamera(1, 1),
		screenNode:   screenNode,
		quad:         QuadPrimitive(backend, NoneHandle[Material]()),
		quadNode:     NewNode(),
		lightSpace:   mgl32.Ident4(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SetDelta sets the delta time bound as the time uniform.
func (r *Renderer) SetDelta(delta float32) {
	r.delta = delta
}

// LightSpace returns the light projection*view matrix computed by the last
// shadow pass.
func (r *Renderer) LightSpace() mgl32.Mat4 {
	return r.lightSpace
}

// RenderShadow renders the manifest's geometry into the target's depth
// buffer from the directional light's point of view. Only depth matters, so
// iteration is primitive-major and a single depth-only program stays bound
// for the whole pass. The manifest is cleared on completion.
func (r *Renderer) RenderShadow(scene *Scene, m *DrawManifest, target *OffscreenTarget) {
	defer m.Clear()

	lightNode := scene.Nodes.Get(m.DirectionalLight)
	if lightNode == nil {
		if !m.Empty() {
			r.log.Warnf("shadow pass skipped: manifest has geometry but no directional light")
		}
		return
	}

	if target.DepthTexture == nil {
		panic("shadow pass target has no depth attachment")
	}
	r.shadowMap = target.DepthTexture.Handle

	fb := target.Framebuffer()
	fb.Bind(r.backend)
	r.backend.Viewport(fb.Extent.Width, fb.Extent.Height)
	// Culling off so both sides of thin geometry cast shadows. Blending is
	// kept on for state parity with the geometry pass even though no color
	// is written.
	r.backend.SetRasterState(RasterState{Blend: true, DepthTest: true, Cull: CullNone, Scissor: false})
	r.backend.Clear(0.6, 0.5, 1.0, 0.0)

	r.backend.UseProgram(r.depthProgram.Handle)

	// The light acts as its own camera: an orthographic frustum sized from
	// the virtual extent, viewed through the light node's transform.
	camera := OrthographicCamera(
		float32(fb.VirtualExtent.Width/shadowWorldUnitsPerTexel),
		float32(fb.VirtualExtent.Height/shadowWorldUnitsPerTexel),
	)
	camera.Bind(r.backend, &r.depthProgram, lightNode)
	r.lightSpace = camera.Proj.Mul4(lightNode.Trs.View())

	draws := 0
	for _, primitiveId := range m.Primitives() {
		primitive := scene.Primitives.GetById(primitiveId)
		if primitive == nil {
			panic(fmt.Sprintf("scene %s: manifest references missing primitive %d", scene.Id, primitiveId))
		}

		primitive.Bind(r.backend)
		m.PrimitiveNodes(primitiveId, func(nodeId uint32, nodeHandle Handle[Node], transform mgl32.Mat4) {
			node := scene.Nodes.Get(nodeHandle)
			if node == nil {
				panic(fmt.Sprintf("scene %s: manifest references missing node %d", scene.Id, nodeHandle.Id()))
			}
			r.bindNode(&r.depthProgram, node, transform)
			draws += r.drawPrimitive(&r.depthProgram, node, primitive, transform)
		})
	}

	r.log.Debugf("shadow pass: %d primitives, %d draws", len(m.Primitives()), draws)
}

// RenderGeometry renders the manifest's geometry into the target, grouped
// shader first, then material, then primitive, then node, so the most
// expensive state changes happen least often. Geometry is re-issued once per
// camera registered in the manifest. The manifest is cleared on completion.
func (r *Renderer) RenderGeometry(scene *Scene, m *DrawManifest, target RenderTarget) {
	defer m.Clear()

	fb := target.Framebuffer()
	fb.Bind(r.backend)
	r.backend.Viewport(fb.Extent.Width, fb.Extent.Height)
	r.backend.SetRasterState(RasterState{Blend: true, DepthTest: true, Cull: CullBack, Scissor: false})
	r.backend.Clear(0.2, 0.3, 0.5, 0.0)

	lightNode := scene.Nodes.Get(m.DirectionalLight)

	draws := 0
	for _, shaderId := range m.Shaders() {
		shader := scene.Shaders.GetById(shaderId)
		if shader == nil {
			panic(fmt.Sprintf("scene %s: manifest references missing shader %d", scene.Id, shaderId))
		}

		r.backend.UseProgram(shader.Handle)
		if shader.Loc.Time >= 0 {
			r.backend.Uniform1f(shader.Loc.Time, r.delta)
		}
		if shader.Loc.Extent >= 0 {
			r.backend.Uniform2f(shader.Loc.Extent,
				float32(fb.VirtualExtent.Width), float32(fb.VirtualExtent.Height))
		}
		if lightNode != nil {
			if light := scene.DirectionalLights.Get(lightNode.DirectionalLight); light != nil {
				light.Bind(r.backend, shader, lightNode)
			}
			if shader.Loc.LightSpace >= 0 {
				r.backend.UniformMat4(shader.Loc.LightSpace, r.lightSpace)
			}
		}
		if shader.Loc.ShadowSampler >= 0 {
			r.backend.BindTexture(1, r.shadowMap)
			r.backend.Uniform1i(shader.Loc.ShadowSampler, 1)
		}

		// The whole grouped set is drawn once per point of view.
		for _, view := range m.Cameras {
			camera := scene.Cameras.Get(view.Camera)
			cameraNode := scene.Nodes.Get(view.Node)
			if camera == nil || cameraNode == nil {
				panic(fmt.Sprintf("scene %s: manifest references missing camera %d", scene.Id, view.Camera.Id()))
			}
			camera.Bind(r.backend, shader, cameraNode)

			for _, materialId := range m.ShaderMaterials(shaderId) {
				material := scene.Materials.GetById(materialId)
				if material == nil {
					panic(fmt.Sprintf("scene %s: manifest references missing material %d", scene.Id, materialId))
				}
				material.Bind(r.backend, shader, scene.Textures, scene.Colors)

				for _, primitiveId := range m.MaterialPrimitives(materialId) {
					primitive := scene.Primitives.GetById(primitiveId)
					if primitive == nil {
						panic(fmt.Sprintf("scene %s: manifest references missing primitive %d", scene.Id, primitiveId))
					}
					primitive.Bind(r.backend)

					m.PrimitiveNodes(primitiveId, func(nodeId uint32, nodeHandle Handle[Node], transform mgl32.Mat4) {
						node := scene.Nodes.Get(nodeHandle)
						if node == nil {
							panic(fmt.Sprintf("scene %s: manifest references missing node %d", scene.Id, nodeHandle.Id()))
						}
						r.bindNode(shader, node, transform)
						draws += r.drawPrimitive(shader, node, primitive, transform)
					})
				}
			}
		}
	}

	r.log.Debugf("geometry pass: %d shaders, %d cameras, %d draws", len(m.Shaders()), len(m.Cameras), draws)
}

// BlitColor presents an offscreen color texture onto the target through the
// screen quad.
func (r *Renderer) BlitColor(source *OffscreenTarget, target RenderTarget) {
	if source.ColorTexture == nil {
		panic("blit source has no color attachment")
	}
	r.blit(&r.readColor, source.ColorTexture, target)
}

// BlitDepth presents an offscreen depth texture onto the target, useful for
// shadow map debugging.
func (r *Renderer) BlitDepth(source *OffscreenTarget, target RenderTarget) {
	if source.DepthTexture == nil {
		panic("blit source has no depth attachment")
	}
	r.blit(&r.readDepth, source.DepthTexture, target)
}

func (r *Renderer) blit(program *ShaderProgram, texture *Texture, target RenderTarget) {
	if program.Handle == 0 {
		panic("blit program not configured; renderer needs WithBlitPrograms")
	}

	fb := target.Framebuffer()
	fb.Bind(r.backend)
	r.backend.Viewport(fb.Extent.Width, fb.Extent.Height)
	r.backend.Clear(0, 0, 0, 0)

	r.backend.UseProgram(program.Handle)

	if program.Loc.Extent >= 0 {
		r.backend.Uniform2f(program.Loc.Extent,
			float32(texture.Extent.Width), float32(texture.Extent.Height))
	}

	r.screenCamera.Bind(r.backend, program, &r.screenNode)
	r.backend.BindTexture(0, texture.Handle)
	if program.Loc.TexSampler >= 0 {
		r.backend.Uniform1i(program.Loc.TexSampler, 0)
	}
	r.quad.Bind(r.backend)
	r.bindNode(program, &r.quadNode, mgl32.Ident4())
	r.drawPrimitive(program, &r.quadNode, &r.quad, mgl32.Ident4())
}

// bindNode uploads the per-draw uniforms a shader variant opted into: world
// transform, node id, and the inverse-transpose of the upper-left 3x3 for
// normal transformation under non-uniform scale.
func (r *Renderer) bindNode(program *ShaderProgram, node *Node, transform mgl32.Mat4) {
	if program.Loc.Model >= 0 {
		r.backend.UniformMat4(program.Loc.Model, transform)
	}

	if program.Loc.ModelIntr >= 0 {
		upper := transform.Mat3()
		if upper.Det() == 0 {
			panic(fmt.Sprintf("node %q: model matrix not invertible, cannot compute normal matrix", node.Name))
		}
		// Uploaded transposed, completing the inverse-transpose.
		r.backend.UniformMat3(program.Loc.ModelIntr, true, upper.Inv())
	}

	if program.Loc.NodeId >= 0 {
		r.backend.Uniform1i(program.Loc.NodeId, int32(node.Id))
	}
}

// drawPrimitive issues the draw calls for one node/primitive pair and
// returns how many were submitted. Nodes carrying per-instance transforms
// are split into hardware-limited instanced batches; the instance-count
// uniform always carries the total count while the transforms array holds
// only the current batch's slice, a contract instanced shaders are written
// against. A node without per-instance transforms still uploads its world
// transform as a one-element array, since the shader reads models[0].
// Shaders without instancing uniforms get one plain draw.
func (r *Renderer) drawPrimitive(program *ShaderProgram, node *Node, primitive *Primitive, transform mgl32.Mat4) int {
	if !program.Features.Has(FeatureInstancing) {
		r.drawSingle(primitive)
		return 1
	}

	instanceCount := len(node.Transforms)
	if instanceCount < 1 {
		instanceCount = 1
	}

	batches := (instanceCount-1)/maxInstanceBatch + 1
	remaining := instanceCount
	for i := 0; i < batches; i++ {
		batch := remaining
		if batch > maxInstanceBatch {
			batch = maxInstanceBatch
		}
		remaining -= batch

		if program.Loc.InstanceCount >= 0 {
			r.backend.Uniform1i(program.Loc.InstanceCount, int32(instanceCount))
		}
		if program.Loc.Models >= 0 {
			if len(node.Transforms) > 0 {
				start := i * maxInstanceBatch
				r.backend.UniformMat4Slice(program.Loc.Models, node.Transforms[start:start+batch])
			} else {
				r.backend.UniformMat4Slice(program.Loc.Models, []mgl32.Mat4{transform})
			}
		}

		if count := primitive.IndexCount(); count > 0 {
			r.backend.DrawTrianglesInstanced(int32(count), primitive.IndexType, int32(batch))
		} else {
			r.backend.DrawTriangleArraysInstanced(int32(len(primitive.Vertices)), int32(batch))
		}
	}

	return batches
}

func (r *Renderer) drawSingle(primitive *Primitive) {
	if count := primitive.IndexCount(); count > 0 {
		r.backend.DrawTriangles(int32(count), primitive.IndexType)
	} else {
		r.backend.DrawTriangleArrays(int32(len(primitive.Vertices)))
	}
}
