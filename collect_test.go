package ombra

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Distinct uniform locations so recorded binds can be told apart.
const (
	tlocModel int32 = iota + 1
	tlocModels
	tlocModelIntr
	tlocView
	tlocProj
	tlocNodeId
	tlocInstanceCount
	tlocTime
	tlocExtent
	tlocLightSpace
	tlocLightColor
	tlocLightDirection
	tlocTexSampler
	tlocShadowSampler
)

func basicUniformTable() UniformTable {
	loc := NewUniformTable()
	loc.Model = tlocModel
	loc.View = tlocView
	loc.Proj = tlocProj
	loc.TexSampler = tlocTexSampler
	return loc
}

func instancedUniformTable() UniformTable {
	loc := basicUniformTable()
	loc.Models = tlocModels
	loc.InstanceCount = tlocInstanceCount
	return loc
}

// sceneFixture is a minimal consistent scene: one shader, one material, one
// single-primitive mesh, no nodes yet.
type sceneFixture struct {
	backend   *recordBackend
	scene     *Scene
	shader    Handle[ShaderProgram]
	material  Handle[Material]
	primitive Handle[Primitive]
	mesh      Handle[Mesh]
}

func newSceneFixture(t *testing.T, loc UniformTable) *sceneFixture {
	t.Helper()

	backend := newRecordBackend()
	scene := NewScene()

	shader := scene.Shaders.Push(NewShaderProgram(100, loc))
	material := scene.Materials.Push(NewMaterial(shader))
	scene.EnsureColorTexture(backend, White())

	primitive := scene.Primitives.Push(
		BuildPrimitive().
			Vertices([]Vertex{NewVertex(), NewVertex(), NewVertex()}).
			IndicesU16([]uint16{0, 1, 2}).
			Material(material).
			Build(backend),
	)
	mesh := scene.Meshes.Push(NewMesh(primitive))

	return &sceneFixture{
		backend:   backend,
		scene:     scene,
		shader:    shader,
		material:  material,
		primitive: primitive,
		mesh:      mesh,
	}
}

func (f *sceneFixture) pushMeshNode(id uint32, x, y, z float32) Handle[Node] {
	return f.scene.Nodes.Push(
		BuildNode().Id(id).Translation(x, y, z).Mesh(f.mesh).Build(),
	)
}

func TestCollectGroupsByShaderMaterialPrimitive(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	a := f.pushMeshNode(1, 1, 0, 0)
	b := f.pushMeshNode(2, 0, 1, 0)
	c := f.pushMeshNode(3, 0, 0, 1)
	root := f.scene.Nodes.Push(BuildNode().Id(0).Children(a, b, c).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	require.Equal(t, []int{f.shader.Id()}, m.Shaders())
	require.Equal(t, []int{f.material.Id()}, m.ShaderMaterials(f.shader.Id()))
	require.Equal(t, []int{f.primitive.Id()}, m.MaterialPrimitives(f.material.Id()))

	var nodeIds []uint32
	m.PrimitiveNodes(f.primitive.Id(), func(nodeId uint32, node Handle[Node], transform mgl32.Mat4) {
		nodeIds = append(nodeIds, nodeId)
	})
	assert.Equal(t, []uint32{1, 2, 3}, nodeIds)
}

func TestCollectGroupingIndependentOfShape(t *testing.T) {
	// Same three mesh nodes as siblings vs. as a deep chain: the grouping
	// tables must come out identical apart from transforms.
	flat := newSceneFixture(t, basicUniformTable())
	a := flat.pushMeshNode(1, 0, 0, 0)
	b := flat.pushMeshNode(2, 0, 0, 0)
	c := flat.pushMeshNode(3, 0, 0, 0)
	flatRoot := flat.scene.Nodes.Push(BuildNode().Children(a, b, c).Build())

	deep := newSceneFixture(t, basicUniformTable())
	leaf := deep.pushMeshNode(3, 0, 0, 0)
	mid := deep.scene.Nodes.Push(BuildNode().Id(2).Mesh(deep.mesh).Children(leaf).Build())
	top := deep.scene.Nodes.Push(BuildNode().Id(1).Mesh(deep.mesh).Children(mid).Build())
	deepRoot := deep.scene.Nodes.Push(BuildNode().Children(top).Build())

	flatManifest := NewDrawManifest()
	require.NoError(t, flatManifest.Collect(flat.scene, flatRoot, mgl32.Ident4()))
	deepManifest := NewDrawManifest()
	require.NoError(t, deepManifest.Collect(deep.scene, deepRoot, mgl32.Ident4()))

	assert.Equal(t, flatManifest.Shaders(), deepManifest.Shaders())
	assert.Equal(t,
		flatManifest.ShaderMaterials(flat.shader.Id()),
		deepManifest.ShaderMaterials(deep.shader.Id()))
	assert.Equal(t,
		flatManifest.MaterialPrimitives(flat.material.Id()),
		deepManifest.MaterialPrimitives(deep.material.Id()))

	collectIds := func(m *DrawManifest, primitive int) []uint32 {
		var ids []uint32
		m.PrimitiveNodes(primitive, func(nodeId uint32, node Handle[Node], transform mgl32.Mat4) {
			ids = append(ids, nodeId)
		})
		return ids
	}
	assert.ElementsMatch(t,
		collectIds(flatManifest, flat.primitive.Id()),
		collectIds(deepManifest, deep.primitive.Id()))
}

func TestCollectAccumulatesWorldTransforms(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	child := f.pushMeshNode(2, 0, 1, 0)
	root := f.scene.Nodes.Push(
		BuildNode().Id(1).Translation(1, 0, 0).Mesh(f.mesh).Children(child).Build(),
	)

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	world, ok := m.NodeTransform(f.primitive.Id(), child)
	require.True(t, ok)
	pos := world.Col(3).Vec3()
	assert.InDelta(t, 1.0, pos.X(), 1e-6)
	assert.InDelta(t, 1.0, pos.Y(), 1e-6)
	assert.InDelta(t, 0.0, pos.Z(), 1e-6)
}

func TestCollectDirectionalLightLastWins(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	sunA := f.scene.DirectionalLights.Push(NewDirectionalLight())
	sunB := f.scene.DirectionalLights.Push(DirectionalLightColor(1, 0, 0))

	first := f.scene.Nodes.Push(BuildNode().Id(1).DirectionalLight(sunA).Build())
	second := f.scene.Nodes.Push(BuildNode().Id(2).DirectionalLight(sunB).Build())
	root := f.scene.Nodes.Push(BuildNode().Children(first, second).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	// Only one directional light is honored per frame: the last visited in
	// preorder. Lights are never combined.
	assert.Equal(t, second, m.DirectionalLight)
}

func TestCollectPointLightsAndCamerasInOrder(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	lamp := f.scene.PointLights.Push(NewPointLight())
	camera := f.scene.Cameras.Push(PerspectiveCamera(1))

	lampNodeA := f.scene.Nodes.Push(BuildNode().Id(1).PointLight(lamp).Build())
	cameraNode := f.scene.Nodes.Push(BuildNode().Id(2).Camera(camera).Build())
	lampNodeB := f.scene.Nodes.Push(BuildNode().Id(3).PointLight(lamp).Build())
	root := f.scene.Nodes.Push(BuildNode().Children(lampNodeA, cameraNode, lampNodeB).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	assert.Equal(t, []Handle[Node]{lampNodeA, lampNodeB}, m.PointLights)
	require.Len(t, m.Cameras, 1)
	assert.Equal(t, camera, m.Cameras[0].Camera)
	assert.Equal(t, cameraNode, m.Cameras[0].Node)
}

func TestCollectSentinelAttachmentsAreSkipped(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	root := f.scene.Nodes.Push(BuildNode().Id(1).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))
	assert.True(t, m.Empty())
}

func TestCollectCycleReportsError(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	// Nodes referencing each other; the depth guard converts the infinite
	// recursion into an error.
	first := f.scene.Nodes.Push(BuildNode().Id(1).Build())
	second := f.scene.Nodes.Push(BuildNode().Id(2).Children(first).Build())
	f.scene.Nodes.Get(first).Children = []Handle[Node]{second}

	m := NewDrawManifest()
	err := m.Collect(f.scene, first, mgl32.Ident4())
	assert.ErrorIs(t, err, ErrGraphTooDeep)
}

func TestCollectDanglingMaterialPanics(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	orphan := f.scene.Primitives.Push(
		BuildPrimitive().
			Vertices([]Vertex{NewVertex(), NewVertex(), NewVertex()}).
			IndicesU16([]uint16{0, 1, 2}).
			Material(NewHandle[Material](42)).
			Build(f.backend),
	)
	mesh := f.scene.Meshes.Push(NewMesh(orphan))
	root := f.scene.Nodes.Push(BuildNode().Id(1).Mesh(mesh).Build())

	m := NewDrawManifest()
	require.Panics(t, func() {
		_ = m.Collect(f.scene, root, mgl32.Ident4())
	})
}

func TestCollectRecordsNodeOnce(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	shared := f.pushMeshNode(7, 2, 0, 0)
	// The same node reachable through two parents: it must be recorded
	// once under the primitive, keeping the transform of the first visit.
	left := f.scene.Nodes.Push(BuildNode().Id(1).Children(shared).Build())
	right := f.scene.Nodes.Push(BuildNode().Id(2).Translation(0, 5, 0).Children(shared).Build())
	root := f.scene.Nodes.Push(BuildNode().Children(left, right).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	count := 0
	m.PrimitiveNodes(f.primitive.Id(), func(nodeId uint32, node Handle[Node], transform mgl32.Mat4) {
		count++
	})
	assert.Equal(t, 1, count)

	world, ok := m.NodeTransform(f.primitive.Id(), shared)
	require.True(t, ok)
	assert.InDelta(t, 2.0, world.Col(3).X(), 1e-6)
	assert.InDelta(t, 0.0, world.Col(3).Y(), 1e-6)
}

func TestCollectDistinctNodesSharingPickingId(t *testing.T) {
	f := newSceneFixture(t, basicUniformTable())

	// Node.Id is only the picking uniform and defaults to 0; two separate
	// nodes that never set it must still both be recorded.
	a := f.scene.Nodes.Push(
		BuildNode().Translation(1, 0, 0).Mesh(f.mesh).Build(),
	)
	b := f.scene.Nodes.Push(
		BuildNode().Translation(-1, 0, 0).Mesh(f.mesh).Build(),
	)
	root := f.scene.Nodes.Push(BuildNode().Children(a, b).Build())

	m := NewDrawManifest()
	require.NoError(t, m.Collect(f.scene, root, mgl32.Ident4()))

	var handles []Handle[Node]
	m.PrimitiveNodes(f.primitive.Id(), func(nodeId uint32, node Handle[Node], transform mgl32.Mat4) {
		assert.Equal(t, uint32(0), nodeId)
		handles = append(handles, node)
	})
	require.Equal(t, []Handle[Node]{a, b}, handles)

	worldA, ok := m.NodeTransform(f.primitive.Id(), a)
	require.True(t, ok)
	worldB, ok := m.NodeTransform(f.primitive.Id(), b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, worldA.Col(3).X(), 1e-6)
	assert.InDelta(t, -1.0, worldB.Col(3).X(), 1e-6)
}
