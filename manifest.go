package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraView pairs a camera with the node placing it in the scene.
type CameraView struct {
	Camera Handle[Camera]
	Node   Handle[Node]
}

// nodeEntry is one node recorded under a primitive: the picking id bound as
// the node_id uniform, the handle for pass-time resolution and the world
// transform captured during traversal.
type nodeEntry struct {
	id        uint32
	handle    Handle[Node]
	transform mgl32.Mat4
}

// nodeTransforms keeps node entries keyed by arena handle index in
// first-seen order so a pass iterates deterministically. The handle index is
// the unique key; Node.Id is only the picking uniform and may repeat across
// nodes.
type nodeTransforms struct {
	order   []int
	entries map[int]nodeEntry
}

// DrawManifest is the per-frame grouping of drawable state produced by one
// collection pass: shader to materials, material to primitives, primitive to
// node transforms. Every table preserves insertion order and rejects
// duplicates. A manifest lives for exactly one collect-then-render cycle;
// the consuming pass clears it.
type DrawManifest struct {
	shaderOrder     []int
	shaderMaterials map[int][]int

	materialPrimitives map[int][]int

	primitiveOrder []int
	primitiveNodes map[int]*nodeTransforms

	// DirectionalLight is the node carrying the active directional light.
	// The last one encountered during traversal wins; lights are not
	// combined.
	DirectionalLight Handle[Node]

	// PointLights are the nodes carrying point lights, in traversal order.
	PointLights []Handle[Node]

	// Cameras are the camera placements encountered, in traversal order.
	Cameras []CameraView
}

func NewDrawManifest() *DrawManifest {
	m := &DrawManifest{}
	m.Clear()
	return m
}

// Clear resets every table and list. Called by the pass that consumed the
// manifest; callers must re-collect before the next pass.
func (m *DrawManifest) Clear() {
	m.shaderOrder = m.shaderOrder[:0]
	m.shaderMaterials = make(map[int][]int)
	m.materialPrimitives = make(map[int][]int)
	m.primitiveOrder = m.primitiveOrder[:0]
	m.primitiveNodes = make(map[int]*nodeTransforms)
	m.DirectionalLight = NoneHandle[Node]()
	m.PointLights = m.PointLights[:0]
	m.Cameras = m.Cameras[:0]
}

// Empty reports whether the manifest holds nothing drawable.
func (m *DrawManifest) Empty() bool {
	return len(m.primitiveOrder) == 0 && len(m.Cameras) == 0 &&
		len(m.PointLights) == 0 && !m.DirectionalLight.Valid()
}

func (m *DrawManifest) insertShaderMaterial(shaderId, materialId int) {
	materials, seen := m.shaderMaterials[shaderId]
	if !seen {
		m.shaderOrder = append(m.shaderOrder, shaderId)
	}
	if !containsInt(materials, materialId) {
		m.shaderMaterials[shaderId] = append(materials, materialId)
	}
}

func (m *DrawManifest) insertMaterialPrimitive(materialId, primitiveId int) {
	primitives := m.materialPrimitives[materialId]
	if !containsInt(primitives, primitiveId) {
		m.materialPrimitives[materialId] = append(primitives, primitiveId)
	}
}

func (m *DrawManifest) insertPrimitiveNode(primitiveId int, nodeId uint32, node Handle[Node], transform mgl32.Mat4) {
	nodes, seen := m.primitiveNodes[primitiveId]
	if !seen {
		nodes = &nodeTransforms{entries: make(map[int]nodeEntry)}
		m.primitiveNodes[primitiveId] = nodes
		m.primitiveOrder = append(m.primitiveOrder, primitiveId)
	}
	// A node already recorded keeps its first transform; revisits do not
	// overwrite.
	if _, ok := nodes.entries[node.Id()]; !ok {
		nodes.order = append(nodes.order, node.Id())
		nodes.entries[node.Id()] = nodeEntry{id: nodeId, handle: node, transform: transform}
	}
}

// Shaders returns the shader ids in first-encounter order.
func (m *DrawManifest) Shaders() []int {
	return m.shaderOrder
}

// ShaderMaterials returns the material ids grouped under a shader.
func (m *DrawManifest) ShaderMaterials(shaderId int) []int {
	return m.shaderMaterials[shaderId]
}

// MaterialPrimitives returns the primitive ids grouped under a material.
func (m *DrawManifest) MaterialPrimitives(materialId int) []int {
	return m.materialPrimitives[materialId]
}

// Primitives returns the primitive ids in first-encounter order.
func (m *DrawManifest) Primitives() []int {
	return m.primitiveOrder
}

// PrimitiveNodes calls fn for every node recorded for a primitive, in
// first-encounter order, with the world transform captured at traversal.
func (m *DrawManifest) PrimitiveNodes(primitiveId int, fn func(nodeId uint32, node Handle[Node], transform mgl32.Mat4)) {
	nodes, ok := m.primitiveNodes[primitiveId]
	if !ok {
		return
	}
	for _, handleId := range nodes.order {
		entry := nodes.entries[handleId]
		fn(entry.id, entry.handle, entry.transform)
	}
}

// NodeTransform returns the world transform recorded for a node under a
// primitive, if any.
func (m *DrawManifest) NodeTransform(primitiveId int, node Handle[Node]) (mgl32.Mat4, bool) {
	nodes, ok := m.primitiveNodes[primitiveId]
	if !ok {
		return mgl32.Mat4{}, false
	}
	entry, ok := nodes.entries[node.Id()]
	return entry.transform, ok
}

func containsInt(list []int, v int) bool {
	for _, elem := range list {
		if elem == v {
			return true
		}
	}
	return false
}
