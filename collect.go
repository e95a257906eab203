package ombra

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// maxTraversalDepth bounds scene graph recursion. The graph is required to
// be acyclic; hitting the bound means a cycle or a degenerate hierarchy and
// is reported instead of exhausting the stack.
const maxTraversalDepth = 256

// ErrGraphTooDeep is returned when traversal exceeds maxTraversalDepth.
var ErrGraphTooDeep = fmt.Errorf("scene graph deeper than %d levels, cycle suspected", maxTraversalDepth)

// Collect walks the graph from root in preorder, accumulating world
// transforms and populating the manifest's grouping tables. It records the
// active directional light (last visited wins), point lights and camera
// placements. Call it once before every pass; passes clear the manifest they
// consume.
//
// A sentinel attachment handle means "absent" and is skipped. A dangling
// mesh, primitive or material behind a valid handle is a scene construction
// bug and panics.
func (m *DrawManifest) Collect(scene *Scene, root Handle[Node], parent mgl32.Mat4) error {
	return m.collect(scene, root, parent, 0)
}

func (m *DrawManifest) collect(scene *Scene, root Handle[Node], parent mgl32.Mat4, depth int) error {
	if depth >= maxTraversalDepth {
		return ErrGraphTooDeep
	}

	node := scene.Nodes.Get(root)
	if node == nil {
		panic(fmt.Sprintf("scene %s: dangling node handle %d", scene.Id, root.Id()))
	}

	world := parent.Mul4(node.Trs.Matrix())

	if node.Mesh.Valid() {
		mesh := scene.Meshes.Get(node.Mesh)
		if mesh == nil {
			panic(fmt.Sprintf("scene %s: node %q references missing mesh %d", scene.Id, node.Name, node.Mesh.Id()))
		}

		for _, primitiveHandle := range mesh.Primitives {
			primitive := scene.Primitives.Get(primitiveHandle)
			if primitive == nil {
				panic(fmt.Sprintf("scene %s: mesh %q references missing primitive %d", scene.Id, mesh.Name, primitiveHandle.Id()))
			}

			material := scene.Materials.Get(primitive.Material)
			if material == nil {
				panic(fmt.Sprintf("scene %s: primitive %d references missing material %d", scene.Id, primitiveHandle.Id(), primitive.Material.Id()))
			}

			m.insertShaderMaterial(material.Shader.Id(), primitive.Material.Id())
			m.insertMaterialPrimitive(primitive.Material.Id(), primitiveHandle.Id())
			m.insertPrimitiveNode(primitiveHandle.Id(), node.Id, root, world)
		}
	}

	if scene.DirectionalLights.Get(node.DirectionalLight) != nil {
		m.DirectionalLight = root
	}

	if scene.PointLights.Get(node.PointLight) != nil {
		m.PointLights = append(m.PointLights, root)
	}

	if scene.Cameras.Get(node.Camera) != nil {
		m.Cameras = append(m.Cameras, CameraView{Camera: node.Camera, Node: root})
	}

	for _, child := range node.Children {
		if err := m.collect(scene, child, world, depth+1); err != nil {
			return err
		}
	}

	return nil
}
