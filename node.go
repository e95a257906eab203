package ombra

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is a scene-graph element: a local transform, optional attachments and
// a list of children. The graph must stay acyclic; see Collect.
type Node struct {
	// Id is assigned by the scene builder and bound as a per-draw uniform
	// for picking and debugging.
	Id   uint32
	Name string
	Trs  Trs

	Mesh             Handle[Mesh]
	DirectionalLight Handle[DirectionalLight]
	PointLight       Handle[PointLight]
	Camera           Handle[Camera]

	Children []Handle[Node]

	// Transforms holds per-instance world matrices. Non-empty only for
	// instanced-draw nodes such as grass blades; everything else is an
	// implicit single instance through Trs.
	Transforms []mgl32.Mat4
}

func NewNode() Node {
	return Node{
		Trs:              NewTrs(),
		Mesh:             NoneHandle[Mesh](),
		DirectionalLight: NoneHandle[DirectionalLight](),
		PointLight:       NoneHandle[PointLight](),
		Camera:           NoneHandle[Camera](),
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node %s", n.Name)
}

// NodeBuilder assembles a Node the way the asset layer produces them:
// translation in the parent frame, then rotation, then scale.
type NodeBuilder struct {
	node        Node
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

func BuildNode() *NodeBuilder {
	return &NodeBuilder{
		node:        NewNode(),
		translation: mgl32.Vec3{0, 0, 0},
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

func (b *NodeBuilder) Id(id uint32) *NodeBuilder {
	b.node.Id = id
	return b
}

func (b *NodeBuilder) Name(name string) *NodeBuilder {
	b.node.Name = name
	return b
}

func (b *NodeBuilder) Translation(x, y, z float32) *NodeBuilder {
	b.translation = mgl32.Vec3{x, y, z}
	return b
}

func (b *NodeBuilder) Rotation(q mgl32.Quat) *NodeBuilder {
	b.rotation = q
	return b
}

func (b *NodeBuilder) Scale(x, y, z float32) *NodeBuilder {
	b.scale = mgl32.Vec3{x, y, z}
	return b
}

func (b *NodeBuilder) Mesh(mesh Handle[Mesh]) *NodeBuilder {
	b.node.Mesh = mesh
	return b
}

func (b *NodeBuilder) Camera(camera Handle[Camera]) *NodeBuilder {
	b.node.Camera = camera
	return b
}

func (b *NodeBuilder) DirectionalLight(light Handle[DirectionalLight]) *NodeBuilder {
	b.node.DirectionalLight = light
	return b
}

func (b *NodeBuilder) PointLight(light Handle[PointLight]) *NodeBuilder {
	b.node.PointLight = light
	return b
}

func (b *NodeBuilder) Children(children ...Handle[Node]) *NodeBuilder {
	b.node.Children = append(b.node.Children, children...)
	return b
}

func (b *NodeBuilder) Transforms(transforms []mgl32.Mat4) *NodeBuilder {
	b.node.Transforms = transforms
	return b
}

func (b *NodeBuilder) Build() Node {
	node := b.node
	node.Trs.Translate(b.translation.X(), b.translation.Y(), b.translation.Z())
	node.Trs.Rotate(b.rotation)
	node.Trs.SetScale(b.scale.X(), b.scale.Y(), b.scale.Z())
	return node
}
