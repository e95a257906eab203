package ombra

import (
	"encoding/binary"
)

// Vertex is the interleaved vertex layout shared by every primitive.
type Vertex struct {
	Position  [3]float32
	Color     [3]float32
	TexCoords [2]float32
	Normal    [3]float32
}

func NewVertex() Vertex {
	return Vertex{
		Color:  [3]float32{1, 1, 1},
		Normal: [3]float32{0, 0, 1},
	}
}

// Primitive is immutable geometry to be rendered with one material. The
// index list is raw bytes interpreted through IndexType; an empty index list
// means the primitive draws as a plain vertex array.
type Primitive struct {
	Vertices  []Vertex
	Indices   []byte
	IndexType IndexType

	// Material referencing this primitive's albedo source. The sentinel
	// means the default material.
	Material Handle[Material]

	// GPU vertex state is created once at build time. It is the scene
	// builder's job to share primitives instead of duplicating them.
	vao uint32
}

// PrimitiveBuilder uploads vertex data through the backend and produces an
// immutable Primitive.
type PrimitiveBuilder struct {
	vertices  []Vertex
	indices   []byte
	indexType IndexType
	material  Handle[Material]
}

func BuildPrimitive() *PrimitiveBuilder {
	return &PrimitiveBuilder{
		indexType: IndexU16,
		material:  NoneHandle[Material](),
	}
}

func (b *PrimitiveBuilder) Vertices(vertices []Vertex) *PrimitiveBuilder {
	b.vertices = vertices
	return b
}

func (b *PrimitiveBuilder) Indices(indices []byte, indexType IndexType) *PrimitiveBuilder {
	b.indices = indices
	b.indexType = indexType
	return b
}

func (b *PrimitiveBuilder) IndicesU16(indices []uint16) *PrimitiveBuilder {
	b.indices = indicesU16Bytes(indices)
	b.indexType = IndexU16
	return b
}

func (b *PrimitiveBuilder) Material(material Handle[Material]) *PrimitiveBuilder {
	b.material = material
	return b
}

func (b *PrimitiveBuilder) Build(backend Backend) Primitive {
	return Primitive{
		Vertices:  b.vertices,
		Indices:   b.indices,
		IndexType: b.indexType,
		Material:  b.material,
		vao:       backend.CreatePrimitive(b.vertices, b.indices, b.indexType),
	}
}

// Bind binds only this primitive's vertex state. The material is expected to
// be bound already by the pass executor.
func (p *Primitive) Bind(backend Backend) {
	backend.BindVertexArray(p.vao)
}

// IndexCount returns how many index elements the primitive carries.
func (p *Primitive) IndexCount() int {
	if len(p.Indices) == 0 {
		return 0
	}
	return len(p.Indices) / p.IndexType.Size()
}

func indicesU16Bytes(indices []uint16) []byte {
	out := make([]byte, 2*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[2*i:], idx)
	}
	return out
}

// TrianglePrimitive returns a unit triangle.
func TrianglePrimitive(backend Backend, material Handle[Material]) Primitive {
	vertices := []Vertex{
		{Position: [3]float32{-1, 0, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{1, 0, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{1, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 1, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{0.5, 1}, Normal: [3]float32{0, 0, 1}},
	}
	return BuildPrimitive().
		Vertices(vertices).
		IndicesU16([]uint16{0, 1, 2}).
		Material(material).
		Build(backend)
}

// QuadPrimitive returns a quad with side length 1 centered at the origin.
func QuadPrimitive(backend Backend, material Handle[Material]) Primitive {
	vertices := []Vertex{
		{Position: [3]float32{-0.5, -0.5, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0.5, -0.5, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{1, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0.5, 0.5, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{1, 1}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{-0.5, 0.5, 0}, Color: [3]float32{1, 1, 1}, TexCoords: [2]float32{0, 1}, Normal: [3]float32{0, 0, 1}},
	}
	return BuildPrimitive().
		Vertices(vertices).
		IndicesU16([]uint16{0, 1, 2, 2, 3, 0}).
		Material(material).
		Build(backend)
}

// CubePrimitive returns a unit cube with a 4x4 cross texture layout.
func CubePrimitive(backend Backend, material Handle[Material]) Primitive {
	const tw, th = 4.0, 4.0

	vertices := make([]Vertex, 24)
	for i := range vertices {
		vertices[i] = NewVertex()
	}

	// Front
	vertices[0].Position = [3]float32{-0.5, -0.5, 0.5}
	vertices[0].TexCoords = [2]float32{1 / tw, 1 / th}
	vertices[1].Position = [3]float32{0.5, -0.5, 0.5}
	vertices[1].TexCoords = [2]float32{2 / tw, 1 / th}
	vertices[2].Position = [3]float32{0.5, 0.5, 0.5}
	vertices[2].TexCoords = [2]float32{2 / tw, 2 / th}
	vertices[3].Position = [3]float32{-0.5, 0.5, 0.5}
	vertices[3].TexCoords = [2]float32{1 / tw, 2 / th}
	for i := 0; i < 4; i++ {
		vertices[i].Normal = [3]float32{0, 0, 1}
	}

	// Right
	vertices[4].Position = [3]float32{0.5, -0.5, 0.5}
	vertices[4].TexCoords = [2]float32{2 / tw, 1 / th}
	vertices[5].Position = [3]float32{0.5, -0.5, -0.5}
	vertices[5].TexCoords = [2]float32{3 / tw, 1 / th}
	vertices[6].Position = [3]float32{0.5, 0.5, -0.5}
	vertices[6].TexCoords = [2]float32{3 / tw, 2 / th}
	vertices[7].Position = [3]float32{0.5, 0.5, 0.5}
	vertices[7].TexCoords = [2]float32{2 / tw, 2 / th}
	for i := 4; i < 8; i++ {
		vertices[i].Normal = [3]float32{1, 0, 0}
	}

	// Back
	vertices[8].Position = [3]float32{0.5, -0.5, -0.5}
	vertices[8].TexCoords = [2]float32{3 / tw, 1 / th}
	vertices[9].Position = [3]float32{-0.5, -0.5, -0.5}
	vertices[9].TexCoords = [2]float32{4 / tw, 1 / th}
	vertices[10].Position = [3]float32{-0.5, 0.5, -0.5}
	vertices[10].TexCoords = [2]float32{4 / tw, 2 / th}
	vertices[11].Position = [3]float32{0.5, 0.5, -0.5}
	vertices[11].TexCoords = [2]float32{3 / tw, 2 / th}
	for i := 8; i < 12; i++ {
		vertices[i].Normal = [3]float32{0, 0, -1}
	}

	// Left
	vertices[12].Position = [3]float32{-0.5, -0.5, -0.5}
	vertices[12].TexCoords = [2]float32{0, 1 / th}
	vertices[13].Position = [3]float32{-0.5, -0.5, 0.5}
	vertices[13].TexCoords = [2]float32{1 / tw, 1 / th}
	vertices[14].Position = [3]float32{-0.5, 0.5, 0.5}
	vertices[14].TexCoords = [2]float32{1 / tw, 2 / th}
	vertices[15].Position = [3]float32{-0.5, 0.5, -0.5}
	vertices[15].TexCoords = [2]float32{0, 2 / th}
	for i := 12; i < 16; i++ {
		vertices[i].Normal = [3]float32{-1, 0, 0}
	}

	// Top
	vertices[16].Position = [3]float32{-0.5, 0.5, 0.5}
	vertices[16].TexCoords = [2]float32{1 / tw, 2 / th}
	vertices[17].Position = [3]float32{0.5, 0.5, 0.5}
	vertices[17].TexCoords = [2]float32{2 / tw, 2 / th}
	vertices[18].Position = [3]float32{0.5, 0.5, -0.5}
	vertices[18].TexCoords = [2]float32{2 / tw, 3 / th}
	vertices[19].Position = [3]float32{-0.5, 0.5, -0.5}
	vertices[19].TexCoords = [2]float32{1 / tw, 3 / th}
	for i := 16; i < 20; i++ {
		vertices[i].Normal = [3]float32{0, 1, 0}
	}

	// Bottom
	vertices[20].Position = [3]float32{-0.5, -0.5, -0.5}
	vertices[20].TexCoords = [2]float32{1 / tw, 0}
	vertices[21].Position = [3]float32{0.5, -0.5, -0.5}
	vertices[21].TexCoords = [2]float32{2 / tw, 0}
	vertices[22].Position = [3]float32{0.5, -0.5, 0.5}
	vertices[22].TexCoords = [2]float32{2 / tw, 1 / th}
	vertices[23].Position = [3]float32{-0.5, -0.5, 0.5}
	vertices[23].TexCoords = [2]float32{1 / tw, 1 / th}
	for i := 20; i < 24; i++ {
		vertices[i].Normal = [3]float32{0, -1, 0}
	}

	indices := []uint16{
		0, 1, 2, 0, 2, 3, // front
		4, 5, 6, 4, 6, 7, // right
		8, 9, 10, 8, 10, 11, // back
		12, 13, 14, 12, 14, 15, // left
		16, 17, 18, 16, 18, 19, // top
		20, 21, 22, 20, 22, 23, // bottom
	}

	return BuildPrimitive().
		Vertices(vertices).
		IndicesU16(indices).
		Material(material).
		Build(backend)
}

// Mesh groups primitives that are always drawn together under one node.
type Mesh struct {
	Name       string
	Primitives []Handle[Primitive]
}

func NewMesh(primitives ...Handle[Primitive]) Mesh {
	return Mesh{Primitives: primitives}
}
