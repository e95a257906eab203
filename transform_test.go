package ombra

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTrsTranslationComposes(t *testing.T) {
	root := NewTrs()
	root.Translate(1, 0, 0)

	child := NewTrs()
	child.Translate(0, 1, 0)

	world := root.Matrix().Mul4(child.Matrix())
	pos := world.Col(3).Vec3()

	assert.InDelta(t, 1.0, pos.X(), 1e-6)
	assert.InDelta(t, 1.0, pos.Y(), 1e-6)
	assert.InDelta(t, 0.0, pos.Z(), 1e-6)
}

func TestTrsTranslateFollowsLocalFrame(t *testing.T) {
	trs := NewTrs()
	trs.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	trs.Translate(0, 0, -1)

	// After a quarter turn about Y, local -Z points along world -X.
	pos := trs.Translation()
	assert.InDelta(t, -1.0, pos.X(), 1e-6)
	assert.InDelta(t, 0.0, pos.Y(), 1e-6)
	assert.InDelta(t, 0.0, pos.Z(), 1e-6)
}

func TestTrsRotateAppends(t *testing.T) {
	a := NewTrs()
	a.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	a.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}))

	b := NewTrs()
	b.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}))
	b.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))

	// Rotation composition is not commutative; appending must multiply on
	// the right.
	va := a.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	vb := b.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	assert.False(t, va.ApproxEqualThreshold(vb, 1e-6))
}

func TestTrsScaleCumulative(t *testing.T) {
	trs := NewTrs()
	trs.Scale(2, 1, 1)
	trs.Scale(2, 1, 1)

	m := trs.Matrix()
	assert.InDelta(t, 4.0, m.At(0, 0), 1e-6)
	assert.InDelta(t, 1.0, m.At(1, 1), 1e-6)
	assert.InDelta(t, 1.0, m.At(2, 2), 1e-6)
}

func TestTrsForward(t *testing.T) {
	trs := NewTrs()
	fwd := trs.Forward()
	assert.InDelta(t, 0.0, fwd.X(), 1e-6)
	assert.InDelta(t, 0.0, fwd.Y(), 1e-6)
	assert.InDelta(t, -1.0, fwd.Z(), 1e-6)

	trs.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	fwd = trs.Forward()
	assert.InDelta(t, 1.0, fwd.X(), 1e-6)
	assert.InDelta(t, 0.0, fwd.Y(), 1e-6)
	assert.InDelta(t, 0.0, fwd.Z(), 1e-6)
}

func TestTrsViewInvertsIsometry(t *testing.T) {
	trs := NewTrs()
	trs.Translate(3, -2, 5)
	trs.Rotate(mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0}))

	iso := mgl32.Translate3D(3, -2, 5).Mul4(trs.Rotation().Mat4())
	product := trs.View().Mul4(iso)

	ident := mgl32.Ident4()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, ident[i], product[i], 1e-5)
	}
}
