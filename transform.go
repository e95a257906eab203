package ombra

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Trs is a rigid isometry (rotation then translation) with a separate
// non-uniform scale, combined at query time as isometry * scale.
type Trs struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

func NewTrs() Trs {
	return Trs{
		translation: mgl32.Vec3{0, 0, 0},
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Translate appends a translation in the current local frame. Repeated calls
// accumulate along the object's rotated axes, not world axes.
func (t *Trs) Translate(x, y, z float32) {
	t.translation = t.translation.Add(t.rotation.Rotate(mgl32.Vec3{x, y, z}))
}

// Rotate appends a unit quaternion to the current rotation. The rotation
// happens in the node's current local frame, so call order matters.
func (t *Trs) Rotate(q mgl32.Quat) {
	t.rotation = t.rotation.Mul(q).Normalize()
}

// Scale multiplies componentwise into the existing scale. A zero component is
// accepted; downstream code must not assume the matrix stays invertible.
func (t *Trs) Scale(x, y, z float32) {
	t.scale = mgl32.Vec3{t.scale.X() * x, t.scale.Y() * y, t.scale.Z() * z}
}

func (t *Trs) SetScale(x, y, z float32) {
	t.scale = mgl32.Vec3{x, y, z}
}

func (t *Trs) Translation() mgl32.Vec3 {
	return t.translation
}

func (t *Trs) Rotation() mgl32.Quat {
	return t.rotation
}

// Matrix returns the local-to-parent matrix: isometry * scale.
func (t *Trs) Matrix() mgl32.Mat4 {
	iso := mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z()).
		Mul4(t.rotation.Mat4())
	return iso.Mul4(mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
}

// View returns the inverse of the isometry, suitable as a view matrix when
// this Trs belongs to a camera or light node. Scale is not part of the view.
func (t *Trs) View() mgl32.Mat4 {
	inv := t.rotation.Inverse()
	return inv.Mat4().Mul4(mgl32.Translate3D(-t.translation.X(), -t.translation.Y(), -t.translation.Z()))
}

// Forward returns the direction the local -Z axis points after applying the
// inverse of the isometry, normalized.
func (t *Trs) Forward() mgl32.Vec3 {
	return t.rotation.Inverse().Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}
