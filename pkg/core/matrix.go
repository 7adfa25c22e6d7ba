package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TransformPoint maps p through m as a point (w = 1). The result is divided by
// w when the matrix is projective.
func TransformPoint(m mgl64.Mat4, p Vec3) Vec3 {
	out := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	if w := out[3]; w != 1 && w != 0 {
		return Vec3{out[0] / w, out[1] / w, out[2] / w}
	}
	return Vec3{out[0], out[1], out[2]}
}

// Invert returns the inverse of m. ok is false when m is singular or
// contains non-finite values.
func Invert(m mgl64.Mat4) (inv mgl64.Mat4, ok bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return mgl64.Mat4{}, false
	}
	return m.Inv(), true
}
