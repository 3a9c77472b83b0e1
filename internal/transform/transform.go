// Package transform builds the view, projection and viewport matrices of the
// model-to-screen pipeline. The builders are pure functions; the caller
// composes them by matrix multiplication, right to left:
//
//	screen = viewport × projection × lookAt × model
package transform

import "softrender/internal/geometry"

// LookAt builds the view matrix: a rotation onto the orthonormal basis
// derived from up and the view direction, composed with a translation moving
// center to the origin. up must not be parallel to eye-center, or the basis
// degenerates.
func LookAt(eye, center, up geometry.Vec3) geometry.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	minv := geometry.Mat4FromRows(
		geometry.Vec4{x[0], x[1], x[2], 0},
		geometry.Vec4{y[0], y[1], y[2], 0},
		geometry.Vec4{z[0], z[1], z[2], 0},
		geometry.Vec4{0, 0, 0, 1},
	)
	tr := geometry.Mat4FromRows(
		geometry.Vec4{1, 0, 0, -center[0]},
		geometry.Vec4{0, 1, 0, -center[1]},
		geometry.Vec4{0, 0, 1, -center[2]},
		geometry.Vec4{0, 0, 0, 1},
	)
	return minv.Mul(tr)
}

// Projection returns the perspective matrix: identity with row 3, column 2
// set to coefficient. Callers pass -1/d where d is the eye-to-center
// distance.
func Projection(coefficient float64) geometry.Mat4 {
	m := geometry.Mat4Identity()
	m.Set(3, 2, coefficient)
	return m
}

// Viewport maps the canonical [-1,1] cube onto the pixel rectangle
// [x,x+w]×[y,y+h] with the y axis flipped (screen y grows downward) and z
// mapped to [0,depth].
func Viewport(x, y, w, h, depth float64) geometry.Mat4 {
	return geometry.Mat4FromRows(
		geometry.Vec4{w / 2, 0, 0, x + w/2},
		geometry.Vec4{0, -h / 2, 0, y + h/2},
		geometry.Vec4{0, 0, depth / 2, depth / 2},
		geometry.Vec4{0, 0, 0, 1},
	)
}

// Apply transforms a 3D point through m as a homogeneous column vector and
// performs the perspective divide.
func Apply(m geometry.Mat4, v geometry.Vec3) geometry.Vec3 {
	return m.MulVec4(v.Point()).Vec3()
}
