// Package geometry provides the fixed-size vector and matrix algebra and the
// 2D line primitives used by the rasterizer. All types are values; every
// operation returns a new value and never aliases components.
package geometry

import "math"

// Vec2 is a 2-component vector (value type, stack-allocated).
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Div(s float64) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns v scaled to unit length. The zero vector yields NaN
// components; callers must not normalize a zero vector.
func (v Vec3) Normalize() Vec3 {
	return v.Div(v.Len())
}

// Vec4 is a 4-component homogeneous vector.
type Vec4 [4]float64

func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

func (a Vec4) Dot(b Vec4) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// Point returns v as a homogeneous point with w = 1.
func (v Vec3) Point() Vec4 {
	return Vec4{v[0], v[1], v[2], 1}
}

// Vec3 performs the perspective divide, collapsing a homogeneous vector back
// to 3D. Undefined for w = 0.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}
