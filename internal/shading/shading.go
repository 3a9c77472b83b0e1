// Package shading provides the concrete shaders. Each one stages per-vertex
// varyings during the vertex stage and interpolates them with the
// barycentric weights handed to the fragment stage.
package shading

import (
	"math"

	"softrender/internal/geometry"
	"softrender/internal/raster"
	"softrender/internal/texture"
	"softrender/internal/transform"
)

// White is the color used when no texture is bound.
const White uint32 = 0xffffffff

// Mesh is the accessor surface shaders need from the mesh collaborator.
type Mesh interface {
	NFaces() int
	Vert(iface, nthvert int) geometry.Vec3
	UV(iface, nthvert int) geometry.Vec2
	NormalAt(iface, nthvert int) geometry.Vec3
}

// Gouraud shades with per-vertex light intensity interpolated across the
// triangle, no texture.
type Gouraud struct {
	Mesh      Mesh
	Transform geometry.Mat4
	LightDir  geometry.Vec3

	varyingIntensity geometry.Vec3
}

func (s *Gouraud) Vertex(iface, nthvert int) geometry.Vec3 {
	s.varyingIntensity[nthvert] = s.Mesh.NormalAt(iface, nthvert).Normalize().Dot(s.LightDir)
	return transform.Apply(s.Transform, s.Mesh.Vert(iface, nthvert))
}

func (s *Gouraud) Fragment(bc geometry.Vec3) (uint32, bool) {
	return Modulate(White, math.Abs(s.varyingIntensity.Dot(bc))), true
}

// Textured shades with the diffuse map modulated by interpolated per-vertex
// light intensity. Texels with near-zero alpha are discarded.
type Textured struct {
	Mesh      Mesh
	Diffuse   *texture.Texture
	Transform geometry.Mat4
	LightDir  geometry.Vec3

	varyingIntensity geometry.Vec3
	varyingUV        [3]geometry.Vec2
}

func (s *Textured) Vertex(iface, nthvert int) geometry.Vec3 {
	s.varyingIntensity[nthvert] = s.Mesh.NormalAt(iface, nthvert).Normalize().Dot(s.LightDir)
	s.varyingUV[nthvert] = s.Mesh.UV(iface, nthvert)
	return transform.Apply(s.Transform, s.Mesh.Vert(iface, nthvert))
}

func (s *Textured) Fragment(bc geometry.Vec3) (uint32, bool) {
	pixel := White
	if s.Diffuse != nil {
		u, v := interpUV(s.varyingUV, bc)
		pixel = s.Diffuse.Sample(u, v)
	}
	if pixel>>24 < 8 {
		// transparent texel
		return 0, false
	}
	return Modulate(pixel, math.Abs(s.varyingIntensity.Dot(bc))), true
}

// Phong shades with a model-space normal map and a specular exponent map on
// top of the diffuse map.
type Phong struct {
	Mesh      Mesh
	Diffuse   *texture.Texture
	Normal    *texture.Texture
	Specular  *texture.Texture
	Transform geometry.Mat4
	LightDir  geometry.Vec3

	varyingUV [3]geometry.Vec2
}

func (s *Phong) Vertex(iface, nthvert int) geometry.Vec3 {
	s.varyingUV[nthvert] = s.Mesh.UV(iface, nthvert)
	return transform.Apply(s.Transform, s.Mesh.Vert(iface, nthvert))
}

func (s *Phong) Fragment(bc geometry.Vec3) (uint32, bool) {
	u, v := interpUV(s.varyingUV, bc)

	l := s.LightDir.Normalize()
	var n geometry.Vec3
	if s.Normal != nil {
		texel := s.Normal.Sample(u, v)
		n = geometry.Vec3{
			float64(texel&0xff)/127.5 - 1,
			float64(texel>>8&0xff)/127.5 - 1,
			float64(texel>>16&0xff)/127.5 - 1,
		}.Normalize()
	} else {
		n = geometry.Vec3{0, 0, 1}
	}

	diff := math.Max(0, n.Dot(l))

	var spec float64
	if s.Specular != nil {
		power := float64(s.Specular.Sample(u, v) & 0xff)
		refl := n.Scale(2 * n.Dot(l)).Sub(l).Normalize()
		spec = math.Pow(math.Max(refl[2], 0), 5+power)
	}

	base := White
	if s.Diffuse != nil {
		base = s.Diffuse.Sample(u, v)
	}

	var out uint32 = 0xff000000
	for shift := 0; shift < 24; shift += 8 {
		c := float64(base>>shift&0xff)*(diff+0.6*spec) + 5
		if c > 255 {
			c = 255
		}
		out |= (uint32(c) & 0xff) << shift
	}
	return out, true
}

// Modulate scales the RGB channels of a packed pixel by k, clamping to 255
// and forcing the result opaque.
func Modulate(pixel uint32, k float64) uint32 {
	var out uint32 = 0xff000000
	for shift := 0; shift < 24; shift += 8 {
		c := float64(pixel>>shift&0xff) * k
		if c < 0 {
			c = 0
		} else if c > 255 {
			c = 255
		}
		out |= (uint32(c) & 0xff) << shift
	}
	return out
}

func interpUV(uv [3]geometry.Vec2, bc geometry.Vec3) (float64, float64) {
	u := uv[0][0]*bc[0] + uv[1][0]*bc[1] + uv[2][0]*bc[2]
	v := uv[0][1]*bc[0] + uv[1][1]*bc[1] + uv[2][1]*bc[2]
	return u, v
}

// interface conformance
var (
	_ raster.Shader = (*Gouraud)(nil)
	_ raster.Shader = (*Textured)(nil)
	_ raster.Shader = (*Phong)(nil)
)
