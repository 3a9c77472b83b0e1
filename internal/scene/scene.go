// Package scene composes the transform pipeline and a shader over a mesh
// and renders one frame. Animation state is an explicit per-frame value
// passed by the caller, never package state.
package scene

import (
	"math"

	"softrender/internal/geometry"
	"softrender/internal/model"
	"softrender/internal/raster"
	"softrender/internal/shading"
	"softrender/internal/transform"
)

// Shader kind names accepted by Scene.ShaderName.
const (
	ShaderGouraud  = "gouraud"
	ShaderTextured = "textured"
	ShaderPhong    = "phong"
)

// Scene is the per-frame render state for one mesh.
type Scene struct {
	Mesh       *model.Mesh
	Eye        geometry.Vec3
	Center     geometry.Vec3
	Up         geometry.Vec3
	LightDir   geometry.Vec3
	DepthRange float64
	Background uint32
	ShaderName string
}

// Orbit positions the camera on the animation circle for time t and points
// the light along the view direction.
func (s *Scene) Orbit(t float64) {
	s.Eye = geometry.Vec3{math.Cos(t), math.Sin(t), 3}
	s.LightDir = s.Eye.Sub(s.Center).Normalize()
}

// OrbitLight keeps the camera where it is and circles the light direction
// around the scene for time t.
func (s *Scene) OrbitLight(t float64) {
	s.LightDir = geometry.Vec3{math.Cos(t), math.Sin(t), 1}.Normalize()
}

// Render fills the frame and draws every triangle of the mesh through the
// scene's shader. The viewport covers the centered 3/4 rectangle of the
// target, leaving a margin around the model.
func (s *Scene) Render(r *raster.Renderer) {
	w := float64(r.Width)
	h := float64(r.Height)

	modelView := transform.LookAt(s.Eye, s.Center, s.Up)
	projection := transform.Projection(-1 / s.Eye.Sub(s.Center).Len())
	viewport := transform.Viewport(w/8, h/8, w*3/4, h*3/4, s.DepthRange)
	screen := viewport.Mul(projection).Mul(modelView)

	shader := s.newShader(screen)

	r.Fill(s.Background)
	for i := 0; i < s.Mesh.NFaces(); i++ {
		r.DrawTriangle(i, shader)
	}
}

func (s *Scene) newShader(screen geometry.Mat4) raster.Shader {
	switch s.ShaderName {
	case ShaderGouraud:
		return &shading.Gouraud{Mesh: s.Mesh, Transform: screen, LightDir: s.LightDir}
	case ShaderPhong:
		return &shading.Phong{
			Mesh:      s.Mesh,
			Diffuse:   s.Mesh.Diffuse,
			Normal:    s.Mesh.Normal,
			Specular:  s.Mesh.Specular,
			Transform: screen,
			LightDir:  s.LightDir,
		}
	default:
		return &shading.Textured{
			Mesh:      s.Mesh,
			Diffuse:   s.Mesh.Diffuse,
			Transform: screen,
			LightDir:  s.LightDir,
		}
	}
}
