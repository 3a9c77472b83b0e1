package raster

import (
	"math"

	"softrender/internal/geometry"
)

// Shader is the two-stage shading contract invoked by the renderer.
//
// Vertex is called exactly three times per triangle, in vertex order 0,1,2,
// before rasterization begins. It returns the screen-space position of the
// vertex (x,y in pixels, z the renderer's depth proxy) and typically stages
// per-vertex varyings keyed by nthvert for later interpolation.
//
// Fragment is called once per covered, depth-test-passing pixel with the
// perspective-corrected barycentric weights. Returning ok=false discards the
// color write for that pixel; the depth buffer write has already happened.
type Shader interface {
	Vertex(iface, nthvert int) geometry.Vec3
	Fragment(bc geometry.Vec3) (pixel uint32, ok bool)
}

// DrawTriangle runs the shader's vertex stage for triangle iface and
// rasterizes the result.
func (r *Renderer) DrawTriangle(iface int, shader Shader) {
	var verts [3]geometry.Vec3
	for j := 0; j < 3; j++ {
		verts[j] = shader.Vertex(iface, j)
	}
	r.FillTriangle(verts, shader)
}

// FillTriangle scan-converts a screen-space triangle. For every pixel whose
// center lies inside the triangle it computes perspective-correct
// barycentric weights, depth-tests with greater-wins, and on a strict
// improvement invokes the shader's fragment stage. Degenerate triangles
// contribute no pixels.
func (r *Renderer) FillTriangle(verts [3]geometry.Vec3, shader Shader) {
	x0, y0 := verts[0][0], verts[0][1]
	x1, y1 := verts[1][0], verts[1][1]
	x2, y2 := verts[2][0], verts[2][1]

	// Bounding box clamped to the framebuffer extent.
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > r.Width-1 {
		maxX = r.Width - 1
	}
	if maxY > r.Height-1 {
		maxY = r.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	for y := minY; y <= maxY; y++ {
		rowOff := y * r.Stride
		for x := minX; x <= maxX; x++ {
			bc := barycentric(float64(x)+0.5, float64(y)+0.5, x0, y0, x1, y1, x2, y2)
			if bc[0] < 0 || bc[1] < 0 || bc[2] < 0 {
				continue
			}

			// Perspective correction: weight each vertex by its reciprocal
			// depth, recover the corrected depth from the sum, then rescale
			// the weights so attribute interpolation is perspective-correct.
			w0 := bc[0] / verts[0][2]
			w1 := bc[1] / verts[1][2]
			w2 := bc[2] / verts[2][2]
			z := 1 / (w0 + w1 + w2)
			bc = geometry.Vec3{w0 * z, w1 * z, w2 * z}

			idx := rowOff + x
			if z > r.depth[idx] {
				r.depth[idx] = z
				if pixel, ok := shader.Fragment(bc); ok {
					r.pixels[idx] = pixel
				}
			}
		}
	}
}

// barycentric returns the weights (u,v,w) of point (x,y) with respect to the
// triangle (x0,y0) (x1,y1) (x2,y2), via the 2D cross-product construction.
// A near-zero determinant means the triangle is degenerate at this
// resolution; the sentinel (-1,1,1) fails the inside test.
func barycentric(x, y, x0, y0, x1, y1, x2, y2 float64) geometry.Vec3 {
	u := geometry.Vec3{x2 - x0, x1 - x0, x0 - x}.Cross(geometry.Vec3{y2 - y0, y1 - y0, y0 - y})
	if math.Abs(u[2]) < 1 {
		return geometry.Vec3{-1, 1, 1}
	}
	return geometry.Vec3{1 - (u[0]+u[1])/u[2], u[1] / u[2], u[0] / u[2]}
}
