// Package raster implements the software rasterizer: a renderer borrowing a
// packed-pixel framebuffer and a depth buffer, line drawing with rectangle
// clipping, and the perspective-correct triangle scan converter that drives
// the two-stage shader contract.
package raster

import (
	"fmt"
	"math"

	"softrender/internal/geometry"
)

// Renderer borrows one pixel buffer and one depth buffer of matching length
// for the duration of a frame. Pixels are packed 0xAABBGGRR (byte 0 red).
// The depth convention is greater-wins: larger stored values are nearer.
type Renderer struct {
	pixels []uint32
	depth  []float64

	Width  int
	Height int
	// Stride is the row pitch of both buffers in elements. It equals Width
	// unless the renderer targets a sub-rectangle of a larger surface.
	Stride int
}

// New wraps a width×height pixel buffer and its depth buffer. Size
// mismatches are programmer errors and panic.
func New(pixels []uint32, depth []float64, width, height int) *Renderer {
	return NewWithStride(pixels, depth, width, height, width)
}

// NewWithStride wraps buffers whose rows are stride elements apart, for
// rendering into a sub-rectangle of a larger surface. Requires stride ≥
// width and buffer lengths of stride×height.
func NewWithStride(pixels []uint32, depth []float64, width, height, stride int) *Renderer {
	if stride < width {
		panic(fmt.Sprintf("raster: stride %d < width %d", stride, width))
	}
	if len(pixels) != stride*height {
		panic(fmt.Sprintf("raster: pixel buffer length %d, want %d (stride %d × height %d)", len(pixels), stride*height, stride, height))
	}
	if len(depth) != len(pixels) {
		panic(fmt.Sprintf("raster: depth buffer length %d, want %d", len(depth), len(pixels)))
	}
	return &Renderer{
		pixels: pixels,
		depth:  depth,
		Width:  width,
		Height: height,
		Stride: stride,
	}
}

// Pixels exposes the borrowed pixel buffer.
func (r *Renderer) Pixels() []uint32 { return r.pixels }

// DrawPixel writes a pixel without bounds checking.
func (r *Renderer) DrawPixel(x, y int, pixel uint32) {
	r.pixels[y*r.Stride+x] = pixel
}

// Fill sets every pixel to the given color and resets every depth cell to
// the minimum finite float, so the first write at any pixel passes the
// strict greater-wins depth test.
func (r *Renderer) Fill(pixel uint32) {
	for i := range r.pixels {
		r.pixels[i] = pixel
	}
	for i := range r.depth {
		r.depth[i] = -math.MaxFloat64
	}
}

// DrawLine rasterizes the segment from (x0,y0) to (x1,y1), clipped against
// the framebuffer rectangle.
func (r *Renderer) DrawLine(x0, y0, x1, y1 int, pixel uint32) {
	line, ok := geometry.Line2D{
		X0: float64(x0), Y0: float64(y0),
		X1: float64(x1), Y1: float64(y1),
	}.BoxClip(0, 0, float64(r.Width)-0.1, float64(r.Height)-0.1)
	if !ok {
		return
	}

	cx0, cy0 := int(line.X0), int(line.Y0)
	cx1, cy1 := int(line.X1), int(line.Y1)

	// The walk below may stop one short of the endpoint; paint it first.
	r.DrawPixel(cx1, cy1, pixel)

	ray := geometry.NewRay(cx0, cy0, cx1, cy1)
	for !ray.Reached {
		x, y := ray.Next()
		r.DrawPixel(x, y, pixel)
	}
}
