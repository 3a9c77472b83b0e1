package raster

import (
	"math"
	"testing"

	"softrender/internal/geometry"
)

// flatShader returns a constant color for every covered pixel.
type flatShader struct {
	verts [3]geometry.Vec3
	pixel uint32
}

func (s *flatShader) Vertex(iface, nthvert int) geometry.Vec3 { return s.verts[nthvert] }
func (s *flatShader) Fragment(bc geometry.Vec3) (uint32, bool) {
	return s.pixel, true
}

// discardShader passes the depth test but never writes a color.
type discardShader struct {
	verts [3]geometry.Vec3
}

func (s *discardShader) Vertex(iface, nthvert int) geometry.Vec3 { return s.verts[nthvert] }
func (s *discardShader) Fragment(bc geometry.Vec3) (uint32, bool) {
	return 0, false
}

func newTestRenderer(w, h int) (*Renderer, []uint32) {
	pixels := make([]uint32, w*h)
	depth := make([]float64, w*h)
	r := New(pixels, depth, w, h)
	r.Fill(0xff000000)
	return r, pixels
}

func TestNewPanicsOnSizeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		pixels int
		depth  int
	}{
		{"short pixel buffer", 10, 16},
		{"short depth buffer", 16, 10},
		{"both wrong", 3, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			New(make([]uint32, tc.pixels), make([]float64, tc.depth), 4, 4)
		})
	}
}

func TestNewWithStridePanicsOnStrideBelowWidth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewWithStride(make([]uint32, 16), make([]float64, 16), 8, 2, 2)
}

func TestFill(t *testing.T) {
	r, pixels := newTestRenderer(4, 4)
	r.Fill(0xff112233)
	for i, p := range pixels {
		if p != 0xff112233 {
			t.Fatalf("pixel %d = %#x", i, p)
		}
	}
	for i, d := range r.depth {
		if d != -math.MaxFloat64 {
			t.Fatalf("depth %d = %v", i, d)
		}
	}
}

func TestFillTriangleMatchesInsideTest(t *testing.T) {
	const size = 20
	r, pixels := newTestRenderer(size, size)

	shader := &flatShader{
		verts: [3]geometry.Vec3{{0, 0, 1}, {10, 0, 1}, {0, 10, 1}},
		pixel: 0xffffffff,
	}
	r.FillTriangle(shader.verts, shader)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			bc := barycentric(float64(x)+0.5, float64(y)+0.5, 0, 0, 10, 0, 0, 10)
			inside := bc[0] >= 0 && bc[1] >= 0 && bc[2] >= 0
			got := pixels[y*size+x]
			if inside && got != 0xffffffff {
				t.Errorf("pixel (%d,%d) inside but not painted", x, y)
			}
			if !inside && got != 0xff000000 {
				t.Errorf("pixel (%d,%d) outside but painted %#x", x, y, got)
			}
		}
	}
}

func TestDepthTestGreaterWins(t *testing.T) {
	r, pixels := newTestRenderer(8, 8)
	tri := func(z float64) [3]geometry.Vec3 {
		return [3]geometry.Vec3{{0, 0, z}, {8, 0, z}, {0, 8, z}}
	}

	r.FillTriangle(tri(0.5), &flatShader{pixel: 0xff0000ff})
	// farther triangle must not overwrite
	r.FillTriangle(tri(0.25), &flatShader{pixel: 0xff00ff00})
	if pixels[0] != 0xff0000ff {
		t.Fatalf("farther triangle overwrote: %#x", pixels[0])
	}
	// equal depth must not overwrite either (strict improvement only)
	r.FillTriangle(tri(0.5), &flatShader{pixel: 0xffff0000})
	if pixels[0] != 0xff0000ff {
		t.Fatalf("equal-depth triangle overwrote: %#x", pixels[0])
	}
	// nearer triangle wins
	r.FillTriangle(tri(0.75), &flatShader{pixel: 0xffffffff})
	if pixels[0] != 0xffffffff {
		t.Fatalf("nearer triangle did not overwrite: %#x", pixels[0])
	}
}

func TestDegenerateTriangleNoPixels(t *testing.T) {
	tests := []struct {
		name  string
		verts [3]geometry.Vec3
	}{
		{"collinear", [3]geometry.Vec3{{0, 0, 1}, {4, 4, 1}, {8, 8, 1}}},
		{"two coincident", [3]geometry.Vec3{{2, 2, 1}, {2, 2, 1}, {6, 3, 1}}},
		{"all coincident", [3]geometry.Vec3{{3, 3, 1}, {3, 3, 1}, {3, 3, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, pixels := newTestRenderer(10, 10)
			r.FillTriangle(tc.verts, &flatShader{pixel: 0xffffffff})
			for i, p := range pixels {
				if p != 0xff000000 {
					t.Fatalf("pixel %d painted: %#x", i, p)
				}
			}
		})
	}
}

func TestOffscreenTriangleSkipped(t *testing.T) {
	r, pixels := newTestRenderer(10, 10)
	r.FillTriangle([3]geometry.Vec3{{-30, -30, 1}, {-20, -30, 1}, {-30, -20, 1}},
		&flatShader{pixel: 0xffffffff})
	for i, p := range pixels {
		if p != 0xff000000 {
			t.Fatalf("pixel %d painted: %#x", i, p)
		}
	}
}

func TestFragmentDiscardStillWritesDepth(t *testing.T) {
	r, pixels := newTestRenderer(8, 8)
	tri := func(z float64) [3]geometry.Vec3 {
		return [3]geometry.Vec3{{0, 0, z}, {8, 0, z}, {0, 8, z}}
	}

	r.FillTriangle(tri(0.75), &discardShader{})
	if pixels[0] != 0xff000000 {
		t.Fatalf("discarded fragment wrote a color: %#x", pixels[0])
	}
	// The depth buffer was updated anyway, so a farther triangle loses.
	r.FillTriangle(tri(0.5), &flatShader{pixel: 0xff00ff00})
	if pixels[0] != 0xff000000 {
		t.Fatalf("farther triangle painted over discarded depth: %#x", pixels[0])
	}
}

// recordingShader captures vertex-stage calls and the weights handed to the
// fragment stage.
type recordingShader struct {
	verts  [3]geometry.Vec3
	calls  [][2]int
	bcSeen []geometry.Vec3
}

func (s *recordingShader) Vertex(iface, nthvert int) geometry.Vec3 {
	s.calls = append(s.calls, [2]int{iface, nthvert})
	return s.verts[nthvert]
}

func (s *recordingShader) Fragment(bc geometry.Vec3) (uint32, bool) {
	s.bcSeen = append(s.bcSeen, bc)
	return 0xffffffff, true
}

func TestDrawTriangleVertexOrder(t *testing.T) {
	r, _ := newTestRenderer(8, 8)
	s := &recordingShader{verts: [3]geometry.Vec3{{0, 0, 1}, {6, 0, 1}, {0, 6, 1}}}
	r.DrawTriangle(7, s)

	want := [][2]int{{7, 0}, {7, 1}, {7, 2}}
	if len(s.calls) != 3 {
		t.Fatalf("vertex stage called %d times, want 3", len(s.calls))
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, s.calls[i], want[i])
		}
	}
	if len(s.bcSeen) == 0 {
		t.Fatal("fragment stage never called")
	}
}

func TestPerspectiveCorrectedWeights(t *testing.T) {
	r, _ := newTestRenderer(16, 16)
	// Unequal vertex depths force a real correction.
	s := &recordingShader{verts: [3]geometry.Vec3{{0, 0, 2}, {12, 0, 2}, {0, 12, 0.5}}}
	r.FillTriangle(s.verts, s)

	if len(s.bcSeen) == 0 {
		t.Fatal("fragment stage never called")
	}
	for _, bc := range s.bcSeen {
		sum := bc[0] + bc[1] + bc[2]
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("corrected weights sum to %v, want 1", sum)
		}
		for i, w := range bc {
			if w < -1e-9 || w > 1+1e-9 {
				t.Fatalf("corrected weight %d = %v out of range", i, w)
			}
		}
	}
}

func TestBarycentricProperties(t *testing.T) {
	// Triangle (0,0) (10,0) (0,10), point strictly inside
	bc := barycentric(2, 3, 0, 0, 10, 0, 0, 10)
	sum := bc[0] + bc[1] + bc[2]
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
	for i, w := range bc {
		if w <= 0 {
			t.Errorf("interior point has non-positive weight %d: %v", i, w)
		}
	}

	// Point outside has a negative weight
	bc = barycentric(20, 20, 0, 0, 10, 0, 0, 10)
	if bc[0] >= 0 && bc[1] >= 0 && bc[2] >= 0 {
		t.Error("exterior point has no negative weight")
	}

	// Degenerate triangle yields the sentinel
	bc = barycentric(1, 1, 0, 0, 1e-9, 1e-9, 2e-9, 2e-9)
	if bc != (geometry.Vec3{-1, 1, 1}) {
		t.Errorf("degenerate sentinel = %v", bc)
	}
}

func TestDrawLine(t *testing.T) {
	r, pixels := newTestRenderer(10, 10)
	r.DrawLine(1, 1, 4, 1, 0xffffffff)
	for x := 1; x <= 4; x++ {
		if pixels[1*10+x] != 0xffffffff {
			t.Errorf("pixel (%d,1) not painted", x)
		}
	}
	if pixels[1*10+5] != 0xff000000 {
		t.Error("pixel (5,1) painted past the endpoint")
	}
}

func TestDrawLineClipped(t *testing.T) {
	r, pixels := newTestRenderer(10, 10)

	// Fully outside draws nothing.
	r.DrawLine(-5, -5, -1, -1, 0xffffffff)
	for i, p := range pixels {
		if p != 0xff000000 {
			t.Fatalf("pixel %d painted by offscreen line: %#x", i, p)
		}
	}

	// Crossing the border must not panic and must paint the inside part.
	r.DrawLine(-5, 3, 20, 3, 0xffffffff)
	for x := 0; x < 10; x++ {
		if pixels[3*10+x] != 0xffffffff {
			t.Errorf("pixel (%d,3) not painted", x)
		}
	}
}

func TestSubRectangleStride(t *testing.T) {
	// 4×4 view into a 8-wide surface
	pixels := make([]uint32, 8*4)
	depth := make([]float64, 8*4)
	r := NewWithStride(pixels, depth, 4, 4, 8)
	r.Fill(0)
	r.FillTriangle([3]geometry.Vec3{{0, 0, 1}, {4, 0, 1}, {0, 4, 1}},
		&flatShader{pixel: 0xffffffff})

	if pixels[0] != 0xffffffff {
		t.Error("pixel (0,0) not painted")
	}
	if pixels[1*8+0] != 0xffffffff {
		t.Error("pixel (0,1) not painted through stride")
	}
	for x := 4; x < 8; x++ {
		for y := 0; y < 4; y++ {
			if pixels[y*8+x] != 0 {
				t.Errorf("pixel outside sub-rectangle painted at (%d,%d)", x, y)
			}
		}
	}
}

func TestPackUnpack(t *testing.T) {
	p := PackRGBA(0x11, 0x22, 0x33, 0x44)
	if p != 0x44332211 {
		t.Fatalf("PackRGBA = %#x", p)
	}
	r, g, b, a := Unpack(p)
	if r != 0x11 || g != 0x22 || b != 0x33 || a != 0x44 {
		t.Fatalf("Unpack = %x %x %x %x", r, g, b, a)
	}
	if PackRGB(1, 2, 3)>>24 != 0xff {
		t.Error("PackRGB must be opaque")
	}
}
