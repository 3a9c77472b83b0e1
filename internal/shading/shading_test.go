package shading

import (
	"math"
	"testing"

	"softrender/internal/geometry"
	"softrender/internal/texture"
)

// stubMesh is a single right triangle facing +z with one corner lit UV space.
type stubMesh struct {
	norms [3]geometry.Vec3
}

func newStubMesh() *stubMesh {
	return &stubMesh{norms: [3]geometry.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}}
}

func (m *stubMesh) NFaces() int { return 1 }

func (m *stubMesh) Vert(iface, nthvert int) geometry.Vec3 {
	return [3]geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}[nthvert]
}

func (m *stubMesh) UV(iface, nthvert int) geometry.Vec2 {
	return [3]geometry.Vec2{{0, 0}, {1, 0}, {0, 1}}[nthvert]
}

func (m *stubMesh) NormalAt(iface, nthvert int) geometry.Vec3 {
	return m.norms[nthvert]
}

func TestGouraudFullIntensity(t *testing.T) {
	s := &Gouraud{
		Mesh:      newStubMesh(),
		Transform: geometry.Mat4Identity(),
		LightDir:  geometry.Vec3{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	pixel, keep := s.Fragment(geometry.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3})
	if !keep {
		t.Fatal("fragment discarded")
	}
	if pixel != White {
		t.Errorf("head-on light yields %#08x, want white", pixel)
	}
}

func TestGouraudInterpolatesIntensity(t *testing.T) {
	m := newStubMesh()
	m.norms[0] = geometry.Vec3{0, 0, 1}  // lit
	m.norms[1] = geometry.Vec3{1, 0, 0}  // grazing
	m.norms[2] = geometry.Vec3{-1, 0, 0} // grazing
	s := &Gouraud{Mesh: m, Transform: geometry.Mat4Identity(), LightDir: geometry.Vec3{0, 0, 1}}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}

	at := func(bc geometry.Vec3) uint32 {
		pixel, _ := s.Fragment(bc)
		return pixel & 0xff
	}
	if got := at(geometry.Vec3{1, 0, 0}); got != 0xff {
		t.Errorf("lit corner red = %#02x, want ff", got)
	}
	if got := at(geometry.Vec3{0, 1, 0}); got != 0 {
		t.Errorf("grazing corner red = %#02x, want 00", got)
	}
	if got := at(geometry.Vec3{0.5, 0.5, 0}); got != 0x7f {
		t.Errorf("edge midpoint red = %#02x, want 7f", got)
	}
}

func TestGouraudVertexAppliesTransform(t *testing.T) {
	tr := geometry.Mat4FromRows(
		geometry.Vec4{1, 0, 0, 10},
		geometry.Vec4{0, 1, 0, 0},
		geometry.Vec4{0, 0, 1, 0},
		geometry.Vec4{0, 0, 0, 1},
	)
	s := &Gouraud{Mesh: newStubMesh(), Transform: tr, LightDir: geometry.Vec3{0, 0, 1}}
	if got := s.Vertex(0, 1); got != (geometry.Vec3{11, 0, 0}) {
		t.Errorf("Vertex = %v, want {11 0 0}", got)
	}
}

func TestTexturedSamplesDiffuse(t *testing.T) {
	diffuse := &texture.Texture{
		Pix:    []uint32{0xff0000ff, 0xff00ff00, 0xffff0000, 0xffffffff},
		Width:  2,
		Height: 2,
	}
	s := &Textured{
		Mesh:      newStubMesh(),
		Diffuse:   diffuse,
		Transform: geometry.Mat4Identity(),
		LightDir:  geometry.Vec3{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	// Full weight on vertex 0, whose UV is (0,0): the top-left texel at full
	// intensity.
	pixel, keep := s.Fragment(geometry.Vec3{1, 0, 0})
	if !keep {
		t.Fatal("fragment discarded")
	}
	if pixel != 0xff0000ff {
		t.Errorf("pixel = %#08x, want 0xff0000ff", pixel)
	}
}

func TestTexturedDiscardsTransparentTexel(t *testing.T) {
	diffuse := &texture.Texture{
		Pix:    []uint32{0x000000ff, 0x000000ff, 0x000000ff, 0x000000ff},
		Width:  2,
		Height: 2,
	}
	s := &Textured{
		Mesh:      newStubMesh(),
		Diffuse:   diffuse,
		Transform: geometry.Mat4Identity(),
		LightDir:  geometry.Vec3{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	if _, keep := s.Fragment(geometry.Vec3{1, 0, 0}); keep {
		t.Error("transparent texel must be discarded")
	}
}

func TestTexturedWithoutMapIsWhite(t *testing.T) {
	s := &Textured{Mesh: newStubMesh(), Transform: geometry.Mat4Identity(), LightDir: geometry.Vec3{0, 0, 1}}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	pixel, keep := s.Fragment(geometry.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3})
	if !keep || pixel != White {
		t.Errorf("pixel = %#08x keep=%v, want white kept", pixel, keep)
	}
}

func TestPhongFlatNormal(t *testing.T) {
	s := &Phong{
		Mesh:      newStubMesh(),
		Transform: geometry.Mat4Identity(),
		LightDir:  geometry.Vec3{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	// No maps bound: normal defaults to +z, diffuse term is 1, base is white,
	// so every channel saturates through the ambient offset.
	pixel, keep := s.Fragment(geometry.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3})
	if !keep {
		t.Fatal("fragment discarded")
	}
	if pixel != 0xffffffff {
		t.Errorf("pixel = %#08x, want saturated white", pixel)
	}
}

func TestPhongNormalMapTiltsShading(t *testing.T) {
	// A normal map texel encoding a normal perpendicular to the light zeroes
	// the diffuse term, leaving only the ambient floor.
	normal := &texture.Texture{
		Pix:    []uint32{0xff7f7fff, 0xff7f7fff, 0xff7f7fff, 0xff7f7fff}, // +x normal
		Width:  2,
		Height: 2,
	}
	s := &Phong{
		Mesh:      newStubMesh(),
		Normal:    normal,
		Transform: geometry.Mat4Identity(),
		LightDir:  geometry.Vec3{0, 0, 1},
	}
	for i := 0; i < 3; i++ {
		s.Vertex(0, i)
	}
	pixel, _ := s.Fragment(geometry.Vec3{1, 0, 0})
	if r := pixel & 0xff; r > 8 {
		t.Errorf("red channel = %d, want only the ambient floor", r)
	}
}

func TestModulate(t *testing.T) {
	tests := []struct {
		name  string
		pixel uint32
		k     float64
		want  uint32
	}{
		{"identity", 0xff80f000, 1, 0xff80f000},
		{"halved", 0xfffe0000, 0.5, 0xff7f0000},
		{"clamped high", 0xffffffff, 2, 0xffffffff},
		{"clamped low", 0xff102030, -1, 0xff000000},
		{"alpha forced opaque", 0x00ffffff, 1, 0xffffffff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Modulate(tc.pixel, tc.k); got != tc.want {
				t.Errorf("Modulate(%#08x, %v) = %#08x, want %#08x", tc.pixel, tc.k, got, tc.want)
			}
		})
	}
}

func TestInterpUV(t *testing.T) {
	uv := [3]geometry.Vec2{{0, 0}, {1, 0}, {0, 1}}
	u, v := interpUV(uv, geometry.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3})
	if math.Abs(u-1.0/3) > 1e-12 || math.Abs(v-1.0/3) > 1e-12 {
		t.Errorf("centroid uv = (%v,%v), want (1/3,1/3)", u, v)
	}
}
