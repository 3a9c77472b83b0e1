// Package model loads the line-oriented text mesh format and exposes the
// per-triangle accessors the rasterizer consumes.
package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"softrender/internal/geometry"
	"softrender/internal/texture"
)

// Mesh is a loaded triangle mesh: vertex attribute arrays plus per-triangle
// index triples into them. Optional texture maps ride along for the shaders.
type Mesh struct {
	verts    []geometry.Vec3
	uvs      []geometry.Vec2
	norms    []geometry.Vec3
	facetVrt []int
	facetTex []int
	facetNrm []int

	Diffuse  *texture.Texture
	Normal   *texture.Texture
	Specular *texture.Texture
}

// Load parses a mesh from r. Record kinds: "v" position (3 floats), "vn"
// normal (3 floats), "vt" texture coordinate (2 floats, v flipped), "f" face
// (3 groups of 1-based vertex/uv/normal indices). Unrecognized record kinds
// are ignored; malformed records and out-of-range face indices abort the
// load.
func Load(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("model: line %d: vertex: %w", lineNo, err)
			}
			m.verts = append(m.verts, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("model: line %d: normal: %w", lineNo, err)
			}
			m.norms = append(m.norms, n)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("model: line %d: texture coordinate needs 2 components", lineNo)
			}
			var uv geometry.Vec2
			for i := 0; i < 2; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("model: line %d: texture coordinate: %w", lineNo, err)
				}
				uv[i] = f
			}
			uv[1] = 1 - uv[1]
			m.uvs = append(m.uvs, uv)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("model: line %d: face needs 3 vertices", lineNo)
			}
			for i := 0; i < 3; i++ {
				group := strings.Split(fields[i+1], "/")
				if len(group) < 3 {
					return nil, fmt.Errorf("model: line %d: face group %q: want vertex/uv/normal", lineNo, fields[i+1])
				}
				vi, err := parseIndex(group[0])
				if err != nil {
					return nil, fmt.Errorf("model: line %d: face vertex index: %w", lineNo, err)
				}
				ti, err := parseIndex(group[1])
				if err != nil {
					return nil, fmt.Errorf("model: line %d: face uv index: %w", lineNo, err)
				}
				ni, err := parseIndex(group[2])
				if err != nil {
					return nil, fmt.Errorf("model: line %d: face normal index: %w", lineNo, err)
				}
				m.facetVrt = append(m.facetVrt, vi)
				m.facetTex = append(m.facetTex, ti)
				m.facetNrm = append(m.facetNrm, ni)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("model: read: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile parses the mesh file at path.
func LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("model: load %s: %w", path, err)
	}
	return m, nil
}

func parseVec3(fields []string) (geometry.Vec3, error) {
	var v geometry.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func (m *Mesh) validate() error {
	for i, vi := range m.facetVrt {
		if vi < 0 || vi >= len(m.verts) {
			return fmt.Errorf("model: face %d references vertex %d of %d", i/3, vi+1, len(m.verts))
		}
	}
	for i, ti := range m.facetTex {
		if ti < 0 || ti >= len(m.uvs) {
			return fmt.Errorf("model: face %d references texture coordinate %d of %d", i/3, ti+1, len(m.uvs))
		}
	}
	for i, ni := range m.facetNrm {
		if ni < 0 || ni >= len(m.norms) {
			return fmt.Errorf("model: face %d references normal %d of %d", i/3, ni+1, len(m.norms))
		}
	}
	return nil
}

// NVerts returns the number of distinct vertex positions.
func (m *Mesh) NVerts() int { return len(m.verts) }

// NFaces returns the number of triangles.
func (m *Mesh) NFaces() int { return len(m.facetVrt) / 3 }

// Vert returns the model-space position of vertex nthvert of triangle iface.
func (m *Mesh) Vert(iface, nthvert int) geometry.Vec3 {
	return m.verts[m.facetVrt[iface*3+nthvert]]
}

// UV returns the texture coordinate of vertex nthvert of triangle iface.
func (m *Mesh) UV(iface, nthvert int) geometry.Vec2 {
	return m.uvs[m.facetTex[iface*3+nthvert]]
}

// NormalAt returns the vertex normal of vertex nthvert of triangle iface.
func (m *Mesh) NormalAt(iface, nthvert int) geometry.Vec3 {
	return m.norms[m.facetNrm[iface*3+nthvert]]
}

// LoadDiffuseMap attaches the diffuse texture at path.
func (m *Mesh) LoadDiffuseMap(path string) error {
	t, err := texture.Load(path)
	if err != nil {
		return err
	}
	m.Diffuse = t
	return nil
}

// LoadNormalMap attaches the normal-map texture at path.
func (m *Mesh) LoadNormalMap(path string) error {
	t, err := texture.Load(path)
	if err != nil {
		return err
	}
	m.Normal = t
	return nil
}

// LoadSpecularMap attaches the specular-map texture at path.
func (m *Mesh) LoadSpecularMap(path string) error {
	t, err := texture.Load(path)
	if err != nil {
		return err
	}
	m.Specular = t
	return nil
}
