// Package texture loads diffuse, normal and specular maps and samples them
// by UV coordinate. PPM files go through the internal container codec; TGA
// and JPEG go through the image decoders.
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"

	"softrender/internal/ppm"
)

// Texture is a rectangular sampler over pixels packed 0xAABBGGRR.
type Texture struct {
	Pix    []uint32
	Width  int
	Height int
}

// Load reads a texture file, dispatching on extension. Supported: .ppm,
// .tga, .jpg, .jpeg.
func Load(path string) (*Texture, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		img, err := ppm.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return &Texture{Pix: img.Buffer, Width: img.Width, Height: img.Height}, nil
	case ".tga":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("texture: open %s: %w", path, err)
		}
		defer f.Close()
		img, err := tga.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s: %w", path, err)
		}
		return FromImage(img), nil
	case ".jpg", ".jpeg":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("texture: open %s: %w", path, err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s: %w", path, err)
		}
		return FromImage(img), nil
	default:
		return nil, fmt.Errorf("texture: unknown extension %q in %s", ext, path)
	}
}

// FromImage converts any image to a packed-pixel texture.
func FromImage(src image.Image) *Texture {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &Texture{Pix: make([]uint32, w*h), Width: w, Height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.Pix[y*w+x] = uint32(r>>8) | uint32(g>>8)<<8 | uint32(bl>>8)<<16 | uint32(a>>8)<<24
		}
	}
	return t
}

// Sample returns the texel nearest to (u,v), with both coordinates clamped
// to [0,1].
func (t *Texture) Sample(u, v float64) uint32 {
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pix[y*t.Width+x]
}

// SampleBilinear filters the four texels around (u,v) with UV wrapping.
func (t *Texture) SampleBilinear(u, v float64) uint32 {
	u = u - float64(int(u))
	if u < 0 {
		u += 1
	}
	v = v - float64(int(v))
	if v < 0 {
		v += 1
	}

	fx := u * float64(t.Width-1)
	fy := v * float64(t.Height-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % t.Width
	y1 := (y0 + 1) % t.Height
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	p00 := t.Pix[y0*t.Width+x0]
	p10 := t.Pix[y0*t.Width+x1]
	p01 := t.Pix[y1*t.Width+x0]
	p11 := t.Pix[y1*t.Width+x1]

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		c := float64(p00>>shift&0xff)*w00 + float64(p10>>shift&0xff)*w10 +
			float64(p01>>shift&0xff)*w01 + float64(p11>>shift&0xff)*w11
		out |= (uint32(c+0.5) & 0xff) << shift
	}
	return out
}
