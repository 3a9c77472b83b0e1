package turntable

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to targetW by targetH with
// CatmullRom filtering. Frames are fully opaque, so no premultiplication is
// needed.
func Downsample(img *image.NRGBA, targetW, targetH int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetW && b.Dy() <= targetH {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
