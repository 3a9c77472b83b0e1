package raster

// PackRGBA packs channels into the renderer's pixel format: byte 0 red,
// byte 1 green, byte 2 blue, byte 3 alpha (0xAABBGGRR).
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// PackRGB packs an opaque pixel.
func PackRGB(r, g, b uint8) uint32 {
	return PackRGBA(r, g, b, 0xff)
}

// Unpack splits a packed pixel back into channels.
func Unpack(pixel uint32) (r, g, b, a uint8) {
	return uint8(pixel), uint8(pixel >> 8), uint8(pixel >> 16), uint8(pixel >> 24)
}
