// Package ppm reads and writes the binary P6 image container used for
// textures and saved frames: a "P6" magic token, whitespace-separated width,
// height and max-channel-value header fields, then raw RGB24 rows, top to
// bottom.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Image is a decoded P6 file with pixels packed 0xAABBGGRR, alpha forced
// opaque.
type Image struct {
	Buffer []uint32
	Width  int
	Height int
}

// Save writes a pixel buffer as a P6 stream, dropping the alpha channel.
func Save(w io.Writer, buffer []uint32, width, height, stride int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d 255\n", width, height); err != nil {
		return fmt.Errorf("ppm: write header: %w", err)
	}
	rgb := make([]byte, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := buffer[y*stride+x]
			rgb[0] = byte(pixel)
			rgb[1] = byte(pixel >> 8)
			rgb[2] = byte(pixel >> 16)
			if _, err := bw.Write(rgb); err != nil {
				return fmt.Errorf("ppm: write pixel data: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ppm: flush: %w", err)
	}
	return nil
}

// SaveFile writes the buffer to path as a P6 file.
func SaveFile(path string, buffer []uint32, width, height, stride int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ppm: create %s: %w", path, err)
	}
	defer f.Close()
	if err := Save(f, buffer, width, height, stride); err != nil {
		return err
	}
	return f.Close()
}

// Load decodes a P6 stream. Any other magic token, a malformed header or a
// truncated pixel payload aborts with an error.
func Load(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	// Header fields arrive in order, whitespace separated, possibly several
	// per line. Data starts right after the line carrying the last field.
	const (
		wantMagic = iota
		wantWidth
		wantHeight
		wantMaxVal
		wantData
	)
	state := wantMagic
	var width, height, maxVal int
	for state != wantData {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("ppm: read header: %w", err)
		}
		for _, field := range strings.Fields(line) {
			switch state {
			case wantMagic:
				if field != "P6" {
					return nil, fmt.Errorf("ppm: unsupported magic token %q", field)
				}
				state = wantWidth
			case wantWidth:
				if width, err = strconv.Atoi(field); err != nil {
					return nil, fmt.Errorf("ppm: bad width %q", field)
				}
				state = wantHeight
			case wantHeight:
				if height, err = strconv.Atoi(field); err != nil {
					return nil, fmt.Errorf("ppm: bad height %q", field)
				}
				state = wantMaxVal
			case wantMaxVal:
				if maxVal, err = strconv.Atoi(field); err != nil {
					return nil, fmt.Errorf("ppm: bad max value %q", field)
				}
				state = wantData
			case wantData:
				return nil, fmt.Errorf("ppm: unexpected header token %q", field)
			}
		}
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ppm: invalid dimensions %d×%d", width, height)
	}
	if maxVal != 255 {
		return nil, fmt.Errorf("ppm: unsupported max value %d", maxVal)
	}

	buffer := make([]uint32, 0, width*height)
	var rgb [3]byte
	for {
		if _, err := io.ReadFull(br, rgb[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("ppm: read pixel data: %w", err)
		}
		buffer = append(buffer, 0xff000000|uint32(rgb[0])|uint32(rgb[1])<<8|uint32(rgb[2])<<16)
	}
	if len(buffer) != width*height {
		return nil, fmt.Errorf("ppm: got %d pixels, header says %d", len(buffer), width*height)
	}

	return &Image{Buffer: buffer, Width: width, Height: height}, nil
}

// LoadFile decodes the P6 file at path.
func LoadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ppm: open %s: %w", path, err)
	}
	defer f.Close()
	img, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("ppm: load %s: %w", path, err)
	}
	return img, nil
}

// VFlip mirrors the image rows in place.
func (im *Image) VFlip() {
	for y := 0; y < im.Height/2; y++ {
		for x := 0; x < im.Width; x++ {
			a := x + y*im.Width
			b := x + (im.Height-1-y)*im.Width
			im.Buffer[a], im.Buffer[b] = im.Buffer[b], im.Buffer[a]
		}
	}
}
