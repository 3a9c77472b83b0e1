// Package turntable renders a full camera orbit of a scene as numbered
// frames using a worker pool. Each worker owns its frame buffers; the mesh
// and textures are shared read-only.
package turntable

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"softrender/internal/ppm"
	"softrender/internal/raster"
	"softrender/internal/scene"
)

// Config holds the shared settings for an orbit run.
type Config struct {
	Scene       scene.Scene
	Size        int
	Frames      int
	Supersample int
	Workers     int
	Format      string // "webp" or "ppm"
	OutputDir   string
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int
	Path    string
	Success bool
	Error   string
}

// Run renders all frames of the orbit. It blocks until every frame is done
// and reports progress on stdout while rendering.
func Run(cfg Config) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}

	total := cfg.Frames
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, idx)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, frame int) Result {
	sc := cfg.Scene
	sc.Orbit(2 * math.Pi * float64(frame) / float64(cfg.Frames))

	renderSize := cfg.Size * cfg.Supersample
	buffer := make([]uint32, renderSize*renderSize)
	depth := make([]float64, len(buffer))
	r := raster.New(buffer, depth, renderSize, renderSize)

	sc.Render(r)

	img := BufferToNRGBA(buffer, renderSize, renderSize, renderSize)
	if cfg.Supersample > 1 {
		img = Downsample(img, cfg.Size, cfg.Size)
	}

	ext := "webp"
	if cfg.Format == "ppm" {
		ext = "ppm"
	}
	outPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("frame_%03d.%s", frame, ext))

	var err error
	if cfg.Format == "ppm" {
		err = savePPM(outPath, img)
	} else {
		err = saveWebP(outPath, img)
	}
	if err != nil {
		return Result{Frame: frame, Path: outPath, Error: err.Error()}
	}
	return Result{Frame: frame, Path: outPath, Success: true}
}

func saveWebP(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return f.Close()
}

func savePPM(path string, img *image.NRGBA) error {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	buffer := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			buffer[y*w+x] = raster.PackRGBA(img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3])
		}
	}
	return ppm.SaveFile(path, buffer, w, h, w)
}

// BufferToNRGBA copies a packed pixel buffer into an NRGBA image. The packed
// byte order matches NRGBA, so channels map through directly.
func BufferToNRGBA(buffer []uint32, width, height, stride int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := buffer[y*stride+x]
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(pixel)
			img.Pix[i+1] = uint8(pixel >> 8)
			img.Pix[i+2] = uint8(pixel >> 16)
			img.Pix[i+3] = uint8(pixel >> 24)
		}
	}
	return img
}
