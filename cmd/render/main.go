package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"softrender/internal/config"
	"softrender/internal/geometry"
	"softrender/internal/model"
	"softrender/internal/ppm"
	"softrender/internal/raster"
	"softrender/internal/scene"
	"softrender/internal/turntable"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	modelPath := flag.String("model", "", "Path to the mesh file")
	outputPath := flag.String("output", "", "Output file (.ppm/.webp), or directory when -frames is set")
	shaderName := flag.String("shader", "", "Shader: gouraud, textured or phong")
	width := flag.Int("width", 0, "Frame width (default: 800)")
	height := flag.Int("height", 0, "Frame height (default: 800)")
	frames := flag.Int("frames", 0, "Render a turntable orbit of N frames")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	supersample := flag.Int("supersample", 0, "Supersampling factor (default: 1)")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		ModelPath:   *modelPath,
		OutputPath:  *outputPath,
		Shader:      *shaderName,
		Width:       *width,
		Height:      *height,
		Frames:      *frames,
		Workers:     *workers,
		Supersample: *supersample,
	})

	if cfg.ModelPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no mesh file. Use -model or a config file.")
		os.Exit(1)
	}

	mesh, err := model.LoadFile(cfg.ModelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mesh: %d vertices, %d triangles\n", mesh.NVerts(), mesh.NFaces())

	loadMap := func(kind, path string, load func(string) error) {
		if path == "" {
			return
		}
		if err := load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s map: %v\n", kind, err)
			os.Exit(1)
		}
	}
	loadMap("diffuse", cfg.DiffuseMap, mesh.LoadDiffuseMap)
	loadMap("normal", cfg.NormalMap, mesh.LoadNormalMap)
	loadMap("specular", cfg.SpecularMap, mesh.LoadSpecularMap)

	sc := scene.Scene{
		Mesh:       mesh,
		Eye:        geometry.Vec3(cfg.Eye),
		Center:     geometry.Vec3(cfg.Center),
		Up:         geometry.Vec3(cfg.Up),
		LightDir:   geometry.Vec3(cfg.LightDir),
		DepthRange: cfg.DepthRange,
		Background: raster.PackRGB(0, 0, 0),
		ShaderName: cfg.Shader,
	}

	start := time.Now()

	if cfg.Frames > 0 {
		runTurntable(cfg, sc, start)
		return
	}

	buffer := make([]uint32, cfg.Width*cfg.Supersample*cfg.Height*cfg.Supersample)
	depth := make([]float64, len(buffer))
	r := raster.New(buffer, depth, cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample)
	sc.Render(r)

	if err := saveFrame(cfg, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving frame: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendered %dx%d (%s) in %.2fs -> %s\n",
		cfg.Width, cfg.Height, cfg.Shader, time.Since(start).Seconds(), cfg.OutputPath)
}

func saveFrame(cfg config.Config, r *raster.Renderer) error {
	img := turntable.BufferToNRGBA(r.Pixels(), r.Width, r.Height, r.Stride)
	if cfg.Supersample > 1 {
		img = turntable.Downsample(img, cfg.Width, cfg.Height)
	}

	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".webp":
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return f.Close()
	default:
		w := img.Bounds().Dx()
		h := img.Bounds().Dy()
		buffer := make([]uint32, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := img.PixOffset(x, y)
				buffer[y*w+x] = raster.PackRGBA(img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3])
			}
		}
		return ppm.SaveFile(cfg.OutputPath, buffer, w, h, w)
	}
}

func runTurntable(cfg config.Config, sc scene.Scene, start time.Time) {
	if err := os.MkdirAll(cfg.OutputPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Turntable: %d frames, %d workers\n", cfg.Frames, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputPath)
	fmt.Println("------------------------------------------------------------")

	results := turntable.Run(turntable.Config{
		Scene:       sc,
		Size:        cfg.Width,
		Frames:      cfg.Frames,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Format:      "webp",
		OutputDir:   cfg.OutputPath,
	})

	success, failed := 0, 0
	for _, res := range results {
		if res.Success {
			success++
		} else {
			failed++
			fmt.Fprintf(os.Stderr, "  frame %d: %s\n", res.Frame, res.Error)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Rendered %d/%d frames in %.1fs\n", success, cfg.Frames, time.Since(start).Seconds())
	if failed > 0 {
		os.Exit(1)
	}
}
