// Command viewer opens a window and renders an orbiting-camera view of a
// mesh, one software-rendered frame per tick.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"softrender/internal/geometry"
	"softrender/internal/model"
	"softrender/internal/raster"
	"softrender/internal/scene"
)

const tps = 60

func main() {
	modelPath := flag.String("model", "", "Path to the mesh file")
	diffusePath := flag.String("diffuse", "", "Path to the diffuse map")
	size := flag.Int("size", 800, "Window size in pixels")
	shaderName := flag.String("shader", scene.ShaderTextured, "Shader: gouraud, textured or phong")
	orbit := flag.String("orbit", "camera", "What circles the model: camera or light")
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -model is required.")
		os.Exit(1)
	}

	mesh, err := model.LoadFile(*modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}
	if *diffusePath != "" {
		if err := mesh.LoadDiffuseMap(*diffusePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading diffuse map: %v\n", err)
			os.Exit(1)
		}
	}

	g := newGame(mesh, *size, *shaderName, *orbit == "light")
	ebiten.SetWindowTitle("softrender viewer")
	ebiten.SetWindowSize(*size, *size)
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type game struct {
	sc         scene.Scene
	size       int
	orbitLight bool
	buffer     []uint32
	depth      []float64
	pix        []byte
	fbImg      *ebiten.Image

	// animation time, advanced once per tick
	t float64
}

func newGame(mesh *model.Mesh, size int, shaderName string, orbitLight bool) *game {
	n := size * size
	return &game{
		sc: scene.Scene{
			Mesh:       mesh,
			Eye:        geometry.Vec3{1, 1, 3},
			Center:     geometry.Vec3{0, 0, 0},
			Up:         geometry.Vec3{0, 1, 0},
			DepthRange: 255,
			Background: raster.PackRGB(0, 0, 0),
			ShaderName: shaderName,
		},
		size:       size,
		orbitLight: orbitLight,
		buffer:     make([]uint32, n),
		depth:      make([]float64, n),
		pix:        make([]byte, n*4),
		fbImg:      ebiten.NewImage(size, size),
	}
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.t += 1.0 / tps
	if g.orbitLight {
		g.sc.OrbitLight(g.t)
	} else {
		g.sc.Orbit(g.t)
	}

	r := raster.New(g.buffer, g.depth, g.size, g.size)
	g.sc.Render(r)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	for i, pixel := range g.buffer {
		g.pix[i*4] = byte(pixel)
		g.pix[i*4+1] = byte(pixel >> 8)
		g.pix[i*4+2] = byte(pixel >> 16)
		g.pix[i*4+3] = 0xff
	}
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size, g.size
}
