// Command termview renders an orbiting-camera view of a mesh as ASCII
// brightness characters in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"softrender/internal/geometry"
	"softrender/internal/model"
	"softrender/internal/raster"
	"softrender/internal/scene"
)

const (
	frameInterval = 50 * time.Millisecond
	// brightness ramp, darkest to brightest
	ramp = " .:a@#"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func main() {
	modelPath := flag.String("model", "", "Path to the mesh file")
	diffusePath := flag.String("diffuse", "", "Path to the diffuse map")
	size := flag.Int("size", 160, "Internal render size in pixels")
	scaleDown := flag.Int("scale", 4, "Pixels per character cell")
	orbit := flag.String("orbit", "camera", "What circles the model: camera or light")
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -model is required.")
		os.Exit(1)
	}
	if *size%*scaleDown != 0 {
		fmt.Fprintln(os.Stderr, "Error: -size must be a multiple of -scale.")
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

	m := newView(mesh, *size, *scaleDown, *orbit == "light")
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type view struct {
	sc         scene.Scene
	size       int
	scale      int
	orbitLight bool
	buffer     []uint32
	depth      []float64

	// animation time, advanced once per tick
	t float64
}

func newView(mesh *model.Mesh, size, scale int, orbitLight bool) *view {
	n := size * size
	return &view{
		sc: scene.Scene{
			Mesh:       mesh,
			Eye:        geometry.Vec3{1, 1, 3},
			Center:     geometry.Vec3{0, 0, 0},
			Up:         geometry.Vec3{0, 1, 0},
			DepthRange: 255,
			Background: raster.PackRGB(0, 0, 0),
			ShaderName: scene.ShaderTextured,
		},
		size:       size,
		scale:      scale,
		orbitLight: orbitLight,
		buffer:     make([]uint32, n),
		depth:      make([]float64, n),
	}
}

func (v *view) Init() tea.Cmd {
	return tick()
}

func (v *view) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		}
	case tickMsg:
		v.t += frameInterval.Seconds()
		if v.orbitLight {
			v.sc.OrbitLight(v.t)
		} else {
			v.sc.Orbit(v.t)
		}
		r := raster.New(v.buffer, v.depth, v.size, v.size)
		v.sc.Render(r)
		return v, tick()
	}
	return v, nil
}

func (v *view) View() string {
	rows := v.size / v.scale
	cols := v.size / v.scale

	var b strings.Builder
	b.WriteString(titleStyle.Render("softrender (q to quit)"))
	b.WriteByte('\n')
	for r := 0; r < rows; r++ {
		y := r * v.scale
		for c := 0; c < cols; c++ {
			x := c * v.scale
			ch := brightnessChar(v.buffer[y*v.size+x])
			// two characters per cell to compensate for glyph aspect
			b.WriteByte(ch)
			b.WriteByte(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func brightnessChar(pixel uint32) byte {
	r := pixel & 0xff
	g := pixel >> 8 & 0xff
	bl := pixel >> 16 & 0xff
	brightness := (r + r + r + bl + g + g + g + g) >> 3
	return ramp[int(brightness)*len(ramp)/256]
}
