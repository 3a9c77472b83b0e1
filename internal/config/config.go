// Package config holds the render settings shared by the command-line
// tools: a JSON file with zero-value defaulting, overridden by CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Assets
	ModelPath   string `json:"model"`
	DiffuseMap  string `json:"diffuse_map"`
	NormalMap   string `json:"normal_map"`
	SpecularMap string `json:"specular_map"`
	OutputPath  string `json:"output"`

	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DepthRange  float64 `json:"depth_range"`
	Shader      string  `json:"shader"` // gouraud, textured, phong
	Supersample int     `json:"supersample"`

	// Camera and light
	Eye      [3]float64 `json:"eye"`
	Center   [3]float64 `json:"center"`
	Up       [3]float64 `json:"up"`
	LightDir [3]float64 `json:"light_dir"`

	// Turntable
	Frames  int `json:"frames"`
	Workers int `json:"workers"`
}

// Load reads a JSON config file. Fields not set in the file keep their zero
// values; Resolve fills the defaults afterwards.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ModelPath   string
	OutputPath  string
	Shader      string
	Width       int
	Height      int
	Frames      int
	Workers     int
	Supersample int
}

// Resolve applies flag overrides and fills any remaining zero-value fields
// with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.ModelPath != "" {
		c.ModelPath = flags.ModelPath
	}
	if flags.OutputPath != "" {
		c.OutputPath = flags.OutputPath
	}
	if flags.Shader != "" {
		c.Shader = flags.Shader
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}

	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 800
	}
	if c.DepthRange <= 0 {
		c.DepthRange = 255
	}
	if c.Shader == "" {
		c.Shader = "textured"
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.OutputPath == "" {
		c.OutputPath = "output.ppm"
	}
	if c.Eye == ([3]float64{}) {
		c.Eye = [3]float64{1, 1, 3}
	}
	if c.Up == ([3]float64{}) {
		c.Up = [3]float64{0, 1, 0}
	}
	if c.LightDir == ([3]float64{}) {
		c.LightDir = [3]float64{1, -1, 1}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
