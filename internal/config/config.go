package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/camrig"
)

// Config is the editor setup file. A missing file yields the defaults; a
// present but malformed file is an error so typos do not silently fall
// back.
type Config struct {
	Window  WindowConfig   `toml:"window"`
	Gizmo   GizmoConfig    `toml:"gizmo"`
	Log     LogConfig      `toml:"log"`
	Cameras []CameraConfig `toml:"camera"`
}

type WindowConfig struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
}

type GizmoConfig struct {
	MinScale   float32 `toml:"min_scale"`
	MaxScale   float32 `toml:"max_scale"`
	ThrottleMS int     `toml:"throttle_ms"`
}

func (g GizmoConfig) Throttle() time.Duration {
	return time.Duration(g.ThrottleMS) * time.Millisecond
}

type LogConfig struct {
	Level string `toml:"level"`
}

// CameraConfig is one [[camera]] table.
type CameraConfig struct {
	ID         string     `toml:"id"`
	Name       string     `toml:"name"`
	Projection string     `toml:"projection"`
	Position   [3]float32 `toml:"position"`
	Target     [3]float32 `toml:"target"`
	FovY       float32    `toml:"fov_y"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	Active     bool       `toml:"active"`
}

// Descriptor converts the table into a registrable camera descriptor.
func (c CameraConfig) Descriptor() (*camrig.Descriptor, error) {
	proj := camrig.Perspective
	switch c.Projection {
	case "", "perspective":
	case "orthographic":
		proj = camrig.Orthographic
	default:
		return nil, fmt.Errorf("config: camera %q: unknown projection %q", c.ID, c.Projection)
	}
	d := &camrig.Descriptor{
		ID:         c.ID,
		Name:       c.Name,
		Projection: proj,
		Position:   rl.Vector3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]},
		Target:     rl.Vector3{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		FovY:       c.FovY,
		Near:       c.Near,
		Far:        c.Far,
		Active:     c.Active,
	}
	if d.FovY == 0 {
		d.FovY = 45
	}
	if d.Near == 0 {
		d.Near = 0.1
	}
	if d.Far == 0 {
		d.Far = 1000
	}
	return d, nil
}

func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "vantage"},
		Gizmo:  GizmoConfig{MinScale: 0.5, MaxScale: 2.0, ThrottleMS: 16},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the config at path, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return cfg, fmt.Errorf("config: invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Gizmo.ThrottleMS < 0 {
		return cfg, fmt.Errorf("config: negative gizmo throttle %d", cfg.Gizmo.ThrottleMS)
	}
	return cfg, nil
}
