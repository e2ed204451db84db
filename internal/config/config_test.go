package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vantage/internal/camrig"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vantage.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load of a missing file should not error: %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("Default window = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Gizmo.Throttle() != 16*time.Millisecond {
		t.Errorf("Default throttle = %v, want 16ms", cfg.Gizmo.Throttle())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Default log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 1920
height = 1080
title = "studio"

[gizmo]
min_scale = 0.25
max_scale = 4.0
throttle_ms = 33

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Title != "studio" {
		t.Errorf("Window config not applied: %+v", cfg.Window)
	}
	if cfg.Gizmo.MinScale != 0.25 || cfg.Gizmo.MaxScale != 4.0 {
		t.Errorf("Gizmo config not applied: %+v", cfg.Gizmo)
	}
	if cfg.Gizmo.Throttle() != 33*time.Millisecond {
		t.Errorf("Throttle = %v, want 33ms", cfg.Gizmo.Throttle())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "warn"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Error("Unset sections should keep their defaults")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `[window`)
	if _, err := Load(path); err == nil {
		t.Error("Malformed TOML should error, not fall back silently")
	}
}

func TestLoadRejectsBadWindowSize(t *testing.T) {
	path := writeConfig(t, `
[window]
width = -1
height = 720
`)
	if _, err := Load(path); err == nil {
		t.Error("Negative window size should be rejected")
	}
}

func TestCameraTables(t *testing.T) {
	path := writeConfig(t, `
[[camera]]
id = "main"
name = "Main"
position = [0.0, 5.0, 10.0]
target = [0.0, 0.0, 0.0]
fov_y = 60.0
active = true

[[camera]]
id = "top"
name = "Top"
projection = "orthographic"
position = [0.0, 20.0, 0.0]
fov_y = 10.0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Cameras) != 2 {
		t.Fatalf("Expected 2 cameras, got %d", len(cfg.Cameras))
	}

	main, err := cfg.Cameras[0].Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if main.Projection != camrig.Perspective {
		t.Error("Unset projection should default to perspective")
	}
	if main.Position.Y != 5 || main.Position.Z != 10 {
		t.Errorf("Position = %+v, want {0 5 10}", main.Position)
	}
	if !main.Active {
		t.Error("Active flag should carry through")
	}

	top, err := cfg.Cameras[1].Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if top.Projection != camrig.Orthographic {
		t.Error("Orthographic projection should parse")
	}
	if top.Near != 0.1 || top.Far != 1000 {
		t.Errorf("Unset clip planes should default, got near=%f far=%f", top.Near, top.Far)
	}
}

func TestDescriptorRejectsUnknownProjection(t *testing.T) {
	cc := CameraConfig{ID: "bad", Projection: "fisheye"}
	if _, err := cc.Descriptor(); err == nil {
		t.Error("Unknown projection should be rejected")
	}
}
