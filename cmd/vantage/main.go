package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/camrig"
	"vantage/internal/config"
	"vantage/internal/editor"
	"vantage/internal/engine"
	"vantage/internal/gizmo"
)

func main() {
	configPath := flag.String("config", "vantage.toml", "path to the setup file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "vantage",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)
	rl.SetExitKey(0)

	rig := camrig.New(logger)
	if len(cfg.Cameras) == 0 {
		rig.Register(&camrig.Descriptor{
			ID:       "default",
			Name:     "Default",
			Position: rl.Vector3{X: 8, Y: 6, Z: 8},
			Target:   rl.Vector3{Y: 1},
			Up:       rl.Vector3{Y: 1},
			FovY:     45,
			Near:     0.1,
			Far:      1000,
		})
	}
	for _, cc := range cfg.Cameras {
		d, err := cc.Descriptor()
		if err != nil {
			logger.Fatal("bad camera config", "err", err)
		}
		if err := rig.Register(d); err != nil {
			logger.Fatal("register camera", "err", err)
		}
	}
	rig.Resize(cfg.Window.Width, cfg.Window.Height)

	scene := buildDemoScene()

	ed, err := editor.New(scene, rig, logger, gizmo.Options{
		MinScale: cfg.Gizmo.MinScale,
		MaxScale: cfg.Gizmo.MaxScale,
		Throttle: cfg.Gizmo.Throttle(),
	})
	if err != nil {
		logger.Fatal("create editor", "err", err)
	}

	models := newModelRegistry(scene)
	defer models.unload()
	scene.Changed.Subscribe(models.onGraphChange)

	initStyle()

	loop := &editor.Loop{
		Editor:      ed,
		Input:       pollInput,
		DrawScene:   func(cam rl.Camera3D) { models.drawScene(scene, cam) },
		DrawOverlay: drawTopBar,
		Models:      models.lookup,
	}
	loop.Run()
}

// buildDemoScene assembles a small scene exercising every node kind:
// meshes, a named group, lights with pickable proxies, a light target and
// a non-selectable grid helper.
func buildDemoScene() *engine.Scene {
	scene := engine.NewScene("demo")

	cube := engine.NewNode("CubeA", engine.KindMesh)
	cube.Geometry = engine.NewCubeGeometry(1, 1, 1)
	cube.Transform.Position = rl.Vector3{X: -2, Y: 0.5}
	scene.Add(cube)

	sphere := engine.NewNode("Sphere", engine.KindMesh)
	sphere.Geometry = engine.NewSphereGeometry(0.75, 12, 16)
	sphere.Transform.Position = rl.Vector3{X: 2, Y: 0.75}
	scene.Add(sphere)

	hidden := engine.NewNode("HiddenSphere", engine.KindMesh)
	hidden.Geometry = engine.NewSphereGeometry(0.5, 12, 16)
	hidden.Transform.Position = rl.Vector3{X: 0, Y: 3}
	hidden.Visible = false
	scene.Add(hidden)

	group := engine.NewNode("Crates", engine.KindGroup)
	group.Transform.Position = rl.Vector3{Z: -3}
	for i := 0; i < 3; i++ {
		crate := engine.NewNode("Crate", engine.KindMesh)
		crate.Geometry = engine.NewCubeGeometry(0.8, 0.8, 0.8)
		crate.Transform.Position = rl.Vector3{X: float32(i) * 1.2, Y: 0.4}
		group.AddChild(crate)
	}
	scene.Add(group)

	ground := engine.NewNode("Ground", engine.KindMesh)
	ground.Geometry = engine.NewPlaneGeometry(20, 20)
	ground.Selectable = false
	scene.Add(ground)

	sun := engine.NewNode("Sun", engine.KindLight)
	sun.Light = engine.LightDirectional
	sun.LightColor = rl.NewColor(255, 244, 214, 255)
	sun.Transform.Position = rl.Vector3{X: 6, Y: 10, Z: 4}
	scene.Add(sun)

	sunProxy := engine.NewNode("SunProxy", engine.KindLightProxy)
	sunProxy.OwnerLight = sun.UID
	sunProxy.Transform.Position = sun.Transform.Position
	scene.Add(sunProxy)

	sunTarget := engine.NewNode("SunTarget", engine.KindLightTarget)
	sunTarget.TargetUID = sun.UID
	scene.Add(sunTarget)

	lamp := engine.NewNode("Lamp", engine.KindLight)
	lamp.Light = engine.LightPoint
	lamp.LightColor = rl.NewColor(120, 170, 255, 255)
	lamp.LightRadius = 8
	lamp.Transform.Position = rl.Vector3{X: -3, Y: 2.5, Z: 2}
	scene.Add(lamp)

	lampProxy := engine.NewNode("LampProxy", engine.KindLightProxy)
	lampProxy.OwnerLight = lamp.UID
	lampProxy.Transform.Position = lamp.Transform.Position
	scene.Add(lampProxy)

	grid := engine.NewNode("Grid", engine.KindHelper)
	scene.Add(grid)

	return scene
}

// pollInput translates raylib input into editor commands. RMB holds fly
// mode; LMB picks and drags.
func pollInput(ed *editor.Editor, dt float32) {
	if rl.IsWindowResized() {
		ed.HandleResize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	}

	mouse := rl.GetMousePosition()
	flying := rl.IsMouseButtonDown(rl.MouseRightButton)

	if flying {
		delta := rl.GetMouseDelta()
		ed.Rig.Fly.Look(delta.X, delta.Y)

		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			ed.Rig.Fly.MoveSpeed += wheel * 2
			if ed.Rig.Fly.MoveSpeed < 1 {
				ed.Rig.Fly.MoveSpeed = 1
			}
			if ed.Rig.Fly.MoveSpeed > 50 {
				ed.Rig.Fly.MoveSpeed = 50
			}
		}

		var forward, right, up float32
		if rl.IsKeyDown(rl.KeyW) {
			forward++
		}
		if rl.IsKeyDown(rl.KeyS) {
			forward--
		}
		if rl.IsKeyDown(rl.KeyD) {
			right++
		}
		if rl.IsKeyDown(rl.KeyA) {
			right--
		}
		if rl.IsKeyDown(rl.KeyE) {
			up++
		}
		if rl.IsKeyDown(rl.KeyQ) {
			up--
		}
		ed.Rig.Fly.Move(forward, right, up, dt)
	} else {
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) && mouse.Y > topBarHeight {
			ed.HandleClick(mouse.X, mouse.Y)
		}
		ed.HandlePointerMove(mouse.X, mouse.Y)
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			ed.HandlePointerUp()
		}
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper)

	// W/A/S/D belong to the fly camera while the right button is held.
	if !flying {
		for key, edKey := range keyMap {
			if rl.IsKeyPressed(key) {
				ed.HandleKey(edKey, shift, true)
			}
			if rl.IsKeyReleased(key) {
				ed.HandleKey(edKey, shift, false)
			}
		}
	}

	if ctrl && rl.IsKeyPressed(rl.KeyD) {
		ed.Duplicate()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyB) {
		ed.BakeTransform()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyN) {
		n := len(ed.Rig.Descriptors()) + 1
		ed.Rig.AddFromView(fmt.Sprintf("View %d", n))
	}
}

var keyMap = map[int32]editor.Key{
	rl.KeyEscape: editor.KeyEscape,
	rl.KeyTab:    editor.KeyTab,
	rl.KeyW:      editor.KeyTranslate,
	rl.KeyE:      editor.KeyRotate,
	rl.KeyR:      editor.KeyScale,
	rl.KeyX:      editor.KeyAxisX,
	rl.KeyY:      editor.KeyAxisY,
	rl.KeyZ:      editor.KeyAxisZ,
	rl.KeyL:      editor.KeySpaceToggle,
	rl.KeyF:      editor.KeyFocus,
}
