package editor

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
)

// Loop drives the per-frame sequence: input, editor update, outline sync,
// then the render passes in a fixed order so the overlays always composite
// over the freshly drawn scene.
type Loop struct {
	Editor *Editor

	// Input polls host input and feeds the editor's handlers. Runs first
	// each frame.
	Input func(ed *Editor, dt float32)

	// DrawScene renders the scene content inside the 3D pass.
	DrawScene func(cam rl.Camera3D)

	// DrawOverlay renders 2D UI after the 3D pass.
	DrawOverlay func(ed *Editor)

	// Models resolves a node to its GPU model for the outline pass.
	Models func(n *engine.Node) (rl.Model, bool)

	running bool
}

// Run executes frames until Stop is called or the window closes.
func (l *Loop) Run() {
	l.running = true
	for l.running && !rl.WindowShouldClose() {
		l.Frame(rl.GetFrameTime())
	}
	l.running = false
}

// Stop ends Run before its next frame.
func (l *Loop) Stop() {
	l.running = false
}

// Frame runs one frame. Exposed so hosts with their own loop can drive it.
func (l *Loop) Frame(dt float32) {
	ed := l.Editor

	if l.Input != nil {
		l.Input(ed, dt)
	}
	ed.Update(dt)
	ed.Outline.Sync()

	cam := ed.Rig.Camera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(40, 44, 52, 255))

	rl.BeginMode3D(cam)
	if l.DrawScene != nil {
		l.DrawScene(cam)
	}
	if l.Models != nil {
		ed.Outline.Draw(l.Models)
	}
	ed.Gizmo.Draw()
	rl.EndMode3D()

	if l.DrawOverlay != nil {
		l.DrawOverlay(ed)
	}
	rl.EndDrawing()
}
