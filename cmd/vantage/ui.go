package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/editor"
	"vantage/internal/gizmo"
	"vantage/internal/selection"
)

const topBarHeight = 32

var (
	colorBgBar       = rl.NewColor(18, 18, 24, 245)
	colorBgElement   = rl.NewColor(28, 28, 38, 255)
	colorBgHover     = rl.NewColor(38, 38, 52, 255)
	colorAccent      = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary = rl.NewColor(255, 255, 255, 255)
	colorTextMuted   = rl.NewColor(150, 150, 160, 255)
)

func initStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextMuted))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

// drawTopBar renders the mode/space/camera toolbar and the status line.
func drawTopBar(ed *editor.Editor) {
	width := float32(rl.GetScreenWidth())
	rl.DrawRectangle(0, 0, int32(width), topBarHeight, colorBgBar)

	x := float32(8)
	x = modeButton(ed, x, "Move", gizmo.ModeTranslate)
	x = modeButton(ed, x, "Rotate", gizmo.ModeRotate)
	x = modeButton(ed, x, "Scale", gizmo.ModeScale)
	x += 12

	spaceLabel := "World"
	if ed.Gizmo.Space() == gizmo.SpaceLocal {
		spaceLabel = "Local"
	}
	if gui.Button(rl.NewRectangle(x, 4, 64, 24), spaceLabel) {
		if ed.Gizmo.Space() == gizmo.SpaceWorld {
			ed.SetGizmoSpace(gizmo.SpaceLocal)
		} else {
			ed.SetGizmoSpace(gizmo.SpaceWorld)
		}
	}
	x += 76

	for _, d := range ed.Rig.Descriptors() {
		label := d.Name
		if d.Active {
			label = "> " + label
		}
		if gui.Button(rl.NewRectangle(x, 4, 90, 24), label) && !d.Active {
			ed.SwitchCamera(d.ID)
		}
		x += 96
	}

	rl.DrawText(statusLine(ed), int32(x)+12, 9, 14, colorTextMuted)
}

func modeButton(ed *editor.Editor, x float32, label string, m gizmo.Mode) float32 {
	active := ed.Gizmo.Mode() == m
	bounds := rl.NewRectangle(x, 4, 64, 24)
	if active {
		rl.DrawRectangleRec(bounds, colorAccent)
	}
	if gui.Button(bounds, label) {
		ed.SetGizmoMode(m)
	}
	return x + 70
}

func statusLine(ed *editor.Editor) string {
	switch ed.Selection.State() {
	case selection.StateMesh:
		n := ed.Selection.Node()
		return fmt.Sprintf("%s  [%s]", n.Name, n.Kind)
	case selection.StateLight:
		if n := ed.Selection.Node(); n != nil {
			return fmt.Sprintf("%s  [light]", n.Name)
		}
	}
	return "nothing selected"
}
