package gizmo

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	tipSize       = 0.2
	axisThickness = 0.06
	ringSegments  = 16
)

var axisColors = [3]rl.Color{rl.Red, rl.Green, rl.Blue}

// Draw renders the handles on top of the scene. Call inside
// BeginMode3D/EndMode3D, after the main pass. Depth testing is off for the
// duration so the gizmo never hides behind geometry; handles outside the
// active constraint are dimmed.
func (g *Gizmo) Draw() {
	if g.node == nil {
		return
	}

	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()

	center := g.node.WorldPosition()
	axes := g.axes()
	length := handleLength * g.scale
	thick := axisThickness * g.scale

	for i, axis := range axes {
		color := axisColors[i]
		if g.dragging && g.dragAxisIdx == i {
			color = rl.Yellow
		} else if !g.dragging && g.hovered == i {
			color = rl.Yellow
		}
		if !g.axisInteractive(i) {
			color = rl.Fade(color, 0.25)
		}

		end := rl.Vector3Add(center, rl.Vector3Scale(axis, length))

		switch g.mode {
		case ModeTranslate:
			rl.DrawCylinderEx(center, end, thick, thick, 8, color)
			tip := tipSize * g.scale
			rl.DrawCubeV(end, rl.Vector3{X: tip, Y: tip, Z: tip}, color)
		case ModeRotate:
			drawRing(center, axes[i], rotateRadius*g.scale, thick*0.7, color)
		case ModeScale:
			rl.DrawCylinderEx(center, end, thick, thick, 8, color)
			cube := 0.25 * g.scale
			size := rl.Vector3{X: cube, Y: cube, Z: cube}
			rl.DrawCubeV(end, size, color)
			rl.DrawCubeWiresV(end, size, color)
		}
	}

	rl.DrawRenderBatchActive()
	rl.EnableDepthTest()
}

// drawRing approximates a rotation ring with short cylinder segments in the
// plane orthogonal to normal.
func drawRing(center, normal rl.Vector3, radius, thick float32, color rl.Color) {
	// Any vector not parallel to the normal seeds the ring basis.
	ref := rl.Vector3{X: 0, Y: 1, Z: 0}
	if math32.Abs(normal.Y) > 0.9 {
		ref = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	u := rl.Vector3Normalize(rl.Vector3CrossProduct(normal, ref))
	v := rl.Vector3Normalize(rl.Vector3CrossProduct(normal, u))

	for s := 0; s < ringSegments; s++ {
		t0 := float32(s) / ringSegments * 2 * math32.Pi
		t1 := float32(s+1) / ringSegments * 2 * math32.Pi
		p0 := rl.Vector3Add(center, rl.Vector3Add(
			rl.Vector3Scale(u, radius*math32.Cos(t0)),
			rl.Vector3Scale(v, radius*math32.Sin(t0))))
		p1 := rl.Vector3Add(center, rl.Vector3Add(
			rl.Vector3Scale(u, radius*math32.Cos(t1)),
			rl.Vector3Scale(v, radius*math32.Sin(t1))))
		rl.DrawCylinderEx(p0, p1, thick, thick, 6, color)
	}
}
