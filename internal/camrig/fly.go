package camrig

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultMoveSpeed = 10.0
	lookSensitivity  = 0.15
	pitchLimit       = 89.0
)

// FlyController steers the active camera with free-look yaw/pitch and
// WASD-style movement. While Enabled is false all input is ignored, so
// gizmo drags can suppress camera motion without tearing down state.
type FlyController struct {
	Enabled   bool
	Yaw       float32
	Pitch     float32
	MoveSpeed float32

	rig *Rig
}

func newFlyController(r *Rig) *FlyController {
	return &FlyController{
		Enabled:   true,
		MoveSpeed: defaultMoveSpeed,
		rig:       r,
	}
}

// SyncFrom derives yaw and pitch from the descriptor's current view
// direction so the first look input does not snap the camera.
func (f *FlyController) SyncFrom(d *Descriptor) {
	dir := rl.Vector3Normalize(rl.Vector3Subtract(d.Target, d.Position))
	f.Pitch = math32.Asin(dir.Y) * rl.Rad2deg
	f.Yaw = math32.Atan2(dir.Z, dir.X) * rl.Rad2deg
}

func (f *FlyController) forward() rl.Vector3 {
	yaw := f.Yaw * rl.Deg2rad
	pitch := f.Pitch * rl.Deg2rad
	return rl.Vector3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
}

// Look applies a mouse delta in pixels to yaw and pitch, clamping pitch
// short of the poles, and re-targets the active descriptor.
func (f *FlyController) Look(dx, dy float32) {
	if !f.Enabled || f.rig.active == nil {
		return
	}
	f.Yaw += dx * lookSensitivity
	f.Pitch -= dy * lookSensitivity
	if f.Pitch > pitchLimit {
		f.Pitch = pitchLimit
	}
	if f.Pitch < -pitchLimit {
		f.Pitch = -pitchLimit
	}
	f.retarget()
}

// Move translates the active camera along its own axes. forward, right and
// up are signed input amounts, dt is the frame delta in seconds.
func (f *FlyController) Move(forward, right, up, dt float32) {
	if !f.Enabled || f.rig.active == nil {
		return
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}
	d := f.rig.active
	fwd := f.forward()
	rightVec := rl.Vector3Normalize(rl.Vector3CrossProduct(fwd, rl.Vector3{X: 0, Y: 1, Z: 0}))
	step := f.MoveSpeed * dt

	delta := rl.Vector3Add(
		rl.Vector3Scale(fwd, forward*step),
		rl.Vector3Scale(rightVec, right*step))
	delta = rl.Vector3Add(delta, rl.Vector3{Y: up * step})

	d.Position = rl.Vector3Add(d.Position, delta)
	f.retarget()
}

func (f *FlyController) retarget() {
	d := f.rig.active
	d.Target = rl.Vector3Add(d.Position, f.forward())
}
