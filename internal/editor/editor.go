package editor

import (
	"errors"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/camrig"
	"vantage/internal/engine"
	"vantage/internal/gizmo"
	"vantage/internal/outline"
	"vantage/internal/picking"
	"vantage/internal/selection"
)

// Key identifies the editor keyboard commands independent of the host's
// key-code scheme.
type Key int

const (
	KeyEscape Key = iota
	KeyTab
	KeyTranslate
	KeyRotate
	KeyScale
	KeyAxisX
	KeyAxisY
	KeyAxisZ
	KeySpaceToggle
	KeyFocus
)

const (
	focusDuration = 0.35
	focusRadii    = 3.0
	focusMinDist  = 3.0
)

// Editor owns the interaction components and keeps them consistent: one
// selection, one matching outline, one gizmo attachment, orbit input
// suppressed while dragging. Hosts feed it pointer/keyboard input and call
// Update once per frame.
type Editor struct {
	Scene     *engine.Scene
	Rig       *camrig.Rig
	Picker    *picking.Picker
	Selection *selection.Controller
	Outline   *outline.Renderer
	Gizmo     *gizmo.Gizmo

	logger *log.Logger

	focusActive bool
	focusTime   float32
	focusFrom   rl.Vector3
	focusTo     rl.Vector3
}

func New(scene *engine.Scene, rig *camrig.Rig, logger *log.Logger, gizmoOpts gizmo.Options) (*Editor, error) {
	if scene == nil {
		return nil, errors.New("editor: nil scene")
	}
	if rig == nil {
		return nil, errors.New("editor: nil rig")
	}
	picker, err := picking.New(scene)
	if err != nil {
		return nil, err
	}
	ed := &Editor{
		Scene:     scene,
		Rig:       rig,
		Picker:    picker,
		Selection: selection.New(scene, picker, logger),
		Outline:   outline.New(logger),
		Gizmo:     gizmo.New(logger, gizmoOpts),
		logger:    logger,
	}

	ed.Selection.Changed.Subscribe(ed.onSelectionChanged)
	ed.Gizmo.DraggingChanged.Subscribe(func(dragging bool) {
		rig.Fly.Enabled = !dragging
	})
	scene.Changed.Subscribe(func(ev engine.GraphEvent) {
		if ev.Change != engine.NodeRemoved {
			return
		}
		ed.Outline.HandleRemoval(ev.Node)
		if g := ed.Gizmo.Node(); g != nil && (g == ev.Node || g.IsDescendantOf(ev.Node)) {
			ed.Gizmo.Detach()
		}
	})
	rig.Switched.Subscribe(func(d *camrig.Descriptor) {
		ed.focusActive = false
		if ed.Gizmo.Node() != nil {
			ed.Gizmo.RefreshScale(d.Position)
		}
		logger.Info("active camera switched", "id", d.ID, "name", d.Name)
	})
	return ed, nil
}

// onSelectionChanged keeps outline and gizmo in lockstep with the
// selection. A light target attaches the gizmo to the light's proxy node
// so the handles have a position to anchor to.
func (ed *Editor) onSelectionChanged(t *picking.Target) {
	if t == nil {
		ed.Outline.Clear()
		ed.Gizmo.Detach()
		return
	}
	camPos := ed.Rig.Camera().Position
	if t.IsLight() {
		ed.Outline.Clear()
		if proxy := ed.Scene.FindLightProxy(t.LightUID); proxy != nil {
			ed.Gizmo.Attach(proxy, camPos)
		} else {
			ed.Gizmo.Detach()
		}
		return
	}
	ed.Outline.SetTarget(t.Node)
	ed.Gizmo.Attach(t.Node, camPos)
}

func (ed *Editor) SelectNext()     { ed.Selection.SelectNext() }
func (ed *Editor) SelectPrevious() { ed.Selection.SelectPrevious() }
func (ed *Editor) Deselect()       { ed.Selection.Deselect() }

func (ed *Editor) SetGizmoMode(m gizmo.Mode)   { ed.Gizmo.SetMode(m) }
func (ed *Editor) SetGizmoSpace(s gizmo.Space) { ed.Gizmo.SetSpace(s) }

// AttachGizmo attaches the gizmo to an arbitrary node without changing the
// selection.
func (ed *Editor) AttachGizmo(n *engine.Node) bool {
	return ed.Gizmo.Attach(n, ed.Rig.Camera().Position)
}

func (ed *Editor) DetachGizmo() { ed.Gizmo.Detach() }

// BakeTransform folds the selected node's transform into its geometry (or
// its children, for groups) and resets the transform to identity.
func (ed *Editor) BakeTransform() {
	n := ed.Selection.Node()
	if n == nil {
		return
	}
	if ed.Gizmo.Dragging() {
		ed.Gizmo.CancelDrag()
	}
	engine.BakeTransform(n)
	if ed.Outline.Entry() != nil {
		ed.Outline.SetTarget(n)
	}
	ed.logger.Info("baked transform", "node", n.Name, "uid", n.UID)
}

func (ed *Editor) SwitchCamera(id string) error {
	return ed.Rig.Switch(id)
}

// Duplicate deep-clones the selected node into the scene and selects the
// clone.
func (ed *Editor) Duplicate() *engine.Node {
	n := ed.Selection.Node()
	if n == nil {
		return nil
	}
	clone := ed.Scene.Duplicate(n)
	ed.Selection.Select(clone)
	return clone
}

// FocusSelected starts an animated dolly that frames the selected node in
// the active camera.
func (ed *Editor) FocusSelected() {
	n := ed.Selection.Node()
	d := ed.Rig.Active()
	if n == nil || d == nil {
		return
	}
	center := n.WorldPosition()
	dist := float32(focusMinDist)
	if bounds, ok := n.WorldBounds(); ok {
		center = bounds.Center()
		dist = bounds.MaxDimension() / 2 * focusRadii
		if dist < focusMinDist {
			dist = focusMinDist
		}
	}
	dir := rl.Vector3Normalize(rl.Vector3Subtract(d.Position, center))
	if dir == (rl.Vector3{}) {
		dir = rl.Vector3{X: 0, Y: 0.5, Z: 1}
		dir = rl.Vector3Normalize(dir)
	}
	ed.focusFrom = d.Position
	ed.focusTo = rl.Vector3Add(center, rl.Vector3Scale(dir, dist))
	ed.focusTime = 0
	ed.focusActive = true
	d.Target = center
}

// HandleClick resolves a screen click against the active camera.
func (ed *Editor) HandleClick(x, y float32) {
	cam := ed.Rig.Camera()
	ed.ClickRay(rl.GetScreenToWorldRay(rl.Vector2{X: x, Y: y}, cam))
}

// ClickRay is HandleClick with an explicit picking ray. The gizmo gets
// first refusal; a miss falls through to scene picking.
func (ed *Editor) ClickRay(ray rl.Ray) {
	if ed.Gizmo.Node() != nil {
		if axis := ed.Gizmo.PickAxis(ray); axis >= 0 {
			ed.Gizmo.StartDrag(axis, ray, ed.Rig.Camera().Position)
			return
		}
	}
	ed.Selection.PickRay(ray.Position, ray.Direction)
}

func (ed *Editor) HandlePointerMove(x, y float32) {
	cam := ed.Rig.Camera()
	ed.PointerMoveRay(rl.GetScreenToWorldRay(rl.Vector2{X: x, Y: y}, cam))
}

func (ed *Editor) PointerMoveRay(ray rl.Ray) {
	if ed.Gizmo.Dragging() {
		ed.Gizmo.UpdateDrag(ray)
		return
	}
	if ed.Gizmo.Node() != nil {
		ed.Gizmo.SetHovered(ed.Gizmo.PickAxis(ray))
	}
}

func (ed *Editor) HandlePointerUp() {
	if ed.Gizmo.Dragging() {
		ed.Gizmo.EndDrag()
	}
}

// HandleKey dispatches an editor command key. shift selects the plane
// variant of axis constraints and reverses Tab cycling; pressed false
// releases a held constraint.
func (ed *Editor) HandleKey(key Key, shift, pressed bool) {
	if !pressed {
		switch key {
		case KeyAxisX, KeyAxisY, KeyAxisZ:
			ed.Gizmo.ClearConstraint()
		}
		return
	}
	switch key {
	case KeyEscape:
		if ed.Gizmo.Dragging() {
			ed.Gizmo.CancelDrag()
		} else {
			ed.Selection.Deselect()
		}
	case KeyTab:
		if shift {
			ed.Selection.SelectPrevious()
		} else {
			ed.Selection.SelectNext()
		}
	case KeyTranslate:
		ed.Gizmo.SetMode(gizmo.ModeTranslate)
	case KeyRotate:
		ed.Gizmo.SetMode(gizmo.ModeRotate)
	case KeyScale:
		ed.Gizmo.SetMode(gizmo.ModeScale)
	case KeyAxisX:
		ed.constrain(0, shift)
	case KeyAxisY:
		ed.constrain(1, shift)
	case KeyAxisZ:
		ed.constrain(2, shift)
	case KeySpaceToggle:
		if ed.Gizmo.Space() == gizmo.SpaceWorld {
			ed.Gizmo.SetSpace(gizmo.SpaceLocal)
		} else {
			ed.Gizmo.SetSpace(gizmo.SpaceWorld)
		}
	case KeyFocus:
		ed.FocusSelected()
	}
}

func (ed *Editor) constrain(axis int, plane bool) {
	if plane {
		ed.Gizmo.ConstrainPlane(axis)
	} else {
		ed.Gizmo.ConstrainAxis(axis)
	}
}

func (ed *Editor) HandleResize(width, height int32) {
	ed.Rig.Resize(width, height)
}

// Update advances per-frame editor state: the focus dolly and the gizmo's
// distance-compensated scale.
func (ed *Editor) Update(dt float32) {
	if ed.focusActive {
		ed.stepFocus(dt)
	}
	if ed.Gizmo.Node() != nil && ed.Rig.Active() != nil {
		ed.Gizmo.RefreshScale(ed.Rig.Active().Position)
	}
}

func (ed *Editor) stepFocus(dt float32) {
	d := ed.Rig.Active()
	if d == nil {
		ed.focusActive = false
		return
	}
	ed.focusTime += dt
	t := ed.focusTime / focusDuration
	if t >= 1 {
		d.Position = ed.focusTo
		ed.focusActive = false
		ed.Rig.Fly.SyncFrom(d)
		return
	}
	// ease-out cubic
	inv := 1 - t
	e := 1 - inv*inv*inv
	d.Position = rl.Vector3Add(ed.focusFrom,
		rl.Vector3Scale(rl.Vector3Subtract(ed.focusTo, ed.focusFrom), e))
}
