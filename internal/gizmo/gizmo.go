package gizmo

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
	"vantage/internal/picking"
)

// Mode selects what a drag manipulates.
type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	}
	return "unknown"
}

// Space is the reference frame the handles align to.
type Space int

const (
	SpaceWorld Space = iota
	SpaceLocal
)

func (s Space) String() string {
	if s == SpaceLocal {
		return "local"
	}
	return "world"
}

// AxisMask is the active constraint set. Zero means unconstrained.
type AxisMask uint8

const (
	AxisX AxisMask = 1 << iota
	AxisY
	AxisZ
)

func axisBit(idx int) AxisMask { return 1 << uint(idx) }

// Base handle dimensions before auto-scaling.
const (
	handleLength   = 2.0
	handleHitDist  = 0.3
	ringHitDist    = 0.4
	rotateRadius   = handleLength * 0.8
	degreesPerUnit = 45.0
	scalePerUnit   = 0.5
	minScaleFactor = 0.1
	refAngularSize = 0.35
)

// Options tune display scaling and callback throttling. Zero values fall
// back to defaults.
type Options struct {
	MinScale float32
	MaxScale float32
	Throttle time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinScale == 0 {
		o.MinScale = 0.5
	}
	if o.MaxScale == 0 {
		o.MaxScale = 2.0
	}
	if o.Throttle == 0 {
		o.Throttle = 16 * time.Millisecond
	}
	return o
}

// Gizmo is the transform manipulator. It binds to at most one node; attach
// always detaches first. While a drag is live the orbit controls must be
// off — DraggingChanged is the hook collaborators use to honor that.
type Gizmo struct {
	// Changed fires with the bound node whenever a drag mutates it:
	// throttled during the drag, once unthrottled on release.
	Changed engine.Event[*engine.Node]
	// DraggingChanged fires true on drag start and false on drag end or
	// cancel.
	DraggingChanged engine.Event[bool]

	node    *engine.Node
	mode    Mode
	space   Space
	scale   float32
	mask    AxisMask
	hovered int

	dragging      bool
	snapshot      engine.Transform
	dragAxisIdx   int
	dragAxis      rl.Vector3
	dragPlane     rl.Vector3 // plane normal
	dragStart     float32
	dragStartPt   rl.Vector3
	dragOnPlane   bool // translate constrained to a plane
	dragInitWorld rl.Vector3

	opts     Options
	now      func() time.Duration
	lastEmit time.Duration
	ready    bool
	logger   *log.Logger
}

func New(logger *log.Logger, opts Options) *Gizmo {
	start := time.Now()
	return &Gizmo{
		mode:    ModeTranslate,
		space:   SpaceWorld,
		scale:   1,
		hovered: -1,
		opts:    opts.withDefaults(),
		now:     func() time.Duration { return time.Since(start) },
		ready:   true,
		logger:  logger,
	}
}

func (g *Gizmo) Node() *engine.Node   { return g.node }
func (g *Gizmo) Mode() Mode           { return g.mode }
func (g *Gizmo) Space() Space         { return g.space }
func (g *Gizmo) Scale() float32       { return g.scale }
func (g *Gizmo) Constraint() AxisMask { return g.mask }
func (g *Gizmo) Dragging() bool       { return g.dragging }
func (g *Gizmo) Hovered() int         { return g.hovered }

// Attach binds the gizmo to n: any previous binding is dropped, the display
// scale is recomputed for the camera position, and constraints are cleared.
// Returns false (logged) when the manipulator cannot take the target.
func (g *Gizmo) Attach(n *engine.Node, camPos rl.Vector3) bool {
	if !g.ready {
		if g.logger != nil {
			g.logger.Warn("gizmo attach before initialization")
		}
		return false
	}
	g.Detach()
	if n == nil {
		return false
	}
	g.node = n
	g.mask = 0
	g.hovered = -1
	g.RefreshScale(camPos)
	return true
}

// Detach unbinds and hides the gizmo. Idempotent. A live drag is cancelled
// first so the node is never left mid-manipulation.
func (g *Gizmo) Detach() {
	if g.dragging {
		g.CancelDrag()
	}
	g.node = nil
	g.mask = 0
	g.hovered = -1
}

// SetMode switches the manipulation mode and clears active constraints.
func (g *Gizmo) SetMode(m Mode) {
	g.mode = m
	g.mask = 0
}

// SetSpace switches the reference frame for subsequent manipulation.
func (g *Gizmo) SetSpace(s Space) {
	g.space = s
}

// ConstrainAxis restricts manipulation to one axis (0=X, 1=Y, 2=Z).
func (g *Gizmo) ConstrainAxis(idx int) {
	if idx < 0 || idx > 2 {
		return
	}
	g.mask = axisBit(idx)
}

// ConstrainPlane restricts manipulation to the plane orthogonal to the given
// axis, i.e. the other two axes.
func (g *Gizmo) ConstrainPlane(idx int) {
	if idx < 0 || idx > 2 {
		return
	}
	g.mask = (AxisX | AxisY | AxisZ) &^ axisBit(idx)
}

// ClearConstraint restores all axes.
func (g *Gizmo) ClearConstraint() {
	g.mask = 0
}

func (g *Gizmo) axisInteractive(idx int) bool {
	return g.mask == 0 || g.mask&axisBit(idx) != 0
}

// axes returns the three handle directions in the active reference frame.
func (g *Gizmo) axes() [3]rl.Vector3 {
	world := [3]rl.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	if g.space == SpaceWorld || g.node == nil {
		return world
	}
	rot := engine.Transform{Rotation: g.node.WorldRotation()}.RotationMatrix()
	for i := range world {
		world[i] = rl.Vector3Normalize(rl.Vector3Transform(world[i], rot))
	}
	return world
}

// RefreshScale recomputes the display scale from the bound node's angular
// size: bounding dimension over camera distance, inverted and clamped so the
// gizmo neither vanishes on huge objects nor dwarfs small ones.
func (g *Gizmo) RefreshScale(camPos rl.Vector3) {
	g.scale = 1
	if g.node == nil {
		return
	}
	bounds, ok := g.node.WorldBounds()
	if !ok {
		if g.logger != nil {
			g.logger.Debug("gizmo scale fallback, no usable bounds", "node", g.node.Name)
		}
		return
	}
	dist := rl.Vector3Length(rl.Vector3Subtract(g.node.WorldPosition(), camPos))
	if dist < 1e-4 {
		return
	}
	angular := bounds.MaxDimension() / dist
	if angular < 1e-6 {
		return
	}
	s := refAngularSize / angular
	if s < g.opts.MinScale {
		s = g.opts.MinScale
	}
	if s > g.opts.MaxScale {
		s = g.opts.MaxScale
	}
	g.scale = s
}

// SetHovered records the handle under the pointer for draw feedback.
func (g *Gizmo) SetHovered(idx int) {
	g.hovered = idx
}

// PickAxis returns the interactive handle closest to the ray, or -1.
// Handles outside the active constraint set never respond.
func (g *Gizmo) PickAxis(ray rl.Ray) int {
	if g.node == nil {
		return -1
	}
	center := g.node.WorldPosition()
	axes := g.axes()
	bestDist := float32(999)
	bestAxis := -1

	if g.mode == ModeRotate {
		radius := rotateRadius * g.scale
		for i := range axes {
			if !g.axisInteractive(i) {
				continue
			}
			pt, ok := picking.RayPlane(ray.Position, ray.Direction, center, axes[i])
			if !ok {
				continue
			}
			fromCenter := rl.Vector3Length(rl.Vector3Subtract(pt, center))
			fromRing := math32.Abs(fromCenter - radius)
			if fromRing < ringHitDist*g.scale && fromRing < bestDist {
				bestDist = fromRing
				bestAxis = i
			}
		}
		return bestAxis
	}

	length := handleLength * g.scale
	for i, axis := range axes {
		if !g.axisInteractive(i) {
			continue
		}
		_, t2, dist := picking.ClosestRayRay(ray.Position, ray.Direction, center, axis)
		if t2 > 0 && t2 < length && dist < handleHitDist*g.scale && dist < bestDist {
			bestDist = dist
			bestAxis = i
		}
	}
	return bestAxis
}

// StartDrag begins a drag on the given handle: the node's transform is
// snapshotted, the drag plane is built facing the camera, and
// DraggingChanged(true) tells the orbit controls to stand down.
func (g *Gizmo) StartDrag(axisIdx int, ray rl.Ray, camPos rl.Vector3) bool {
	if g.node == nil || axisIdx < 0 || axisIdx > 2 || !g.axisInteractive(axisIdx) {
		return false
	}
	axes := g.axes()
	g.dragAxisIdx = axisIdx
	g.dragAxis = axes[axisIdx]
	g.dragInitWorld = g.node.WorldPosition()

	planeMask := (AxisX | AxisY | AxisZ) &^ g.mask
	g.dragOnPlane = g.mode == ModeTranslate && g.mask != 0 && planeMask != 0 && g.mask&(g.mask-1) != 0
	if g.dragOnPlane {
		for i := 0; i < 3; i++ {
			if planeMask&axisBit(i) != 0 {
				g.dragPlane = axes[i]
				break
			}
		}
	} else {
		// Plane containing the axis, facing the viewer.
		viewDir := rl.Vector3Normalize(rl.Vector3Subtract(g.dragInitWorld, camPos))
		cross := rl.Vector3CrossProduct(viewDir, g.dragAxis)
		g.dragPlane = rl.Vector3Normalize(rl.Vector3CrossProduct(g.dragAxis, cross))
	}

	// A grazing ray that never meets the drag plane has no valid start
	// point; refuse the drag rather than anchor it at the origin.
	pt, ok := picking.RayPlane(ray.Position, ray.Direction, g.dragInitWorld, g.dragPlane)
	if !ok {
		return false
	}
	g.dragStartPt = pt
	g.dragStart = rl.Vector3DotProduct(rl.Vector3Subtract(pt, g.dragInitWorld), g.dragAxis)

	g.dragging = true
	g.snapshot = g.node.Transform
	g.lastEmit = -g.opts.Throttle // first update emits immediately
	g.DraggingChanged.Emit(true)
	return true
}

// UpdateDrag applies the manipulation for the current pointer ray and emits
// a throttled change notification.
func (g *Gizmo) UpdateDrag(ray rl.Ray) {
	if !g.dragging || g.node == nil {
		return
	}
	pt, ok := picking.RayPlane(ray.Position, ray.Direction, g.dragInitWorld, g.dragPlane)
	if !ok {
		return
	}

	switch g.mode {
	case ModeTranslate:
		var worldDelta rl.Vector3
		if g.dragOnPlane {
			worldDelta = rl.Vector3Subtract(pt, g.dragStartPt)
		} else {
			delta := rl.Vector3DotProduct(rl.Vector3Subtract(pt, g.dragInitWorld), g.dragAxis) - g.dragStart
			worldDelta = rl.Vector3Scale(g.dragAxis, delta)
		}
		g.node.Transform.Position = rl.Vector3Add(g.snapshot.Position, g.toParentSpace(worldDelta))

	case ModeRotate:
		delta := rl.Vector3DotProduct(rl.Vector3Subtract(pt, g.dragInitWorld), g.dragAxis) - g.dragStart
		degrees := delta * degreesPerUnit
		rot := g.snapshot.Rotation
		switch g.dragAxisIdx {
		case 0:
			rot.X += degrees
		case 1:
			rot.Y += degrees
		case 2:
			rot.Z += degrees
		}
		g.node.Transform.Rotation = rot

	case ModeScale:
		delta := rl.Vector3DotProduct(rl.Vector3Subtract(pt, g.dragInitWorld), g.dragAxis) - g.dragStart
		factor := 1 + delta*scalePerUnit
		if factor < minScaleFactor {
			factor = minScaleFactor
		}
		s := g.snapshot.Scale
		switch g.dragAxisIdx {
		case 0:
			s.X = g.snapshot.Scale.X * factor
		case 1:
			s.Y = g.snapshot.Scale.Y * factor
		case 2:
			s.Z = g.snapshot.Scale.Z * factor
		}
		g.node.Transform.Scale = s
	}

	if t := g.now(); t-g.lastEmit >= g.opts.Throttle {
		g.lastEmit = t
		g.Changed.Emit(g.node)
	}
}

// toParentSpace converts a world-space translation delta into the bound
// node's parent frame.
func (g *Gizmo) toParentSpace(worldDelta rl.Vector3) rl.Vector3 {
	parent := g.node.Parent
	if parent == nil {
		return worldDelta
	}
	parentRot := parent.WorldRotation()
	inv := engine.Transform{Rotation: rl.Vector3Scale(parentRot, -1)}
	// Inverse rotation applies in reverse order: Z, then Y, then X.
	rotZ := rl.MatrixRotateZ(inv.Rotation.Z * rl.Deg2rad)
	rotY := rl.MatrixRotateY(inv.Rotation.Y * rl.Deg2rad)
	rotX := rl.MatrixRotateX(inv.Rotation.X * rl.Deg2rad)
	local := rl.Vector3Transform(worldDelta, rl.MatrixMultiply(rl.MatrixMultiply(rotZ, rotY), rotX))

	ps := parent.WorldScale()
	local.X /= ps.X
	local.Y /= ps.Y
	local.Z /= ps.Z
	return local
}

// EndDrag commits the drag: one final unthrottled change notification, then
// DraggingChanged(false) re-enables the orbit controls.
func (g *Gizmo) EndDrag() {
	if !g.dragging {
		return
	}
	g.dragging = false
	g.Changed.Emit(g.node)
	g.DraggingChanged.Emit(false)
}

// CancelDrag restores the exact pre-drag transform snapshot and ends the
// drag without a change notification.
func (g *Gizmo) CancelDrag() {
	if !g.dragging {
		return
	}
	if g.node != nil {
		g.node.Transform = g.snapshot
	}
	g.dragging = false
	g.DraggingChanged.Emit(false)
}
