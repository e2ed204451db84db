package selection

import (
	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
	"vantage/internal/picking"
)

// State is what, if anything, is currently selected.
type State int

const (
	StateNone State = iota
	StateMesh
	StateLight
)

// Controller is the selection state machine. Mesh and light selection are
// mutually exclusive; every transition fires Changed with the new target
// (nil on deselect).
type Controller struct {
	// Changed fires on every selection transition. Listeners must not call
	// back into the controller; re-entrant transitions are dropped.
	Changed engine.Event[*picking.Target]

	scene  *engine.Scene
	picker *picking.Picker
	logger *log.Logger

	state    State
	node     *engine.Node
	lightUID uint64

	selectable []*engine.Node
	notifying  bool
}

func New(scene *engine.Scene, picker *picking.Picker, logger *log.Logger) *Controller {
	c := &Controller{
		scene:  scene,
		picker: picker,
		logger: logger,
	}
	scene.Changed.Subscribe(func(ev engine.GraphEvent) {
		if ev.Change == engine.NodeRemoved {
			c.handleRemoval(ev.Node)
		}
	})
	return c
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) Node() *engine.Node { return c.node }
func (c *Controller) LightUID() uint64   { return c.lightUID }

// Target returns the current selection as a pick target, or nil.
func (c *Controller) Target() *picking.Target {
	switch c.state {
	case StateMesh:
		return &picking.Target{Node: c.node}
	case StateLight:
		return &picking.Target{Node: c.node, LightUID: c.lightUID}
	}
	return nil
}

// PickAt runs the picker for a screen point and applies the result: a light
// hit selects the light, a mesh hit selects the mesh, a miss deselects.
func (c *Controller) PickAt(point rl.Vector2, cam rl.Camera3D) {
	target, ok := c.picker.Pick(point, cam)
	c.applyPick(target, ok)
}

// PickRay is PickAt for a pre-built ray (no window required).
func (c *Controller) PickRay(origin, dir rl.Vector3) {
	target, ok := c.picker.PickRay(origin, dir)
	c.applyPick(target, ok)
}

func (c *Controller) applyPick(target picking.Target, ok bool) {
	if !ok {
		c.Deselect()
		return
	}
	if target.IsLight() {
		c.selectLight(target.LightUID)
		return
	}
	c.Select(target.Node)
}

// Select makes n the mesh selection, clearing any light selection. A node
// that fails the selectability filter is a no-op, not an error. Lights and
// their proxies both resolve to the light selection.
func (c *Controller) Select(n *engine.Node) {
	if c.dropReentrant() {
		return
	}
	if n == nil {
		c.Deselect()
		return
	}
	if !c.picker.Selectable(n) {
		c.logger.Debug("ignoring select of unselectable node", "node", n.Name)
		return
	}
	switch n.Kind {
	case engine.KindLight:
		c.selectLight(n.UID)
		return
	case engine.KindLightProxy:
		c.selectLight(n.OwnerLight)
		return
	}
	if c.state == StateMesh && c.node == n {
		return
	}
	c.state = StateMesh
	c.node = n
	c.lightUID = 0
	c.notify(&picking.Target{Node: n})
}

func (c *Controller) selectLight(uid uint64) {
	if c.dropReentrant() {
		return
	}
	if c.state == StateLight && c.lightUID == uid {
		return
	}
	c.state = StateLight
	c.lightUID = uid
	c.node = c.scene.FindByUID(uid)
	c.notify(&picking.Target{Node: c.node, LightUID: uid})
}

// Deselect clears the selection.
func (c *Controller) Deselect() {
	if c.dropReentrant() {
		return
	}
	if c.state == StateNone {
		return
	}
	c.state = StateNone
	c.node = nil
	c.lightUID = 0
	c.notify(nil)
}

// SelectNext advances to the next selectable node in traversal order,
// wrapping around. From no selection it picks the first. No-op when nothing
// is selectable.
func (c *Controller) SelectNext() {
	list := c.selectableNodes()
	if len(list) == 0 {
		return
	}
	i := c.currentIndex(list)
	c.Select(list[(i+1)%len(list)])
}

// SelectPrevious retreats with wraparound.
func (c *Controller) SelectPrevious() {
	list := c.selectableNodes()
	if len(list) == 0 {
		return
	}
	i := c.currentIndex(list)
	if i <= 0 {
		i = len(list) - 1
	} else {
		i--
	}
	c.Select(list[i])
}

func (c *Controller) currentIndex(list []*engine.Node) int {
	for i, n := range list {
		if n == c.node {
			return i
		}
	}
	return -1
}

// selectableNodes is the ordered list of nodes navigation cycles through,
// rebuilt on every call so flag flips take effect immediately. Groups are
// skipped: Tab moves between concrete targets, as in the hierarchy panel of
// any editor. Proxies are skipped too; their lights are already in the list.
func (c *Controller) selectableNodes() []*engine.Node {
	c.selectable = c.selectable[:0]
	for _, n := range c.scene.Order() {
		if n.Kind == engine.KindGroup || n.Kind == engine.KindLightProxy {
			continue
		}
		if c.picker.Selectable(n) {
			c.selectable = append(c.selectable, n)
		}
	}
	return c.selectable
}

func (c *Controller) handleRemoval(n *engine.Node) {
	if c.node == n || (c.state == StateLight && n.UID == c.lightUID) {
		c.Deselect()
	}
}

// dropReentrant guards the mutating entry points: a transition requested
// from inside a Changed callback is dropped before any state changes, so
// listeners never observe a selection that was switched out from under them.
func (c *Controller) dropReentrant() bool {
	if c.notifying {
		c.logger.Warn("selection change during notification dropped")
		return true
	}
	return false
}

func (c *Controller) notify(target *picking.Target) {
	c.notifying = true
	c.Changed.Emit(target)
	c.notifying = false
}
