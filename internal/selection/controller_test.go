package selection

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
	"vantage/internal/picking"
)

func testController(t *testing.T) (*engine.Scene, *Controller) {
	t.Helper()
	scene := engine.NewScene("test")
	picker, err := picking.New(scene)
	if err != nil {
		t.Fatalf("picking.New failed: %v", err)
	}
	return scene, New(scene, picker, log.New(io.Discard))
}

func meshAt(name string, pos rl.Vector3) *engine.Node {
	n := engine.NewNode(name, engine.KindMesh)
	n.Geometry = engine.NewCubeGeometry(1, 1, 1)
	n.Transform.Position = pos
	return n
}

func TestSelectFiresChanged(t *testing.T) {
	scene, c := testController(t)
	n := meshAt("Cube", rl.Vector3{})
	scene.Add(n)

	var got *picking.Target
	calls := 0
	c.Changed.Subscribe(func(target *picking.Target) {
		got = target
		calls++
	})

	c.Select(n)

	if calls != 1 {
		t.Fatalf("Expected 1 notification, got %d", calls)
	}
	if got == nil || got.Node != n {
		t.Errorf("Notification target = %+v, want the cube", got)
	}
	if c.State() != StateMesh {
		t.Errorf("State = %v, want StateMesh", c.State())
	}
}

func TestSelectSameNodeIsNoOp(t *testing.T) {
	scene, c := testController(t)
	n := meshAt("Cube", rl.Vector3{})
	scene.Add(n)

	calls := 0
	c.Changed.Subscribe(func(*picking.Target) { calls++ })
	c.Select(n)
	c.Select(n)

	if calls != 1 {
		t.Errorf("Re-selecting the same node should not notify, got %d calls", calls)
	}
}

func TestSelectUnselectableIsNoOp(t *testing.T) {
	scene, c := testController(t)
	kept := meshAt("Kept", rl.Vector3{})
	scene.Add(kept)
	hidden := meshAt("Hidden", rl.Vector3{})
	hidden.Visible = false
	scene.Add(hidden)

	c.Select(kept)
	c.Select(hidden)

	if c.Node() != kept {
		t.Error("Selecting an unselectable node should keep the previous selection")
	}
}

func TestMeshAndLightMutuallyExclusive(t *testing.T) {
	scene, c := testController(t)
	mesh := meshAt("Cube", rl.Vector3{})
	scene.Add(mesh)
	light := engine.NewNode("Sun", engine.KindLight)
	scene.Add(light)

	c.Select(mesh)
	c.Select(light)

	if c.State() != StateLight {
		t.Fatalf("State = %v, want StateLight", c.State())
	}
	if c.LightUID() != light.UID {
		t.Errorf("LightUID = %d, want %d", c.LightUID(), light.UID)
	}

	c.Select(mesh)
	if c.State() != StateMesh {
		t.Fatalf("State = %v, want StateMesh", c.State())
	}
	if c.LightUID() != 0 {
		t.Error("Selecting a mesh should clear the light selection")
	}
}

func TestDeselect(t *testing.T) {
	scene, c := testController(t)
	n := meshAt("Cube", rl.Vector3{})
	scene.Add(n)

	var last *picking.Target
	c.Changed.Subscribe(func(target *picking.Target) { last = target })

	c.Select(n)
	c.Deselect()

	if c.State() != StateNone || c.Node() != nil {
		t.Error("Deselect should clear all selection state")
	}
	if last != nil {
		t.Error("Deselect should notify with a nil target")
	}

	calls := 0
	c.Changed.Subscribe(func(*picking.Target) { calls++ })
	c.Deselect()
	if calls != 0 {
		t.Error("Deselect with nothing selected should not notify")
	}
}

func TestPickRaySelectsAndDeselects(t *testing.T) {
	scene, c := testController(t)
	n := meshAt("Cube", rl.Vector3{Z: 5})
	scene.Add(n)

	c.PickRay(rl.Vector3{Z: 20}, rl.Vector3{Z: -1})
	if c.Node() != n {
		t.Fatal("Pick hitting the cube should select it")
	}

	c.PickRay(rl.Vector3{X: 50, Z: 20}, rl.Vector3{Z: -1})
	if c.State() != StateNone {
		t.Error("Pick hitting nothing should deselect")
	}
}

func TestPickRayLight(t *testing.T) {
	scene, c := testController(t)
	light := engine.NewNode("Sun", engine.KindLight)
	scene.Add(light)
	proxy := engine.NewNode("SunProxy", engine.KindLightProxy)
	proxy.OwnerLight = light.UID
	proxy.Transform.Position = rl.Vector3{Y: 3}
	scene.Add(proxy)

	c.PickRay(rl.Vector3{Y: 3, Z: 20}, rl.Vector3{Z: -1})

	if c.State() != StateLight {
		t.Fatalf("State = %v, want StateLight", c.State())
	}
	if c.LightUID() != light.UID {
		t.Errorf("LightUID = %d, want %d", c.LightUID(), light.UID)
	}
}

func TestSelectNextCyclesEveryNode(t *testing.T) {
	scene, c := testController(t)
	a := meshAt("A", rl.Vector3{})
	b := meshAt("B", rl.Vector3{X: 2})
	d := meshAt("C", rl.Vector3{X: 4})
	scene.Add(a)
	scene.Add(b)
	scene.Add(d)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		c.SelectNext()
		seen[c.Node().Name] = true
	}
	if len(seen) != 3 {
		t.Errorf("Cycling 3 times should visit all 3 nodes, saw %v", seen)
	}

	c.SelectNext()
	if c.Node() != a {
		t.Errorf("Fourth advance should wrap to %q, got %q", a.Name, c.Node().Name)
	}
}

func TestSelectNextSkipsGroupsAndUnselectable(t *testing.T) {
	scene, c := testController(t)
	group := engine.NewNode("Group", engine.KindGroup)
	inner := meshAt("Inner", rl.Vector3{})
	group.AddChild(inner)
	scene.Add(group)
	hidden := meshAt("Hidden", rl.Vector3{X: 2})
	hidden.Visible = false
	scene.Add(hidden)
	grid := engine.NewNode("Grid", engine.KindHelper)
	scene.Add(grid)

	c.SelectNext()
	if c.Node() != inner {
		t.Fatalf("First advance should land on the inner mesh, got %q", c.Node().Name)
	}
	c.SelectNext()
	if c.Node() != inner {
		t.Error("With one selectable node, advance should stay on it")
	}
}

func TestSelectPreviousWrapsBackward(t *testing.T) {
	scene, c := testController(t)
	a := meshAt("A", rl.Vector3{})
	b := meshAt("B", rl.Vector3{X: 2})
	scene.Add(a)
	scene.Add(b)

	c.SelectPrevious()
	if c.Node() != b {
		t.Fatalf("Previous from nothing should select the last node, got %q", c.Node().Name)
	}
	c.SelectPrevious()
	if c.Node() != a {
		t.Errorf("Previous should step backward, got %q", c.Node().Name)
	}
	c.SelectPrevious()
	if c.Node() != b {
		t.Errorf("Previous from the first node should wrap to the last, got %q", c.Node().Name)
	}
}

func TestNavigationEmptyScene(t *testing.T) {
	_, c := testController(t)
	c.SelectNext()
	c.SelectPrevious()
	if c.State() != StateNone {
		t.Error("Navigation in an empty scene should do nothing")
	}
}

func TestRemovalDeselects(t *testing.T) {
	scene, c := testController(t)
	n := meshAt("Cube", rl.Vector3{})
	scene.Add(n)
	c.Select(n)

	scene.Remove(n)

	if c.State() != StateNone {
		t.Error("Removing the selected node should deselect")
	}
}

func TestRemovalOfSelectedLightDeselects(t *testing.T) {
	scene, c := testController(t)
	light := engine.NewNode("Sun", engine.KindLight)
	scene.Add(light)
	c.Select(light)

	scene.Remove(light)

	if c.State() != StateNone {
		t.Error("Removing the selected light should deselect")
	}
}

func TestListRebuiltAfterVisibilityChange(t *testing.T) {
	scene, c := testController(t)
	a := meshAt("A", rl.Vector3{})
	b := meshAt("B", rl.Vector3{X: 2})
	scene.Add(a)
	scene.Add(b)

	c.SelectNext()
	a.Visible = false

	c.Deselect()
	c.SelectNext()
	if c.Node() != b {
		t.Errorf("Navigation should skip the newly hidden node, got %q", c.Node().Name)
	}

	// A flag flipped back without any graph mutation is picked up too.
	a.Visible = true
	c.SelectNext()
	if c.Node() != a {
		t.Errorf("Navigation should see the re-shown node, got %q", c.Node().Name)
	}
}

func TestReentrantChangeDropped(t *testing.T) {
	scene, c := testController(t)
	a := meshAt("A", rl.Vector3{})
	b := meshAt("B", rl.Vector3{X: 2})
	scene.Add(a)
	scene.Add(b)

	calls := 0
	c.Changed.Subscribe(func(target *picking.Target) {
		calls++
		if target != nil && target.Node == a {
			c.Select(b) // must be dropped, not recurse
		}
	})

	c.Select(a)

	if c.Node() != a || c.State() != StateMesh {
		t.Errorf("Re-entrant select should leave state untouched, selection = %q", c.Node().Name)
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 notification, got %d", calls)
	}
}

func TestReentrantDeselectDropped(t *testing.T) {
	scene, c := testController(t)
	a := meshAt("A", rl.Vector3{})
	scene.Add(a)

	c.Changed.Subscribe(func(target *picking.Target) {
		if target != nil {
			c.Deselect()
		}
	})

	c.Select(a)

	if c.Node() != a || c.State() != StateMesh {
		t.Error("Re-entrant deselect should leave the selection in place")
	}
}

func TestSelectProxyResolvesToLight(t *testing.T) {
	scene, c := testController(t)
	light := engine.NewNode("Sun", engine.KindLight)
	scene.Add(light)
	proxy := engine.NewNode("SunProxy", engine.KindLightProxy)
	proxy.OwnerLight = light.UID
	scene.Add(proxy)

	c.Select(proxy)

	if c.State() != StateLight {
		t.Fatalf("State = %v, want StateLight", c.State())
	}
	if c.LightUID() != light.UID {
		t.Errorf("LightUID = %d, want %d", c.LightUID(), light.UID)
	}
}

func TestSelectNextSkipsProxies(t *testing.T) {
	scene, c := testController(t)
	mesh := meshAt("Cube", rl.Vector3{})
	scene.Add(mesh)
	light := engine.NewNode("Sun", engine.KindLight)
	scene.Add(light)
	proxy := engine.NewNode("SunProxy", engine.KindLightProxy)
	proxy.OwnerLight = light.UID
	scene.Add(proxy)

	for i := 0; i < 4; i++ {
		c.SelectNext()
		if c.State() == StateMesh && c.Node().Kind == engine.KindLightProxy {
			t.Fatal("Navigation must never land on a proxy as a mesh selection")
		}
	}
	// Two targets in the cycle: the mesh and the light, each once.
	c.Select(mesh)
	c.SelectNext()
	if c.State() != StateLight || c.LightUID() != light.UID {
		t.Errorf("Advance from the mesh should select the light, state = %v", c.State())
	}
	c.SelectNext()
	if c.Node() != mesh {
		t.Error("Advance from the light should wrap back to the mesh")
	}
}
