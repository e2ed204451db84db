package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const epsilon = 0.001

func vecNear(a, b rl.Vector3) bool {
	return rl.Vector3Length(rl.Vector3Subtract(a, b)) < epsilon
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("Cube", KindMesh)
	if !n.Visible {
		t.Error("New node should be visible")
	}
	if !n.Selectable {
		t.Error("New node should be selectable")
	}
	if !n.Transform.IsIdentity() {
		t.Errorf("New node transform should be identity, got %+v", n.Transform)
	}
	if n.UID == 0 {
		t.Error("New node should have a non-zero UID")
	}
}

func TestUIDsAreUnique(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		n := NewNode("N", KindMesh)
		if seen[n.UID] {
			t.Fatalf("Duplicate UID %d", n.UID)
		}
		seen[n.UID] = true
	}
}

func TestWorldPositionWithParent(t *testing.T) {
	parent := NewNode("Parent", KindGroup)
	parent.Transform.Position = rl.Vector3{X: 10, Y: 0, Z: 0}

	child := NewNode("Child", KindMesh)
	child.Transform.Position = rl.Vector3{X: 5, Y: 0, Z: 0}
	parent.AddChild(child)

	got := child.WorldPosition()
	want := rl.Vector3{X: 15, Y: 0, Z: 0}
	if !vecNear(got, want) {
		t.Errorf("World position = %+v, want %+v", got, want)
	}
}

func TestWorldPositionWithParentRotation(t *testing.T) {
	parent := NewNode("Parent", KindGroup)
	parent.Transform.Rotation = rl.Vector3{Y: 90}

	child := NewNode("Child", KindMesh)
	child.Transform.Position = rl.Vector3{X: 1, Y: 0, Z: 0}
	parent.AddChild(child)

	// 90 degrees around Y sends +X to -Z.
	got := child.WorldPosition()
	want := rl.Vector3{X: 0, Y: 0, Z: -1}
	if !vecNear(got, want) {
		t.Errorf("World position = %+v, want %+v", got, want)
	}
}

func TestWorldPositionWithParentScale(t *testing.T) {
	parent := NewNode("Parent", KindGroup)
	parent.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	child := NewNode("Child", KindMesh)
	child.Transform.Position = rl.Vector3{X: 3, Y: 0, Z: 0}
	parent.AddChild(child)

	got := child.WorldPosition()
	want := rl.Vector3{X: 6, Y: 0, Z: 0}
	if !vecNear(got, want) {
		t.Errorf("World position = %+v, want %+v", got, want)
	}
}

func TestWorldRotationAndScaleCompose(t *testing.T) {
	parent := NewNode("Parent", KindGroup)
	parent.Transform.Rotation = rl.Vector3{Y: 45}
	parent.Transform.Scale = rl.Vector3{X: 2, Y: 1, Z: 1}

	child := NewNode("Child", KindMesh)
	child.Transform.Rotation = rl.Vector3{Y: 15}
	child.Transform.Scale = rl.Vector3{X: 3, Y: 1, Z: 1}
	parent.AddChild(child)

	rot := child.WorldRotation()
	if rot.Y < 60-epsilon || rot.Y > 60+epsilon {
		t.Errorf("World rotation Y = %f, want 60", rot.Y)
	}
	scale := child.WorldScale()
	if scale.X < 6-epsilon || scale.X > 6+epsilon {
		t.Errorf("World scale X = %f, want 6", scale.X)
	}
}

func TestEffectiveVisible(t *testing.T) {
	parent := NewNode("Parent", KindGroup)
	child := NewNode("Child", KindMesh)
	parent.AddChild(child)

	if !child.EffectiveVisible() {
		t.Error("Child of visible parent should be effectively visible")
	}

	parent.Visible = false
	if child.EffectiveVisible() {
		t.Error("Child of hidden parent should not be effectively visible")
	}

	parent.Visible = true
	child.Visible = false
	if child.EffectiveVisible() {
		t.Error("Hidden child should not be effectively visible")
	}
}

func TestIsDescendantOf(t *testing.T) {
	root := NewNode("Root", KindGroup)
	mid := NewNode("Mid", KindGroup)
	leaf := NewNode("Leaf", KindMesh)
	root.AddChild(mid)
	mid.AddChild(leaf)

	if !leaf.IsDescendantOf(root) {
		t.Error("Leaf should be a descendant of root")
	}
	if root.IsDescendantOf(leaf) {
		t.Error("Root should not be a descendant of leaf")
	}
	if leaf.IsDescendantOf(leaf) {
		t.Error("A node is not its own descendant")
	}
}

func TestWorldBoundsNoGeometry(t *testing.T) {
	n := NewNode("Empty", KindMesh)
	if _, ok := n.WorldBounds(); ok {
		t.Error("Node without geometry should have no world bounds")
	}
}

func TestWorldBoundsTransformed(t *testing.T) {
	n := NewNode("Cube", KindMesh)
	n.Geometry = NewCubeGeometry(1, 1, 1)
	n.Transform.Position = rl.Vector3{X: 5, Y: 0, Z: 0}
	n.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	bounds, ok := n.WorldBounds()
	if !ok {
		t.Fatal("Expected world bounds")
	}
	if !vecNear(bounds.Center(), rl.Vector3{X: 5}) {
		t.Errorf("Bounds center = %+v, want {5 0 0}", bounds.Center())
	}
	size := bounds.Size()
	if size.X < 2-epsilon || size.X > 2+epsilon {
		t.Errorf("Bounds size X = %f, want 2", size.X)
	}
}

func TestTransformMatrixTranslatesPoint(t *testing.T) {
	tr := IdentityTransform()
	tr.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	got := rl.Vector3Transform(rl.Vector3{}, tr.Matrix())
	if !vecNear(got, tr.Position) {
		t.Errorf("Origin transformed = %+v, want %+v", got, tr.Position)
	}
}
