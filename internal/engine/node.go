package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NodeKind classifies a scene-graph node. Classification happens once, at
// creation, and everything downstream (picking, selection, outlining)
// dispatches on the tag instead of probing per-node flags.
type NodeKind int

const (
	KindMesh NodeKind = iota
	KindLight
	KindLightProxy  // invisible, always-clickable stand-in for a light
	KindLightTarget // positioning aid for directional/spot lights
	KindHelper      // grids, axes, visualizers; never selectable
	KindGroup
	KindGizmoPart
)

func (k NodeKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindLightProxy:
		return "light-proxy"
	case KindLightTarget:
		return "light-target"
	case KindHelper:
		return "helper"
	case KindGroup:
		return "group"
	case KindGizmoPart:
		return "gizmo-part"
	}
	return "unknown"
}

// LightKind is the closed set of light variants a KindLight node can carry.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Transform holds a local TRS. Rotation is Euler angles in degrees, applied
// X then Y then Z.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
}

func IdentityTransform() Transform {
	return Transform{Scale: rl.Vector3{X: 1, Y: 1, Z: 1}}
}

// Matrix composes the TRS as scale -> rotate -> translate.
func (t Transform) Matrix() rl.Matrix {
	scale := rl.MatrixScale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	rotX := rl.MatrixRotateX(t.Rotation.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(t.Rotation.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(t.Rotation.Z * rl.Deg2rad)
	rot := rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
	trans := rl.MatrixTranslate(t.Position.X, t.Position.Y, t.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(scale, rot), trans)
}

// RotationMatrix is the rotation part only.
func (t Transform) RotationMatrix() rl.Matrix {
	rotX := rl.MatrixRotateX(t.Rotation.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(t.Rotation.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(t.Rotation.Z * rl.Deg2rad)
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

func (t Transform) IsIdentity() bool {
	return t.Position == (rl.Vector3{}) &&
		t.Rotation == (rl.Vector3{}) &&
		t.Scale == (rl.Vector3{X: 1, Y: 1, Z: 1})
}

var nextUID uint64

// Node is an entity in the scene graph. The graph owner creates and destroys
// nodes; the interaction core reads them and mutates only the transform of
// whatever is selected.
type Node struct {
	UID        uint64
	Name       string
	Kind       NodeKind
	Visible    bool
	Selectable bool // explicit override; false removes the node from picking
	Transform  Transform

	Parent   *Node
	Children []*Node
	Scene    *Scene

	// Mesh payload. Material and Metadata are opaque host references that
	// operations such as transform-bake must leave untouched.
	Geometry *Geometry
	Material any
	Metadata map[string]any

	// Light payload.
	Light       LightKind
	LightColor  rl.Color
	LightRadius float32
	OwnerLight  uint64 // on proxies: UID of the light being stood in for
	TargetUID   uint64 // on lights: UID of the light-target node, 0 = none
}

func NewNode(name string, kind NodeKind) *Node {
	return &Node{
		UID:        atomic.AddUint64(&nextUID, 1),
		Name:       name,
		Kind:       kind,
		Visible:    true,
		Selectable: true,
		Transform:  IdentityTransform(),
	}
}

func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
	if n.Scene != nil {
		n.Scene.register(child)
	}
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// IsDescendantOf reports whether ancestor appears on n's parent chain.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// EffectiveVisible is the conjunction of the node's own flag and all
// ancestors'.
func (n *Node) EffectiveVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

func (n *Node) WorldPosition() rl.Vector3 {
	if n.Parent == nil {
		return n.Transform.Position
	}
	parentScale := n.Parent.WorldScale()
	scaled := rl.Vector3{
		X: n.Transform.Position.X * parentScale.X,
		Y: n.Transform.Position.Y * parentScale.Y,
		Z: n.Transform.Position.Z * parentScale.Z,
	}
	rotated := rl.Vector3Transform(scaled, Transform{Rotation: n.Parent.WorldRotation()}.RotationMatrix())
	return rl.Vector3Add(n.Parent.WorldPosition(), rotated)
}

func (n *Node) WorldRotation() rl.Vector3 {
	if n.Parent == nil {
		return n.Transform.Rotation
	}
	return rl.Vector3Add(n.Parent.WorldRotation(), n.Transform.Rotation)
}

func (n *Node) WorldScale() rl.Vector3 {
	if n.Parent == nil {
		return n.Transform.Scale
	}
	ps := n.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * n.Transform.Scale.X,
		Y: ps.Y * n.Transform.Scale.Y,
		Z: ps.Z * n.Transform.Scale.Z,
	}
}

// WorldMatrix is the local matrix composed up the parent chain.
func (n *Node) WorldMatrix() rl.Matrix {
	m := n.Transform.Matrix()
	if n.Parent == nil {
		return m
	}
	return rl.MatrixMultiply(m, n.Parent.WorldMatrix())
}

// WorldBounds returns the node geometry's bounding box in world space, fitted
// around the transformed corners. ok is false when there is no usable
// geometry.
func (n *Node) WorldBounds() (BoundingBox, bool) {
	if n.Geometry == nil {
		return BoundingBox{}, false
	}
	local := n.Geometry.Bounds()
	if local.Degenerate() {
		return BoundingBox{}, false
	}
	return local.Transformed(n.WorldMatrix()), true
}
