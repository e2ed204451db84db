package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// BakeTransform commits a node's local transform into its geometry and resets
// the transform to identity. Material and metadata references survive
// untouched. Baking an already-identity node is a no-op, so the operation is
// idempotent.
//
// On a group, the group's own transform is first folded into each child using
// the same composition rules the scene graph uses (positions scaled, rotated
// and offset; rotations added; scales multiplied component-wise), the group
// resets to identity, and then every child is baked in turn.
func BakeTransform(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindMesh:
		bakeMesh(n)
	case KindGroup:
		bakeGroup(n)
	}
}

func bakeMesh(n *Node) {
	if n.Geometry == nil || n.Transform.IsIdentity() {
		return
	}
	material := n.Material
	metadata := n.Metadata

	n.Geometry.ApplyMatrix(n.Transform.Matrix())
	n.Transform = IdentityTransform()

	n.Material = material
	n.Metadata = metadata
}

func bakeGroup(g *Node) {
	if !g.Transform.IsIdentity() {
		rot := g.Transform.RotationMatrix()
		for _, c := range g.Children {
			scaled := rl.Vector3{
				X: c.Transform.Position.X * g.Transform.Scale.X,
				Y: c.Transform.Position.Y * g.Transform.Scale.Y,
				Z: c.Transform.Position.Z * g.Transform.Scale.Z,
			}
			c.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Transform(scaled, rot))
			c.Transform.Rotation = rl.Vector3Add(c.Transform.Rotation, g.Transform.Rotation)
			c.Transform.Scale = rl.Vector3{
				X: c.Transform.Scale.X * g.Transform.Scale.X,
				Y: c.Transform.Scale.Y * g.Transform.Scale.Y,
				Z: c.Transform.Scale.Z * g.Transform.Scale.Z,
			}
		}
		g.Transform = IdentityTransform()
	}
	for _, c := range g.Children {
		BakeTransform(c)
	}
}
