package picking

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
)

// Radius of the invisible pick sphere around a light proxy.
const proxyPickRadius = 0.35

// Pick rays are capped at this distance.
const maxPickDistance = 1000.0

// Target is what a pick resolved to: a mesh node, or a light (via its proxy).
type Target struct {
	Node     *engine.Node
	LightUID uint64
}

// IsLight reports whether the target is a light rather than a mesh.
func (t Target) IsLight() bool {
	return t.LightUID != 0
}

// Picker resolves screen-space clicks to at most one scene target. Every
// call builds its own ray; there is no cross-call state beyond the scene
// reference.
type Picker struct {
	scene *engine.Scene
}

func New(scene *engine.Scene) (*Picker, error) {
	if scene == nil {
		return nil, errors.New("picking: nil scene")
	}
	return &Picker{scene: scene}, nil
}

// Selectable applies the full exclusion-rule chain to a node. The rules, in
// order: visibility up the ancestor chain (light proxies are exempt — they
// exist only to be clicked), kind membership (groups qualify through a
// selectable descendant), structural helpers out, light targets out, unnamed
// generic groups out, explicit override out, gizmo parts out (own kind or
// any ancestor's). Outline shells never enter the graph; a host that adds
// feedback geometry should tag it KindHelper.
func (p *Picker) Selectable(n *engine.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case engine.KindHelper, engine.KindLightTarget, engine.KindGizmoPart:
		return false
	case engine.KindLightProxy:
		// Invisible on purpose; skips the visibility rule.
	case engine.KindMesh, engine.KindLight:
		if !n.EffectiveVisible() {
			return false
		}
	case engine.KindGroup:
		if !n.EffectiveVisible() {
			return false
		}
		if n.Name == "" {
			return false
		}
		if !p.hasSelectableDescendant(n) {
			return false
		}
	default:
		return false
	}
	if !n.Selectable {
		return false
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Kind == engine.KindGizmoPart {
			return false
		}
		if !a.Selectable {
			return false
		}
	}
	return true
}

func (p *Picker) hasSelectableDescendant(g *engine.Node) bool {
	for _, c := range g.Children {
		if c.Kind != engine.KindGroup && p.Selectable(c) {
			return true
		}
		if c.Kind == engine.KindGroup && p.hasSelectableDescendant(c) {
			return true
		}
	}
	return false
}

// Pick casts a ray from the camera through the screen point and returns the
// nearest selectable target, if any. Requires a live window (the ray is
// unprojected against the current viewport); headless callers use PickRay.
func (p *Picker) Pick(point rl.Vector2, cam rl.Camera3D) (Target, bool) {
	ray := rl.GetScreenToWorldRay(point, cam)
	return p.PickRay(ray.Position, ray.Direction)
}

// PickRay intersects the filtered selectable set and keeps the nearest hit
// by distance along the ray. A hit on a light proxy resolves to the owning
// light's UID. Exactly coincident hit distances fall to whichever node the
// traversal reached first; that tie-break is accepted behavior, not a
// guarantee.
func (p *Picker) PickRay(origin, dir rl.Vector3) (Target, bool) {
	dir = rl.Vector3Normalize(dir)
	best := Target{}
	bestDist := float32(maxPickDistance)
	found := false

	for _, n := range p.scene.Order() {
		if !p.Selectable(n) {
			continue
		}
		switch n.Kind {
		case engine.KindMesh:
			bounds, ok := n.WorldBounds()
			if !ok {
				continue // degenerate or missing geometry: safe skip
			}
			if t, hit := RayBox(origin, dir, bounds, bestDist); hit && t < bestDist {
				best = Target{Node: n}
				bestDist = t
				found = true
			}
		case engine.KindLightProxy:
			center := n.WorldPosition()
			if t, hit := RaySphere(origin, dir, center, proxyPickRadius, bestDist); hit && t < bestDist {
				best = Target{Node: n, LightUID: n.OwnerLight}
				bestDist = t
				found = true
			}
		}
	}
	return best, found
}
