package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
)

// shape tells the registry which GPU mesh backs a node. It rides in the
// node's Material slot so duplicated nodes share it.
type shape struct {
	kind   string
	dims   rl.Vector3
	radius float32
	color  rl.Color
}

// modelRegistry maps node UIDs to uploaded GPU models. Models are created
// lazily on first draw so nodes added at runtime (duplicates) just work.
type modelRegistry struct {
	models map[uint64]rl.Model
}

func newModelRegistry(scene *engine.Scene) *modelRegistry {
	reg := &modelRegistry{models: make(map[uint64]rl.Model)}
	scene.Walk(func(n *engine.Node) bool {
		reg.tagShape(n)
		return true
	})
	return reg
}

// tagShape infers a shape spec for mesh nodes built by the demo scene.
func (reg *modelRegistry) tagShape(n *engine.Node) {
	if n.Kind != engine.KindMesh || n.Material != nil || n.Geometry == nil {
		return
	}
	size := n.Geometry.Bounds().Size()
	switch {
	case size.Y < 0.001:
		n.Material = shape{kind: "plane", dims: size, color: rl.NewColor(90, 95, 100, 255)}
	case size.X == size.Y && size.Y == size.Z && n.Geometry.VertexCount() > 8:
		n.Material = shape{kind: "sphere", radius: size.X / 2, color: rl.NewColor(205, 130, 90, 255)}
	default:
		n.Material = shape{kind: "cube", dims: size, color: rl.NewColor(120, 160, 200, 255)}
	}
}

func (reg *modelRegistry) lookup(n *engine.Node) (rl.Model, bool) {
	if model, ok := reg.models[n.UID]; ok {
		return model, true
	}
	sp, ok := n.Material.(shape)
	if !ok {
		return rl.Model{}, false
	}
	var mesh rl.Mesh
	switch sp.kind {
	case "plane":
		mesh = rl.GenMeshPlane(sp.dims.X, sp.dims.Z, 1, 1)
	case "sphere":
		mesh = rl.GenMeshSphere(sp.radius, 16, 16)
	default:
		mesh = rl.GenMeshCube(sp.dims.X, sp.dims.Y, sp.dims.Z)
	}
	model := rl.LoadModelFromMesh(mesh)
	reg.models[n.UID] = model
	return model, true
}

func (reg *modelRegistry) onGraphChange(ev engine.GraphEvent) {
	switch ev.Change {
	case engine.NodeAdded:
		reg.tagShape(ev.Node)
	case engine.NodeRemoved:
		if model, ok := reg.models[ev.Node.UID]; ok {
			rl.UnloadModel(model)
			delete(reg.models, ev.Node.UID)
		}
	}
}

func (reg *modelRegistry) drawScene(scene *engine.Scene, cam rl.Camera3D) {
	rl.DrawGrid(20, 1)

	for _, n := range scene.Order() {
		if !n.EffectiveVisible() {
			continue
		}
		switch n.Kind {
		case engine.KindMesh:
			model, ok := reg.lookup(n)
			if !ok {
				continue
			}
			tint := rl.White
			if sp, ok := n.Material.(shape); ok {
				tint = sp.color
			}
			model.Transform = n.WorldMatrix()
			reg.models[n.UID] = model
			rl.DrawModel(model, rl.Vector3{}, 1, tint)
		case engine.KindLightProxy:
			color := rl.Yellow
			if owner := n.Scene.FindByUID(n.OwnerLight); owner != nil {
				color = owner.LightColor
			}
			rl.DrawSphereWires(n.WorldPosition(), 0.35, 8, 8, color)
		}
	}
}

func (reg *modelRegistry) unload() {
	for _, model := range reg.models {
		rl.UnloadModel(model)
	}
	reg.models = nil
}
