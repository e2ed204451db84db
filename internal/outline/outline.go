package outline

import (
	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
)

// Shell inflation by source size: small objects get a proportionally larger
// offset so the highlight stays visible at any zoom.
const (
	smallSizeLimit = 1.0
	midSizeLimit   = 10.0

	smallShell = 1.02
	midShell   = 1.01
	largeShell = 1.005
)

// Entry is the highlight shell for one selected node. It holds no owning
// reference to the source and no geometry duplicate — just the inflation
// factor and the matrix synced from the source each frame.
type Entry struct {
	Source *engine.Node
	Shell  float32
	Matrix rl.Matrix
}

// Renderer maintains the outline entry for the current selection and renders
// it as a second pass after the main scene. Its lifecycle is strictly
// derived from selection state: exactly one entry exists iff exactly one
// node is selected.
type Renderer struct {
	// Color tints the shell.
	Color rl.Color

	entry  *Entry
	logger *log.Logger
}

func New(logger *log.Logger) *Renderer {
	return &Renderer{
		Color:  rl.Yellow,
		logger: logger,
	}
}

// SetTarget replaces the outline with one for n; nil clears it. A node with
// no usable bounds gets no outline (logged, selection itself still stands).
func (r *Renderer) SetTarget(n *engine.Node) {
	r.Clear()
	if n == nil {
		return
	}
	if n.Geometry == nil {
		return
	}
	bounds := n.Geometry.Bounds()
	if bounds.Degenerate() {
		r.logger.Warn("skipping outline for degenerate geometry", "node", n.Name)
		return
	}
	r.entry = &Entry{
		Source: n,
		Shell:  shellFor(bounds.MaxDimension()),
		Matrix: n.WorldMatrix(),
	}
}

// Clear disposes the current entry immediately.
func (r *Renderer) Clear() {
	r.entry = nil
}

// Entry returns the live entry, or nil.
func (r *Renderer) Entry() *Entry {
	return r.entry
}

// HandleRemoval drops the entry when its source leaves the graph.
func (r *Renderer) HandleRemoval(n *engine.Node) {
	if r.entry != nil && r.entry.Source == n {
		r.Clear()
	}
}

// Sync copies the source node's current world transform onto the shell,
// inflated around the object center. Called once per frame before the render
// passes; the shell never simulates on its own.
func (r *Renderer) Sync() {
	if r.entry == nil {
		return
	}
	s := r.entry.Shell
	shell := rl.MatrixScale(s, s, s)
	r.entry.Matrix = rl.MatrixMultiply(shell, r.entry.Source.WorldMatrix())
}

// Draw renders the shell after the main color pass: batch flushed, depth
// test off so the outline reads through occluders, front faces culled so
// only the inflated back shell shows. lookup maps a node to its uploaded
// model; nodes the host never uploaded are skipped.
func (r *Renderer) Draw(lookup func(*engine.Node) (rl.Model, bool)) {
	if r.entry == nil || lookup == nil {
		return
	}
	model, ok := lookup(r.entry.Source)
	if !ok {
		return
	}

	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()
	rl.SetCullFace(0)

	model.Transform = r.entry.Matrix
	rl.DrawModel(model, rl.Vector3Zero(), 1.0, rl.Fade(r.Color, 0.4))

	rl.DrawRenderBatchActive()
	rl.SetCullFace(1)
	rl.EnableDepthTest()
}

func shellFor(maxDim float32) float32 {
	switch {
	case maxDim < smallSizeLimit:
		return smallShell
	case maxDim < midSizeLimit:
		return midShell
	default:
		return largeShell
	}
}
