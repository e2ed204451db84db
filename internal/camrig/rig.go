package camrig

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"vantage/internal/engine"
)

// Projection is the camera projection kind.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// ErrUnknownCamera is returned by Switch for ids that were never registered.
var ErrUnknownCamera = errors.New("camrig: unknown camera id")

// Descriptor describes one registered camera. FovY is vertical degrees for
// perspective and vertical world height for orthographic. Near and Far are
// recorded for hosts that manage clip planes; raylib's defaults apply
// otherwise.
type Descriptor struct {
	ID         string
	Name       string
	Projection Projection
	Position   rl.Vector3
	Target     rl.Vector3
	Up         rl.Vector3
	FovY       float32
	Near       float32
	Far        float32
	Active     bool
}

// Camera builds the raylib camera for this descriptor.
func (d *Descriptor) Camera() rl.Camera3D {
	up := d.Up
	if up == (rl.Vector3{}) {
		up = rl.Vector3{X: 0, Y: 1, Z: 0}
	}
	proj := rl.CameraPerspective
	if d.Projection == Orthographic {
		proj = rl.CameraOrthographic
	}
	return rl.Camera3D{
		Position:   d.Position,
		Target:     d.Target,
		Up:         up,
		Fovy:       d.FovY,
		Projection: proj,
	}
}

// Rig is the camera registry. Exactly one descriptor is active at a time;
// switching re-targets every camera-dependent collaborator through the
// Switched event so the whole frame uses the new camera consistently.
type Rig struct {
	// Switched fires with the newly active descriptor.
	Switched engine.Event[*Descriptor]

	// Fly moves the active camera between switches.
	Fly *FlyController

	descriptors []*Descriptor
	active      *Descriptor
	width       int32
	height      int32
	aspect      float32
	logger      *log.Logger
}

func New(logger *log.Logger) *Rig {
	r := &Rig{
		width:  1280,
		height: 720,
		aspect: 1280.0 / 720.0,
		logger: logger,
	}
	r.Fly = newFlyController(r)
	return r
}

// Register adds a descriptor. The first registered camera (or the first with
// Active set) becomes active.
func (r *Rig) Register(d *Descriptor) error {
	if d.ID == "" {
		return errors.New("camrig: descriptor without id")
	}
	for _, existing := range r.descriptors {
		if existing.ID == d.ID {
			return fmt.Errorf("camrig: duplicate camera id %q", d.ID)
		}
	}
	wantActive := d.Active || r.active == nil
	d.Active = false
	r.descriptors = append(r.descriptors, d)
	if wantActive {
		r.activate(d)
	}
	return nil
}

// AddFromView registers a new perspective descriptor capturing the current
// view, under a generated id, and returns it.
func (r *Rig) AddFromView(name string) *Descriptor {
	d := &Descriptor{
		ID:         uuid.NewString(),
		Name:       name,
		Projection: Perspective,
		FovY:       45,
		Near:       0.1,
		Far:        1000,
	}
	if r.active != nil {
		d.Position = r.active.Position
		d.Target = r.active.Target
		d.FovY = r.active.FovY
	}
	r.descriptors = append(r.descriptors, d)
	r.logger.Info("camera captured from view", "id", d.ID, "name", name)
	return d
}

// Switch makes the camera with the given id active. Unknown ids fail with
// ErrUnknownCamera and leave all state unchanged.
func (r *Rig) Switch(id string) error {
	var target *Descriptor
	for _, d := range r.descriptors {
		if d.ID == id {
			target = d
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCamera, id)
	}
	if target == r.active {
		return nil
	}
	r.activate(target)
	return nil
}

func (r *Rig) activate(d *Descriptor) {
	if r.active != nil {
		r.active.Active = false
	}
	d.Active = true
	r.active = d
	r.recomputeAspect()
	r.Fly.SyncFrom(d)
	r.Switched.Emit(d)
}

// Active returns the active descriptor, or nil before any registration.
func (r *Rig) Active() *Descriptor {
	return r.active
}

// Descriptors returns the registry in registration order.
func (r *Rig) Descriptors() []*Descriptor {
	return r.descriptors
}

// Camera returns the raylib camera for the active descriptor.
func (r *Rig) Camera() rl.Camera3D {
	if r.active == nil {
		return rl.Camera3D{
			Position:   rl.Vector3{X: 10, Y: 10, Z: 10},
			Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
			Fovy:       45,
			Projection: rl.CameraPerspective,
		}
	}
	return r.active.Camera()
}

// Resize records the new viewport and recomputes the active aspect ratio.
func (r *Rig) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
	r.recomputeAspect()
}

// Aspect is the viewport aspect ratio last computed on switch or resize.
func (r *Rig) Aspect() float32 {
	return r.aspect
}

func (r *Rig) recomputeAspect() {
	r.aspect = float32(r.width) / float32(r.height)
}
