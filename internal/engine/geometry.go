package engine

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min rl.Vector3
	Max rl.Vector3
}

func (b BoundingBox) Size() rl.Vector3 {
	return rl.Vector3Subtract(b.Max, b.Min)
}

func (b BoundingBox) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(b.Min, b.Max), 0.5)
}

// MaxDimension is the largest edge length.
func (b BoundingBox) MaxDimension() float32 {
	s := b.Size()
	d := s.X
	if s.Y > d {
		d = s.Y
	}
	if s.Z > d {
		d = s.Z
	}
	return d
}

// Degenerate reports a zero-extent box, which picking and outlining treat as
// "no usable bounds".
func (b BoundingBox) Degenerate() bool {
	s := b.Size()
	return s.X <= 0 && s.Y <= 0 && s.Z <= 0
}

// Transformed fits a new axis-aligned box around the eight transformed
// corners.
func (b BoundingBox) Transformed(m rl.Matrix) BoundingBox {
	corners := [8]rl.Vector3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	out := BoundingBox{}
	for i, c := range corners {
		p := rl.Vector3Transform(c, m)
		if i == 0 {
			out.Min, out.Max = p, p
			continue
		}
		out.Min = rl.Vector3{X: minF(out.Min.X, p.X), Y: minF(out.Min.Y, p.Y), Z: minF(out.Min.Z, p.Z)}
		out.Max = rl.Vector3{X: maxF(out.Max.X, p.X), Y: maxF(out.Max.Y, p.Y), Z: maxF(out.Max.Z, p.Z)}
	}
	return out
}

// Geometry holds CPU-side mesh buffers. Positions and normals are packed xyz
// triplets. The render side keeps its own GPU copy; picking, outlining and
// baking work off this one.
type Geometry struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint16

	bounds      BoundingBox
	boundsValid bool
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// Bounds computes and caches the axis-aligned bounds.
func (g *Geometry) Bounds() BoundingBox {
	if g.boundsValid {
		return g.bounds
	}
	b := BoundingBox{}
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		p := rl.Vector3{X: g.Vertices[i], Y: g.Vertices[i+1], Z: g.Vertices[i+2]}
		if i == 0 {
			b.Min, b.Max = p, p
			continue
		}
		b.Min = rl.Vector3{X: minF(b.Min.X, p.X), Y: minF(b.Min.Y, p.Y), Z: minF(b.Min.Z, p.Z)}
		b.Max = rl.Vector3{X: maxF(b.Max.X, p.X), Y: maxF(b.Max.Y, p.Y), Z: maxF(b.Max.Z, p.Z)}
	}
	g.bounds = b
	g.boundsValid = true
	return b
}

// MarkDirty invalidates the cached bounds after a vertex mutation.
func (g *Geometry) MarkDirty() {
	g.boundsValid = false
}

// ApplyMatrix transforms every vertex by m and every normal by the inverse
// transpose of m, renormalizing. Bounds are recomputed.
func (g *Geometry) ApplyMatrix(m rl.Matrix) {
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		v := rl.Vector3Transform(rl.Vector3{X: g.Vertices[i], Y: g.Vertices[i+1], Z: g.Vertices[i+2]}, m)
		g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2] = v.X, v.Y, v.Z
	}
	nm := rl.MatrixTranspose(rl.MatrixInvert(m))
	nm.M12, nm.M13, nm.M14 = 0, 0, 0 // strip translation
	for i := 0; i+2 < len(g.Normals); i += 3 {
		n := rl.Vector3Transform(rl.Vector3{X: g.Normals[i], Y: g.Normals[i+1], Z: g.Normals[i+2]}, nm)
		n = rl.Vector3Normalize(n)
		g.Normals[i], g.Normals[i+1], g.Normals[i+2] = n.X, n.Y, n.Z
	}
	g.MarkDirty()
	g.Bounds()
}

// NewCubeGeometry builds a box centered at the origin.
func NewCubeGeometry(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	corners := [8][3]float32{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	g := &Geometry{}
	for _, c := range corners {
		g.Vertices = append(g.Vertices, c[0], c[1], c[2])
		inv := 1 / math32.Sqrt(c[0]*c[0]+c[1]*c[1]+c[2]*c[2])
		g.Normals = append(g.Normals, c[0]*inv, c[1]*inv, c[2]*inv)
	}
	g.Indices = []uint16{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return g
}

// NewPlaneGeometry builds a flat plane on XZ, centered at the origin.
func NewPlaneGeometry(width, depth float32) *Geometry {
	hx, hz := width/2, depth/2
	return &Geometry{
		Vertices: []float32{
			-hx, 0, -hz,
			hx, 0, -hz,
			hx, 0, hz,
			-hx, 0, hz,
		},
		Normals: []float32{
			0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0,
		},
		Indices: []uint16{0, 2, 1, 0, 3, 2},
	}
}

// NewSphereGeometry builds a latitude/longitude sphere.
func NewSphereGeometry(radius float32, rings, slices int) *Geometry {
	g := &Geometry{}
	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings)
		for s := 0; s <= slices; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(slices)
			nx := math32.Sin(phi) * math32.Cos(theta)
			ny := math32.Cos(phi)
			nz := math32.Sin(phi) * math32.Sin(theta)
			g.Vertices = append(g.Vertices, radius*nx, radius*ny, radius*nz)
			g.Normals = append(g.Normals, nx, ny, nz)
		}
	}
	stride := slices + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint16(r*stride + s)
			b := uint16((r+1)*stride + s)
			g.Indices = append(g.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return g
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
