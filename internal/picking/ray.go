package picking

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vantage/internal/engine"
)

// RayBox intersects a ray with an axis-aligned box using the slab method.
// Returns the distance along the ray to the entry point (or the exit point
// when the origin is inside the box).
func RayBox(origin, dir rl.Vector3, box engine.BoundingBox, maxDist float32) (float32, bool) {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if d[i] != 0 {
			t1 := (lo[i] - o[i]) / d[i]
			t2 := (hi[i] - o[i]) / d[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o[i] < lo[i] || o[i] > hi[i] {
			return 0, false
		}
	}

	if tmin > tmax || tmax < 0 || tmin > maxDist {
		return 0, false
	}
	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// RaySphere intersects a ray with a sphere analytically.
func RaySphere(origin, dir, center rl.Vector3, radius, maxDist float32) (float32, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(dir, dir)
	b := 2 * rl.Vector3DotProduct(oc, dir)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// RayPlane returns where a ray hits a plane defined by a point and normal.
func RayPlane(origin, dir, planePoint, planeNormal rl.Vector3) (rl.Vector3, bool) {
	denom := rl.Vector3DotProduct(dir, planeNormal)
	if math32.Abs(denom) < 1e-6 {
		return rl.Vector3{}, false
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(planePoint, origin), planeNormal) / denom
	if t < 0 {
		return rl.Vector3{}, false
	}
	return rl.Vector3Add(origin, rl.Vector3Scale(dir, t)), true
}

// ClosestRayRay finds the closest approach between two rays. Returns the
// parameters along each ray and the separating distance; near-parallel rays
// report a huge distance.
func ClosestRayRay(a, u, b, v rl.Vector3) (t1, t2, dist float32) {
	w := rl.Vector3Subtract(a, b)
	uu := rl.Vector3DotProduct(u, u)
	uv := rl.Vector3DotProduct(u, v)
	vv := rl.Vector3DotProduct(v, v)
	uw := rl.Vector3DotProduct(u, w)
	vw := rl.Vector3DotProduct(v, w)

	denom := uu*vv - uv*uv
	if denom < 1e-6 {
		return 0, 0, 999
	}

	t1 = (uv*vw - vv*uw) / denom
	t2 = (uu*vw - uv*uw) / denom

	p1 := rl.Vector3Add(a, rl.Vector3Scale(u, t1))
	p2 := rl.Vector3Add(b, rl.Vector3Scale(v, t2))
	dist = rl.Vector3Length(rl.Vector3Subtract(p1, p2))
	return
}
