package common

import (
	"github.com/chewxy/math32"
)

// Ray is a half-line in world space used for picking queries.
// Dir is expected to be normalized.
type Ray struct {
	Origin [3]float32
	Dir    [3]float32
}

// IntersectSphere solves the ray/sphere quadratic for a sphere at center with
// the given radius and returns the distance to the nearest intersection in
// front of the ray origin. An origin inside the sphere reports the exit
// point; intersections entirely behind the origin report no hit.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius (must be > 0 for a meaningful result)
//
// Returns:
//   - float32: distance along the ray to the hit point
//   - bool: true if the ray hits the sphere in front of the origin
func (r Ray) IntersectSphere(center [3]float32, radius float32) (float32, bool) {
	oc := Sub3(r.Origin, center)
	a := Dot3(r.Dir, r.Dir)
	if a == 0 {
		return 0, false
	}
	b := 2 * Dot3(oc, r.Dir)
	c := Dot3(oc, oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	sq := math32.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t1 < t0 {
		t0, t1 = t1, t0
	}

	const eps = 1e-6
	if t0 > eps {
		return t0, true
	}
	if t1 > eps {
		return t1, true
	}
	return 0, false
}

// At returns the point on the ray at distance t.
func (r Ray) At(t float32) [3]float32 {
	return Add3(r.Origin, Scale3(r.Dir, t))
}
