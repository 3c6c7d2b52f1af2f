package common

import (
	"github.com/chewxy/math32"
)

// Vector helpers operate on [3]float32 world-space vectors, matching the
// layout used for positions and directions throughout the engine.

// Add3 returns a + b component-wise.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns a - b component-wise.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 returns v scaled by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a × b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Distance3 returns the Euclidean distance between a and b.
func Distance3(a, b [3]float32) float32 {
	return Length3(Sub3(a, b))
}

// Normalize3 returns v scaled to unit length. A zero vector is returned
// unchanged rather than dividing by zero.
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l == 0 {
		return v
	}
	return Scale3(v, 1.0/l)
}

// Lerp3 linearly interpolates between a and b by t in [0, 1].
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// Clamp returns v limited to the inclusive range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
