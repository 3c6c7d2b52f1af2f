package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	LookAt(m[:], 10, 20, 30, 0, 0, 0, 0, 1, 0)

	Mul4(out[:], id[:], m[:])
	for i := range out {
		assert.InDelta(t, m[i], out[i], tol)
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out, id [16]float32
	LookAt(m[:], 5, 7, -3, 1, 0, 2, 0, 1, 0)
	Identity(id[:])

	require.True(t, Invert4(inv[:], m[:]))
	Mul4(out[:], m[:], inv[:])
	for i := range out {
		assert.InDelta(t, id[i], out[i], 1e-4)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	assert.False(t, Invert4(out[:], zero[:]))
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var m [16]float32
	eye := [3]float32{3, 4, 5}
	LookAt(m[:], eye[0], eye[1], eye[2], 0, 0, 0, 0, 1, 0)

	// Transform the eye point; it must land at the view-space origin.
	x := m[0]*eye[0] + m[4]*eye[1] + m[8]*eye[2] + m[12]
	y := m[1]*eye[0] + m[5]*eye[1] + m[9]*eye[2] + m[13]
	z := m[2]*eye[0] + m[6]*eye[1] + m[10]*eye[2] + m[14]
	assert.InDelta(t, 0, x, tol)
	assert.InDelta(t, 0, y, tol)
	assert.InDelta(t, 0, z, tol)
}

func TestVectorHelpers(t *testing.T) {
	a := [3]float32{1, 2, 3}
	b := [3]float32{4, 5, 6}

	assert.Equal(t, [3]float32{5, 7, 9}, Add3(a, b))
	assert.Equal(t, [3]float32{-3, -3, -3}, Sub3(a, b))
	assert.InDelta(t, 32, Dot3(a, b), tol)
	assert.InDelta(t, math32.Sqrt(14), Length3(a), tol)

	n := Normalize3(b)
	assert.InDelta(t, 1, Length3(n), tol)

	// Cross product is orthogonal to both inputs.
	c := Cross3(a, b)
	assert.InDelta(t, 0, Dot3(c, a), tol)
	assert.InDelta(t, 0, Dot3(c, b), tol)

	// Zero vector normalizes to itself.
	assert.Equal(t, [3]float32{0, 0, 0}, Normalize3([3]float32{0, 0, 0}))

	mid := Lerp3(a, b, 0.5)
	assert.InDelta(t, 2.5, mid[0], tol)
	assert.InDelta(t, 3.5, mid[1], tol)
	assert.InDelta(t, 4.5, mid[2], tol)
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"start", 0, 0},
		{"end", 1, 1},
		{"midpoint", 0.5, 0.5},
		{"clamped below", -0.5, 0},
		{"clamped above", 1.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EaseInOutCubic(tt.in), tol)
		})
	}

	// Monotonic over [0, 1].
	prev := float32(-1)
	for i := 0; i <= 100; i++ {
		v := EaseInOutCubic(float32(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestRayIntersectSphere(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		center [3]float32
		radius float32
		wantT  float32
		hit    bool
	}{
		{
			name:   "head-on hit",
			ray:    Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, -1}},
			center: [3]float32{0, 0, 0},
			radius: 1,
			wantT:  9,
			hit:    true,
		},
		{
			name:   "miss to the side",
			ray:    Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, -1}},
			center: [3]float32{5, 0, 0},
			radius: 1,
			hit:    false,
		},
		{
			name:   "sphere behind origin",
			ray:    Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, 1}},
			center: [3]float32{0, 0, 0},
			radius: 1,
			hit:    false,
		},
		{
			name:   "origin inside sphere reports exit",
			ray:    Ray{Origin: [3]float32{0, 0, 0}, Dir: [3]float32{0, 0, -1}},
			center: [3]float32{0, 0, 0},
			radius: 2,
			wantT:  2,
			hit:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, hit := tt.ray.IntersectSphere(tt.center, tt.radius)
			require.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.wantT, gotT, tol)
			}
		})
	}
}

func TestFrustumSphereCulling(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], 0, 0, 50, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], math32.Pi/3, 16.0/9.0, 0.1, 1000)
	Mul4(vp[:], proj[:], view[:])

	f := ExtractFrustumFromMatrix(vp[:])

	// The look-at point is inside; a point far behind the camera is not.
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 2000}, 1))

	// A sphere just outside a side plane still intersects when its radius
	// reaches back across the boundary.
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 45}, 1))
}
