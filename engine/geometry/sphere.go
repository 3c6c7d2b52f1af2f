package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
)

// BuildSphere generates a UV sphere with the given radius and tessellation.
// Vertices run pole to pole in rings; each ring sweeps the full longitude.
// The seam column is duplicated so texture coordinates wrap cleanly, and
// triangles wind counter-clockwise viewed from outside so back-face culling
// applies.
//
// Parameters:
//   - radius: sphere radius in model units
//   - rings: latitudinal subdivisions (>= 2)
//   - segments: longitudinal subdivisions (>= 3)
//
// Returns:
//   - *Mesh: the generated sphere mesh
func BuildSphere(radius float32, rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	vertexCount := (rings + 1) * (segments + 1)
	vertices := make([]Vertex, 0, vertexCount)

	for ring := 0; ring <= rings; ring++ {
		theta := float32(ring) * math32.Pi / float32(rings)
		sinTheta := math32.Sin(theta)
		cosTheta := math32.Cos(theta)

		for seg := 0; seg <= segments; seg++ {
			phi := float32(seg) * 2 * math32.Pi / float32(segments)

			x := math32.Cos(phi) * sinTheta
			y := cosTheta
			z := math32.Sin(phi) * sinTheta

			vertices = append(vertices, Vertex{
				Position: [3]float32{x * radius, y * radius, z * radius},
				Normal:   [3]float32{x, y, z},
				TexCoord: [2]float32{
					float32(seg) / float32(segments),
					float32(ring) / float32(rings),
				},
			})
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint32(ring*(segments+1) + seg)
			b := a + uint32(segments) + 1

			indices = append(indices,
				a, a+1, b,
				a+1, b+1, b,
			)
		}
	}

	return &Mesh{
		Name:           fmt.Sprintf("sphere-%dx%d", rings, segments),
		Vertices:       vertices,
		Indices:        indices,
		BoundingRadius: radius,
	}
}

// BuildRing generates a flat annulus in the XZ plane for planetary rings.
// Texture U runs radially from the inner edge (0) to the outer edge (1) so a
// banded 1D texture produces concentric rings; V runs around the circle.
//
// Parameters:
//   - innerRadius: inner edge of the annulus
//   - outerRadius: outer edge of the annulus (> innerRadius)
//   - thetaSegments: angular subdivisions (>= 3)
//
// Returns:
//   - *Mesh: the generated ring mesh, facing +Y
func BuildRing(innerRadius, outerRadius float32, thetaSegments int) *Mesh {
	if thetaSegments < 3 {
		thetaSegments = 3
	}
	if outerRadius <= innerRadius {
		outerRadius = innerRadius + 1
	}

	vertices := make([]Vertex, 0, (thetaSegments+1)*2)
	for seg := 0; seg <= thetaSegments; seg++ {
		phi := float32(seg) * 2 * math32.Pi / float32(thetaSegments)
		cos := math32.Cos(phi)
		sin := math32.Sin(phi)
		v := float32(seg) / float32(thetaSegments)

		vertices = append(vertices,
			Vertex{
				Position: [3]float32{cos * innerRadius, 0, sin * innerRadius},
				Normal:   [3]float32{0, 1, 0},
				TexCoord: [2]float32{0, v},
			},
			Vertex{
				Position: [3]float32{cos * outerRadius, 0, sin * outerRadius},
				Normal:   [3]float32{0, 1, 0},
				TexCoord: [2]float32{1, v},
			},
		)
	}

	indices := make([]uint32, 0, thetaSegments*6)
	for seg := 0; seg < thetaSegments; seg++ {
		inner := uint32(seg * 2)
		outer := inner + 1

		indices = append(indices,
			inner, inner+2, outer,
			outer, inner+2, outer+2,
		)
	}

	return &Mesh{
		Name:           fmt.Sprintf("ring-%g-%g", innerRadius, outerRadius),
		Vertices:       vertices,
		Indices:        indices,
		BoundingRadius: outerRadius,
	}
}
