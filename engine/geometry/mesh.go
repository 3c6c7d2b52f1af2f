// package geometry provides the procedural mesh builders and the shared
// geometry cache used by every renderable in the scene. Cached meshes are
// immutable after construction and shared by reference; callers must never
// mutate them.
package geometry

import (
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/chewxy/math32"
)

// Vertex is the interleaved per-vertex layout shared by all mesh pipelines.
// Size: 32 bytes (position 12 + normal 12 + uv 8), matching the WGSL
// VertexInput struct.
type Vertex struct {
	Position [3]float32 // offset  0: vertex position in model space
	Normal   [3]float32 // offset 12: vertex normal for lighting
	TexCoord [2]float32 // offset 24: UV texture coordinate
}

// Mesh is CPU-side geometry pending (or mirrored after) GPU upload.
type Mesh struct {
	// Name identifies the mesh in logs and renderer handles.
	Name string

	// Vertices are the interleaved mesh vertices.
	Vertices []Vertex

	// Indices are the triangle indices.
	Indices []uint32

	// BoundingRadius is the maximum vertex distance from the mesh origin,
	// used for frustum culling and picking.
	BoundingRadius float32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ByteSize returns the summed byte length of the vertex and index arrays.
// This feeds the performance statistics estimate; it approximates, not
// measures, GPU memory.
func (m *Mesh) ByteSize() int {
	return len(m.Vertices)*32 + len(m.Indices)*4
}

// VertexBytes returns the vertex array as raw bytes for GPU upload.
func (m *Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index array as raw bytes for GPU upload.
func (m *Mesh) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

func computeBoundingRadius(vertices []Vertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return math32.Sqrt(maxDistSq)
}
