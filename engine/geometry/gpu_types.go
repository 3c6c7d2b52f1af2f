package geometry

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches the Vertex layout exactly (32 bytes per vertex).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUNodeDataSource is the canonical WGSL definition of the NodeData struct for
// per-draw model matrices.
// Matches GPUNodeData layout exactly (64 bytes, std140 aligned).
//
//go:embed assets/node_data.wgsl
var GPUNodeDataSource string

// GPUNodeData is the GPU-aligned representation of a single draw's model matrix.
// Matches the WGSL NodeData struct layout exactly (see GPUNodeDataSource).
// Size: 64 bytes (mat4x4<f32>).
type GPUNodeData struct {
	Model [16]float32 // column-major world transform
}

// Size returns the size of the GPUNodeData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUNodeData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUNodeData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPUNodeData) Marshal() []byte {
	buf := make([]byte, 64)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	return buf
}

// StarInstance is the GPU-side instance record for one star, laid out for
// direct upload as an instanced vertex stream (see StarInstanceBufferLayout).
// Alpha carries the current twinkle-modulated brightness, recomputed CPU-side
// each frame from the owning Star.
// Size: 32 bytes.
type StarInstance struct {
	Position [3]float32 // offset  0: world-space position on the shell
	Size     float32    // offset 12: billboard half-extent scale
	Color    [3]float32 // offset 16: RGB color class
	Alpha    float32    // offset 28: current twinkle-modulated alpha
}

// StarInstanceBytes returns the raw byte view of a star instance slice for
// GPU upload.
//
// Parameters:
//   - instances: the instance slice to view
//
// Returns:
//   - []byte: the backing bytes, or nil for an empty slice
func StarInstanceBytes(instances []StarInstance) []byte {
	return common.SliceToBytes(instances)
}

// VertexBufferLayout returns the wgpu vertex buffer layout describing the
// interleaved Vertex attribute stream used by the sphere and ring pipelines.
// Locations: 0 = position, 1 = normal, 2 = uv.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex buffer layout
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// StarInstanceBufferLayout returns the wgpu vertex buffer layout describing the
// per-star instance stream used by the starfield pipeline. The billboard corners
// are generated from the vertex index in the shader, so this is the only buffer
// the pipeline binds. Locations: 0 = position, 1 = size, 2 = color, 3 = alpha.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-instance buffer layout
func StarInstanceBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(StarInstance{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32, Offset: 28, ShaderLocation: 3},
		},
	}
}
