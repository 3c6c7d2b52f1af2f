package pipeline

import (
	"github.com/Carmen-Shannon/orrery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Fixed pipeline keys. The engine's draw surface is small enough that every
// pipeline variant is known at compile time; materials select one of these
// keys and the renderer creates all of them during initialization.
const (
	// KeyBody is the lit pipeline for standard materials on planet and moon
	// surfaces. Opaque, depth tested and written.
	KeyBody = "body"

	// KeyUnlit is the unlit pipeline for opaque basic and emissive materials
	// such as star surfaces and texture-fallback bodies.
	KeyUnlit = "unlit"

	// KeyUnlitBlend is the unlit alpha-blended pipeline with depth writes
	// disabled, used for atmosphere shells. Depth testing still rejects the
	// far half of a shell where its body covers it, which concentrates the
	// tint at the limb.
	KeyUnlitBlend = "unlit_blend"

	// KeyUnlitAdditive is KeyUnlitBlend with additive blend factors, used for
	// the star's layered glow shells.
	KeyUnlitAdditive = "unlit_additive"

	// KeyUnlitBlendTwoSided is KeyUnlitBlend without any culling, used for
	// ring planes that are visible from above and below.
	KeyUnlitBlendTwoSided = "unlit_blend_twosided"

	// KeyStarfield is the instanced billboard pipeline for the background
	// starfield. Alpha blended, depth writes disabled.
	KeyStarfield = "starfield"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the underlying WebGPU render pipeline object and the configuration
// used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// shader is the dual entry point shader module this pipeline renders with,
	// required to be set before initializing a pipeline.
	shader shader.Shader

	// vertexLayouts describe the vertex buffer slots the pipeline binds.
	vertexLayouts []wgpu.VertexBufferLayout

	// renderPipeline is the GPU pipeline object, set by the renderer backend after creation
	renderPipeline *wgpu.RenderPipeline

	// The following properties configure the pipeline during creation and can be
	// toggled with the builder options.

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline, encapsulating the
// shader module, vertex buffer layouts, and all fixed-function configuration
// state required for pipeline creation.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader module this pipeline renders with.
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if not set
	Shader() shader.Shader

	// VertexLayouts retrieves the vertex buffer layouts the pipeline binds.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// Pipeline returns the underlying GPU pipeline object, or nil before the
	// renderer backend has created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline object
	Pipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether alpha blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline. Only
	// consulted when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the GPU pipeline object after backend creation.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with the provided key and options applied.
// Defaults are opaque rendering with depth test and write enabled, no culling,
// triangle list topology, and standard premultiplied-friendly alpha blend
// factors ready for pipelines that enable blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
