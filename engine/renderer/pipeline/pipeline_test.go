package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/orrery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline(KeyBody)

	assert.Equal(t, KeyBody, p.PipelineKey())
	assert.Nil(t, p.Shader())
	assert.Empty(t, p.VertexLayouts())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.Pipeline())
}

func TestNewPipelineOptions(t *testing.T) {
	s := shader.NewShader(KeyUnlitBlend, shader.UnlitSource)
	layouts := []wgpu.VertexBufferLayout{{ArrayStride: 32}}

	p := NewPipeline(
		KeyUnlitBlend,
		WithShader(s),
		WithVertexLayouts(layouts...),
		WithDepthTestEnabled(true),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.Equal(t, KeyUnlitBlend, p.PipelineKey())
	assert.Equal(t, s, p.Shader())
	assert.Len(t, p.VertexLayouts(), 1)
	assert.Equal(t, uint64(32), p.VertexLayouts()[0].ArrayStride)
	assert.True(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
}

func TestWithBlendState(t *testing.T) {
	custom := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	p := NewPipeline(KeyStarfield, WithBlendState(custom))
	assert.Equal(t, custom, p.BlendState())
}

func TestPipelineKeysDistinct(t *testing.T) {
	keys := []string{KeyBody, KeyUnlit, KeyUnlitBlend, KeyUnlitAdditive, KeyUnlitBlendTwoSided, KeyStarfield}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate pipeline key %q", k)
		seen[k] = true
	}
}
