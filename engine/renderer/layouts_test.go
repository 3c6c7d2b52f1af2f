package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraBindGroupLayoutDescriptor(t *testing.T) {
	d := CameraBindGroupLayoutDescriptor()

	require.Len(t, d.Entries, 1)
	assert.Equal(t, uint32(0), d.Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, d.Entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, d.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), d.Entries[0].Buffer.MinBindingSize)
}

func TestNodeBindGroupLayoutDescriptor(t *testing.T) {
	d := NodeBindGroupLayoutDescriptor()

	require.Len(t, d.Entries, 1)
	assert.Equal(t, uint32(0), d.Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex, d.Entries[0].Visibility)
	assert.Equal(t, uint64(64), d.Entries[0].Buffer.MinBindingSize)
}

func TestBodyMaterialBindGroupLayoutDescriptor(t *testing.T) {
	d := BodyMaterialBindGroupLayoutDescriptor()

	require.Len(t, d.Entries, 11)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, d.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(48), d.Entries[0].Buffer.MinBindingSize)

	// Textures at odd bindings, samplers at the following even bindings.
	for i, entry := range d.Entries[1:] {
		binding := uint32(i + 1)
		assert.Equal(t, binding, entry.Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, entry.Visibility)
		if binding%2 == 1 {
			assert.Equal(t, wgpu.TextureSampleTypeFloat, entry.Texture.SampleType)
			assert.Equal(t, wgpu.TextureViewDimension2D, entry.Texture.ViewDimension)
		} else {
			assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entry.Sampler.Type)
		}
	}
}

func TestUnlitMaterialBindGroupLayoutDescriptor(t *testing.T) {
	d := UnlitMaterialBindGroupLayoutDescriptor()

	require.Len(t, d.Entries, 3)
	assert.Equal(t, uint64(48), d.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, d.Entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, d.Entries[2].Sampler.Type)
}

func TestLightBindGroupLayoutDescriptor(t *testing.T) {
	d := LightBindGroupLayoutDescriptor()

	require.Len(t, d.Entries, 1)
	assert.Equal(t, wgpu.ShaderStageFragment, d.Entries[0].Visibility)
	// 16 byte header plus 8 light records of 48 bytes each.
	assert.Equal(t, uint64(400), d.Entries[0].Buffer.MinBindingSize)
}

func TestBindGroupLayoutDescriptorsForKey(t *testing.T) {
	groups := map[string]int{
		pipeline.KeyBody:               4,
		pipeline.KeyUnlit:              3,
		pipeline.KeyUnlitBlend:         3,
		pipeline.KeyUnlitAdditive:      3,
		pipeline.KeyUnlitBlendTwoSided: 3,
		pipeline.KeyStarfield:          2,
	}
	for key, want := range groups {
		descriptors, err := bindGroupLayoutDescriptorsForKey(key)
		require.NoError(t, err, key)
		assert.Len(t, descriptors, want, key)
	}

	_, err := bindGroupLayoutDescriptorsForKey("nonsense")
	assert.Error(t, err)
}

func TestRendererBuilderOptions(t *testing.T) {
	r := &renderer{pipelineCache: make(map[string]pipeline.Pipeline)}

	WithPresentMode(PresentModeVSync)(r)
	require.NotNil(t, r.pendingPresentMode)
	assert.Equal(t, PresentModeVSync, *r.pendingPresentMode)

	WithMSAA(MSAAOff)(r)
	require.NotNil(t, r.pendingMSAA)
	assert.Equal(t, MSAAOff, *r.pendingMSAA)

	WithClearColor(wgpu.Color{R: 0.1, A: 1})(r)
	require.NotNil(t, r.pendingClearColor)
	assert.Equal(t, 0.1, r.pendingClearColor.R)

	WithForceSoftwareRenderer(true)(r)
	assert.True(t, r.forceFallbackAdapter)

	p := pipeline.NewPipeline(pipeline.KeyUnlit)
	WithPipeline(pipeline.KeyUnlit, p)(r)
	assert.Equal(t, p, r.pipelineCache[pipeline.KeyUnlit])
}
