package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("Test Provider")

	assert.Equal(t, "Test Provider", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(0))
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.VertexCount())
	assert.NotNil(t, p.Buffers())
	assert.NotNil(t, p.TextureViews())
	assert.NotNil(t, p.Samplers())
}

func TestBindGroupProviderCounts(t *testing.T) {
	p := NewBindGroupProvider("Counts")

	p.SetIndexCount(2880)
	p.SetVertexCount(6)

	assert.Equal(t, 2880, p.IndexCount())
	assert.Equal(t, 6, p.VertexCount())
}

func TestBindGroupProviderBorrowedReferences(t *testing.T) {
	p := NewBindGroupProvider("Borrowed")

	// The provider only stores the references; releasing it must drop them
	// without touching the underlying GPU objects.
	tv := new(wgpu.TextureView)
	samp := new(wgpu.Sampler)
	p.SetTextureView(1, tv)
	p.SetSampler(2, samp)

	require.Equal(t, tv, p.TextureView(1))
	require.Equal(t, samp, p.Sampler(2))

	p.Release()

	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
	assert.Empty(t, p.TextureViews())
	assert.Empty(t, p.Samplers())
}

func TestBindGroupProviderReleaseIdempotent(t *testing.T) {
	p := NewBindGroupProvider("Idempotent")

	p.Release()
	p.Release()

	assert.Nil(t, p.BindGroup())
	assert.Empty(t, p.Buffers())
}
