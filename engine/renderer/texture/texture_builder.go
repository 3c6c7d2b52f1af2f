package texture

import "github.com/cogentcore/webgpu/wgpu"

// TextureBuilderOption is a function that configures a Texture handle during construction.
type TextureBuilderOption func(*textureImpl)

// WithLabel is an option builder that sets the debug label for the texture handle.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - TextureBuilderOption: a function that applies the label option to a textureImpl
func WithLabel(label string) TextureBuilderOption {
	return func(t *textureImpl) {
		t.label = label
	}
}

// WithHandles is an option builder that sets the underlying GPU resources for the
// texture handle. The handle takes ownership; Release frees all three.
//
// Parameters:
//   - tex: the GPU texture
//   - view: the default texture view
//   - samp: the configured sampler
//
// Returns:
//   - TextureBuilderOption: a function that applies the handles option to a textureImpl
func WithHandles(tex *wgpu.Texture, view *wgpu.TextureView, samp *wgpu.Sampler) TextureBuilderOption {
	return func(t *textureImpl) {
		t.texture = tex
		t.view = view
		t.sampler = samp
	}
}

// WithSize is an option builder that sets the base mip level dimensions.
//
// Parameters:
//   - width: base width in texels
//   - height: base height in texels
//
// Returns:
//   - TextureBuilderOption: a function that applies the size option to a textureImpl
func WithSize(width, height uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.width = width
		t.height = height
	}
}

// WithMipLevelCount is an option builder that sets the number of uploaded mip levels.
//
// Parameters:
//   - count: the mip level count (minimum 1)
//
// Returns:
//   - TextureBuilderOption: a function that applies the mip level option to a textureImpl
func WithMipLevelCount(count uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		if count < 1 {
			count = 1
		}
		t.mipLevelCount = count
	}
}

// WithByteSize is an option builder that sets the estimated GPU memory footprint.
//
// Parameters:
//   - size: estimated bytes across all mip levels
//
// Returns:
//   - TextureBuilderOption: a function that applies the byte size option to a textureImpl
func WithByteSize(size uint64) TextureBuilderOption {
	return func(t *textureImpl) {
		t.byteSize = size
	}
}
