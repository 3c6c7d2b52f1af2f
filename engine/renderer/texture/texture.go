package texture

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// textureImpl is the implementation of the Texture interface.
type textureImpl struct {
	mu            sync.Mutex
	label         string
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	sampler       *wgpu.Sampler
	width         uint32
	height        uint32
	mipLevelCount uint32
	byteSize      uint64
	released      bool
}

// Texture is a handle to a GPU texture, its default view, and its sampler.
//
// Handles are created by the renderer during texture upload and shared by
// reference: the asset loader caches them per source URL and multiple
// materials may bind the same handle. Release is idempotent; releasing a
// handle that other materials still reference is a caller error, which is
// why release normally happens only through the asset loader's dispose.
type Texture interface {
	// Label retrieves the debug label assigned at upload time.
	//
	// Returns:
	//   - string: the texture label
	Label() string

	// View retrieves the default texture view covering all mip levels, or nil
	// after release.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	View() *wgpu.TextureView

	// Sampler retrieves the sampler configured for this texture, or nil after
	// release.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler() *wgpu.Sampler

	// Width retrieves the base mip level width in texels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height retrieves the base mip level height in texels.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// MipLevelCount retrieves the number of mip levels uploaded.
	//
	// Returns:
	//   - uint32: the mip level count
	MipLevelCount() uint32

	// ByteSize retrieves the estimated GPU memory footprint across all mip
	// levels in bytes.
	//
	// Returns:
	//   - uint64: the byte size estimate
	ByteSize() uint64

	// Release frees the underlying GPU resources. Safe to call more than once;
	// subsequent calls are no-ops and View/Sampler return nil afterwards.
	Release()
}

var _ Texture = &textureImpl{}

// NewTexture creates a new Texture handle configured with the provided options.
// The renderer calls this after creating the underlying GPU resources; other
// packages receive the handle through the asset loader.
//
// Parameters:
//   - options: variadic list of TextureBuilderOption functions to configure the handle
//
// Returns:
//   - Texture: a new Texture handle
func NewTexture(options ...TextureBuilderOption) Texture {
	t := &textureImpl{
		mipLevelCount: 1,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *textureImpl) Label() string {
	return t.label
}

func (t *textureImpl) View() *wgpu.TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return nil
	}
	return t.view
}

func (t *textureImpl) Sampler() *wgpu.Sampler {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return nil
	}
	return t.sampler
}

func (t *textureImpl) Width() uint32 {
	return t.width
}

func (t *textureImpl) Height() uint32 {
	return t.height
}

func (t *textureImpl) MipLevelCount() uint32 {
	return t.mipLevelCount
}

func (t *textureImpl) ByteSize() uint64 {
	return t.byteSize
}

func (t *textureImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true

	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
