// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Level 0 lives in Pixels; any pre-generated mip levels follow in Mips with
// dimensions halved (floored, minimum 1) per level.
type TextureStagingData struct {
	// Pixels is the byte slice representing the base-level pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
	// Mips holds pre-generated RGBA data for mip levels 1..n, ordered from
	// largest to smallest. Empty when only the base level exists.
	Mips [][]byte
	// Linear requests a non-sRGB texture format. Data textures such as normal and
	// roughness maps encode vectors or scalars rather than colors and must not be
	// gamma-decoded on sampling.
	Linear bool
}

// MipLevelCount returns the total number of mip levels including the base.
func (t *TextureStagingData) MipLevelCount() uint32 {
	return uint32(1 + len(t.Mips))
}

// MipDimensions returns the pixel dimensions of the given mip level.
func (t *TextureStagingData) MipDimensions(level uint32) (uint32, uint32) {
	w, h := t.Width, t.Height
	for range level {
		w = max(w/2, 1)
		h = max(h/2, 1)
	}
	return w, h
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// The asset loader fills this with the engine's texture policy (clamp-to-edge
// addressing, trilinear filtering, capped anisotropy) before upload.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering, which can improve texture quality at oblique viewing angles.
	MaxAnisotropy uint16
}
