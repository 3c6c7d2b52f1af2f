package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// Texture presence flags packed into GPUMaterialParams.TextureFlags. The shader
// samples a map only when its bit is set and falls back to the scalar parameter
// otherwise.
const (
	FlagAlbedoMap    uint32 = 1 << 0
	FlagNormalMap    uint32 = 1 << 1
	FlagRoughnessMap uint32 = 1 << 2
	FlagSpecularMap  uint32 = 1 << 3
	FlagEmissiveMap  uint32 = 1 << 4
)

// GPUMaterialParamsSource is the canonical WGSL definition of the MaterialParams struct.
// Matches GPUMaterialParams layout exactly (48 bytes, std140 aligned).
//
//go:embed assets/material_params.wgsl
var GPUMaterialParamsSource string

// GPUMaterialParams is the GPU-aligned per-material uniform for the lit and
// unlit fragment shaders. Matches the WGSL MaterialParams struct layout exactly
// (see GPUMaterialParamsSource).
// Size: 48 bytes (std140 / WGSL aligned).
type GPUMaterialParams struct {
	Color             [4]float32 // offset  0: RGBA base color; alpha is the opacity
	Emissive          [3]float32 // offset 16: emissive RGB
	EmissiveIntensity float32    // offset 28: emissive multiplier
	Roughness         float32    // offset 32: roughness factor
	Metalness         float32    // offset 36: metalness factor
	Kind              uint32     // offset 40: 0 = standard, 1 = basic, 2 = emissive
	TextureFlags      uint32     // offset 44: map presence bitmask
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Color[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Emissive[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Emissive[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Emissive[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.EmissiveIntensity))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Metalness))
	binary.LittleEndian.PutUint32(buf[40:44], g.Kind)
	binary.LittleEndian.PutUint32(buf[44:48], g.TextureFlags)
	return buf
}

// ToGPUMaterialParams converts a Material into the GPU-aligned uniform struct,
// deriving the texture presence flags from which handles are currently bound.
//
// Parameters:
//   - m: the Material to convert
//
// Returns:
//   - GPUMaterialParams: the GPU-aligned representation
func ToGPUMaterialParams(m Material) GPUMaterialParams {
	var flags uint32
	if m.AlbedoTexture() != nil {
		flags |= FlagAlbedoMap
	}
	if m.NormalTexture() != nil {
		flags |= FlagNormalMap
	}
	if m.RoughnessTexture() != nil {
		flags |= FlagRoughnessMap
	}
	if m.SpecularTexture() != nil {
		flags |= FlagSpecularMap
	}
	if m.EmissiveTexture() != nil {
		flags |= FlagEmissiveMap
	}
	return GPUMaterialParams{
		Color:             m.Color(),
		Emissive:          m.Emissive(),
		EmissiveIntensity: m.EmissiveIntensity(),
		Roughness:         m.Roughness(),
		Metalness:         m.Metalness(),
		Kind:              uint32(m.Kind()),
		TextureFlags:      flags,
	}
}
