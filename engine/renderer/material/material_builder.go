package material

import (
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*materialImpl)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.name = name
	}
}

// WithColor is an option builder that sets the RGBA base color of the material.
// The alpha channel is the opacity.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [4]float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.color = color
	}
}

// WithEmissive is an option builder that sets the emissive color and intensity.
//
// Parameters:
//   - emissive: the emissive RGB color
//   - intensity: the emissive multiplier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(emissive [3]float32, intensity float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.emissive = emissive
		m.emissiveIntensity = intensity
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.roughness = roughness
	}
}

// WithMetalness is an option builder that sets the metalness factor of the material.
//
// Parameters:
//   - metalness: the metalness factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.metalness = metalness
	}
}

// WithOpacity is an option builder that sets the opacity (the alpha channel of
// the base color).
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.color[3] = opacity
	}
}

// WithTransparent is an option builder that marks the material as alpha blended.
//
// Parameters:
//   - transparent: true to enable alpha blending
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.transparent = transparent
	}
}

// WithDepthWrite is an option builder that sets whether the material writes to
// the depth buffer.
//
// Parameters:
//   - depthWrite: true to enable depth writes
//
// Returns:
//   - MaterialBuilderOption: a function that applies the depth write option to a material
func WithDepthWrite(depthWrite bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.depthWrite = depthWrite
	}
}

// WithDoubleSided is an option builder that disables backface culling for the material.
//
// Parameters:
//   - doubleSided: true to render both faces
//
// Returns:
//   - MaterialBuilderOption: a function that applies the double-sided option to a material
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.doubleSided = doubleSided
	}
}

// WithAlbedoTexture is an option builder that binds an albedo texture handle.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo texture option to a material
func WithAlbedoTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.albedoTexture = tex
	}
}

// WithNormalTexture is an option builder that binds a normal map handle.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal texture option to a material
func WithNormalTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.normalTexture = tex
	}
}

// WithRoughnessTexture is an option builder that binds a roughness map handle.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness texture option to a material
func WithRoughnessTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.roughnessTexture = tex
	}
}

// WithSpecularTexture is an option builder that binds a specular map handle.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular texture option to a material
func WithSpecularTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.specularTexture = tex
	}
}

// WithEmissiveTexture is an option builder that binds an emissive map handle.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive texture option to a material
func WithEmissiveTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.emissiveTexture = tex
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.pipelineKey = key
	}
}
