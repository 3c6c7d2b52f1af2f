package material

import (
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
)

// MaterialKind identifies the shading model a material uses. The kind is fixed
// at construction and selects the render pipeline family; per-kind parameters
// that do not apply (emissive on a basic material, for example) are carried as
// zero values and ignored by the shader.
type MaterialKind int

const (
	// KindStandard is the lit shading model used for planet and moon surfaces.
	// Evaluates the scene lights against the full texture set.
	KindStandard MaterialKind = iota

	// KindBasic is the unlit shading model used for rings, atmosphere shells,
	// glow shells, orbit lines, and any body whose texture failed to load.
	// Outputs color (optionally modulated by an albedo texture) directly.
	KindBasic

	// KindEmissive is the self-lit shading model used for star surfaces.
	// Outputs color plus the emissive term at full strength, ignoring scene lights.
	KindEmissive
)

// String returns the lowercase name of the material kind.
//
// Returns:
//   - string: "standard", "basic", or "emissive"
func (k MaterialKind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindBasic:
		return "basic"
	case KindEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

// Appearance captures the mutable visual state of a material that highlighting
// and animation touch. Snapshotting an Appearance before mutation and applying
// it back restores the material exactly.
type Appearance struct {
	Color             [4]float32 // RGBA base color; alpha is the opacity
	Emissive          [3]float32 // emissive RGB
	EmissiveIntensity float32    // emissive multiplier
}

// materialImpl is the implementation of the Material interface.
type materialImpl struct {
	name              string
	kind              MaterialKind
	color             [4]float32
	emissive          [3]float32
	emissiveIntensity float32
	roughness         float32
	metalness         float32
	transparent       bool
	depthWrite        bool
	doubleSided       bool
	pipelineKey       string
	albedoTexture     texture.Texture
	normalTexture     texture.Texture
	roughnessTexture  texture.Texture
	specularTexture   texture.Texture
	emissiveTexture   texture.Texture
}

// Material defines the interface for a render material, encapsulating the
// shading model, surface properties, texture references, and the pipeline key
// used for draw calls.
//
// The kind and blend/depth flags are set at construction and are read-only.
// Colors and texture references are mutable: the asset loader swaps textures
// in after asynchronous fetches resolve, and the body manager mutates emissive
// state for hover highlighting and restores it from an Appearance snapshot.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the shading model of the material.
	//
	// Returns:
	//   - MaterialKind: the material kind
	Kind() MaterialKind

	// Color retrieves the RGBA base color. The alpha channel is the opacity.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	Color() [4]float32

	// Emissive retrieves the emissive RGB color.
	//
	// Returns:
	//   - [3]float32: the emissive color
	Emissive() [3]float32

	// EmissiveIntensity retrieves the emissive multiplier.
	//
	// Returns:
	//   - float32: the emissive intensity
	EmissiveIntensity() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Metalness retrieves the metalness factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 a fully metallic surface.
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// Opacity retrieves the opacity (the alpha channel of the base color).
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// Transparent reports whether the material renders with alpha blending.
	//
	// Returns:
	//   - bool: true if the material is alpha blended
	Transparent() bool

	// DepthWrite reports whether the material writes to the depth buffer.
	// Atmosphere and glow shells disable depth writes so bodies behind them
	// stay pickable and visible.
	//
	// Returns:
	//   - bool: true if depth writes are enabled
	DepthWrite() bool

	// DoubleSided reports whether backface culling is disabled for the material.
	// Ring planes are visible from both sides.
	//
	// Returns:
	//   - bool: true if the material renders both faces
	DoubleSided() bool

	// AlbedoTexture retrieves the albedo texture handle, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the albedo texture, or nil
	AlbedoTexture() texture.Texture

	// NormalTexture retrieves the normal map handle, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the normal texture, or nil
	NormalTexture() texture.Texture

	// RoughnessTexture retrieves the roughness map handle, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the roughness texture, or nil
	RoughnessTexture() texture.Texture

	// SpecularTexture retrieves the specular map handle, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the specular texture, or nil
	SpecularTexture() texture.Texture

	// EmissiveTexture retrieves the emissive map handle, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the emissive texture, or nil
	EmissiveTexture() texture.Texture

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Appearance retrieves a snapshot of the mutable visual state (color,
	// emissive, emissive intensity).
	//
	// Returns:
	//   - Appearance: the current appearance
	Appearance() Appearance

	// ApplyAppearance restores the mutable visual state from a snapshot.
	//
	// Parameters:
	//   - a: the appearance to restore
	ApplyAppearance(a Appearance)

	// SetColor sets the RGBA base color.
	//
	// Parameters:
	//   - color: the base color as RGBA values
	SetColor(color [4]float32)

	// SetEmissive sets the emissive RGB color.
	//
	// Parameters:
	//   - emissive: the emissive color
	SetEmissive(emissive [3]float32)

	// SetEmissiveIntensity sets the emissive multiplier.
	//
	// Parameters:
	//   - intensity: the emissive intensity
	SetEmissiveIntensity(intensity float32)

	// SetOpacity sets the opacity (the alpha channel of the base color).
	//
	// Parameters:
	//   - opacity: the opacity in [0, 1]
	SetOpacity(opacity float32)

	// SetAlbedoTexture binds an albedo texture handle. Passing nil unbinds.
	//
	// Parameters:
	//   - tex: the texture handle, or nil
	SetAlbedoTexture(tex texture.Texture)

	// SetNormalTexture binds a normal map handle. Passing nil unbinds.
	//
	// Parameters:
	//   - tex: the texture handle, or nil
	SetNormalTexture(tex texture.Texture)

	// SetRoughnessTexture binds a roughness map handle. Passing nil unbinds.
	//
	// Parameters:
	//   - tex: the texture handle, or nil
	SetRoughnessTexture(tex texture.Texture)

	// SetSpecularTexture binds a specular map handle. Passing nil unbinds.
	//
	// Parameters:
	//   - tex: the texture handle, or nil
	SetSpecularTexture(tex texture.Texture)

	// SetEmissiveTexture binds an emissive map handle. Passing nil unbinds.
	//
	// Parameters:
	//   - tex: the texture handle, or nil
	SetEmissiveTexture(tex texture.Texture)

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)
}

var _ Material = &materialImpl{}

// NewMaterial creates a new Material of the specified kind configured with the
// provided options.
//
// Parameters:
//   - kind: the shading model for the material
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(kind MaterialKind, options ...MaterialBuilderOption) Material {
	m := &materialImpl{
		kind:       kind,
		color:      [4]float32{1, 1, 1, 1},
		roughness:  1.0,
		metalness:  0.0,
		depthWrite: true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *materialImpl) Name() string {
	return m.name
}

func (m *materialImpl) Kind() MaterialKind {
	return m.kind
}

func (m *materialImpl) Color() [4]float32 {
	return m.color
}

func (m *materialImpl) Emissive() [3]float32 {
	return m.emissive
}

func (m *materialImpl) EmissiveIntensity() float32 {
	return m.emissiveIntensity
}

func (m *materialImpl) Roughness() float32 {
	return m.roughness
}

func (m *materialImpl) Metalness() float32 {
	return m.metalness
}

func (m *materialImpl) Opacity() float32 {
	return m.color[3]
}

func (m *materialImpl) Transparent() bool {
	return m.transparent
}

func (m *materialImpl) DepthWrite() bool {
	return m.depthWrite
}

func (m *materialImpl) DoubleSided() bool {
	return m.doubleSided
}

func (m *materialImpl) AlbedoTexture() texture.Texture {
	return m.albedoTexture
}

func (m *materialImpl) NormalTexture() texture.Texture {
	return m.normalTexture
}

func (m *materialImpl) RoughnessTexture() texture.Texture {
	return m.roughnessTexture
}

func (m *materialImpl) SpecularTexture() texture.Texture {
	return m.specularTexture
}

func (m *materialImpl) EmissiveTexture() texture.Texture {
	return m.emissiveTexture
}

func (m *materialImpl) PipelineKey() string {
	return m.pipelineKey
}

func (m *materialImpl) Appearance() Appearance {
	return Appearance{
		Color:             m.color,
		Emissive:          m.emissive,
		EmissiveIntensity: m.emissiveIntensity,
	}
}

func (m *materialImpl) ApplyAppearance(a Appearance) {
	m.color = a.Color
	m.emissive = a.Emissive
	m.emissiveIntensity = a.EmissiveIntensity
}

func (m *materialImpl) SetColor(color [4]float32) {
	m.color = color
}

func (m *materialImpl) SetEmissive(emissive [3]float32) {
	m.emissive = emissive
}

func (m *materialImpl) SetEmissiveIntensity(intensity float32) {
	m.emissiveIntensity = intensity
}

func (m *materialImpl) SetOpacity(opacity float32) {
	m.color[3] = opacity
}

func (m *materialImpl) SetAlbedoTexture(tex texture.Texture) {
	m.albedoTexture = tex
}

func (m *materialImpl) SetNormalTexture(tex texture.Texture) {
	m.normalTexture = tex
}

func (m *materialImpl) SetRoughnessTexture(tex texture.Texture) {
	m.roughnessTexture = tex
}

func (m *materialImpl) SetSpecularTexture(tex texture.Texture) {
	m.specularTexture = tex
}

func (m *materialImpl) SetEmissiveTexture(tex texture.Texture) {
	m.emissiveTexture = tex
}

func (m *materialImpl) SetPipelineKey(key string) {
	m.pipelineKey = key
}
