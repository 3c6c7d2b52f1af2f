package body

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
	"github.com/Carmen-Shannon/orrery/engine/scene"
)

// body is the implementation of the Body interface.
type body struct {
	record   catalog.Record
	category geometry.Category
	tier     geometry.Tier

	primary    *part
	atmosphere *part
	ring       *part
	glows      []*part

	// all holds every part in draw registration order. Assembled
	// incrementally during construction so a failed build can release
	// exactly what was created.
	all []*part

	ringTex texture.Texture

	orbitPhase    float32
	rotationAngle float32
	rotationSpeed float32

	highlighted    bool
	baseCaptured   bool
	baseAppearance material.Appearance
}

// Body is one celestial body instantiated from a catalog record: the primary
// sphere plus any atmosphere shell, ring plane, and star glow shells, animated
// as a unit. The owning Manager registers each part with the scene as an
// individual drawable and mutates the body only between frames; accessors are
// meant to be called from the frame loop.
type Body interface {
	// ID retrieves the unique identifier of the body.
	//
	// Returns:
	//   - string: the record id
	ID() string

	// Record retrieves the catalog record the body was built from.
	//
	// Returns:
	//   - catalog.Record: the immutable source record
	Record() catalog.Record

	// Position retrieves the current world-space position of the body.
	//
	// Returns:
	//   - x: the x position
	//   - y: the y position
	//   - z: the z position
	Position() (x, y, z float32)

	// Scale retrieves the base uniform scale from the record. Star pulse
	// animation varies the rendered scale around this value.
	//
	// Returns:
	//   - float32: the base scale
	Scale() float32

	// BoundingRadius retrieves the current world-space radius of the primary
	// sphere, used for picking and camera framing.
	//
	// Returns:
	//   - float32: the primary bounding radius
	BoundingRadius() float32

	// DetailTier retrieves the geometry detail tier the primary sphere is
	// currently drawn at.
	//
	// Returns:
	//   - geometry.Tier: the active tier
	DetailTier() geometry.Tier

	// Highlighted reports whether the hover highlight is applied to the body.
	//
	// Returns:
	//   - bool: true while highlighted
	Highlighted() bool

	// Drawables retrieves the body's renderable parts in registration order:
	// the primary sphere followed by any atmosphere shell, ring plane, and
	// glow shells.
	//
	// Returns:
	//   - []scene.Drawable: a copy of the part list
	Drawables() []scene.Drawable
}

var _ Body = &body{}

func (b *body) ID() string {
	return b.record.ID
}

func (b *body) Record() catalog.Record {
	return b.record
}

func (b *body) Position() (float32, float32, float32) {
	p := b.primary.position
	return p[0], p[1], p[2]
}

func (b *body) Scale() float32 {
	return b.record.Scale
}

func (b *body) BoundingRadius() float32 {
	return b.primary.BoundsRadius()
}

func (b *body) DetailTier() geometry.Tier {
	return b.tier
}

func (b *body) Highlighted() bool {
	return b.highlighted
}

func (b *body) Drawables() []scene.Drawable {
	out := make([]scene.Drawable, len(b.all))
	for i, p := range b.all {
		out[i] = p
	}
	return out
}

// advance steps the body's animation state by dt seconds. Orbit moves every
// part together, axial spin applies to the primary sphere only, and stars
// pulse their surface and glow shells against the shared clock.
func (b *body) advance(dt, clock, verticalAmplitude float32) {
	if b.record.Orbits() {
		b.orbitPhase = wrapAngle(b.orbitPhase + b.record.OrbitSpeed*dt)
		r := b.record.OrbitRadius
		pos := [3]float32{
			r * math32.Cos(b.orbitPhase),
			verticalAmplitude * math32.Sin(2*b.orbitPhase),
			r * math32.Sin(b.orbitPhase),
		}
		for _, p := range b.all {
			p.setPosition(pos)
		}
	}

	b.rotationAngle = wrapAngle(b.rotationAngle + b.rotationSpeed*dt)
	b.primary.setRotation([3]float32{0, b.rotationAngle, 0})

	if b.record.Type == catalog.TypeStar {
		s := b.record.Scale * (1 + starPulseAmplitude*math32.Sin(starPulseSpeed*clock))
		b.primary.setScale([3]float32{s, s, s})
		for i, g := range b.glows {
			layer := glowLayers[i]
			gs := b.record.Scale * layer.scale * (1 + glowPulseAmplitude*math32.Sin(starPulseSpeed*clock+layer.pulsePhase))
			g.setScale([3]float32{gs, gs, gs})
		}
	}
}

// applyHighlight mutates the primary material with the hover delta. The
// pre-highlight appearance is captured exactly once so repeated highlight
// cycles always restore the original values.
func (b *body) applyHighlight() {
	if b.highlighted {
		return
	}
	if !b.baseCaptured {
		b.baseAppearance = b.primary.mat.Appearance()
		b.baseCaptured = true
	}

	base := b.baseAppearance
	switch b.primary.mat.Kind() {
	case material.KindStandard:
		b.primary.mat.SetEmissive([3]float32{
			base.Emissive[0] + highlightEmissiveTint[0],
			base.Emissive[1] + highlightEmissiveTint[1],
			base.Emissive[2] + highlightEmissiveTint[2],
		})
		b.primary.mat.SetEmissiveIntensity(base.EmissiveIntensity + highlightEmissiveBoost)
	default:
		b.primary.mat.SetOpacity(common.Clamp(base.Color[3]*highlightOpacityFactor, 0, 1))
	}
	b.highlighted = true
	b.primary.markMaterialDirty()
}

// clearHighlight restores the snapshotted appearance. No-op when the body is
// not highlighted.
func (b *body) clearHighlight() {
	if !b.highlighted {
		return
	}
	if b.baseCaptured {
		b.primary.mat.ApplyAppearance(b.baseAppearance)
	}
	b.highlighted = false
	b.primary.markMaterialDirty()
}

// wrapAngle keeps an accumulating angle within one turn of zero in either
// direction so long sessions never lose float precision.
func wrapAngle(a float32) float32 {
	const turn = 2 * math32.Pi
	if a > turn {
		return a - turn
	}
	if a < -turn {
		return a + turn
	}
	return a
}

// part is one renderable unit of a body: the primary sphere, an atmosphere or
// glow shell, or a ring plane. Parts are mutated only by the owning manager
// between frames; PrepareFrame and CollectWrites touch nothing outside the
// part itself, which keeps them safe on the scene's worker pool.
type part struct {
	label    string
	mesh     *geometry.Mesh
	meshProv bind_group_provider.BindGroupProvider
	nodeProv bind_group_provider.BindGroupProvider
	matProv  bind_group_provider.BindGroupProvider
	mat      material.Material

	transparent bool
	visible     bool

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	nodeData  geometry.GPUNodeData
	nodeDirty bool
	matDirty  bool

	stagedNode []byte
	stagedMat  []byte
}

var _ scene.Drawable = &part{}

func (p *part) Label() string {
	return p.label
}

func (p *part) PipelineKey() string {
	return p.mat.PipelineKey()
}

func (p *part) MeshProvider() bind_group_provider.BindGroupProvider {
	return p.meshProv
}

func (p *part) NodeProvider() bind_group_provider.BindGroupProvider {
	return p.nodeProv
}

func (p *part) MaterialProvider() bind_group_provider.BindGroupProvider {
	return p.matProv
}

func (p *part) InstanceCount() uint32 {
	return 1
}

func (p *part) Visible() bool {
	return p.visible
}

func (p *part) Transparent() bool {
	return p.transparent
}

func (p *part) BoundsCenter() [3]float32 {
	return p.position
}

func (p *part) BoundsRadius() float32 {
	s := p.scale[0]
	if p.scale[1] > s {
		s = p.scale[1]
	}
	if p.scale[2] > s {
		s = p.scale[2]
	}
	return p.mesh.BoundingRadius * s
}

func (p *part) PrepareFrame() {
	if p.nodeDirty {
		common.BuildModelMatrix(p.nodeData.Model[:],
			p.position[0], p.position[1], p.position[2],
			p.rotation[0], p.rotation[1], p.rotation[2],
			p.scale[0], p.scale[1], p.scale[2],
		)
		p.stagedNode = p.nodeData.Marshal()
		p.nodeDirty = false
	}
	if p.matDirty {
		params := material.ToGPUMaterialParams(p.mat)
		p.stagedMat = params.Marshal()
		p.matDirty = false
	}
}

func (p *part) CollectWrites(dst []bind_group_provider.BufferWrite) []bind_group_provider.BufferWrite {
	if p.stagedNode != nil {
		dst = append(dst, bind_group_provider.BufferWrite{Provider: p.nodeProv, Binding: 0, Data: p.stagedNode})
		p.stagedNode = nil
	}
	if p.stagedMat != nil {
		dst = append(dst, bind_group_provider.BufferWrite{Provider: p.matProv, Binding: 0, Data: p.stagedMat})
		p.stagedMat = nil
	}
	return dst
}

func (p *part) setPosition(pos [3]float32) {
	if p.position == pos {
		return
	}
	p.position = pos
	p.nodeDirty = true
}

func (p *part) setRotation(rot [3]float32) {
	if p.rotation == rot {
		return
	}
	p.rotation = rot
	p.nodeDirty = true
}

func (p *part) setScale(s [3]float32) {
	if p.scale == s {
		return
	}
	p.scale = s
	p.nodeDirty = true
}

func (p *part) setMesh(mesh *geometry.Mesh, prov bind_group_provider.BindGroupProvider) {
	p.mesh = mesh
	p.meshProv = prov
}

func (p *part) markMaterialDirty() {
	p.matDirty = true
}
