// Package body turns catalog records into renderable scene nodes: the primary
// sphere, atmosphere and glow shells, and ring planes, plus the orbital and
// rotational animation, hover highlighting, and selection state that drive
// them. The manager owns an explicit id-keyed registry; nothing here is
// process-global.
package body

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/assets"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/orrery/engine/renderer/material"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
	"github.com/Carmen-Shannon/orrery/engine/scene"
)

// ErrDisposed is returned by Manager operations invoked after Dispose.
var ErrDisposed = errors.New("body manager is disposed")

const (
	// atmosphereScale is the shell radius multiplier over a body's surface.
	atmosphereScale = 1.025

	// atmosphereOpacity is the alpha of the translucent atmosphere shell.
	atmosphereOpacity = 0.18

	// starPulseSpeed is the angular frequency of the star breathing cycle in
	// radians per second; starPulseAmplitude scales the surface, and
	// glowPulseAmplitude scales the glow shells around their base size.
	starPulseSpeed     = 1.6
	starPulseAmplitude = 0.015
	glowPulseAmplitude = 0.04

	// highlightEmissiveBoost raises the emissive intensity of a highlighted
	// lit body so the tint survives a zero base intensity.
	highlightEmissiveBoost = 1.0

	// highlightOpacityFactor multiplies the opacity of highlighted unlit and
	// emissive bodies, clamped to 1.
	highlightOpacityFactor = 1.35

	// defaultRotationSpeed is the axial spin for bodies absent from the named
	// spin table, in radians per second.
	defaultRotationSpeed = 0.005

	// defaultOrbitVerticalAmplitude is the height of the orbital bob in world
	// units unless WithOrbitVerticalAmplitude overrides it.
	defaultOrbitVerticalAmplitude = 0.5
)

// highlightEmissiveTint is the fixed emissive delta added to a highlighted
// lit body's snapshot emissive.
var highlightEmissiveTint = [3]float32{0.3, 0.3, 0.3}

// rotationSpeeds is the per-body axial spin table in radians per second.
// Venus and uranus spin retrograde. Bodies not listed use
// defaultRotationSpeed.
var rotationSpeeds = map[string]float32{
	"sun":     0.004,
	"mercury": 0.004,
	"venus":   -0.002,
	"earth":   0.01,
	"moon":    0.001,
	"mars":    0.009,
	"jupiter": 0.02,
	"saturn":  0.018,
	"uranus":  -0.012,
	"neptune": 0.011,
	"pluto":   0.002,
}

// highDetailBodies are the named planets that share the gas giant detail
// bias: large silhouettes that must stay visibly round from far away.
var highDetailBodies = map[string]struct{}{
	"earth":   {},
	"jupiter": {},
	"saturn":  {},
	"uranus":  {},
	"neptune": {},
}

// glowLayer describes one additive shell of a star's glow stack.
type glowLayer struct {
	suffix     string
	scale      float32
	alpha      float32
	pulsePhase float32
}

// glowLayers is the fixed inner-to-outer glow stack applied to stars. Shells
// grow progressively larger and dimmer, and their pulse phases are offset so
// the stack breathes out of step.
var glowLayers = []glowLayer{
	{suffix: "glow-inner", scale: 1.18, alpha: 0.34, pulsePhase: 0},
	{suffix: "glow-corona", scale: 1.45, alpha: 0.16, pulsePhase: 2.1},
	{suffix: "glow-distant", scale: 2.1, alpha: 0.06, pulsePhase: 4.2},
}

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.RWMutex

	sc     scene.Scene
	loader assets.Loader
	cache  geometry.Cache
	r      renderer.Renderer

	bodies map[string]*body
	// order preserves insertion order so iteration and teardown are
	// deterministic.
	order []string

	// meshProviders caches the GPU buffer provider per cached mesh so every
	// body drawing the same tier shares one upload. Keyed by mesh name.
	meshProviders map[string]bind_group_provider.BindGroupProvider

	defaultTier       geometry.Tier
	verticalAmplitude float32
	rotationOverride  map[string]float32

	highlightedID string
	selectedID    string

	clock float64

	disposed bool
}

// Manager builds, animates, and tracks the celestial bodies of the loaded
// system. Bodies register their parts with the scene on creation and
// unregister on teardown; the manager owns every per-body GPU resource and
// the shared mesh uploads. All methods are safe for concurrent use.
type Manager interface {
	// CreateBody builds the renderable node for a catalog record and
	// registers its parts with the scene: the primary sphere, a translucent
	// atmosphere shell when the record names an atmosphere color, a ring
	// plane when it carries a ring descriptor, and the three-layer glow stack
	// for stars.
	//
	// Parameters:
	//   - rec: the catalog record to instantiate
	//
	// Returns:
	//   - Body: the constructed body
	//   - error: ErrDisposed after Dispose, a validation error for malformed
	//     or duplicate records, or any GPU resource failure
	CreateBody(rec catalog.Record) (Body, error)

	// Body retrieves a body by id.
	//
	// Parameters:
	//   - id: the record id
	//
	// Returns:
	//   - Body: the body, or nil when the id is not registered
	Body(id string) Body

	// Bodies retrieves every registered body in creation order.
	//
	// Returns:
	//   - []Body: a copy of the registry
	Bodies() []Body

	// Count retrieves the number of registered bodies.
	//
	// Returns:
	//   - int: the registry size
	Count() int

	// UpdateAnimations advances orbital motion, axial spin, and star pulsing
	// by dt seconds. Non-positive deltas are ignored so a paused clock
	// freezes the system in place.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	UpdateAnimations(dt float64)

	// HighlightBody clears the hover highlight from every body, then applies
	// it to the named one. Lit bodies gain a fixed emissive tint; unlit and
	// emissive bodies gain opacity. An empty id or an unknown id leaves
	// nothing highlighted.
	//
	// Parameters:
	//   - id: the record id to highlight, or "" to clear
	HighlightBody(id string)

	// HighlightedBody retrieves the id of the currently highlighted body.
	//
	// Returns:
	//   - string: the highlighted id, or "" when none
	HighlightedBody() string

	// Select marks the named body as the current selection. Selection is
	// independent of hover highlighting. An empty id clears the selection;
	// an unknown id is ignored.
	//
	// Parameters:
	//   - id: the record id to select, or "" to clear
	Select(id string)

	// Selected retrieves the id of the currently selected body.
	//
	// Returns:
	//   - string: the selected id, or "" when none
	Selected() string

	// SetBodyTier swaps the named body's primary sphere to the given detail
	// tier, reusing the shared mesh upload for that tier. Unknown ids and
	// already-active tiers are no-ops.
	//
	// Parameters:
	//   - id: the record id
	//   - tier: the target detail tier
	SetBodyTier(id string, tier geometry.Tier)

	// ReplaceBodies tears down the current body set and builds one from the
	// given records, switching the displayed system in place. Shared mesh
	// uploads survive the swap. On error the set holds the bodies created
	// before the failure.
	//
	// Parameters:
	//   - records: the replacement body records
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, or the first creation failure
	ReplaceBodies(records []catalog.Record) error

	// Dispose removes every body from the scene, releases all per-body and
	// shared GPU resources, and clears the registry. Safe to call repeatedly.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

var _ Manager = &manager{}

// NewManager creates a body manager bound to the scene it registers drawables
// with, the asset loader it builds materials through, the geometry cache it
// draws meshes from, and the renderer that owns the GPU resources.
//
// Parameters:
//   - sc: the scene bodies render in
//   - loader: the asset loader for textures and materials
//   - cache: the shared geometry cache
//   - r: the renderer
//   - options: variadic list of ManagerBuilderOption functions to configure the Manager
//
// Returns:
//   - Manager: a new Manager instance
func NewManager(sc scene.Scene, loader assets.Loader, cache geometry.Cache, r renderer.Renderer, options ...ManagerBuilderOption) Manager {
	if sc == nil {
		panic("body: NewManager requires a non-nil Scene")
	}
	if loader == nil {
		panic("body: NewManager requires a non-nil Loader")
	}
	if cache == nil {
		panic("body: NewManager requires a non-nil Cache")
	}
	if r == nil {
		panic("body: NewManager requires a non-nil Renderer")
	}

	m := &manager{
		mu:                &sync.RWMutex{},
		sc:                sc,
		loader:            loader,
		cache:             cache,
		r:                 r,
		bodies:            make(map[string]*body),
		meshProviders:     make(map[string]bind_group_provider.BindGroupProvider),
		defaultTier:       geometry.TierMedium,
		verticalAmplitude: defaultOrbitVerticalAmplitude,
		rotationOverride:  make(map[string]float32),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *manager) CreateBody(rec catalog.Record) (Body, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBodyLocked(rec)
}

func (m *manager) createBodyLocked(rec catalog.Record) (Body, error) {
	if m.disposed {
		return nil, ErrDisposed
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("body record has no id")
	}
	if !rec.Type.Valid() {
		return nil, fmt.Errorf("body %q has unknown type %q", rec.ID, rec.Type)
	}
	if rec.Scale <= 0 {
		return nil, fmt.Errorf("body %q has non-positive scale %g", rec.ID, rec.Scale)
	}
	if _, exists := m.bodies[rec.ID]; exists {
		return nil, fmt.Errorf("body %q already exists", rec.ID)
	}

	b := &body{
		record:        rec,
		category:      CategoryFor(rec),
		tier:          m.defaultTier,
		rotationSpeed: m.rotationSpeedFor(rec.ID),
	}
	if rec.Orbits() {
		// Start the orbit where the catalog placed the body so a freshly
		// loaded system matches its authored layout.
		b.orbitPhase = math32.Atan2(rec.Position[2], rec.Position[0])
	}

	build := func(step func(*body) error) error {
		if err := step(b); err != nil {
			m.releaseBody(b)
			return err
		}
		return nil
	}
	if err := build(m.buildPrimary); err != nil {
		return nil, err
	}
	if err := build(m.buildAtmosphere); err != nil {
		return nil, err
	}
	if err := build(m.buildRing); err != nil {
		return nil, err
	}
	if err := build(m.buildGlows); err != nil {
		return nil, err
	}

	for _, p := range b.all {
		m.sc.AddDrawable(p)
	}
	m.bodies[rec.ID] = b
	m.order = append(m.order, rec.ID)
	return b, nil
}

func (m *manager) Body(id string) Body {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bodies[id]
	if !ok {
		return nil
	}
	return b
}

func (m *manager) Bodies() []Body {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Body, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.bodies[id])
	}
	return out
}

func (m *manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bodies)
}

func (m *manager) UpdateAnimations(dt float64) {
	if dt <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed || len(m.bodies) == 0 {
		return
	}

	m.clock += dt
	clock := float32(m.clock)
	delta := float32(dt)
	for _, id := range m.order {
		m.bodies[id].advance(delta, clock, m.verticalAmplitude)
	}
}

func (m *manager) HighlightBody(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}

	for _, b := range m.bodies {
		b.clearHighlight()
	}
	m.highlightedID = ""

	if id == "" {
		return
	}
	b, ok := m.bodies[id]
	if !ok {
		return
	}
	b.applyHighlight()
	m.highlightedID = id
}

func (m *manager) HighlightedBody() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.highlightedID
}

func (m *manager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	if id == "" {
		m.selectedID = ""
		return
	}
	if _, ok := m.bodies[id]; !ok {
		return
	}
	m.selectedID = id
}

func (m *manager) Selected() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedID
}

func (m *manager) SetBodyTier(id string, tier geometry.Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	b, ok := m.bodies[id]
	if !ok || b.tier == tier {
		return
	}

	mesh := m.cache.Geometry(b.category, tier)
	if mesh == nil {
		return
	}
	prov, err := m.meshProvider(mesh)
	if err != nil {
		log.Printf("[Body] failed to swap %s to tier %s: %v", id, tier, err)
		return
	}
	b.tier = tier
	b.primary.setMesh(mesh, prov)
}

func (m *manager) ReplaceBodies(records []catalog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}

	m.teardownLocked()
	for _, rec := range records {
		if _, err := m.createBodyLocked(rec); err != nil {
			return fmt.Errorf("failed to rebuild body set: %w", err)
		}
	}
	return nil
}

func (m *manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}

	m.teardownLocked()
	for _, prov := range m.meshProviders {
		prov.Release()
	}
	clear(m.meshProviders)
	m.disposed = true
}

func (m *manager) Disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disposed
}

// teardownLocked removes every body's drawables from the scene and releases
// their per-body GPU resources. Highlights are restored first so cached
// materials return to the loader pristine; shared mesh providers stay cached
// for the next body set.
func (m *manager) teardownLocked() {
	for _, id := range m.order {
		b := m.bodies[id]
		b.clearHighlight()
		for _, p := range b.all {
			m.sc.RemoveDrawable(p.label)
		}
		m.releaseBody(b)
	}
	clear(m.bodies)
	m.order = m.order[:0]
	m.highlightedID = ""
	m.selectedID = ""
}

// releaseBody releases the GPU resources owned by one body: node and material
// bind groups per part and the ring texture. Shared mesh providers and
// loader-cached materials are not touched.
func (m *manager) releaseBody(b *body) {
	for _, p := range b.all {
		if p.nodeProv != nil {
			p.nodeProv.Release()
		}
		if p.matProv != nil {
			p.matProv.Release()
		}
	}
	if b.ringTex != nil {
		b.ringTex.Release()
		b.ringTex = nil
	}
}

// buildPrimary constructs the body's main sphere from the cache and the
// loader-built material for its record.
func (m *manager) buildPrimary(b *body) error {
	rec := b.record
	mesh := m.cache.Geometry(b.category, b.tier)
	if mesh == nil {
		return fmt.Errorf("no geometry available for body %q", rec.ID)
	}
	meshProv, err := m.meshProvider(mesh)
	if err != nil {
		return err
	}

	mat, err := m.loader.Material(rec.ID, materialConfigFor(rec))
	if err != nil {
		return fmt.Errorf("failed to build material for body %q: %w", rec.ID, err)
	}

	p, err := m.newPart(rec.ID, mesh, meshProv, mat, rec.Position, [3]float32{rec.Scale, rec.Scale, rec.Scale})
	if err != nil {
		return err
	}
	b.primary = p
	b.all = append(b.all, p)
	return nil
}

// buildAtmosphere adds the translucent shell for records that declare an
// atmosphere color. The shell sits just past the surface and never writes
// depth so the body underneath stays visible and pickable.
func (m *manager) buildAtmosphere(b *body) error {
	if b.record.Material.Atmosphere == "" {
		return nil
	}

	color := catalog.ColorOrDefault(b.record.Material.Atmosphere, [4]float32{0.5, 0.7, 1, 1})
	color[3] = atmosphereOpacity
	mat := material.NewMaterial(material.KindBasic,
		material.WithName(b.record.ID+" atmosphere"),
		material.WithColor(color),
		material.WithTransparent(true),
		material.WithDepthWrite(false),
		material.WithPipelineKey(pipeline.KeyUnlitBlend),
	)

	mesh := m.cache.Geometry(geometry.CategoryPlanet, geometry.TierMedium)
	if mesh == nil {
		return fmt.Errorf("no geometry available for %q atmosphere", b.record.ID)
	}
	meshProv, err := m.meshProvider(mesh)
	if err != nil {
		return err
	}

	s := b.record.Scale * atmosphereScale
	p, err := m.newPart(b.record.ID+" atmosphere", mesh, meshProv, mat, b.record.Position, [3]float32{s, s, s})
	if err != nil {
		return err
	}
	b.atmosphere = p
	b.all = append(b.all, p)
	return nil
}

// buildRing adds the double-sided ring plane for records that carry a ring
// descriptor. The radial alpha banding comes from a generated strip texture;
// ring radii are world units, so the part scale stays identity.
func (m *manager) buildRing(b *body) error {
	rd := b.record.Ring
	if rd == nil {
		return nil
	}

	mesh := m.cache.Ring(rd.InnerRadius, rd.OuterRadius)
	if mesh == nil {
		return fmt.Errorf("no ring geometry available for body %q", b.record.ID)
	}
	meshProv, err := m.meshProvider(mesh)
	if err != nil {
		return err
	}

	tex, err := m.ringTexture(b.record.ID, *rd)
	if err != nil {
		return err
	}
	b.ringTex = tex

	mat := material.NewMaterial(material.KindBasic,
		material.WithName(b.record.ID+" ring"),
		material.WithTransparent(true),
		material.WithDepthWrite(false),
		material.WithDoubleSided(true),
		material.WithPipelineKey(pipeline.KeyUnlitBlendTwoSided),
		material.WithAlbedoTexture(tex),
	)

	p, err := m.newPart(b.record.ID+" ring", mesh, meshProv, mat, b.record.Position, [3]float32{1, 1, 1})
	if err != nil {
		return err
	}
	b.ring = p
	b.all = append(b.all, p)
	return nil
}

// buildGlows adds the three additive glow shells around a star, colored from
// its emissive (or base) color.
func (m *manager) buildGlows(b *body) error {
	if b.record.Type != catalog.TypeStar {
		return nil
	}

	src := common.Coalesce(b.record.Material.Emissive, b.record.Material.Color)
	c := catalog.ColorOrDefault(src, [4]float32{1, 0.9, 0.6, 1})

	mesh := m.cache.Geometry(geometry.CategoryPlanet, geometry.TierLow)
	if mesh == nil {
		return fmt.Errorf("no geometry available for %q glow shells", b.record.ID)
	}
	meshProv, err := m.meshProvider(mesh)
	if err != nil {
		return err
	}

	for _, layer := range glowLayers {
		label := b.record.ID + " " + layer.suffix
		mat := material.NewMaterial(material.KindBasic,
			material.WithName(label),
			material.WithColor([4]float32{c[0], c[1], c[2], layer.alpha}),
			material.WithTransparent(true),
			material.WithDepthWrite(false),
			material.WithPipelineKey(pipeline.KeyUnlitAdditive),
		)

		s := b.record.Scale * layer.scale
		p, err := m.newPart(label, mesh, meshProv, mat, b.record.Position, [3]float32{s, s, s})
		if err != nil {
			return err
		}
		b.glows = append(b.glows, p)
		b.all = append(b.all, p)
	}
	return nil
}

// newPart creates one drawable part: its node bind group, its material bind
// group, and the initial transform. The first frame uploads both uniforms.
func (m *manager) newPart(label string, mesh *geometry.Mesh, meshProv bind_group_provider.BindGroupProvider, mat material.Material, pos, scale [3]float32) (*part, error) {
	nodeProv := bind_group_provider.NewBindGroupProvider(label + " node")
	if err := m.r.InitBindGroup(nodeProv, renderer.NodeBindGroupLayoutDescriptor(), nil, nil); err != nil {
		return nil, fmt.Errorf("failed to create node bind group for %q: %w", label, err)
	}

	matProv, err := m.initMaterialProvider(label, mat)
	if err != nil {
		nodeProv.Release()
		return nil, err
	}

	return &part{
		label:       label,
		mesh:        mesh,
		meshProv:    meshProv,
		nodeProv:    nodeProv,
		matProv:     matProv,
		mat:         mat,
		transparent: mat.Transparent(),
		visible:     true,
		position:    pos,
		scale:       scale,
		nodeDirty:   true,
		matDirty:    true,
	}, nil
}

// initMaterialProvider creates and initializes the group 2 provider for a
// material. Every texture slot the layout declares is bound; slots the
// material leaves empty receive the loader's fallback textures so the bind
// group is always complete.
func (m *manager) initMaterialProvider(label string, mat material.Material) (bind_group_provider.BindGroupProvider, error) {
	prov := bind_group_provider.NewBindGroupProvider(label + " material")

	bindTex := func(binding int, tex, fallback texture.Texture) {
		if tex == nil {
			tex = fallback
		}
		if tex == nil {
			return
		}
		prov.SetTextureView(binding, tex.View())
		prov.SetSampler(binding+1, tex.Sampler())
	}

	var desc wgpu.BindGroupLayoutDescriptor
	if mat.PipelineKey() == pipeline.KeyBody {
		desc = renderer.BodyMaterialBindGroupLayoutDescriptor()
		bindTex(1, mat.AlbedoTexture(), m.loader.FallbackAlbedo())
		bindTex(3, mat.NormalTexture(), m.loader.FallbackNormal())
		bindTex(5, mat.RoughnessTexture(), m.loader.FallbackAlbedo())
		bindTex(7, mat.SpecularTexture(), m.loader.FallbackAlbedo())
		bindTex(9, mat.EmissiveTexture(), m.loader.FallbackEmissive())
	} else {
		desc = renderer.UnlitMaterialBindGroupLayoutDescriptor()
		bindTex(1, mat.AlbedoTexture(), m.loader.FallbackAlbedo())
	}

	if err := m.r.InitBindGroup(prov, desc, nil, nil); err != nil {
		prov.Release()
		return nil, fmt.Errorf("failed to create material bind group for %q: %w", label, err)
	}
	return prov, nil
}

// meshProvider returns the shared GPU buffer provider for a cached mesh,
// uploading the mesh on first use. Providers are keyed by mesh name and live
// until the manager is disposed, so a sphere tier uploads once no matter how
// many bodies draw it.
func (m *manager) meshProvider(mesh *geometry.Mesh) (bind_group_provider.BindGroupProvider, error) {
	if prov, ok := m.meshProviders[mesh.Name]; ok {
		return prov, nil
	}

	prov := bind_group_provider.NewBindGroupProvider(mesh.Name)
	if err := m.r.InitMeshBuffers(prov, mesh.VertexBytes(), mesh.IndexBytes(), len(mesh.Indices)); err != nil {
		prov.Release()
		return nil, fmt.Errorf("failed to upload mesh %q: %w", mesh.Name, err)
	}
	m.meshProviders[mesh.Name] = prov
	return prov, nil
}

// ringTexture uploads the procedurally banded strip for a ring descriptor.
// The strip is one texel tall; the ring mesh maps U radially so the bands
// render as concentric gaps.
func (m *manager) ringTexture(id string, rd catalog.RingDescriptor) (texture.Texture, error) {
	staging := common.TextureStagingData{
		Pixels: buildRingPixels(rd),
		Width:  ringTextureWidth,
		Height: 1,
	}
	sampler := common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}

	tex, err := m.r.InitTexture(id+" ring texture", staging, sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create ring texture for %q: %w", id, err)
	}
	return tex, nil
}

func (m *manager) rotationSpeedFor(id string) float32 {
	if s, ok := m.rotationOverride[id]; ok {
		return s
	}
	if s, ok := rotationSpeeds[id]; ok {
		return s
	}
	return defaultRotationSpeed
}

// CategoryFor maps a record onto the geometry cache category that decides its
// detail bias: stars and the named large planets bias up, moons bias down.
//
// Parameters:
//   - rec: the catalog record to classify
//
// Returns:
//   - geometry.Category: the cache category the body draws from
func CategoryFor(rec catalog.Record) geometry.Category {
	switch rec.Type {
	case catalog.TypeStar:
		return geometry.CategoryStar
	case catalog.TypeMoon:
		return geometry.CategoryMoon
	default:
		if _, ok := highDetailBodies[rec.ID]; ok {
			return geometry.CategoryGasGiant
		}
		return geometry.CategoryPlanet
	}
}

// materialConfigFor maps a catalog material descriptor onto a loader material
// config. Stars shade emissive, transparent bodies shade unlit because the
// pipeline set has no lit blend variant, and everything else shades with the
// lit body pipeline.
func materialConfigFor(rec catalog.Record) assets.MaterialConfig {
	md := rec.Material
	cfg := assets.MaterialConfig{
		Kind:         material.KindStandard,
		Color:        catalog.ColorOrDefault(md.Color, [4]float32{1, 1, 1, 1}),
		Transparent:  md.Transparent,
		TextureURL:   md.TextureURL,
		NormalURL:    md.NormalURL,
		RoughnessURL: md.RoughnessURL,
		SpecularURL:  md.SpecularURL,
		EmissiveURL:  md.EmissiveURL,
	}

	switch {
	case rec.Type == catalog.TypeStar:
		cfg.Kind = material.KindEmissive
	case md.Transparent:
		cfg.Kind = material.KindBasic
	}

	if md.Emissive != "" || cfg.Kind == material.KindEmissive {
		src := common.Coalesce(md.Emissive, md.Color)
		c := catalog.ColorOrDefault(src, [4]float32{1, 1, 1, 1})
		cfg.Emissive = [3]float32{c[0], c[1], c[2]}
		cfg.EmissiveIntensity = md.EmissiveIntensity
	}

	if md.Roughness != nil {
		// The config merge treats zero as unset, so an explicit zero clamps
		// up a hair instead of defaulting to fully rough.
		cfg.Roughness = common.Clamp(*md.Roughness, 0.01, 1)
	}
	if md.Metalness != nil {
		cfg.Metalness = common.Clamp(*md.Metalness, 0, 1)
	}
	if md.Opacity != nil {
		cfg.Color[3] = common.Clamp(*md.Opacity, 0, 1)
	}

	return cfg
}
