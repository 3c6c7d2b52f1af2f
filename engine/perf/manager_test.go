package perf

import (
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/assets"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
	"github.com/Carmen-Shannon/orrery/engine/scene"
)

// fakeRenderer satisfies the renderer interface without a GPU so tier swaps
// run in plain unit tests. Only mesh uploads are recorded.
type fakeRenderer struct {
	mu        sync.Mutex
	pipelines map[string]pipeline.Pipeline
	meshInits []string
}

var _ renderer.Renderer = (*fakeRenderer)(nil)

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipelines[key]
}

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipelines
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range pipelines {
		if _, exists := f.pipelines[p.PipelineKey()]; exists {
			continue
		}
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) SetPipeline(key string, p pipeline.Pipeline) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelines[key] = p
}

func (f *fakeRenderer) SetPipelines(pipelines map[string]pipeline.Pipeline) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelines = pipelines
}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meshInits = append(f.meshInits, provider.Label())
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return nil
}

func (f *fakeRenderer) InitTexture(label string, stagingData common.TextureStagingData, samplerData common.SamplerStagingData) (texture.Texture, error) {
	return texture.NewTexture(
		texture.WithLabel(label),
		texture.WithSize(stagingData.Width, stagingData.Height),
	), nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {}

func (f *fakeRenderer) WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte) {
}

func (f *fakeRenderer) BeginFrame() error { return nil }

func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) Stats() renderer.FrameStats { return renderer.FrameStats{} }

func (f *fakeRenderer) Release() {}

func (f *fakeRenderer) meshUploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.meshInits))
	copy(out, f.meshInits)
	return out
}

type testRig struct {
	fr     *fakeRenderer
	bodies body.Manager
	cache  geometry.Cache
	loader assets.Loader
	mgr    Manager
}

func newTestRig(t *testing.T, options ...ManagerBuilderOption) *testRig {
	t.Helper()

	fr := newFakeRenderer()
	sc := scene.NewScene("perf", camera.NewCamera(), fr,
		scene.WithStarCount(0),
		scene.WithComputeWorkers(1),
	)
	ld := assets.NewLoader(assets.FetcherTypeHTTP)
	gc := geometry.NewCache()
	bm := body.NewManager(sc, ld, gc, fr)
	return &testRig{
		fr:     fr,
		bodies: bm,
		cache:  gc,
		loader: ld,
		mgr:    NewManager(bm, gc, ld, options...),
	}
}

func planetRecord(id string, scale float32) catalog.Record {
	return catalog.Record{
		ID:       id,
		Name:     id,
		Type:     catalog.TypePlanet,
		Scale:    scale,
		Material: catalog.MaterialDescriptor{Color: "#2E86AB"},
	}
}

// tierMeshes binds every tier to its cached mesh for the record's category,
// the same map the engine assembles at initialization.
func tierMeshes(gc geometry.Cache, rec catalog.Record) map[geometry.Tier]*geometry.Mesh {
	meshes := make(map[geometry.Tier]*geometry.Mesh, 4)
	for _, tier := range []geometry.Tier{geometry.TierVeryLow, geometry.TierLow, geometry.TierMedium, geometry.TierHigh} {
		meshes[tier] = gc.Geometry(body.CategoryFor(rec), tier)
	}
	return meshes
}

func TestNewManagerRequiresDependencies(t *testing.T) {
	fr := newFakeRenderer()
	sc := scene.NewScene("perf", camera.NewCamera(), fr, scene.WithStarCount(0))
	ld := assets.NewLoader(assets.FetcherTypeHTTP)
	gc := geometry.NewCache()
	bm := body.NewManager(sc, ld, gc, fr)

	assert.Panics(t, func() { NewManager(nil, gc, ld) })
	assert.Panics(t, func() { NewManager(bm, nil, ld) })
	assert.Panics(t, func() { NewManager(bm, gc, nil) })
	assert.NotPanics(t, func() { NewManager(bm, gc, ld) })
}

func TestCreateLODObjectBindsTiers(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)

	meshes := tierMeshes(rig.cache, rec)
	obj, err := rig.mgr.CreateLODObject(rec, meshes)
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Equal(t, "mars", obj.BodyID())
	// The object starts at the body's current tier.
	assert.Equal(t, rig.bodies.Body("mars").DetailTier(), obj.ActiveTier())
	for tier, mesh := range meshes {
		assert.Same(t, mesh, obj.Mesh(tier))
	}

	assert.Equal(t, 1, rig.mgr.Count())
	assert.Same(t, obj, rig.mgr.LODObject("mars"))
	require.Len(t, rig.mgr.LODObjects(), 1)
	assert.Nil(t, rig.mgr.LODObject("phobos"))
}

func TestCreateLODObjectValidation(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	meshes := tierMeshes(rig.cache, rec)

	_, err = rig.mgr.CreateLODObject(catalog.Record{}, meshes)
	assert.ErrorContains(t, err, "requires a body id")

	incomplete := map[geometry.Tier]*geometry.Mesh{
		geometry.TierLow:    meshes[geometry.TierLow],
		geometry.TierMedium: meshes[geometry.TierMedium],
		geometry.TierHigh:   meshes[geometry.TierHigh],
	}
	_, err = rig.mgr.CreateLODObject(rec, incomplete)
	assert.ErrorContains(t, err, "exactly 4 tier meshes")

	holed := tierMeshes(rig.cache, rec)
	holed[geometry.TierLow] = nil
	_, err = rig.mgr.CreateLODObject(rec, holed)
	assert.ErrorContains(t, err, "missing the low tier mesh")

	_, err = rig.mgr.CreateLODObject(planetRecord("phantom", 1), tierMeshes(rig.cache, planetRecord("phantom", 1)))
	assert.ErrorContains(t, err, "no registered body")

	_, err = rig.mgr.CreateLODObject(rec, meshes)
	require.NoError(t, err)
	_, err = rig.mgr.CreateLODObject(rec, meshes)
	assert.ErrorContains(t, err, "already exists")
}

func TestUpdateLODSelectsTierByDistance(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	obj, err := rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	tests := []struct {
		name     string
		distance float32
		want     geometry.Tier
	}{
		{"near renders high", 10, geometry.TierHigh},
		{"inside medium threshold stays high", 49.9, geometry.TierHigh},
		{"medium threshold steps down", 50, geometry.TierMedium},
		{"low threshold steps down", 150, geometry.TierLow},
		{"inside very low threshold stays low", 299, geometry.TierLow},
		{"very low threshold steps down", 300, geometry.TierVeryLow},
		{"far clamps to very low", 5000, geometry.TierVeryLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig.mgr.UpdateLOD(tt.distance, 0, 0)
			assert.Equal(t, tt.want, obj.ActiveTier())
			assert.Equal(t, tt.want, rig.bodies.Body("mars").DetailTier())
		})
	}
}

func TestUpdateLODSwapsMeshOncePerCrossing(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	_, err = rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	// Creation uploads the default medium sphere.
	assert.Equal(t, []string{"sphere-32x32"}, rig.fr.meshUploads())

	// A camera inside the medium band matches the starting tier: no swap.
	rig.mgr.UpdateLOD(60, 0, 0)
	assert.Equal(t, []string{"sphere-32x32"}, rig.fr.meshUploads())

	// Crossing into the near band uploads the high mesh once.
	rig.mgr.UpdateLOD(10, 0, 0)
	assert.Equal(t, []string{"sphere-32x32", "sphere-64x64"}, rig.fr.meshUploads())

	// Holding position does not re-upload.
	rig.mgr.UpdateLOD(10, 0, 0)
	assert.Equal(t, []string{"sphere-32x32", "sphere-64x64"}, rig.fr.meshUploads())

	// Stepping back to medium reuses the shared upload.
	rig.mgr.UpdateLOD(60, 0, 0)
	assert.Equal(t, []string{"sphere-32x32", "sphere-64x64"}, rig.fr.meshUploads())
	assert.Equal(t, geometry.TierMedium, rig.bodies.Body("mars").DetailTier())
}

func TestUpdateLODUsesBodyPosition(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	rec.Position = [3]float32{200, 0, 0}
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	obj, err := rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	// Camera hovering next to the body sees it near even though it is far
	// from the origin.
	rig.mgr.UpdateLOD(200, 0, 5)
	assert.Equal(t, geometry.TierHigh, obj.ActiveTier())

	rig.mgr.UpdateLOD(0, 0, 0)
	assert.Equal(t, geometry.TierLow, obj.ActiveTier())
}

func TestUpdateLODCustomThresholds(t *testing.T) {
	rig := newTestRig(t, WithDistanceThresholds(10, 20, 30))

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	obj, err := rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	rig.mgr.UpdateLOD(5, 0, 0)
	assert.Equal(t, geometry.TierHigh, obj.ActiveTier())
	rig.mgr.UpdateLOD(15, 0, 0)
	assert.Equal(t, geometry.TierMedium, obj.ActiveTier())
	rig.mgr.UpdateLOD(25, 0, 0)
	assert.Equal(t, geometry.TierLow, obj.ActiveTier())
	rig.mgr.UpdateLOD(35, 0, 0)
	assert.Equal(t, geometry.TierVeryLow, obj.ActiveTier())
}

func TestUpdateLODSkipsRemovedBodies(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	obj, err := rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	require.NoError(t, rig.bodies.ReplaceBodies([]catalog.Record{planetRecord("venus", 1)}))

	before := obj.ActiveTier()
	assert.NotPanics(t, func() { rig.mgr.UpdateLOD(10, 0, 0) })
	assert.Equal(t, before, obj.ActiveTier())
}

func TestRemoveAndClear(t *testing.T) {
	rig := newTestRig(t)

	for _, id := range []string{"mars", "venus"} {
		rec := planetRecord(id, 1)
		_, err := rig.bodies.CreateBody(rec)
		require.NoError(t, err)
		_, err = rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
		require.NoError(t, err)
	}
	require.Equal(t, 2, rig.mgr.Count())

	assert.True(t, rig.mgr.RemoveLODObject("mars"))
	assert.False(t, rig.mgr.RemoveLODObject("mars"))
	assert.Nil(t, rig.mgr.LODObject("mars"))
	assert.Equal(t, 1, rig.mgr.Count())

	rig.mgr.Clear()
	assert.Zero(t, rig.mgr.Count())
	assert.Empty(t, rig.mgr.LODObjects())

	// The manager stays usable after Clear.
	rec := planetRecord("venus", 1)
	_, err := rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	assert.NoError(t, err)
}

func TestStatsSnapshotsCaches(t *testing.T) {
	rig := newTestRig(t)

	marsRec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(marsRec)
	require.NoError(t, err)
	saturnRec := planetRecord("saturn", 2)
	saturnRec.Ring = &catalog.RingDescriptor{InnerRadius: 7, OuterRadius: 12}
	_, err = rig.bodies.CreateBody(saturnRec)
	require.NoError(t, err)

	_, err = rig.mgr.CreateLODObject(marsRec, tierMeshes(rig.cache, marsRec))
	require.NoError(t, err)
	_, err = rig.mgr.CreateLODObject(saturnRec, tierMeshes(rig.cache, saturnRec))
	require.NoError(t, err)

	stats := rig.mgr.Stats()
	// Four pre-built sphere tiers plus saturn's ring annulus.
	assert.Equal(t, 5, stats.GeometryCount)
	assert.Equal(t, rig.cache.ByteSize(), stats.GeometryBytes)
	assert.Positive(t, stats.GeometryBytes)
	// Solid-color materials load no textures; the ring strip uploads through
	// the renderer, not the loader cache.
	assert.Zero(t, stats.TextureCount)
	assert.Zero(t, stats.TextureBytes)
	assert.Equal(t, 2, stats.LODObjectCount)
}

func TestDisposeIdempotent(t *testing.T) {
	rig := newTestRig(t)

	rec := planetRecord("mars", 1)
	_, err := rig.bodies.CreateBody(rec)
	require.NoError(t, err)
	_, err = rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	require.NoError(t, err)

	rig.mgr.Dispose()
	assert.True(t, rig.mgr.Disposed())
	assert.Zero(t, rig.mgr.Count())
	assert.Equal(t, Stats{}, rig.mgr.Stats())

	_, err = rig.mgr.CreateLODObject(rec, tierMeshes(rig.cache, rec))
	assert.ErrorIs(t, err, ErrDisposed)

	assert.NotPanics(t, func() {
		rig.mgr.UpdateLOD(10, 0, 0)
		rig.mgr.RemoveLODObject("mars")
		rig.mgr.Clear()
		rig.mgr.Dispose()
	})
	assert.True(t, rig.mgr.Disposed())
}
