package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/texture"
	"github.com/Carmen-Shannon/orrery/engine/scene"
)

// fakeRenderer satisfies the renderer interface without a GPU so the engine
// runs headless in unit tests. Frame calls are counted under a mutex because
// the render goroutine may still be producing frames when a test inspects
// them.
type fakeRenderer struct {
	mu          sync.Mutex
	pipelines   map[string]pipeline.Pipeline
	beginFrames int
	presents    int
	released    bool
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

func (f *fakeRenderer) BeginFrame() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beginFrames++
	return nil
}

func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) Stats() renderer.FrameStats { return renderer.FrameStats{} }

func (f *fakeRenderer) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *fakeRenderer) frameCounts() (begins, presents int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.beginFrames, f.presents
}

func (f *fakeRenderer) wasReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// callbackLog collects engine callback invocations under a mutex so the
// render goroutine and the test goroutine can both touch it.
type callbackLog struct {
	mu       sync.Mutex
	ready    int
	errors   []error
	poses    [][3]float32
	zooms    []float32
	selects  []catalog.Record
	hovers   []*catalog.Record
	reports  []RenderStats
	distance float32
}

func (l *callbackLog) onReady() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ready++
}

func (l *callbackLog) onError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func (l *callbackLog) onCameraChange(position, _ [3]float32, distance float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.poses = append(l.poses, position)
	l.distance = distance
}

func (l *callbackLog) onZoomChange(distance float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zooms = append(l.zooms, distance)
}

func (l *callbackLog) onSelect(rec catalog.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selects = append(l.selects, rec)
}

func (l *callbackLog) onHover(rec *catalog.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hovers = append(l.hovers, rec)
}

func (l *callbackLog) onStats(stats RenderStats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, stats)
}

func (l *callbackLog) readyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

func (l *callbackLog) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func (l *callbackLog) poseCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.poses)
}

func (l *callbackLog) zoomSnapshot() []float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]float32(nil), l.zooms...)
}

func (l *callbackLog) cameraDistance() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distance
}

func (l *callbackLog) hoverSnapshot() []*catalog.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*catalog.Record(nil), l.hovers...)
}

func (l *callbackLog) selectSnapshot() []catalog.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]catalog.Record(nil), l.selects...)
}

func (l *callbackLog) reportSnapshot() []RenderStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]RenderStats(nil), l.reports...)
}

func record(id string, typ catalog.BodyType, pos [3]float32, scale float32) catalog.Record {
	return catalog.Record{
		ID:       id,
		Name:     id,
		Type:     typ,
		Position: pos,
		Scale:    scale,
		Material: catalog.MaterialDescriptor{Color: "#D4A24E"},
	}
}

func testRecords() []catalog.Record {
	return []catalog.Record{
		record("sun", catalog.TypeStar, [3]float32{0, 0, 0}, 30),
		record("earth", catalog.TypePlanet, [3]float32{120, 0, 0}, 4),
	}
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *fakeRenderer) {
	t.Helper()

	fr := newFakeRenderer()
	opts := append([]EngineBuilderOption{
		WithRenderer(fr),
		WithSceneOptions(scene.WithStarCount(0), scene.WithComputeWorkers(1)),
	}, options...)
	eng, ok := NewEngine(opts...).(*engine)
	require.True(t, ok)
	return eng, fr
}

// stopRenderLoop halts the frame goroutine so a test can drive renderFrame
// deterministically. Dispose stays valid afterwards.
func stopRenderLoop(e *engine) {
	e.signalQuit()
	e.wg.Wait()
}

func dist3(a, b [3]float32) float64 {
	dx := float64(a[0] - b[0])
	dy := float64(a[1] - b[1])
	dz := float64(a[2] - b[2])
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func TestNewEngineDefaults(t *testing.T) {
	eng, _ := newTestEngine(t)

	assert.False(t, eng.Initialized())
	assert.False(t, eng.Disposed())
	assert.True(t, eng.AnimationsEnabled())
	assert.Nil(t, eng.Window())
	assert.Nil(t, eng.Scene())
	assert.Nil(t, eng.Bodies())
	assert.Nil(t, eng.Camera())
}

func TestInitializeBuildsRuntime(t *testing.T) {
	log := &callbackLog{}
	eng, fr := newTestEngine(t, WithReadyCallback(log.onReady), WithErrorCallback(log.onError))
	defer eng.Dispose()

	require.NoError(t, eng.Initialize(testRecords()))

	assert.True(t, eng.Initialized())
	assert.Equal(t, 1, log.readyCount())
	assert.Zero(t, log.errorCount())
	assert.Nil(t, eng.Window())
	require.NotNil(t, eng.Scene())
	assert.True(t, eng.Scene().Initialized())
	require.NotNil(t, eng.Bodies())
	assert.Equal(t, 2, eng.Bodies().Count())
	require.NotNil(t, eng.Camera())
	require.NotNil(t, eng.Camera().Controller())
	assert.Equal(t, 2, eng.Stats().LODObjects)

	// With the loop stopped, a manual frame must run the full draw path.
	stopRenderLoop(eng)
	begins, presents := fr.frameCounts()
	eng.renderFrame(0.016)
	newBegins, newPresents := fr.frameCounts()
	assert.Equal(t, begins+1, newBegins)
	assert.Equal(t, presents+1, newPresents)
}

func TestInitializeRejectsInvalidCatalog(t *testing.T) {
	log := &callbackLog{}
	eng, _ := newTestEngine(t, WithErrorCallback(log.onError))

	twoStars := []catalog.Record{
		record("sun", catalog.TypeStar, [3]float32{0, 0, 0}, 30),
		record("rigel", catalog.TypeStar, [3]float32{500, 0, 0}, 40),
	}
	err := eng.Initialize(twoStars)
	require.Error(t, err)

	assert.False(t, eng.Initialized())
	assert.Equal(t, 1, log.errorCount())
	assert.Nil(t, eng.Scene())
	assert.Nil(t, eng.Bodies())
}

func TestInitializeTwiceReturnsErrInitialized(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()

	require.NoError(t, eng.Initialize(testRecords()))
	assert.ErrorIs(t, eng.Initialize(testRecords()), ErrInitialized)
}

func TestInitializeAfterDisposeReturnsErrDisposed(t *testing.T) {
	eng, _ := newTestEngine(t)

	require.NoError(t, eng.Initialize(testRecords()))
	eng.Dispose()

	assert.ErrorIs(t, eng.Initialize(testRecords()), ErrDisposed)
}

func TestRenderFrameSkipsAnimationsWhenDisabled(t *testing.T) {
	records := []catalog.Record{
		record("sun", catalog.TypeStar, [3]float32{0, 0, 0}, 30),
	}
	orbiter := record("earth", catalog.TypePlanet, [3]float32{120, 0, 0}, 4)
	orbiter.OrbitRadius = 120
	orbiter.OrbitSpeed = 1
	records = append(records, orbiter)

	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(records))
	stopRenderLoop(eng)

	eng.SetAnimationsEnabled(false)
	assert.False(t, eng.AnimationsEnabled())

	ex, ey, ez := eng.Bodies().Body("earth").Position()
	before := [3]float32{ex, ey, ez}
	eng.renderFrame(0.5)
	ex, ey, ez = eng.Bodies().Body("earth").Position()
	assert.Zero(t, dist3(before, [3]float32{ex, ey, ez}))

	eng.SetAnimationsEnabled(true)
	eng.renderFrame(0.5)
	ex, ey, ez = eng.Bodies().Body("earth").Position()
	assert.Greater(t, dist3(before, [3]float32{ex, ey, ez}), 1.0)
}

func TestCameraCallbacksFireOnMovement(t *testing.T) {
	log := &callbackLog{}
	eng, _ := newTestEngine(t,
		WithCameraChangeCallback(log.onCameraChange),
		WithZoomChangeCallback(log.onZoomChange),
	)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	// A static camera must stay silent.
	eng.renderFrame(0.016)
	assert.Zero(t, log.poseCount())

	ctrl := eng.Camera().Controller()
	ctrl.Zoom(1)
	eng.renderFrame(0.016)

	assert.Equal(t, 1, log.poseCount())
	assert.InDelta(t, 235.0, float64(log.cameraDistance()), 1e-3)
	zooms := log.zoomSnapshot()
	require.Len(t, zooms, 1)
	assert.InDelta(t, 235.0, float64(zooms[0]), 1e-3)

	// No further movement, no further callbacks.
	eng.renderFrame(0.016)
	assert.Equal(t, 1, log.poseCount())
	assert.Len(t, log.zoomSnapshot(), 1)
}

func TestStatsCallbackCarriesResourceCounters(t *testing.T) {
	log := &callbackLog{}
	eng, _ := newTestEngine(t,
		WithProfiling(true),
		WithStatsInterval(0),
		WithRenderStatsCallback(log.onStats),
	)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	before := len(log.reportSnapshot())
	eng.renderFrame(0.016)
	reports := log.reportSnapshot()
	require.Greater(t, len(reports), before)

	last := reports[len(reports)-1]
	assert.InDelta(t, 62.5, last.FPS, 1.0)
	assert.InDelta(t, 16.0, last.FrameTimeMs, 2.0)
	assert.Equal(t, 2, last.LODObjects)
	assert.Greater(t, last.Geometries, 0)
}

func TestPointerHoverAndSelectFlowThroughCallbacks(t *testing.T) {
	log := &callbackLog{}
	eng, _ := newTestEngine(t,
		WithBodyHoverCallback(log.onHover),
		WithBodySelectCallback(log.onSelect),
	)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	// Headless engines start with a zero viewport; size it so the center
	// pixel casts through the look-at point, straight at the sun.
	eng.picker.SetViewport(800, 800)

	eng.picker.PointerMoved(400, 400)
	eng.renderFrame(0.016)

	hovers := log.hoverSnapshot()
	require.Len(t, hovers, 1)
	require.NotNil(t, hovers[0])
	assert.Equal(t, "sun", hovers[0].ID)
	assert.Equal(t, "sun", eng.Bodies().HighlightedBody())

	eng.picker.PointerPressed(400, 400)
	eng.renderFrame(0.016)

	selects := log.selectSnapshot()
	require.Len(t, selects, 1)
	assert.Equal(t, "sun", selects[0].ID)
	assert.Equal(t, "sun", eng.Bodies().Selected())
}

func TestZoomTransitionRejectsSecondRequest(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	assert.True(t, eng.ZoomIn())
	assert.False(t, eng.ZoomOut())
	assert.False(t, eng.ResetView())
	assert.False(t, eng.FocusOnBody("sun"))

	// Finish the flight, then new requests are accepted again.
	eng.Camera().Controller().Update(1.0)
	assert.True(t, eng.ZoomOut())
}

func TestFocusOnBodyFramesTarget(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	require.True(t, eng.FocusOnBody("earth"))
	ctrl := eng.Camera().Controller()
	assert.True(t, ctrl.Transitioning())

	ctrl.Update(1.0)
	assert.False(t, ctrl.Transitioning())

	tx, ty, tz := ctrl.Target()
	assert.InDelta(t, 120.0, float64(tx), 1e-3)
	assert.InDelta(t, 0.0, float64(ty), 1e-3)
	assert.InDelta(t, 0.0, float64(tz), 1e-3)

	// Four bounding radii would be 16 units, below the close-orbit floor, so
	// the distance clamps to the controller minimum.
	assert.InDelta(t, float64(ctrl.MinRadius()), float64(ctrl.Radius()), 1e-3)
}

func TestFocusOnBodyUnknownID(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	assert.False(t, eng.FocusOnBody("vulcan"))
}

func TestSetCameraPoseSnapsOrbitCoordinates(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	eng.SetCameraPose([3]float32{0, 50, 86.60254}, [3]float32{0, 0, 0})

	ctrl := eng.Camera().Controller()
	assert.InDelta(t, 100.0, float64(ctrl.Radius()), 1e-3)
	assert.InDelta(t, math.Pi/6, float64(ctrl.Elevation()), 1e-3)
	assert.InDelta(t, 0.0, float64(ctrl.Azimuth()), 1e-3)

	px, py, pz := ctrl.Position()
	assert.InDelta(t, 0.0, float64(px), 1e-2)
	assert.InDelta(t, 50.0, float64(py), 1e-2)
	assert.InDelta(t, 86.60254, float64(pz), 1e-2)
}

func TestEnableControlsGatesDirectInput(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))
	stopRenderLoop(eng)

	ctrl := eng.Camera().Controller()
	eng.EnableControls(false)
	assert.False(t, eng.ControlsEnabled())

	azimuth := ctrl.Azimuth()
	ctrl.OrbitLeft()
	assert.Equal(t, azimuth, ctrl.Azimuth())

	eng.EnableControls(true)
	assert.True(t, eng.ControlsEnabled())
	ctrl.OrbitLeft()
	assert.NotEqual(t, azimuth, ctrl.Azimuth())
}

func TestReplaceBodiesRebuildsSystem(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))

	replacement := []catalog.Record{
		record("sun", catalog.TypeStar, [3]float32{0, 0, 0}, 30),
		record("venus", catalog.TypePlanet, [3]float32{90, 0, 0}, 3.8),
		record("mars", catalog.TypePlanet, [3]float32{160, 0, 0}, 2.1),
	}
	require.NoError(t, eng.ReplaceBodies(replacement))

	assert.Equal(t, 3, eng.Bodies().Count())
	assert.Equal(t, 3, eng.Stats().LODObjects)
	assert.NotNil(t, eng.Bodies().Body("mars"))
	assert.Nil(t, eng.Bodies().Body("earth"))
}

func TestReplaceBodiesRequiresInitialize(t *testing.T) {
	eng, _ := newTestEngine(t)

	assert.ErrorIs(t, eng.ReplaceBodies(testRecords()), ErrNotInitialized)
}

func TestReplaceBodiesValidatesCatalog(t *testing.T) {
	log := &callbackLog{}
	eng, _ := newTestEngine(t, WithErrorCallback(log.onError))
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))

	noStar := []catalog.Record{
		record("moon", catalog.TypeMoon, [3]float32{0, 0, 0}, 1),
	}
	require.Error(t, eng.ReplaceBodies(noStar))
	assert.Equal(t, 1, log.errorCount())

	// The previous system must survive a rejected swap.
	assert.Equal(t, 2, eng.Bodies().Count())
}

func TestDisposeIdempotent(t *testing.T) {
	eng, fr := newTestEngine(t)
	require.NoError(t, eng.Initialize(testRecords()))

	eng.Dispose()
	assert.True(t, eng.Disposed())
	assert.False(t, eng.Initialized())
	assert.Nil(t, eng.Scene())
	assert.Nil(t, eng.Bodies())
	assert.Nil(t, eng.Camera())
	assert.True(t, fr.wasReleased())

	assert.NotPanics(t, func() { eng.Dispose() })

	stats := eng.Stats()
	assert.Zero(t, stats.LODObjects)
	assert.Zero(t, stats.Geometries)
}

func TestDisposeBeforeInitialize(t *testing.T) {
	eng, _ := newTestEngine(t)

	assert.NotPanics(t, func() { eng.Dispose() })
	assert.True(t, eng.Disposed())
}

func TestQuitStopsRenderLoop(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()
	require.NoError(t, eng.Initialize(testRecords()))

	eng.Quit()
	// Wait must return because the loop observed the quit signal.
	eng.wg.Wait()

	assert.True(t, eng.Initialized())
	assert.False(t, eng.Disposed())
}

func TestProgressBeforeAndAfterInitialize(t *testing.T) {
	eng, _ := newTestEngine(t)
	defer eng.Dispose()

	loaded, total := eng.Progress()
	assert.Zero(t, loaded)
	assert.Zero(t, total)

	require.NoError(t, eng.Initialize(testRecords()))
	loaded, total = eng.Progress()
	assert.Zero(t, loaded)
	assert.Zero(t, total)
}

func TestControlSurfaceSafeBeforeInitialize(t *testing.T) {
	eng, _ := newTestEngine(t)

	assert.False(t, eng.ZoomIn())
	assert.False(t, eng.ZoomOut())
	assert.False(t, eng.ResetView())
	assert.False(t, eng.FocusOnBody("sun"))
	assert.False(t, eng.ControlsEnabled())
	assert.NotPanics(t, func() { eng.SetCameraPose([3]float32{0, 0, 100}, [3]float32{0, 0, 0}) })
	assert.NotPanics(t, func() { eng.EnableControls(true) })
}
