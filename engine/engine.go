package engine

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/assets"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/interaction"
	"github.com/Carmen-Shannon/orrery/engine/perf"
	"github.com/Carmen-Shannon/orrery/engine/profiler"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/scene"
	"github.com/Carmen-Shannon/orrery/engine/window"

	"github.com/chewxy/math32"
)

var (
	// ErrInitialized is returned by Initialize when the engine has already been initialized.
	ErrInitialized = errors.New("engine is already initialized")

	// ErrNotInitialized is returned by operations that require a successful Initialize first.
	ErrNotInitialized = errors.New("engine is not initialized")

	// ErrDisposed is returned by operations invoked after Dispose.
	ErrDisposed = errors.New("engine is disposed")
)

const (
	// sceneName labels the single scene the engine drives.
	sceneName = "solar-system"

	// focusDistanceFactor scales a body's bounding radius into the orbit
	// distance used by FocusOnBody. Four radii keeps the whole body in frame
	// at the default field of view.
	focusDistanceFactor = 4.0

	// clickDragThreshold is the accumulated pointer travel in pixels above
	// which a press-release pair counts as a drag instead of a click.
	clickDragThreshold = 5.0

	// cameraChangeEpsilon is the minimum component delta before the camera
	// callbacks fire.
	cameraChangeEpsilon = 1e-4
)

// RenderStats is a per-interval snapshot of frame pacing and resource
// counters delivered through the render stats callback and the Stats
// accessor.
type RenderStats struct {
	// FPS is the frame count over the elapsed reporting interval.
	FPS float64

	// SmoothedFPS is the exponentially smoothed instantaneous frame rate.
	SmoothedFPS float64

	// FrameTimeMs is the mean frame time over the interval in milliseconds.
	FrameTimeMs float64

	// DrawCalls is the number of draw submissions in the last frame.
	DrawCalls int

	// Triangles is the number of triangles submitted in the last frame.
	Triangles int

	// Geometries is the number of distinct meshes resident in caches.
	Geometries int

	// GeometryBytes is the CPU-side size of the resident meshes.
	GeometryBytes int

	// Textures is the number of decoded textures resident in caches.
	Textures int

	// TextureBytes is the estimated GPU size of the resident textures.
	TextureBytes uint64

	// CulledBodies is the number of drawables rejected by frustum culling.
	CulledBodies int

	// LODObjects is the number of bodies registered for distance-based
	// detail selection.
	LODObjects int
}

// Engine is the top-level coordinator for the visualization. It owns the
// window, renderer, scene, and the managers layered on top of them, and runs
// the render loop that advances animations, camera motion, picking, and
// drawing in a fixed order each frame.
type Engine interface {
	// Initialize builds the full runtime from a set of catalog records: it
	// creates the window and renderer (unless injected), the scene graph, one
	// body per record, the detail-tier registry, and the picking layer, wires
	// the window callbacks, fires the ready callback, and starts the render
	// loop. On any failure everything built so far is torn down, the error
	// callback fires, and the error is returned; no partial scene is left
	// behind.
	//
	// Parameters:
	//   - records: the catalog records to instantiate as bodies
	//
	// Returns:
	//   - error: an error if validation or any construction step fails
	Initialize(records []catalog.Record) error

	// Initialized reports whether Initialize has completed successfully.
	//
	// Returns:
	//   - bool: true once Initialize has succeeded and Dispose has not run
	Initialized() bool

	// Run blocks on the window message loop until the window closes or Quit
	// is called. Must be invoked from the main goroutine. Returns immediately
	// when the engine has no window.
	Run()

	// Quit stops the render loop and asks the window message loop to exit,
	// unblocking Run. The window itself is destroyed by Dispose, not Quit.
	Quit()

	// Dispose stops the render loop, waits for it to exit, then releases the
	// managers, the renderer, and finally the window. Safe to call more than
	// once.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true if the engine has been disposed
	Disposed() bool

	// Window retrieves the engine's window.
	//
	// Returns:
	//   - window.Window: the window the engine presents to, or nil before
	//     Initialize or when running headless
	Window() window.Window

	// Camera retrieves the engine's camera.
	//
	// Returns:
	//   - camera.Camera: the camera driving the scene's view, or nil before Initialize
	Camera() camera.Camera

	// Scene retrieves the engine's scene.
	//
	// Returns:
	//   - scene.Scene: the scene graph, or nil before Initialize
	Scene() scene.Scene

	// Bodies retrieves the body manager.
	//
	// Returns:
	//   - body.Manager: the manager holding the instantiated bodies, or nil before Initialize
	Bodies() body.Manager

	// Progress reports texture streaming progress for loading indicators.
	//
	// Returns:
	//   - loaded: the number of texture fetches that have completed
	//   - total: the number of texture fetches requested so far
	Progress() (loaded, total int)

	// Stats returns a snapshot of the current frame and resource counters.
	// The FPS fields carry the profiler's smoothed rate; interval averages
	// are only delivered through the render stats callback.
	//
	// Returns:
	//   - RenderStats: the current counters
	Stats() RenderStats

	// ReplaceBodies swaps the full body set for a new catalog, rebuilding the
	// scene contents and the detail-tier registry. The camera, selection
	// callbacks, and render loop keep running across the swap.
	//
	// Parameters:
	//   - records: the catalog records for the new system
	//
	// Returns:
	//   - error: an error if validation or reconstruction fails
	ReplaceBodies(records []catalog.Record) error

	// ZoomIn starts an eased transition toward the camera target. Rejected
	// while another transition is in flight.
	//
	// Returns:
	//   - bool: true if the transition was started
	ZoomIn() bool

	// ZoomOut starts an eased transition away from the camera target.
	// Rejected while another transition is in flight.
	//
	// Returns:
	//   - bool: true if the transition was started
	ZoomOut() bool

	// ResetView starts an eased transition back to the camera's home pose.
	// Rejected while another transition is in flight.
	//
	// Returns:
	//   - bool: true if the transition was started
	ResetView() bool

	// FocusOnBody starts an eased transition that re-targets the camera on
	// the named body at a distance derived from the body's visual radius,
	// clamped to the zoom bounds.
	//
	// Parameters:
	//   - id: the catalog identifier of the body to frame
	//
	// Returns:
	//   - bool: true if the body exists and the transition was started
	FocusOnBody(id string) bool

	// SetCameraPose snaps the camera to an explicit position and target with
	// no transition. The pose is converted to orbit coordinates, so the
	// distance and elevation clamp to the controller's bounds.
	//
	// Parameters:
	//   - position: the world-space camera position
	//   - target: the world-space look-at point
	SetCameraPose(position, target [3]float32)

	// EnableControls toggles direct camera input (orbit, drag, zoom, pan).
	// Programmatic transitions such as ZoomIn and FocusOnBody keep working
	// while direct input is disabled.
	//
	// Parameters:
	//   - enabled: true to accept direct input
	EnableControls(enabled bool)

	// ControlsEnabled reports whether direct camera input is accepted.
	//
	// Returns:
	//   - bool: true if direct input is enabled
	ControlsEnabled() bool

	// SetAnimationsEnabled toggles per-frame rotation, orbital motion, and
	// starfield twinkle. Rendering, picking, and camera motion continue
	// while animations are paused.
	//
	// Parameters:
	//   - enabled: true to advance animations each frame
	SetAnimationsEnabled(enabled bool)

	// AnimationsEnabled reports whether animations advance each frame.
	//
	// Returns:
	//   - bool: true if animations are advancing
	AnimationsEnabled() bool
}

type engine struct {
	// mu guards all mutable state below.
	mu *sync.Mutex

	// win is the presentation window, nil when running headless.
	win window.Window

	// rend is the renderer every GPU upload and draw goes through.
	rend renderer.Renderer

	// cam is the camera driving the scene's view.
	cam camera.Camera

	// sc is the single scene the engine draws.
	sc scene.Scene

	// loader streams and caches textures for body materials.
	loader assets.Loader

	// cache holds the shared sphere and ring meshes.
	cache geometry.Cache

	// bodies manages the celestial bodies built from the catalog.
	bodies body.Manager

	// lod selects detail tiers by camera distance.
	lod perf.Manager

	// picker resolves pointer hover and click against the bodies.
	picker interaction.Manager

	// prof aggregates frame samples into periodic reports.
	prof *profiler.Profiler

	// profilingEnabled gates frame sampling and the stats callback.
	profilingEnabled bool

	// statsInterval is the reporting cadence for the profiler.
	statsInterval time.Duration

	// fetcherType selects the texture fetch strategy for the loader.
	fetcherType assets.FetcherType

	// windowOptions configure the window when the engine creates it.
	windowOptions []window.WindowBuilderOption

	// rendererOptions configure the renderer when the engine creates it.
	rendererOptions []renderer.RendererBuilderOption

	// sceneOptions configure the scene (starfield size, ambient light).
	sceneOptions []scene.SceneBuilderOption

	// loaderOptions configure the texture loader.
	loaderOptions []assets.LoaderBuilderOption

	// perfOptions configure the detail-tier thresholds.
	perfOptions []perf.ManagerBuilderOption

	// animationsEnabled gates rotation, orbit, and twinkle updates.
	animationsEnabled bool

	// lodEnabled gates distance-based detail selection.
	lodEnabled bool

	// renderFrameLimit is the minimum frame duration, 0 for uncapped.
	// Immutable after NewEngine.
	renderFrameLimit time.Duration

	// dragActive is true while the left mouse button is held.
	dragActive bool

	// panActive is true while the middle mouse button is held.
	panActive bool

	// pointerLastX and pointerLastY hold the last observed cursor position.
	pointerLastX float64
	pointerLastY float64

	// pointerTravel accumulates cursor movement while a button is held,
	// used to tell clicks from drags.
	pointerTravel float64

	// lastCamPos, lastCamTarget, and lastCamRadius hold the pose the camera
	// callbacks last reported.
	lastCamPos    [3]float32
	lastCamTarget [3]float32
	lastCamRadius float32

	// initialized is true once Initialize has completed.
	initialized bool

	// disposed is true once Dispose has run.
	disposed bool

	// quitChannel signals the render loop to exit.
	quitChannel chan struct{}

	// quitOnce guards quitChannel against double close.
	quitOnce sync.Once

	// wg tracks the render goroutine for Dispose to wait on.
	wg sync.WaitGroup

	// onBodySelect fires when a body is clicked.
	onBodySelect func(rec catalog.Record)

	// onBodyHover fires when the hovered body changes, nil for empty space.
	onBodyHover func(rec *catalog.Record)

	// onCameraChange fires when the camera pose moves.
	onCameraChange func(position, target [3]float32, distance float32)

	// onZoomChange fires when the camera distance changes.
	onZoomChange func(distance float32)

	// onRenderStats fires with each profiler report.
	onRenderStats func(stats RenderStats)

	// onError fires for initialization and catalog-swap failures.
	onError func(err error)

	// onReady fires once the scene is fully built, before the first frame.
	onReady func()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine configured by the given options. All
// fallible construction is deferred to Initialize; NewEngine only records
// configuration.
//
// Parameters:
//   - options: variadic list of EngineBuilderOption functions to configure the Engine
//
// Returns:
//   - Engine: a new Engine ready for Initialize
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:                &sync.Mutex{},
		quitChannel:       make(chan struct{}),
		prof:              profiler.NewProfiler(),
		fetcherType:       assets.FetcherTypeHTTP,
		animationsEnabled: true,
		lodEnabled:        true,
		statsInterval:     time.Second,
	}

	for _, opt := range options {
		opt(e)
	}

	e.prof.SetInterval(e.statsInterval)
	return e
}

func (e *engine) Initialize(records []catalog.Record) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrDisposed
	}
	if e.initialized {
		e.mu.Unlock()
		return ErrInitialized
	}

	if err := e.buildLocked(records); err != nil {
		e.teardownLocked()
		onError := e.onError
		e.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return err
	}

	e.initialized = true
	onReady := e.onReady
	e.mu.Unlock()

	if onReady != nil {
		onReady()
	}

	e.wg.Add(1)
	go e.handleRender()
	return nil
}

// buildLocked constructs the runtime bottom-up: renderer, camera, scene,
// bodies, detail tiers, picking, then window wiring. Callers hold e.mu and
// tear down on error.
func (e *engine) buildLocked(records []catalog.Record) error {
	if err := catalog.Validate(records); err != nil {
		return fmt.Errorf("engine: validate catalog: %w", err)
	}

	if e.win == nil && e.rend == nil {
		e.win = window.NewWindow(e.windowOptions...)
	}
	if e.rend == nil {
		rend, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.win, e.rendererOptions...)
		if err != nil {
			// NewRenderer wraps common.ErrUnsupported when no adapter or
			// device is available; keep that chain intact for callers.
			return fmt.Errorf("engine: create renderer: %w", err)
		}
		e.rend = rend
	}

	if e.cam == nil {
		e.cam = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if e.win != nil && e.win.Width() > 0 && e.win.Height() > 0 {
		e.cam.SetAspect(float32(e.win.Width()) / float32(e.win.Height()))
	}

	e.sc = scene.NewScene(sceneName, e.cam, e.rend, e.sceneOptions...)
	if err := e.sc.Initialize(); err != nil {
		return fmt.Errorf("engine: initialize scene: %w", err)
	}

	loaderOpts := append([]assets.LoaderBuilderOption{assets.WithRenderer(e.rend)}, e.loaderOptions...)
	e.loader = assets.NewLoader(e.fetcherType, loaderOpts...)
	e.cache = geometry.NewCache()
	e.bodies = body.NewManager(e.sc, e.loader, e.cache, e.rend)

	for _, rec := range records {
		if _, err := e.bodies.CreateBody(rec); err != nil {
			return fmt.Errorf("engine: create body %q: %w", rec.ID, err)
		}
	}

	e.lod = perf.NewManager(e.bodies, e.cache, e.loader, e.perfOptions...)
	for _, rec := range records {
		if _, err := e.lod.CreateLODObject(rec, tierMeshes(e.cache, rec)); err != nil {
			return fmt.Errorf("engine: register detail tiers for %q: %w", rec.ID, err)
		}
	}

	viewW, viewH := 0, 0
	if e.win != nil {
		viewW, viewH = e.win.Width(), e.win.Height()
	}
	e.picker = interaction.NewManager(e.bodies, e.cam,
		interaction.WithViewport(viewW, viewH),
		interaction.WithHoverCallback(e.hoverChanged),
		interaction.WithSelectCallback(e.bodySelected),
		interaction.WithCursorCallback(e.cursorChanged),
	)

	e.wireWindowLocked()
	e.snapshotCameraLocked()
	return nil
}

// tierMeshes resolves the full detail ladder for a record's cache category.
// The cache generates missing tiers on demand.
func tierMeshes(cache geometry.Cache, rec catalog.Record) map[geometry.Tier]*geometry.Mesh {
	category := body.CategoryFor(rec)
	tiers := [...]geometry.Tier{geometry.TierVeryLow, geometry.TierLow, geometry.TierMedium, geometry.TierHigh}
	meshes := make(map[geometry.Tier]*geometry.Mesh, len(tiers))
	for _, tier := range tiers {
		meshes[tier] = cache.Geometry(category, tier)
	}
	return meshes
}

func (e *engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

func (e *engine) Run() {
	e.mu.Lock()
	win := e.win
	e.mu.Unlock()

	if win == nil {
		return
	}
	win.ProcessMessages()

	// The window closed (escape, close button, or RequestClose); stop
	// producing frames so the caller can dispose safely.
	e.signalQuit()
}

func (e *engine) Quit() {
	e.signalQuit()

	e.mu.Lock()
	win := e.win
	e.mu.Unlock()
	if win != nil {
		win.RequestClose()
	}
}

func (e *engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.mu.Unlock()

	e.signalQuit()
	e.wg.Wait()

	e.mu.Lock()
	e.initialized = false
	e.teardownLocked()
	e.mu.Unlock()
}

// teardownLocked releases everything buildLocked created, managers before
// the renderer, the window last. Nil-safe so it also serves failed
// initialization.
func (e *engine) teardownLocked() {
	if e.picker != nil {
		e.picker.Dispose()
		e.picker = nil
	}
	if e.lod != nil {
		e.lod.Dispose()
		e.lod = nil
	}
	if e.bodies != nil {
		e.bodies.Dispose()
		e.bodies = nil
	}
	if e.sc != nil {
		e.sc.Dispose()
		e.sc = nil
	}
	if e.loader != nil {
		e.loader.Dispose()
		e.loader = nil
	}
	if e.cache != nil {
		e.cache.Dispose()
		e.cache = nil
	}
	if e.rend != nil {
		e.rend.Release()
		e.rend = nil
	}
	if e.win != nil {
		e.unwireWindowLocked()
		if err := e.win.Close(); err != nil {
			log.Printf("[Engine] close window: %v", err)
		}
		e.win = nil
	}
}

func (e *engine) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleRender is the render goroutine. Each iteration runs one frame and
// then sleeps off any remaining frame budget.
func (e *engine) handleRender() {
	defer e.wg.Done()

	last := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		dt := frameStart.Sub(last).Seconds()
		last = frameStart

		e.renderFrame(dt)

		if e.renderFrameLimit > 0 {
			if sleep := e.renderFrameLimit - time.Since(frameStart); sleep > 0 {
				time.Sleep(sleep)
			}
		}
	}
}

// renderFrame advances one frame: detail selection, animations, camera
// motion, picking, then the draw. A panic in any stage is recovered and
// logged so the next frame can proceed.
func (e *engine) renderFrame(dt float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] recovered render panic: %v", r)
		}
	}()

	e.mu.Lock()
	if !e.initialized || e.disposed {
		e.mu.Unlock()
		return
	}
	sc, bodies, lod, picker := e.sc, e.bodies, e.lod, e.picker
	cam, rend := e.cam, e.rend
	animate := e.animationsEnabled
	lodEnabled := e.lodEnabled
	e.mu.Unlock()

	ctrl := cam.Controller()

	if lodEnabled && ctrl != nil {
		cx, cy, cz := ctrl.Position()
		lod.UpdateLOD(cx, cy, cz)
	}

	if animate {
		bodies.UpdateAnimations(dt)
		sc.UpdateAnimations(dt)
	}

	if ctrl != nil {
		ctrl.Update(float32(dt))
	}

	picker.Resolve()

	if err := sc.PrepareFrame(); err != nil {
		log.Printf("[Engine] prepare frame: %v", err)
		return
	}
	if err := rend.BeginFrame(); err != nil {
		log.Printf("[Engine] begin frame: %v", err)
		return
	}
	if err := sc.Draw(); err != nil {
		log.Printf("[Engine] draw: %v", err)
	}
	rend.EndFrame()
	rend.Present()

	if ctrl != nil {
		e.notifyCameraChange(ctrl)
	}
	e.sampleFrame(dt)
}

// notifyCameraChange fires the camera callbacks when the pose moved since
// the last reported frame.
func (e *engine) notifyCameraChange(ctrl camera.CameraController) {
	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	position := [3]float32{px, py, pz}
	target := [3]float32{tx, ty, tz}
	radius := ctrl.Radius()

	e.mu.Lock()
	moved := poseChanged(position, e.lastCamPos) || poseChanged(target, e.lastCamTarget)
	zoomed := math32.Abs(radius-e.lastCamRadius) > cameraChangeEpsilon
	if moved || zoomed {
		e.lastCamPos = position
		e.lastCamTarget = target
		e.lastCamRadius = radius
	}
	onCamera := e.onCameraChange
	onZoom := e.onZoomChange
	e.mu.Unlock()

	if (moved || zoomed) && onCamera != nil {
		onCamera(position, target, radius)
	}
	if zoomed && onZoom != nil {
		onZoom(radius)
	}
}

func poseChanged(a, b [3]float32) bool {
	return math32.Abs(a[0]-b[0]) > cameraChangeEpsilon ||
		math32.Abs(a[1]-b[1]) > cameraChangeEpsilon ||
		math32.Abs(a[2]-b[2]) > cameraChangeEpsilon
}

// sampleFrame feeds the profiler and fires the stats callback when a
// reporting interval elapses.
func (e *engine) sampleFrame(dt float64) {
	e.mu.Lock()
	if !e.profilingEnabled {
		e.mu.Unlock()
		return
	}
	prof := e.prof
	rend, lod, sc := e.rend, e.lod, e.sc
	onStats := e.onRenderStats
	e.mu.Unlock()

	frame := rend.Stats()
	resources := lod.Stats()
	report, ok := prof.Tick(profiler.FrameSample{
		DeltaSeconds:  dt,
		DrawCalls:     frame.DrawCalls,
		Triangles:     frame.Triangles,
		Geometries:    resources.GeometryCount,
		GeometryBytes: resources.GeometryBytes,
		Textures:      resources.TextureCount,
		TextureBytes:  resources.TextureBytes,
		Culled:        sc.CulledCount(),
	})
	if !ok || onStats == nil {
		return
	}

	onStats(RenderStats{
		FPS:           report.FPS,
		SmoothedFPS:   report.SmoothedFPS,
		FrameTimeMs:   report.FrameTimeMs,
		DrawCalls:     report.DrawCalls,
		Triangles:     report.Triangles,
		Geometries:    report.Geometries,
		GeometryBytes: report.GeometryBytes,
		Textures:      report.Textures,
		TextureBytes:  report.TextureBytes,
		CulledBodies:  report.Culled,
		LODObjects:    resources.LODObjectCount,
	})
}

func (e *engine) Window() window.Window {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.win
}

func (e *engine) Camera() camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cam
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sc
}

func (e *engine) Bodies() body.Manager {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bodies
}

func (e *engine) Progress() (loaded, total int) {
	e.mu.Lock()
	loader := e.loader
	e.mu.Unlock()

	if loader == nil {
		return 0, 0
	}
	return loader.Progress()
}

func (e *engine) Stats() RenderStats {
	e.mu.Lock()
	prof := e.prof
	rend, lod, sc := e.rend, e.lod, e.sc
	e.mu.Unlock()

	var out RenderStats
	if prof != nil {
		out.SmoothedFPS = prof.SmoothedFPS()
		out.FPS = out.SmoothedFPS
	}
	if rend != nil {
		frame := rend.Stats()
		out.DrawCalls = frame.DrawCalls
		out.Triangles = frame.Triangles
	}
	if lod != nil {
		resources := lod.Stats()
		out.Geometries = resources.GeometryCount
		out.GeometryBytes = resources.GeometryBytes
		out.Textures = resources.TextureCount
		out.TextureBytes = resources.TextureBytes
		out.LODObjects = resources.LODObjectCount
	}
	if sc != nil {
		out.CulledBodies = sc.CulledCount()
	}
	return out
}

func (e *engine) ReplaceBodies(records []catalog.Record) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrDisposed
	}
	if !e.initialized {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	bodies, lod, cache := e.bodies, e.lod, e.cache
	onError := e.onError
	e.mu.Unlock()

	emit := func(err error) error {
		if onError != nil {
			onError(err)
		}
		return err
	}

	if err := catalog.Validate(records); err != nil {
		return emit(fmt.Errorf("engine: validate catalog: %w", err))
	}
	if err := bodies.ReplaceBodies(records); err != nil {
		return emit(fmt.Errorf("engine: replace bodies: %w", err))
	}

	lod.Clear()
	for _, rec := range records {
		if _, err := lod.CreateLODObject(rec, tierMeshes(cache, rec)); err != nil {
			return emit(fmt.Errorf("engine: register detail tiers for %q: %w", rec.ID, err))
		}
	}
	return nil
}

func (e *engine) ZoomIn() bool {
	ctrl := e.controller()
	return ctrl != nil && ctrl.ZoomIn()
}

func (e *engine) ZoomOut() bool {
	ctrl := e.controller()
	return ctrl != nil && ctrl.ZoomOut()
}

func (e *engine) ResetView() bool {
	ctrl := e.controller()
	return ctrl != nil && ctrl.ResetView()
}

func (e *engine) FocusOnBody(id string) bool {
	e.mu.Lock()
	bodies := e.bodies
	ctrl := e.controllerLocked()
	e.mu.Unlock()

	if bodies == nil || ctrl == nil {
		return false
	}
	b := bodies.Body(id)
	if b == nil {
		return false
	}
	x, y, z := b.Position()
	return ctrl.FocusOn(x, y, z, b.BoundingRadius()*focusDistanceFactor)
}

func (e *engine) SetCameraPose(position, target [3]float32) {
	ctrl := e.controller()
	if ctrl == nil {
		return
	}

	dx := position[0] - target[0]
	dy := position[1] - target[1]
	dz := position[2] - target[2]
	radius := math32.Sqrt(dx*dx + dy*dy + dz*dz)

	ctrl.SetTarget(target[0], target[1], target[2])
	if radius < 1e-6 {
		return
	}
	ctrl.SetRadius(radius)
	ctrl.SetAzimuth(math32.Atan2(dx, dz))
	ctrl.SetElevation(math32.Asin(common.Clamp(dy/radius, -1, 1)))
}

func (e *engine) EnableControls(enabled bool) {
	if ctrl := e.controller(); ctrl != nil {
		ctrl.EnableControls(enabled)
	}
}

func (e *engine) ControlsEnabled() bool {
	ctrl := e.controller()
	return ctrl != nil && ctrl.ControlsEnabled()
}

func (e *engine) SetAnimationsEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.animationsEnabled = enabled
}

func (e *engine) AnimationsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animationsEnabled
}

func (e *engine) controller() camera.CameraController {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controllerLocked()
}

func (e *engine) controllerLocked() camera.CameraController {
	if e.cam == nil {
		return nil
	}
	return e.cam.Controller()
}

// snapshotCameraLocked seeds the last-reported pose so the camera callbacks
// only fire on movement after startup.
func (e *engine) snapshotCameraLocked() {
	ctrl := e.controllerLocked()
	if ctrl == nil {
		return
	}
	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	e.lastCamPos = [3]float32{px, py, pz}
	e.lastCamTarget = [3]float32{tx, ty, tz}
	e.lastCamRadius = ctrl.Radius()
}

func (e *engine) wireWindowLocked() {
	win := e.win
	if win == nil {
		return
	}
	win.SetResizeCallback(e.resized)
	win.SetMouseMoveCallback(e.pointerMoved)
	win.SetLeftMouseDownCallback(e.leftMouseDown)
	win.SetLeftMouseUpCallback(e.leftMouseUp)
	win.SetMiddleMouseDownCallback(e.middleMouseDown)
	win.SetMiddleMouseUpCallback(e.middleMouseUp)
	win.SetScrollCallback(e.scrolled)
}

func (e *engine) unwireWindowLocked() {
	win := e.win
	if win == nil {
		return
	}
	win.SetResizeCallback(nil)
	win.SetMouseMoveCallback(nil)
	win.SetLeftMouseDownCallback(nil)
	win.SetLeftMouseUpCallback(nil)
	win.SetMiddleMouseDownCallback(nil)
	win.SetMiddleMouseUpCallback(nil)
	win.SetScrollCallback(nil)
}

func (e *engine) resized(width, height int) {
	e.mu.Lock()
	rend, cam, picker := e.rend, e.cam, e.picker
	e.mu.Unlock()

	if rend != nil {
		rend.Resize(width, height)
	}
	if cam != nil && width > 0 && height > 0 {
		cam.SetAspect(float32(width) / float32(height))
	}
	if picker != nil {
		picker.SetViewport(width, height)
	}
}

// pointerMoved feeds hover tracking at event rate and applies drag or pan
// deltas while a button is held.
func (e *engine) pointerMoved(x, y float64) {
	e.mu.Lock()
	picker := e.picker
	ctrl := e.controllerLocked()
	dragging, panning := e.dragActive, e.panActive
	dx := x - e.pointerLastX
	dy := y - e.pointerLastY
	if dragging || panning {
		e.pointerTravel += math.Abs(dx) + math.Abs(dy)
	}
	e.pointerLastX, e.pointerLastY = x, y
	e.mu.Unlock()

	if picker != nil {
		picker.PointerMoved(x, y)
	}
	if ctrl == nil {
		return
	}
	if dragging {
		ctrl.Drag(float32(dx), float32(dy))
	}
	if panning {
		ctrl.PanRight(float32(-dx))
		ctrl.PanUp(float32(dy))
	}
}

func (e *engine) leftMouseDown(x, y float64) {
	e.mu.Lock()
	e.dragActive = true
	e.pointerTravel = 0
	e.pointerLastX, e.pointerLastY = x, y
	e.mu.Unlock()
}

func (e *engine) leftMouseUp(x, y float64) {
	e.mu.Lock()
	wasDrag := e.dragActive && e.pointerTravel > clickDragThreshold
	e.dragActive = false
	picker := e.picker
	e.mu.Unlock()

	if !wasDrag && picker != nil {
		picker.PointerPressed(x, y)
	}
}

func (e *engine) middleMouseDown(x, y float64) {
	e.mu.Lock()
	e.panActive = true
	e.pointerTravel = 0
	e.pointerLastX, e.pointerLastY = x, y
	e.mu.Unlock()
}

func (e *engine) middleMouseUp(_, _ float64) {
	e.mu.Lock()
	e.panActive = false
	e.mu.Unlock()
}

func (e *engine) scrolled(delta float32) {
	if ctrl := e.controller(); ctrl != nil {
		ctrl.Zoom(delta)
	}
}

func (e *engine) hoverChanged(rec *catalog.Record) {
	e.mu.Lock()
	cb := e.onBodyHover
	e.mu.Unlock()
	if cb != nil {
		cb(rec)
	}
}

func (e *engine) bodySelected(rec catalog.Record) {
	e.mu.Lock()
	cb := e.onBodySelect
	e.mu.Unlock()
	if cb != nil {
		cb(rec)
	}
}

func (e *engine) cursorChanged(pointing bool) {
	e.mu.Lock()
	win := e.win
	e.mu.Unlock()
	if win == nil {
		return
	}
	if pointing {
		win.SetCursorShape(window.CursorHand)
	} else {
		win.SetCursorShape(window.CursorArrow)
	}
}
