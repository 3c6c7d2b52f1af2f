package scene

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/geometry"
	"github.com/Carmen-Shannon/orrery/engine/light"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/orrery/engine/renderer/shader"
)

// ErrDisposed is returned by Scene operations invoked after Dispose.
var ErrDisposed = errors.New("scene is disposed")

// ErrNotInitialized is returned by frame operations invoked before Initialize.
var ErrNotInitialized = errors.New("scene is not initialized")

const (
	// DefaultStarCount is the number of background stars placed on the shell
	// when WithStarCount does not override it.
	DefaultStarCount = 2600

	// DefaultStarfieldSeed seeds the deterministic star placement.
	DefaultStarfieldSeed = 1609

	// starfieldMinRadius and starfieldMaxRadius bound the spherical shell the
	// stars scatter across, in world units. The camera far plane must exceed
	// the outer radius or the shell clips out of view.
	starfieldMinRadius = 420
	starfieldMaxRadius = 760

	// starfieldAngularVelocity is the drift of the whole shell about the
	// vertical axis, in radians per second.
	starfieldAngularVelocity = 0.004

	// twinkleFloor and twinkleDepth shape per-star brightness over time:
	// alpha = base * (twinkleFloor + twinkleDepth * sin(speed*t + phase)).
	twinkleFloor = 0.7
	twinkleDepth = 0.3
)

// defaultAmbientColor is the low fill applied when no override is given, dim
// and slightly blue so unlit night sides read as space rather than void.
var defaultAmbientColor = [3]float32{0.035, 0.04, 0.055}

// Drawable is a single renderable unit the scene can cull, sort, and submit.
// Celestial bodies, their atmosphere and glow shells, and ring planes all
// implement it; the scene stays agnostic of what a drawable represents.
type Drawable interface {
	// Label returns a stable human-readable identifier used in draw ordering
	// ties and error messages.
	//
	// Returns:
	//   - string: the drawable's label
	Label() string

	// PipelineKey returns the key of the registered render pipeline this
	// drawable is drawn with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// MeshProvider returns the provider holding the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh buffer provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// NodeProvider returns the provider holding the per-node model matrix
	// uniform bound at group 1.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the node uniform provider
	NodeProvider() bind_group_provider.BindGroupProvider

	// MaterialProvider returns the provider holding the material uniform and
	// its texture bindings at group 2, or nil when the drawable's pipeline
	// takes no material group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the material provider, or nil
	MaterialProvider() bind_group_provider.BindGroupProvider

	// InstanceCount returns how many instances to draw.
	//
	// Returns:
	//   - uint32: the instance count
	InstanceCount() uint32

	// Visible reports whether the drawable participates in the current frame.
	// Invisible drawables skip culling, sorting, and drawing entirely.
	//
	// Returns:
	//   - bool: true when the drawable should be considered
	Visible() bool

	// Transparent reports whether the drawable blends against what is behind
	// it. Transparent drawables draw after all opaque ones, back to front.
	//
	// Returns:
	//   - bool: true when the drawable belongs to the transparent pass
	Transparent() bool

	// BoundsCenter returns the world-space center of the bounding sphere used
	// for frustum culling and transparent depth sorting.
	//
	// Returns:
	//   - [3]float32: the bounding sphere center
	BoundsCenter() [3]float32

	// BoundsRadius returns the world-space radius of the bounding sphere.
	//
	// Returns:
	//   - float32: the bounding sphere radius
	BoundsRadius() float32

	// PrepareFrame recomputes the drawable's GPU uniform payloads for the
	// current frame. It is called from pool workers and must not touch state
	// shared with other drawables.
	PrepareFrame()

	// CollectWrites appends the drawable's staged buffer writes for this frame
	// to dst and returns the extended slice. Called serially after every
	// PrepareFrame has finished.
	//
	// Parameters:
	//   - dst: the write batch being assembled
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: dst with this drawable's writes appended
	CollectWrites(dst []bind_group_provider.BufferWrite) []bind_group_provider.BufferWrite
}

// Scene owns the render orchestration for one view of the system: the camera
// and light uniforms, the background starfield, and the per-frame cull, sort,
// and submission of every registered Drawable. A frame runs UpdateAnimations
// (when not paused), then PrepareFrame outside the render pass, then Draw
// between the renderer's BeginFrame and EndFrame.
type Scene interface {
	// Name returns the scene's name, used in labels and error messages.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera returns the camera this scene renders through.
	//
	// Returns:
	//   - camera.Camera: the scene camera
	Camera() camera.Camera

	// Initialize registers the fixed pipeline set, creates the camera and
	// light bind groups, installs the default light rig when no lights were
	// provided, and builds and uploads the background starfield. Calling it
	// again after it has succeeded is a no-op.
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, otherwise any GPU resource failure
	Initialize() error

	// Initialized reports whether Initialize has completed successfully.
	//
	// Returns:
	//   - bool: true once the scene holds its GPU resources
	Initialized() bool

	// AddDrawable registers a drawable for subsequent frames. Nil drawables
	// are ignored.
	//
	// Parameters:
	//   - d: the drawable to register
	AddDrawable(d Drawable)

	// RemoveDrawable unregisters the first drawable whose label matches.
	//
	// Parameters:
	//   - label: the label to remove
	//
	// Returns:
	//   - bool: true when a drawable was removed
	RemoveDrawable(label string) bool

	// ReplaceDrawables swaps the full drawable set in one step, used when a
	// different system catalog is loaded.
	//
	// Parameters:
	//   - drawables: the new drawable set, may be nil to clear
	ReplaceDrawables(drawables []Drawable)

	// Drawables returns a copy of the registered drawable set.
	//
	// Returns:
	//   - []Drawable: the registered drawables
	Drawables() []Drawable

	// AddLight registers a light and flags the packed light uniform for
	// re-upload. Only the first light.MaxGPULights enabled lights reach the
	// shader.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Lights returns a copy of the registered lights.
	//
	// Returns:
	//   - []light.Light: the registered lights
	Lights() []light.Light

	// SetAmbientColor sets the ambient term and flags the light uniform for
	// re-upload.
	//
	// Parameters:
	//   - r, g, b: ambient color components
	SetAmbientColor(r, g, b float32)

	// AmbientColor returns the current ambient term.
	//
	// Returns:
	//   - [3]float32: the ambient color
	AmbientColor() [3]float32

	// StarCount returns how many background stars the scene holds.
	//
	// Returns:
	//   - int: the star count, zero before Initialize or when disabled
	StarCount() int

	// CulledCount returns how many drawables the most recent Draw rejected by
	// frustum test.
	//
	// Returns:
	//   - int: the culled drawable count from the last frame
	CulledCount() int

	// UpdateAnimations advances the scene's own animated state by dt seconds:
	// the shell rotation angle and every star's twinkle brightness. The
	// brightness recompute fans out across the compute pool and the updated
	// instance stream is flagged for upload in the next PrepareFrame.
	//
	// Parameters:
	//   - dt: elapsed simulation time in seconds
	UpdateAnimations(dt float64)

	// PrepareFrame refreshes the camera matrices, assembles the frame's
	// buffer write batch (camera uniform, light uniform and starfield matrix
	// when dirty, every drawable's staged writes), and submits it in one
	// call, followed by the starfield instance upload when twinkle ran.
	// Drawable preparation runs in parallel on the compute pool.
	//
	// Returns:
	//   - error: ErrDisposed or ErrNotInitialized when called out of lifecycle
	PrepareFrame() error

	// Draw submits the frame's draw calls: the starfield first, then visible
	// in-frustum opaque drawables grouped by pipeline, then transparent
	// drawables back to front. It must run between the renderer's BeginFrame
	// and EndFrame.
	//
	// Returns:
	//   - error: the first failed draw call, wrapped with the drawable's label
	Draw() error

	// Dispose releases the scene's GPU resources and drops all lights and
	// drawables. Registered drawables are not released here; their owner
	// releases them. Safe to call more than once.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

type sortEntry struct {
	drawable Drawable
	depth    float32
}

type scene struct {
	mu *sync.RWMutex

	name     string
	cam      camera.Camera
	renderer renderer.Renderer

	initialized bool
	disposed    bool

	// Light rig. The packed uniform at lightProvider binding 0 is rebuilt
	// from lights and ambientColor whenever lightsDirty is set.
	lights        []light.Light
	ambientColor  [3]float32
	lightProvider bind_group_provider.BindGroupProvider
	lightsDirty   bool

	// Background starfield. stars holds the immutable placement parameters,
	// instances the GPU stream whose alphas twinkle rewrites. instancesDirty
	// flags a pending vertex upload, nodeDirty a pending shell matrix write.
	stars          []geometry.Star
	instances      []geometry.StarInstance
	starMesh       bind_group_provider.BindGroupProvider
	starNode       bind_group_provider.BindGroupProvider
	starCount      int
	starSeed       int64
	starAngle      float32
	twinkleClock   float64
	instancesDirty bool
	nodeDirty      bool

	drawables []Drawable

	cullingDisabled bool
	lastCulled      int

	// computePool manages a bounded set of reusable goroutines for the
	// parallel twinkle and drawable prep phases.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	taskID         int

	// Reusable scratch so steady-state frames stay allocation free.
	writePool       []bind_group_provider.BufferWrite
	drawGroupsPool  []bind_group_provider.BindGroupProvider
	opaquePool      []Drawable
	transparentPool []sortEntry
}

var _ Scene = (*scene)(nil)

// NewScene creates a Scene rendering through the given camera on the given
// renderer. Panics if cam or rend is nil, since no scene operation is
// meaningful without them.
//
// Parameters:
//   - name: the scene name used in labels and error messages
//   - cam: the camera to render through
//   - rend: the renderer draw calls and buffer writes go to
//   - opts: optional builder options
//
// Returns:
//   - Scene: the configured scene
func NewScene(name string, cam camera.Camera, rend renderer.Renderer, opts ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if rend == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		cam:            cam,
		renderer:       rend,
		ambientColor:   defaultAmbientColor,
		starCount:      DefaultStarCount,
		starSeed:       DefaultStarfieldSeed,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if s.initialized {
		return nil
	}

	if err := s.registerPipelines(); err != nil {
		return fmt.Errorf("failed to register pipelines for scene %q: %w", s.name, err)
	}

	camProvider := s.cam.BindGroupProvider()
	if camProvider.BindGroup() == nil {
		if err := s.renderer.InitBindGroup(camProvider, renderer.CameraBindGroupLayoutDescriptor(), nil, nil); err != nil {
			return fmt.Errorf("failed to initialize camera bind group for scene %q: %w", s.name, err)
		}
	}

	if len(s.lights) == 0 {
		s.installDefaultLights()
	}
	s.lightProvider = bind_group_provider.NewBindGroupProvider(s.name + " lights")
	if err := s.renderer.InitBindGroup(s.lightProvider, renderer.LightBindGroupLayoutDescriptor(), nil, nil); err != nil {
		return fmt.Errorf("failed to initialize light bind group for scene %q: %w", s.name, err)
	}

	if err := s.initStarfield(); err != nil {
		return fmt.Errorf("failed to initialize starfield for scene %q: %w", s.name, err)
	}

	s.lightsDirty = true
	s.initialized = true
	return nil
}

func (s *scene) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// registerPipelines builds the fixed pipeline set every drawable keys into.
// The renderer skips keys it already holds, so initializing a second scene
// against a shared renderer is safe.
func (s *scene) registerPipelines() error {
	additive := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	meshLayout := geometry.VertexBufferLayout()

	return s.renderer.RegisterPipelines(
		pipeline.NewPipeline(pipeline.KeyBody,
			pipeline.WithShader(shader.NewShader(pipeline.KeyBody, shader.BodySource)),
			pipeline.WithVertexLayouts(meshLayout),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(pipeline.KeyUnlit,
			pipeline.WithShader(shader.NewShader(pipeline.KeyUnlit, shader.UnlitSource)),
			pipeline.WithVertexLayouts(meshLayout),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(pipeline.KeyUnlitBlend,
			pipeline.WithShader(shader.NewShader(pipeline.KeyUnlitBlend, shader.UnlitSource)),
			pipeline.WithVertexLayouts(meshLayout),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		// Rings are a flat annulus seen from either side, so no culling.
		pipeline.NewPipeline(pipeline.KeyUnlitBlendTwoSided,
			pipeline.WithShader(shader.NewShader(pipeline.KeyUnlitBlendTwoSided, shader.UnlitSource)),
			pipeline.WithVertexLayouts(meshLayout),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(pipeline.KeyUnlitAdditive,
			pipeline.WithShader(shader.NewShader(pipeline.KeyUnlitAdditive, shader.UnlitSource)),
			pipeline.WithVertexLayouts(meshLayout),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(additive),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(pipeline.KeyStarfield,
			pipeline.WithShader(shader.NewShader(pipeline.KeyStarfield, shader.StarfieldSource)),
			pipeline.WithVertexLayouts(geometry.StarInstanceBufferLayout()),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
	)
}

// installDefaultLights sets up the standard solar rig: a strong warm point
// light at the origin where the star sits, and a faint cool directional fill
// so night sides keep a trace of shape.
func (s *scene) installDefaultLights() {
	s.lights = append(s.lights,
		light.NewLight(light.LightTypePoint,
			light.WithPosition(0, 0, 0),
			light.WithColor(1.0, 0.972, 0.92),
			light.WithIntensity(3.4),
			light.WithRange(1200),
		),
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(-0.25, -0.5, -0.35),
			light.WithColor(0.55, 0.62, 0.72),
			light.WithIntensity(0.08),
		),
	)
}

func (s *scene) initStarfield() error {
	if s.starCount <= 0 {
		return nil
	}

	s.stars = geometry.BuildStarfield(s.starCount, starfieldMinRadius, starfieldMaxRadius, s.starSeed)
	s.instances = make([]geometry.StarInstance, len(s.stars))
	for i, star := range s.stars {
		s.instances[i] = geometry.StarInstance{
			Position: star.Position,
			Size:     star.Size,
			Color:    star.Color,
			Alpha:    star.BaseAlpha * (twinkleFloor + twinkleDepth*math32.Sin(star.TwinklePhase)),
		}
	}

	s.starMesh = bind_group_provider.NewBindGroupProvider(s.name + " starfield")
	if err := s.renderer.InitMeshBuffers(s.starMesh, geometry.StarInstanceBytes(s.instances), nil, 0); err != nil {
		return err
	}
	// Six billboard corners per star come from the vertex index; the only
	// bound buffer advances per instance.
	s.starMesh.SetVertexCount(6)

	s.starNode = bind_group_provider.NewBindGroupProvider(s.name + " starfield node")
	if err := s.renderer.InitBindGroup(s.starNode, renderer.NodeBindGroupLayoutDescriptor(), nil, nil); err != nil {
		return err
	}
	s.nodeDirty = true
	return nil
}

func (s *scene) AddDrawable(d Drawable) {
	if d == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.drawables = append(s.drawables, d)
}

func (s *scene) RemoveDrawable(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.drawables {
		if d.Label() == label {
			s.drawables = append(s.drawables[:i], s.drawables[i+1:]...)
			return true
		}
	}
	return false
}

func (s *scene) ReplaceDrawables(drawables []Drawable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.drawables = s.drawables[:0]
	s.drawables = append(s.drawables, drawables...)
}

func (s *scene) Drawables() []Drawable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Drawable, len(s.drawables))
	copy(out, s.drawables)
	return out
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.lights = append(s.lights, l)
	s.lightsDirty = true
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) SetAmbientColor(r, g, b float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambientColor = [3]float32{r, g, b}
	s.lightsDirty = true
}

func (s *scene) AmbientColor() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambientColor
}

func (s *scene) StarCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stars)
}

func (s *scene) CulledCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCulled
}

func (s *scene) UpdateAnimations(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || !s.initialized || dt <= 0 {
		return
	}
	if len(s.instances) == 0 {
		return
	}

	s.starAngle += float32(starfieldAngularVelocity * dt)
	if s.starAngle > 2*math32.Pi {
		s.starAngle -= 2 * math32.Pi
	}
	s.twinkleClock += dt
	s.nodeDirty = true

	// Fan the brightness recompute across the pool in contiguous spans, then
	// block until every span lands before flagging the stream dirty.
	clock := float32(s.twinkleClock)
	span := (len(s.instances) + s.computeWorkers - 1) / s.computeWorkers
	var wg sync.WaitGroup
	for start := 0; start < len(s.instances); start += span {
		end := min(start+span, len(s.instances))
		startCap, endCap := start, end // capture for closure
		wg.Add(1)
		s.taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: s.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := startCap; i < endCap; i++ {
					star := &s.stars[i]
					s.instances[i].Alpha = star.BaseAlpha * (twinkleFloor + twinkleDepth*math32.Sin(star.TwinkleSpeed*clock+star.TwinklePhase))
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	s.instancesDirty = true
}

func (s *scene) PrepareFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if !s.initialized {
		return ErrNotInitialized
	}

	s.cam.Update()

	writes := s.writePool[:0]

	camUniform := camera.GPUCameraUniform{
		ViewProj:       s.cam.ViewProjectionMatrix(),
		CameraPosition: s.cameraPosition(),
	}
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.cam.BindGroupProvider(),
		Binding:  0,
		Data:     camUniform.Marshal(),
	})

	if s.lightsDirty {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.lightProvider,
			Binding:  0,
			Data:     light.MarshalLightBuffer(s.lights, s.ambientColor),
		})
		s.lightsDirty = false
	}

	if s.nodeDirty && s.starNode != nil {
		var node geometry.GPUNodeData
		common.BuildModelMatrix(node.Model[:], 0, 0, 0, 0, s.starAngle, 0, 1, 1, 1)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.starNode,
			Binding:  0,
			Data:     node.Marshal(),
		})
		s.nodeDirty = false
	}

	// Per-drawable uniform prep fans out across the pool; collecting the
	// staged writes stays serial so the batch slice needs no locking.
	if len(s.drawables) > 0 {
		var wg sync.WaitGroup
		for _, d := range s.drawables {
			dCap := d // capture for closure
			wg.Add(1)
			s.taskID++
			s.computePool.SubmitTask(worker.Task{
				ID: s.taskID,
				Do: func() (any, error) {
					defer wg.Done()
					dCap.PrepareFrame()
					return nil, nil
				},
			})
		}
		wg.Wait()

		for _, d := range s.drawables {
			writes = d.CollectWrites(writes)
		}
	}

	s.writePool = writes
	if len(writes) > 0 {
		s.renderer.WriteBuffers(writes)
	}

	if s.instancesDirty && s.starMesh != nil {
		s.renderer.WriteVertexBuffer(s.starMesh, 0, geometry.StarInstanceBytes(s.instances))
		s.instancesDirty = false
	}

	return nil
}

func (s *scene) Draw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if !s.initialized {
		return ErrNotInitialized
	}

	camProvider := s.cam.BindGroupProvider()

	// Background shell first. Its pipeline writes no depth, so everything
	// drawn after covers it.
	if s.starMesh != nil && len(s.instances) > 0 {
		groups := append(s.drawGroupsPool[:0], camProvider, s.starNode)
		if err := s.renderer.DrawCall(pipeline.KeyStarfield, s.starMesh, uint32(len(s.instances)), groups); err != nil {
			return fmt.Errorf("draw call failed for starfield in scene %q: %w", s.name, err)
		}
		s.drawGroupsPool = groups
	}

	vp := s.cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(vp[:])
	camPos := s.cameraPosition()

	opaque := s.opaquePool[:0]
	transparent := s.transparentPool[:0]
	culled := 0
	for _, d := range s.drawables {
		if !d.Visible() {
			continue
		}
		if !s.cullingDisabled && !frustum.IntersectsSphere(d.BoundsCenter(), d.BoundsRadius()) {
			culled++
			continue
		}
		if d.Transparent() {
			delta := common.Sub3(d.BoundsCenter(), camPos)
			transparent = append(transparent, sortEntry{drawable: d, depth: common.Dot3(delta, delta)})
		} else {
			opaque = append(opaque, d)
		}
	}
	s.lastCulled = culled

	// Opaque drawables group by pipeline to cut state changes; transparent
	// drawables follow back to front so blending composes correctly.
	sort.SliceStable(opaque, func(i, j int) bool {
		if opaque[i].PipelineKey() != opaque[j].PipelineKey() {
			return opaque[i].PipelineKey() < opaque[j].PipelineKey()
		}
		return opaque[i].Label() < opaque[j].Label()
	})
	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].depth > transparent[j].depth
	})

	for _, d := range opaque {
		if err := s.drawOne(d, camProvider); err != nil {
			return err
		}
	}
	for _, entry := range transparent {
		if err := s.drawOne(entry.drawable, camProvider); err != nil {
			return err
		}
	}

	s.opaquePool = opaque
	s.transparentPool = transparent
	return nil
}

// cameraPosition reads the controller's world position, or the origin when no
// controller is attached yet.
func (s *scene) cameraPosition() [3]float32 {
	ctrl := s.cam.Controller()
	if ctrl == nil {
		return [3]float32{}
	}
	px, py, pz := ctrl.Position()
	return [3]float32{px, py, pz}
}

// drawOne assembles the bind group list for a drawable in layout order and
// submits the draw call. The lit body pipeline is the only one that takes
// the light group.
func (s *scene) drawOne(d Drawable, camProvider bind_group_provider.BindGroupProvider) error {
	groups := append(s.drawGroupsPool[:0], camProvider, d.NodeProvider())
	if mat := d.MaterialProvider(); mat != nil {
		groups = append(groups, mat)
	}
	if d.PipelineKey() == pipeline.KeyBody {
		groups = append(groups, s.lightProvider)
	}
	if err := s.renderer.DrawCall(d.PipelineKey(), d.MeshProvider(), d.InstanceCount(), groups); err != nil {
		return fmt.Errorf("draw call failed for %q in scene %q: %w", d.Label(), s.name, err)
	}
	s.drawGroupsPool = groups
	return nil
}

func (s *scene) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	s.initialized = false

	s.lights = nil
	if s.lightProvider != nil {
		s.lightProvider.Release()
		s.lightProvider = nil
	}
	if s.starMesh != nil {
		s.starMesh.Release()
		s.starMesh = nil
	}
	if s.starNode != nil {
		s.starNode.Release()
		s.starNode = nil
	}
	s.stars = nil
	s.instances = nil
	s.drawables = nil
	s.writePool = nil
	s.drawGroupsPool = nil
	s.opaquePool = nil
	s.transparentPool = nil
}

func (s *scene) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}
