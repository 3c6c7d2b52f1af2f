package engine

import (
	"time"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/engine/assets"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/perf"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/scene"
	"github.com/Carmen-Shannon/orrery/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.win = w
	}
}

// WithWindowOptions forwards options to the window the engine creates during
// Initialize. Ignored when WithWindow supplies a pre-built window.
//
// Parameters:
//   - options: WindowBuilderOption functions to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRenderer sets a pre-built renderer, skipping renderer creation during
// Initialize. The engine also runs headless (no window) when a renderer is
// injected and no window is set.
//
// Parameters:
//   - r: a pre-configured Renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.rend = r
	}
}

// WithRendererOptions forwards options to the renderer the engine creates
// during Initialize. Ignored when WithRenderer supplies a pre-built renderer.
//
// Parameters:
//   - options: RendererBuilderOption functions to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithCamera sets a pre-built camera, usually to supply a controller with a
// custom starting pose or orbit bounds.
//
// Parameters:
//   - cam: a pre-configured Camera instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cam = cam
	}
}

// WithSceneOptions forwards options to the scene the engine creates during
// Initialize, such as starfield size or ambient light color.
//
// Parameters:
//   - options: SceneBuilderOption functions to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOptions = append(e.sceneOptions, options...)
	}
}

// WithFetcher selects the texture fetch strategy for the asset loader
// created during Initialize (default HTTP).
//
// Parameters:
//   - fetcherType: the FetcherType to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFetcher(fetcherType assets.FetcherType) EngineBuilderOption {
	return func(e *engine) {
		e.fetcherType = fetcherType
	}
}

// WithLoaderOptions forwards options to the asset loader the engine creates
// during Initialize.
//
// Parameters:
//   - options: LoaderBuilderOption functions to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoaderOptions(options ...assets.LoaderBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.loaderOptions = append(e.loaderOptions, options...)
	}
}

// WithLODThresholds overrides the camera distances at which bodies step down
// to medium, low, and very-low detail.
//
// Parameters:
//   - medium: distance beyond which bodies drop to medium detail
//   - low: distance beyond which bodies drop to low detail
//   - veryLow: distance beyond which bodies drop to very-low detail
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLODThresholds(medium, low, veryLow float32) EngineBuilderOption {
	return func(e *engine) {
		e.perfOptions = append(e.perfOptions, perf.WithDistanceThresholds(medium, low, veryLow))
	}
}

// WithLOD enables or disables distance-based detail selection. Disabled, every
// body stays at its current tier.
//
// Parameters:
//   - enabled: if true, detail tiers follow camera distance (default true)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLOD(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.lodEnabled = enabled
	}
}

// WithAnimations enables or disables rotation, orbital motion, and starfield
// twinkle at startup. Can be changed later with SetAnimationsEnabled.
//
// Parameters:
//   - enabled: if true, animations advance each frame (default true)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAnimations(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.animationsEnabled = enabled
	}
}

// WithVSync selects the surface present mode for the renderer the engine
// creates: vertical-blank synced when true, uncapped when false.
//
// Parameters:
//   - enabled: if true, presentation waits for vertical blank
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithVSync(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		mode := renderer.PresentModeUncapped
		if enabled {
			mode = renderer.PresentModeVSync
		}
		e.rendererOptions = append(e.rendererOptions, renderer.WithPresentMode(mode))
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithStatsInterval sets how often the profiler aggregates frame samples into
// a report for the log and the render stats callback.
//
// Parameters:
//   - interval: the reporting cadence (default 1s, 0 reports every frame)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStatsInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if interval < 0 {
			interval = 0
		}
		e.statsInterval = interval
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithBodySelectCallback registers the function called when a body is
// clicked. Runs on the render goroutine.
//
// Parameters:
//   - cb: callback receiving the selected body's catalog record
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBodySelectCallback(cb func(rec catalog.Record)) EngineBuilderOption {
	return func(e *engine) {
		e.onBodySelect = cb
	}
}

// WithBodyHoverCallback registers the function called when the hovered body
// changes. Receives nil when the pointer leaves all bodies. Runs on the
// render goroutine.
//
// Parameters:
//   - cb: callback receiving the hovered body's catalog record, or nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBodyHoverCallback(cb func(rec *catalog.Record)) EngineBuilderOption {
	return func(e *engine) {
		e.onBodyHover = cb
	}
}

// WithCameraChangeCallback registers the function called when the camera pose
// moves. Runs on the render goroutine.
//
// Parameters:
//   - cb: callback receiving the camera position, target, and orbit distance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraChangeCallback(cb func(position, target [3]float32, distance float32)) EngineBuilderOption {
	return func(e *engine) {
		e.onCameraChange = cb
	}
}

// WithZoomChangeCallback registers the function called when the camera's
// orbit distance changes. Runs on the render goroutine.
//
// Parameters:
//   - cb: callback receiving the new orbit distance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithZoomChangeCallback(cb func(distance float32)) EngineBuilderOption {
	return func(e *engine) {
		e.onZoomChange = cb
	}
}

// WithRenderStatsCallback registers the function called with each profiler
// report. Requires WithProfiling(true). Runs on the render goroutine.
//
// Parameters:
//   - cb: callback receiving the aggregated render statistics
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderStatsCallback(cb func(stats RenderStats)) EngineBuilderOption {
	return func(e *engine) {
		e.onRenderStats = cb
	}
}

// WithErrorCallback registers the function called when initialization or a
// catalog swap fails.
//
// Parameters:
//   - cb: callback receiving the error
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithErrorCallback(cb func(err error)) EngineBuilderOption {
	return func(e *engine) {
		e.onError = cb
	}
}

// WithReadyCallback registers the function called once Initialize has built
// the full scene, before the first frame renders.
//
// Parameters:
//   - cb: callback invoked on readiness
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReadyCallback(cb func()) EngineBuilderOption {
	return func(e *engine) {
		e.onReady = cb
	}
}
