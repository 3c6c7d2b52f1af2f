package scene

import (
	"github.com/Carmen-Shannon/orrery/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithComputeWorkers sets the number of worker goroutines used during the
// parallel phases of UpdateAnimations and PrepareFrame. Defaults to
// runtime.NumCPU()-1. Higher values may improve throughput with many
// drawables; lower values reduce scheduling overhead for small systems.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to
// true, every visible drawable is drawn regardless of whether its bounding
// sphere intersects the view frustum. By default culling is enabled
// (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithStarCount sets how many background stars Initialize scatters across
// the shell. Zero or negative disables the starfield entirely. Default is
// DefaultStarCount.
//
// Parameters:
//   - count: the number of stars to place
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStarCount(count int) SceneBuilderOption {
	return func(s *scene) {
		s.starCount = count
	}
}

// WithStarfieldSeed sets the seed for the deterministic star placement so
// two scenes built with the same seed and count produce an identical sky.
// Default is DefaultStarfieldSeed.
//
// Parameters:
//   - seed: the placement seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStarfieldSeed(seed int64) SceneBuilderOption {
	return func(s *scene) {
		s.starSeed = seed
	}
}

// WithAmbientColor sets the ambient light term applied to every lit surface.
// Default is a dim, slightly blue fill.
//
// Parameters:
//   - r, g, b: ambient color components
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(r, g, b float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = [3]float32{r, g, b}
	}
}

// WithLights seeds the scene with a custom light set. When at least one light
// is provided, Initialize skips installing the default rig of a point light
// at the origin plus a directional fill.
//
// Parameters:
//   - lights: the lights to register
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if l != nil {
				s.lights = append(s.lights, l)
			}
		}
	}
}
